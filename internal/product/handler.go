package product

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karmic/catalog/internal/response"
)

// maxImageFiles caps the number of image files per mutation request.
const maxImageFiles = 10

// maxUploadBytes bounds the in-memory multipart buffer.
const maxUploadBytes = 32 << 20

// Handler holds HTTP handlers for public and admin product endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new product Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary		List products
//	@Description	Returns active products, newest first. Supports category and name-substring filters.
//	@Tags			products
//	@Produce		json
//	@Param			categoryId	query		string	false	"Category ID"
//	@Param			search		query		string	false	"Name substring"
//	@Success		200			{object}	response.Envelope{data=[]Product}
//	@Failure		500			{object}	response.Envelope
//	@Router			/products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context(), Filter{
		CategoryID: r.URL.Query().Get("categoryId"),
		Search:     r.URL.Query().Get("search"),
	})
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, products)
}

// ListByCategory godoc
//
//	@Summary		List products in a category
//	@Tags			products
//	@Produce		json
//	@Param			category	path		string	true	"Category ID"
//	@Success		200			{object}	response.Envelope{data=[]Product}
//	@Failure		500			{object}	response.Envelope
//	@Router			/categories/{category}/products [get]
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context(), Filter{
		CategoryID: chi.URLParam(r, "category"),
	})
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, products)
}

// GetBySlug godoc
//
//	@Summary		Get product
//	@Tags			products
//	@Produce		json
//	@Param			slug	path		string	true	"Product slug"
//	@Success		200		{object}	response.Envelope{data=Product}
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/products/{slug} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "product not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, p)
}

// Create godoc
//
//	@Summary		Create product
//	@Description	Multipart form with product fields and up to 10 image files under "images".
//	@Tags			admin
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Success		201	{object}	response.Envelope{data=Product}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		409	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	input, files, closeFiles, err := parseMutationForm(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closeFiles()

	p, err := h.svc.Create(r.Context(), input, files)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	response.Created(w, p)
}

// Update godoc
//
//	@Summary		Update product
//	@Description	Multipart form. New image files replace the existing set; omitting files preserves it.
//	@Tags			admin
//	@Accept			mpfd
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	response.Envelope{data=Product}
//	@Failure		400	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		409	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/products/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	input, files, closeFiles, err := parseMutationForm(r)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}
	defer closeFiles()

	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), input, files)
	if err != nil {
		writeMutationError(w, err)
		return
	}
	response.OK(w, p)
}

// Delete godoc
//
//	@Summary		Delete product
//	@Description	Removes the product's stored images (best-effort) and its record.
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		string	true	"Product ID"
//	@Success		200	{object}	response.Envelope
//	@Failure		401	{object}	response.Envelope
//	@Failure		403	{object}	response.Envelope
//	@Failure		404	{object}	response.Envelope
//	@Failure		500	{object}	response.Envelope
//	@Router			/admin/products/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "product not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, map[string]string{"message": "product deleted"})
}

// parseMutationForm extracts the product fields and image files from a
// multipart request. The returned closer releases the opened file handles.
func parseMutationForm(r *http.Request) (Input, []File, func(), error) {
	noop := func() {}
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return Input{}, nil, noop, errors.New("invalid multipart form")
	}

	input := Input{
		Name:               r.FormValue("name"),
		Slug:               r.FormValue("slug"),
		Description:        r.FormValue("description"),
		CategoryID:         r.FormValue("categoryId"),
		SpecificationsJSON: r.FormValue("specifications"),
		Price:              r.FormValue("price"),
		PriceOnRequest:     r.FormValue("priceOnRequest") == "true",
		IsActive:           r.FormValue("isActive") == "true",
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) > maxImageFiles {
		return Input{}, nil, noop, errors.New("too many image files (max 10)")
	}

	files := make([]File, 0, len(headers))
	closers := make([]func() error, 0, len(headers))
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return Input{}, nil, noop, errors.New("unreadable image file")
		}
		closers = append(closers, f.Close)
		files = append(files, File{Name: fh.Filename, Reader: f})
	}

	return input, files, closeAll, nil
}

// writeMutationError maps service errors onto the HTTP taxonomy.
func writeMutationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrUnknownCategory):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, "product not found")
	case errors.Is(err, ErrSlugTaken):
		response.Conflict(w, "product slug already exists")
	default:
		response.InternalError(w)
	}
}
