package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/karmic/catalog/internal/response"
)

// Handler holds HTTP handlers for public category endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new category Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// List godoc
//
//	@Summary		List categories
//	@Description	Returns all categories ordered by name.
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	response.Envelope{data=[]Category}
//	@Failure		500	{object}	response.Envelope
//	@Router			/categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.List(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, categories)
}

// GetBySlug godoc
//
//	@Summary		Get category
//	@Description	Returns the category with the given slug.
//	@Tags			categories
//	@Produce		json
//	@Param			category	path		string	true	"Category slug"
//	@Success		200			{object}	response.Envelope{data=Category}
//	@Failure		404			{object}	response.Envelope
//	@Failure		500			{object}	response.Envelope
//	@Router			/categories/{category} [get]
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), chi.URLParam(r, "category"))
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "category not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, c)
}
