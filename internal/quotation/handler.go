package quotation

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karmic/catalog/internal/response"
)

// emailRegex is a light sanity check, not full RFC 5322 validation.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Handler holds HTTP handlers for quotation endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new quotation Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	UserType   string `json:"userType"   example:"buyer"`
	Name       string `json:"name"       example:"Jane Doe"`
	Company    string `json:"company"    example:"Acme Textiles"`
	Email      string `json:"email"      example:"jane@example.com"`
	Mobile     string `json:"mobile"     example:"+880 1700 000000"`
	Country    string `json:"country"    example:"Bangladesh"`
	Profession string `json:"profession" example:"Sourcing manager"`
	Category   string `json:"category"   example:"yarn"`
	Product    string `json:"product"    example:"Combed cotton yarn"`
	Message    string `json:"message"    example:"Looking for 30s count, 20 tons"`
}

type updateStatusRequest struct {
	Status string `json:"status" example:"processing"`
}

// Create godoc
//
//	@Summary		Submit quotation request
//	@Description	Stores the request with status "new" and notifies the admin mailbox (best-effort).
//	@Tags			quotations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		createRequest	true	"Quotation details"
//	@Success		201		{object}	response.Envelope{data=Quotation}
//	@Failure		400		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/quotations [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if req.UserType != UserTypeBuyer && req.UserType != UserTypeSeller {
		response.BadRequest(w, "userType must be one of: buyer, seller")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.BadRequest(w, "name is required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		response.BadRequest(w, "a valid email is required")
		return
	}

	q := &Quotation{
		UserType:   req.UserType,
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Company:    optional(req.Company),
		Mobile:     optional(req.Mobile),
		Country:    optional(req.Country),
		Profession: optional(req.Profession),
		Category:   optional(req.Category),
		Product:    optional(req.Product),
		Message:    optional(req.Message),
	}

	created, err := h.svc.Create(r.Context(), q)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.Created(w, created)
}

// List godoc
//
//	@Summary		List quotations
//	@Tags			admin
//	@Produce		json
//	@Security		BearerAuth
//	@Param			status	query		string	false	"Filter by status"	Enums(new, processing, completed)
//	@Success		200		{object}	response.Envelope{data=[]Quotation}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/quotations [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status != "" && !ValidStatus(status) {
		response.BadRequest(w, "status must be one of: new, processing, completed")
		return
	}

	quotations, err := h.svc.List(r.Context(), status)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, quotations)
}

// UpdateStatus godoc
//
//	@Summary		Update quotation status
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string				true	"Quotation ID"
//	@Param			request	body		updateStatusRequest	true	"New status"
//	@Success		200		{object}	response.Envelope{data=Quotation}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		404		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/quotations/{id}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if !ValidStatus(req.Status) {
		response.BadRequest(w, "status must be one of: new, processing, completed")
		return
	}

	q, err := h.svc.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if errors.Is(err, ErrNotFound) {
		response.NotFound(w, "quotation not found")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, q)
}

// optional maps an empty form value to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
