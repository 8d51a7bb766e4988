package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/karmic/catalog/internal/identity"
	"github.com/karmic/catalog/internal/response"
)

// Handler holds HTTP handlers for admin auth endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new auth Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// The admin UI logs in with the email in the "username" field.
type loginRequest struct {
	Username string `json:"username" example:"admin@example.com"`
	Password string `json:"password" example:"s3cret"`
}

type adminBody struct {
	ID       string `json:"id"       example:"e7eedc79-0707-4fe4-8734-526b7ef13a7b"`
	Username string `json:"username" example:"admin"`
	Email    string `json:"email"    example:"admin@example.com"`
}

type loginData struct {
	Token     string     `json:"token" example:"eyJhbGci..."`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Admin     adminBody  `json:"admin"`
}

// Login godoc
//
//	@Summary		Admin login
//	@Description	Delegates the credential check to the external identity provider and returns its bearer token.
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Admin credentials (username is the email)"
//	@Success		200		{object}	response.Envelope{data=loginData}
//	@Failure		400		{object}	response.Envelope
//	@Failure		401		{object}	response.Envelope
//	@Failure		403		{object}	response.Envelope
//	@Failure		500		{object}	response.Envelope
//	@Router			/admin/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	result, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		response.Unauthorized(w, "invalid login credentials")
		return
	}
	if errors.Is(err, ErrNotAdmin) {
		response.Forbidden(w, "user is not an admin")
		return
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, loginData{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Admin: adminBody{
			ID:       result.Principal.ID,
			Username: result.Principal.Username,
			Email:    result.Principal.Email,
		},
	})
}
