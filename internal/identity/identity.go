// Package identity talks to the external identity provider. The service
// keeps no local credential or session state: admin logins and every
// privileged request are validated against the provider.
package identity

import (
	"context"
	"errors"
)

// Role values recognized by the access guard.
const RoleAdmin = "admin"

// ErrInvalidCredentials is returned when the provider rejects a sign-in.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken is returned when the provider rejects a bearer token.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the identity behind a validated credential.
type Principal struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the principal carries the admin role claim.
func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Session is the result of a successful password sign-in.
type Session struct {
	AccessToken string
	Principal   Principal
}

// Provider exchanges credentials and tokens with the identity provider.
type Provider interface {
	// SignIn performs a password grant and returns the provider session.
	SignIn(ctx context.Context, email, password string) (*Session, error)
	// UserFromToken resolves a bearer token to its principal.
	UserFromToken(ctx context.Context, token string) (*Principal, error)
}
