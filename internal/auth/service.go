// Package auth exposes admin login backed by the external identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/karmic/catalog/internal/identity"
)

// ErrNotAdmin is returned when valid credentials belong to a non-admin user.
var ErrNotAdmin = errors.New("user is not an admin")

// LoginResult is a successful admin sign-in.
type LoginResult struct {
	Token     string
	ExpiresAt *time.Time
	Principal identity.Principal
}

// Service contains the business logic for admin login. No credential or
// session state is held locally; the identity provider is the source of truth.
type Service struct {
	provider identity.Provider
	log      *zap.Logger
}

// NewService creates a new auth Service.
func NewService(provider identity.Provider, log *zap.Logger) *Service {
	return &Service{provider: provider, log: log}
}

// Login exchanges admin credentials with the identity provider and rejects
// principals without the admin role.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if !sess.Principal.IsAdmin() {
		s.log.Warn("non-admin login attempt", zap.String("email", email))
		return nil, ErrNotAdmin
	}

	return &LoginResult{
		Token:     sess.AccessToken,
		ExpiresAt: tokenExpiry(sess.AccessToken),
		Principal: sess.Principal,
	}, nil
}

// tokenExpiry reads the exp claim from the provider-issued JWT so clients
// know when to re-authenticate. The signature is deliberately not checked
// here; validation always happens remotely on each privileged request.
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	return &exp.Time
}
