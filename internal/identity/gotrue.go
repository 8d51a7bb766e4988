package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// GoTrueProvider implements Provider against a GoTrue-compatible auth server
// (Supabase Auth, standalone GoTrue). Sign-ins use the public API key; token
// lookups use the service key so role metadata is always readable.
type GoTrueProvider struct {
	baseURL    string
	apiKey     string
	serviceKey string
	httpClient *http.Client
	log        *zap.Logger
}

// NewGoTrueProvider creates a provider client for the given base URL.
func NewGoTrueProvider(baseURL, apiKey, serviceKey string, log *zap.Logger) *GoTrueProvider {
	return &GoTrueProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// providerUser is the user object shape returned by GoTrue endpoints.
type providerUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"user_metadata"`
}

func (u *providerUser) principal() Principal {
	return Principal{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.UserMetadata.Username,
		Role:     u.UserMetadata.Role,
	}
}

// providerError covers the error shapes GoTrue responds with
// ({"error","error_description"} for grants, {"msg"} elsewhere).
type providerError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
}

func (e *providerError) message() string {
	if e.ErrorDescription != "" {
		return e.ErrorDescription
	}
	if e.Msg != "" {
		return e.Msg
	}
	return e.Error
}

// SignIn performs a password grant against /auth/v1/token.
func (p *GoTrueProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload, err := json.Marshal(map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("encode sign-in payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.baseURL+"/auth/v1/token?grant_type=password", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sign-in request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign-in response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr providerError
		_ = json.Unmarshal(body, &perr)
		p.log.Warn("identity: sign-in rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("reason", perr.message()))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, perr.message())
		}
		return nil, fmt.Errorf("identity provider sign-in: status %d", resp.StatusCode)
	}

	var grant struct {
		AccessToken string       `json:"access_token"`
		User        providerUser `json:"user"`
	}
	if err := json.Unmarshal(body, &grant); err != nil {
		return nil, fmt.Errorf("decode sign-in response: %w", err)
	}

	return &Session{
		AccessToken: grant.AccessToken,
		Principal:   grant.User.principal(),
	}, nil
}

// UserFromToken asks the provider who the bearer token belongs to.
func (p *GoTrueProvider) UserFromToken(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build user request: %w", err)
	}
	req.Header.Set("apikey", p.serviceKey)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read user response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var perr providerError
		_ = json.Unmarshal(body, &perr)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, fmt.Errorf("%w: %s", ErrInvalidToken, perr.message())
		}
		return nil, fmt.Errorf("identity provider user lookup: status %d", resp.StatusCode)
	}

	var u providerUser
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}

	principal := u.principal()
	return &principal, nil
}
