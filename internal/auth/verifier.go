// Package auth converts an Authorization header into a verified Principal by
// calling the identity service. Verification is side-effect free and happens
// exactly once per request, before rate limiting, because rate limiting is
// keyed on the verified principal id rather than anything the client asserts.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tasknest/actions-gateway/internal/domain"
)

const (
	bearerPrefix   = "Bearer "
	defaultTimeout = 10 * time.Second
)

// Denial reasons for requests that never reach the identity service. The
// identity-service failures are constructed dynamically because they carry
// upstream detail.
var (
	// ErrMissingHeader is returned when no Authorization header was sent.
	ErrMissingHeader = errors.New("missing Authorization header")
	// ErrNotBearer is returned when the header does not use the Bearer scheme.
	ErrNotBearer = errors.New("Authorization header must use the Bearer scheme")
	// ErrEmptyToken is returned when the token after the prefix is empty or
	// whitespace-only.
	ErrEmptyToken = errors.New("bearer token is empty")
	// ErrTokenRejected is returned when the identity service reports the
	// token invalid or expired.
	ErrTokenRejected = errors.New("token is invalid or expired")
	// ErrNoUser is returned when the identity service accepts the token but
	// returns no user for it.
	ErrNoUser = errors.New("identity service returned no user for token")
)

// Option configures a Verifier.
type Option func(*Verifier)

// WithHTTPClient sets a custom HTTP client (tests point this at a fake
// identity server).
func WithHTTPClient(c *http.Client) Option {
	return func(v *Verifier) { v.httpClient = c }
}

// Verifier exchanges bearer tokens for principals via the identity service's
// user endpoint. It is safe for concurrent use.
type Verifier struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// New constructs a Verifier against the identity service at baseURL,
// authenticating the gateway itself with serviceKey (sent as the `apikey`
// header alongside the end-user token).
func New(baseURL, serviceKey string, opts ...Option) *Verifier {
	v := &Verifier{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// userResponse is the subset of the identity service's user object the
// gateway needs. Identity fields are taken from here, never from the client.
type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// VerifyHeader validates the raw Authorization header value and exchanges the
// embedded token for a Principal. Every denial path returns a non-nil error
// with a human-readable reason and a nil Principal; no denial is a panic or
// a silent fallback identity.
func (v *Verifier) VerifyHeader(ctx context.Context, header string) (*domain.Principal, error) {
	if header == "" {
		return nil, ErrMissingHeader
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, ErrNotBearer
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return nil, ErrEmptyToken
	}
	return v.verifyToken(ctx, token)
}

// verifyToken asks the identity service who the token belongs to.
func (v *Verifier) verifyToken(ctx context.Context, token string) (*domain.Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", bearerPrefix+token)
	req.Header.Set("apikey", v.serviceKey)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity service unreachable: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrTokenRejected
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("identity service error (status %d)", resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrNoUser
	}

	return &domain.Principal{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}
