// Package email is the HTTP client for the transactional email provider.
//
// The provider enforces a strict requests-per-second limit on the send
// endpoint, so the client carries its own token-bucket throttle
// (golang.org/x/time/rate) and waits for a slot before each send rather than
// burning quota on 429 responses.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.resend.com"
	defaultTimeout = 30 * time.Second

	// defaultSendRPS matches the provider's documented per-key limit.
	defaultSendRPS   = 2
	defaultSendBurst = 2
)

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithSendLimit overrides the client-side send throttle.
func WithSendLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

// Client calls the email provider. Safe for concurrent use.
type Client struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates an email-provider client sending from the given address.
func NewClient(apiKey, from string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		from:       from,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(defaultSendRPS, defaultSendBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tag is a provider-side label attached to a send for analytics.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SendRequest is the provider-side send body. Exactly one of TemplateID,
// HTML or Text drives the content; Data carries template variables.
type SendRequest struct {
	From       string         `json:"from"`
	To         []string       `json:"to"`
	Subject    string         `json:"subject,omitempty"`
	TemplateID string         `json:"template_id,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	HTML       string         `json:"html,omitempty"`
	Text       string         `json:"text,omitempty"`
	Tags       []Tag          `json:"tags,omitempty"`
}

// SendResponse is the provider's acknowledgement of an accepted send.
type SendResponse struct {
	ID string `json:"id"`
}

// apiError mirrors the provider's error envelope.
type apiError struct {
	Message string `json:"message"`
	Name    string `json:"name"`
}

// Send delivers one email, waiting for the client-side throttle first. The
// From address is filled from the client when the request leaves it empty.
func (c *Client) Send(ctx context.Context, req *SendRequest) (*SendResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("email send throttled: %w", err)
	}
	if req.From == "" {
		req.From = c.from
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal email request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build email request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read email response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if err := json.Unmarshal(respBody, &ae); err == nil && ae.Message != "" {
			return nil, fmt.Errorf("email provider error (status %d): %s", resp.StatusCode, ae.Message)
		}
		return nil, fmt.Errorf("email provider error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var out SendResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("unmarshal email response: %w", err)
	}
	return &out, nil
}
