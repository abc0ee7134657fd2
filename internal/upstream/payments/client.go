// Package payments is the HTTP client for the payment processor. The
// processor's API is form-encoded; both payment intents and checkout sessions
// are created here with the verified principal id attached as metadata so
// downstream reconciliation never depends on client-asserted identity.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.stripe.com/v1"
	defaultTimeout = 30 * time.Second
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

// Client calls the payment processor. Safe for concurrent use.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a payment-processor client.
func NewClient(secretKey string, opts ...Option) *Client {
	c := &Client{
		secretKey:  secretKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PaymentIntent is the processor's payment-intent object, reduced to the
// fields the gateway returns to callers.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CheckoutSession is the processor's checkout-session object, reduced to the
// fields the gateway returns to callers.
type CheckoutSession struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Status string `json:"status"`
}

// apiError mirrors the processor's error envelope.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// CreatePaymentIntent creates a payment intent for amount minor units of
// currency. userID is attached as metadata for usage attribution; metadata
// carries any caller-supplied keys.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency, userID string, metadata map[string]string) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("metadata[user_id]", userID)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	var intent PaymentIntent
	if err := c.postForm(ctx, "/payment_intents", form, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreateCheckoutSession creates a hosted checkout session for one unit of
// priceID in the given mode ("payment" or "subscription"). userID becomes the
// session's client reference for reconciliation.
func (c *Client) CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL, mode, userID string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", mode)
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("line_items[0][price]", priceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("client_reference_id", userID)
	form.Set("metadata[user_id]", userID)

	var session CheckoutSession
	if err := c.postForm(ctx, "/checkout/sessions", form, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// postForm sends a form-encoded POST and decodes the JSON response into out.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("payment request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if err := json.Unmarshal(respBody, &ae); err == nil && ae.Error.Message != "" {
			return fmt.Errorf("payment processor error (status %d): %s", resp.StatusCode, ae.Error.Message)
		}
		return fmt.Errorf("payment processor error (status %d): %s", resp.StatusCode, string(respBody))
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal payment response: %w", err)
	}
	return nil
}
