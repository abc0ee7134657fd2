// Package handlers provides the HTTP handler implementations for the five
// gateway actions. Handlers are transport-thin: the surrounding middleware
// has already sized, authenticated, and rate-limited the request, so each
// handler only parses the guarded body, validates it through
// internal/actions, invokes its upstream client with the verified principal
// id attached, and shapes the response envelope.
package handlers

import (
	"context"
	"io"

	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/upstream/email"
	"github.com/tasknest/actions-gateway/internal/upstream/llm"
	"github.com/tasknest/actions-gateway/internal/upstream/payments"
	"github.com/tasknest/actions-gateway/internal/upstream/push"
)

//
// Upstream contracts (context-aware)
//
// Handlers depend on these interfaces rather than the concrete clients so
// tests can substitute fakes without a network.
//

// CompletionClient produces chat completions, buffered or streaming.
type CompletionClient interface {
	CreateCompletion(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error)
	StreamCompletion(ctx context.Context, req *llm.CompletionRequest) (io.ReadCloser, error)
}

// PaymentsClient creates payment intents and checkout sessions.
type PaymentsClient interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency, userID string, metadata map[string]string) (*payments.PaymentIntent, error)
	CreateCheckoutSession(ctx context.Context, priceID, successURL, cancelURL, mode, userID string) (*payments.CheckoutSession, error)
}

// PushClient delivers one batched push message.
type PushClient interface {
	Send(ctx context.Context, msg push.Message) ([]push.Ticket, error)
}

// EmailClient delivers one transactional email.
type EmailClient interface {
	Send(ctx context.Context, req *email.SendRequest) (*email.SendResponse, error)
}

// Handlers groups the five action endpoints and their dependencies. The DB
// handle serves the push-token lookups and the best-effort audit writes; it
// may be nil in tests that exercise neither.
type Handlers struct {
	db    *gorm.DB
	llm   CompletionClient
	pay   PaymentsClient
	push  PushClient
	email EmailClient
}

// New constructs a Handlers instance bound to the given dependencies.
func New(db *gorm.DB, llmClient CompletionClient, payClient PaymentsClient, pushClient PushClient, emailClient EmailClient) *Handlers {
	return &Handlers{db: db, llm: llmClient, pay: payClient, push: pushClient, email: emailClient}
}
