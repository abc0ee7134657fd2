// Package actions is the single boundary between untrusted JSON and the rest
// of the gateway. It defines one typed request per backend action together
// with its validation function, plus the per-action rate-limit policies and
// request-body caps.
//
// Validation functions accumulate every violation before failing (clients see
// the complete error set in one round trip) and apply defaults, so a payload
// that validated once revalidates to an identical normalized value. No other
// package handles map[string]any payloads.
package actions

import (
	"time"

	"github.com/tasknest/actions-gateway/internal/ratelimit"
)

// Action names. These double as rate-limit keys and route segments.
const (
	AICompletion    = "ai-completion"
	PaymentIntent   = "create-payment-intent"
	CheckoutSession = "create-checkout-session"
	Notification    = "send-notifications"
	Email           = "send-email"
)

// Request-body byte caps, measured on the UTF-8 encoded body before parsing.
// AI and email payloads legitimately carry more text than the rest.
const (
	MaxBodyBytes      = 1 << 20 // 1 MiB
	MaxLargeBodyBytes = 2 << 20 // 2 MiB
)

// BodyLimit returns the request-body cap for an action.
func BodyLimit(action string) int64 {
	switch action {
	case AICompletion, Email:
		return MaxLargeBodyBytes
	default:
		return MaxBodyBytes
	}
}

// Policies is the fixed-window rate-limit table per action. Payment and AI
// actions are deliberately tighter than generic traffic; unknown actions fall
// back to ratelimit.DefaultConfig (60/min).
func Policies() map[string]ratelimit.Config {
	return map[string]ratelimit.Config{
		AICompletion:    {MaxRequests: 10, Window: time.Minute},
		PaymentIntent:   {MaxRequests: 10, Window: time.Minute},
		CheckoutSession: {MaxRequests: 10, Window: time.Minute},
		Notification:    {MaxRequests: 30, Window: time.Minute},
		Email:           {MaxRequests: 5, Window: time.Minute},
	}
}
