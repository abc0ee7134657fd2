package actions

import (
	"strings"

	"github.com/tasknest/actions-gateway/internal/validate"
)

// Payment constraints. Amounts are integer minor units (cents).
const (
	maxAmount         = 99_999_999
	currencyLen       = 3
	maxMetadataKeyLen = 40
	maxMetadataValLen = 500
)

// PaymentIntentRequest is the validated create-payment-intent payload.
type PaymentIntentRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// CheckoutRequest is the validated create-checkout-session payload.
type CheckoutRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	Mode       string `json:"mode"`
}

// ValidatePaymentIntent checks body against the create-payment-intent shape.
func ValidatePaymentIntent(body map[string]any) (PaymentIntentRequest, *validate.Violations) {
	vi := &validate.Violations{}
	var req PaymentIntentRequest

	if f, ok := validate.Num(body["amount"]); !ok || f <= 0 {
		vi.Add("Amount must be a positive number")
	} else if n, ok := validate.Int(body["amount"]); !ok {
		vi.Add("Amount must be an integer number of minor units")
	} else if n > maxAmount {
		vi.Addf("Amount must not exceed %d", maxAmount)
	} else {
		req.Amount = int64(n)
	}

	if s, ok := validate.Str(body["currency"]); !ok || len(s) != currencyLen {
		vi.Addf("Currency must be a %d-letter code", currencyLen)
	} else {
		req.Currency = strings.ToLower(s)
	}

	if v, ok := body["metadata"]; ok {
		m, isMap := validate.Map(v)
		if !isMap {
			vi.Add("metadata must be an object of string values")
		} else {
			req.Metadata = make(map[string]string, len(m))
			for k, mv := range m {
				s, isStr := validate.Str(mv)
				switch {
				case !isStr:
					vi.Addf("metadata.%s must be a string", k)
				case len(k) > maxMetadataKeyLen:
					vi.Addf("metadata keys must be at most %d characters", maxMetadataKeyLen)
				case len(s) > maxMetadataValLen:
					vi.Addf("metadata.%s must be at most %d characters", k, maxMetadataValLen)
				default:
					req.Metadata[k] = s
				}
			}
		}
	}

	return req, vi
}

// ValidateCheckout checks body against the create-checkout-session shape.
func ValidateCheckout(body map[string]any) (CheckoutRequest, *validate.Violations) {
	vi := &validate.Violations{}
	req := CheckoutRequest{Mode: "subscription"}

	if s, ok := validate.Str(body["priceId"]); !ok || !strings.HasPrefix(s, "price_") {
		vi.Add(`priceId is required and must start with "price_"`)
	} else {
		req.PriceID = s
	}

	if s, ok := validate.Str(body["successUrl"]); !ok || !validate.IsURL(s) {
		vi.Add("successUrl must be a valid URL")
	} else {
		req.SuccessURL = s
	}

	if s, ok := validate.Str(body["cancelUrl"]); !ok || !validate.IsURL(s) {
		vi.Add("cancelUrl must be a valid URL")
	} else {
		req.CancelURL = s
	}

	if v, ok := body["mode"]; ok {
		if s, isStr := validate.Str(v); isStr && (s == "payment" || s == "subscription") {
			req.Mode = s
		} else {
			vi.Add("mode must be one of: payment, subscription")
		}
	}

	return req, vi
}
