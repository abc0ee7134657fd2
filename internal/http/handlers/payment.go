// Payment handlers.
//
// POST /<base>/create-payment-intent and /<base>/create-checkout-session
// create the corresponding objects at the payment processor. After the
// upstream call succeeds an audit row is written best-effort: a failed write
// is logged and swallowed, because the payment object already exists upstream
// and must not be reported as failed.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/repo"
)

// PaymentIntentResponse is the success body for create-payment-intent.
type PaymentIntentResponse struct {
	ID           string `json:"id"`
	ClientSecret string `json:"clientSecret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

// CheckoutResponse is the success body for create-checkout-session.
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// CreatePaymentIntent handles POST create-payment-intent requests.
func (h *Handlers) CreatePaymentIntent(c *gin.Context) {
	body, okParse := parseBody(c)
	if !okParse {
		return
	}
	req, vi := actions.ValidatePaymentIntent(body)
	if !vi.OK() {
		failValidation(c, vi)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	intent, err := h.pay.CreatePaymentIntent(c.Request.Context(), req.Amount, req.Currency, p.ID, req.Metadata)
	if err != nil {
		failUpstream(c, err)
		return
	}

	if h.db != nil {
		if err := repo.RecordPayment(c.Request.Context(), h.db, p.ID, "payment_intent",
			intent.ID, intent.Amount, intent.Currency, intent.Status); err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Str("intent_id", intent.ID).
				Msg("payment audit write failed")
		}
	}

	ok(c, PaymentIntentResponse{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
		Status:       intent.Status,
	})
}

// CreateCheckout handles POST create-checkout-session requests.
func (h *Handlers) CreateCheckout(c *gin.Context) {
	body, okParse := parseBody(c)
	if !okParse {
		return
	}
	req, vi := actions.ValidateCheckout(body)
	if !vi.OK() {
		failValidation(c, vi)
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	session, err := h.pay.CreateCheckoutSession(c.Request.Context(),
		req.PriceID, req.SuccessURL, req.CancelURL, req.Mode, p.ID)
	if err != nil {
		failUpstream(c, err)
		return
	}

	if h.db != nil {
		if err := repo.RecordPayment(c.Request.Context(), h.db, p.ID, "checkout_session",
			session.ID, 0, "", session.Status); err != nil {
			middleware.LoggerFrom(c).Error().Err(err).Str("session_id", session.ID).
				Msg("checkout audit write failed")
		}
	}

	ok(c, CheckoutResponse{SessionID: session.ID, URL: session.URL})
}
