package handlers

import (
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/domain"
	"github.com/tasknest/actions-gateway/internal/repo"
	"github.com/tasknest/actions-gateway/internal/upstream/payments"
)

func TestCreatePaymentIntent(t *testing.T) {
	pay := &fakePayments{intent: &payments.PaymentIntent{
		ID:           "pi_123",
		ClientSecret: "pi_123_secret",
		Amount:       999,
		Currency:     "usd",
		Status:       "requires_payment_method",
	}}
	h := newTestHandlers(nil, nil, pay, nil, nil)

	w := perform(h.CreatePaymentIntent, `{"amount":999,"currency":"USD","metadata":{"plan":"pro"}}`, testPrincipal)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	if resp["id"] != "pi_123" || resp["clientSecret"] != "pi_123_secret" {
		t.Fatalf("response = %v", resp)
	}

	if pay.lastAmount != 999 || pay.lastCurrency != "usd" {
		t.Errorf("upstream call: amount=%d currency=%q", pay.lastAmount, pay.lastCurrency)
	}
	if pay.lastUserID != "user-1" {
		t.Errorf("upstream userID = %q, want the principal id", pay.lastUserID)
	}
	if pay.lastMetadata["plan"] != "pro" {
		t.Errorf("upstream metadata = %v", pay.lastMetadata)
	}
}

func TestCreatePaymentIntentNegativeAmount(t *testing.T) {
	h := newTestHandlers(nil, nil, &fakePayments{}, nil, nil)

	w := perform(h.CreatePaymentIntent, `{"amount":-5,"currency":"usd"}`, testPrincipal)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeJSON(t, w)
	if !strings.Contains(resp["error"].(string), "Amount must be a positive number") {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestCreatePaymentIntentWritesAuditRow(t *testing.T) {
	db := newTestDB(t)
	pay := &fakePayments{intent: &payments.PaymentIntent{
		ID: "pi_audit", Amount: 500, Currency: "eur", Status: "succeeded",
	}}
	h := newTestHandlers(db, nil, pay, nil, nil)

	w := perform(h.CreatePaymentIntent, `{"amount":500,"currency":"eur"}`, testPrincipal)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var rec domain.PaymentRecord
	if err := db.Where("upstream_id = ?", "pi_audit").First(&rec).Error; err != nil {
		t.Fatalf("audit row not written: %v", err)
	}
	if rec.UserID != "user-1" || rec.Kind != "payment_intent" || rec.Amount != 500 {
		t.Fatalf("audit row = %+v", rec)
	}
}

func TestCreateCheckout(t *testing.T) {
	pay := &fakePayments{session: &payments.CheckoutSession{
		ID:     "cs_123",
		URL:    "https://checkout.example.com/cs_123",
		Status: "open",
	}}
	h := newTestHandlers(nil, nil, pay, nil, nil)

	body := `{"priceId":"price_123","successUrl":"https://app.example.com/ok","cancelUrl":"https://app.example.com/no"}`
	w := perform(h.CreateCheckout, body, testPrincipal)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	if resp["sessionId"] != "cs_123" || resp["url"] != "https://checkout.example.com/cs_123" {
		t.Fatalf("response = %v", resp)
	}
	if pay.lastPriceID != "price_123" || pay.lastMode != "subscription" {
		t.Errorf("upstream call: priceID=%q mode=%q", pay.lastPriceID, pay.lastMode)
	}
}

func TestCreateCheckoutValidationFailure(t *testing.T) {
	h := newTestHandlers(nil, nil, &fakePayments{}, nil, nil)

	w := perform(h.CreateCheckout, `{"priceId":"bogus","successUrl":"x","cancelUrl":"y"}`, testPrincipal)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeJSON(t, w)
	errs, ok := resp["errors"].([]any)
	if !ok || len(errs) != 3 {
		t.Fatalf("errors = %v, want priceId + both urls", resp["errors"])
	}
}

// newTestDB opens a throwaway SQLite database with the gateway schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
