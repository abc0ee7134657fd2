package actions

import (
	"strings"
	"testing"
)

func TestValidatePaymentIntentHappyPath(t *testing.T) {
	body := decode(t, `{"amount":999,"currency":"USD","metadata":{"plan":"pro"}}`)
	req, vi := ValidatePaymentIntent(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if req.Amount != 999 {
		t.Errorf("amount = %d", req.Amount)
	}
	if req.Currency != "usd" {
		t.Errorf("currency = %q, want lowercased", req.Currency)
	}
	if req.Metadata["plan"] != "pro" {
		t.Errorf("metadata = %v", req.Metadata)
	}
}

func TestValidatePaymentIntentRejectsNonPositiveAmount(t *testing.T) {
	for _, raw := range []string{
		`{"amount":-5,"currency":"usd"}`,
		`{"amount":0,"currency":"usd"}`,
		`{"amount":"10","currency":"usd"}`,
		`{"currency":"usd"}`,
	} {
		_, vi := ValidatePaymentIntent(decode(t, raw))
		if vi.OK() {
			t.Fatalf("payload %s should fail", raw)
		}
		if got := vi.Join(); !strings.Contains(got, "Amount must be a positive number") {
			t.Fatalf("payload %s: error = %q", raw, got)
		}
	}
}

func TestValidatePaymentIntentRejectsFractionalAndHugeAmounts(t *testing.T) {
	_, vi := ValidatePaymentIntent(decode(t, `{"amount":10.5,"currency":"usd"}`))
	if got := vi.Join(); !strings.Contains(got, "integer number of minor units") {
		t.Fatalf("fractional amount: error = %q", got)
	}

	_, vi = ValidatePaymentIntent(decode(t, `{"amount":100000000,"currency":"usd"}`))
	if got := vi.Join(); !strings.Contains(got, "must not exceed") {
		t.Fatalf("oversized amount: error = %q", got)
	}
}

func TestValidatePaymentIntentCurrency(t *testing.T) {
	for _, raw := range []string{
		`{"amount":100,"currency":"usdollar"}`,
		`{"amount":100,"currency":""}`,
		`{"amount":100}`,
	} {
		_, vi := ValidatePaymentIntent(decode(t, raw))
		if got := vi.Join(); !strings.Contains(got, "Currency must be a 3-letter code") {
			t.Fatalf("payload %s: error = %q", raw, got)
		}
	}
}

func TestValidatePaymentIntentMetadataLimits(t *testing.T) {
	longKey := strings.Repeat("k", 41)
	_, vi := ValidatePaymentIntent(decode(t, `{"amount":100,"currency":"usd","metadata":{"`+longKey+`":"v"}}`))
	if got := vi.Join(); !strings.Contains(got, "metadata keys must be at most 40 characters") {
		t.Fatalf("long key: error = %q", got)
	}

	longVal := strings.Repeat("v", 501)
	_, vi = ValidatePaymentIntent(decode(t, `{"amount":100,"currency":"usd","metadata":{"k":"`+longVal+`"}}`))
	if got := vi.Join(); !strings.Contains(got, "metadata.k must be at most 500 characters") {
		t.Fatalf("long value: error = %q", got)
	}

	_, vi = ValidatePaymentIntent(decode(t, `{"amount":100,"currency":"usd","metadata":{"k":1}}`))
	if got := vi.Join(); !strings.Contains(got, "metadata.k must be a string") {
		t.Fatalf("non-string value: error = %q", got)
	}
}

func TestValidatePaymentIntentAccumulatesAllViolations(t *testing.T) {
	_, vi := ValidatePaymentIntent(decode(t, `{"amount":-1,"currency":"x"}`))
	if len(vi.Messages()) != 2 {
		t.Fatalf("violations = %v, want both amount and currency failures", vi.Messages())
	}
}

func TestValidateCheckoutHappyPath(t *testing.T) {
	body := decode(t, `{
		"priceId":"price_123","successUrl":"https://app.example.com/ok",
		"cancelUrl":"https://app.example.com/cancel","mode":"payment"
	}`)
	req, vi := ValidateCheckout(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if req.PriceID != "price_123" || req.Mode != "payment" {
		t.Fatalf("normalized request = %+v", req)
	}
}

func TestValidateCheckoutModeDefaultsToSubscription(t *testing.T) {
	body := decode(t, `{
		"priceId":"price_123","successUrl":"https://a.example/ok","cancelUrl":"https://a.example/no"
	}`)
	req, vi := ValidateCheckout(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if req.Mode != "subscription" {
		t.Fatalf("mode = %q, want subscription", req.Mode)
	}
}

func TestValidateCheckoutRejectsBadFields(t *testing.T) {
	body := decode(t, `{"priceId":"sku_1","successUrl":"notaurl","cancelUrl":"ftp://x","mode":"trial"}`)
	_, vi := ValidateCheckout(body)
	if len(vi.Messages()) != 4 {
		t.Fatalf("violations = %v, want priceId + both urls + mode", vi.Messages())
	}
	if got := vi.Join(); !strings.Contains(got, `priceId is required and must start with "price_"`) {
		t.Fatalf("error = %q", got)
	}
}
