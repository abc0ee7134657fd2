package handlers

import (
	"net/http"
	"testing"

	"github.com/tasknest/actions-gateway/internal/upstream/email"
)

func TestSendEmailWithTemplate(t *testing.T) {
	e := &fakeEmail{resp: &email.SendResponse{ID: "email-1"}}
	h := newTestHandlers(nil, nil, nil, nil, e)

	body := `{"to":"u@example.com","templateId":"welcome_user","data":{"name":"Sam"}}`
	w := perform(h.SendEmail, body, testPrincipal)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeJSON(t, w)
	if resp["id"] != "email-1" {
		t.Fatalf("response = %v", resp)
	}

	if len(e.lastReq.To) != 1 || e.lastReq.To[0] != "u@example.com" {
		t.Errorf("upstream to = %v", e.lastReq.To)
	}
	// No subject given: derived from the template id.
	if e.lastReq.Subject != "Welcome User" {
		t.Errorf("subject = %q, want derived from template id", e.lastReq.Subject)
	}
	if e.lastReq.Data["name"] != "Sam" {
		t.Errorf("data = %v", e.lastReq.Data)
	}
	// Attribution tag carries the verified principal id.
	if len(e.lastReq.Tags) != 1 || e.lastReq.Tags[0].Value != "user-1" {
		t.Errorf("tags = %v", e.lastReq.Tags)
	}
}

func TestSendEmailExplicitSubjectWins(t *testing.T) {
	e := &fakeEmail{resp: &email.SendResponse{ID: "email-2"}}
	h := newTestHandlers(nil, nil, nil, nil, e)

	body := `{"to":"u@example.com","templateId":"welcome_user","subject":"Custom"}`
	w := perform(h.SendEmail, body, testPrincipal)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if e.lastReq.Subject != "Custom" {
		t.Fatalf("subject = %q, want the caller's subject", e.lastReq.Subject)
	}
}

func TestSendEmailValidationFailure(t *testing.T) {
	h := newTestHandlers(nil, nil, nil, nil, &fakeEmail{})

	w := perform(h.SendEmail, `{"to":"u@example.com"}`, testPrincipal)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	resp := decodeJSON(t, w)
	if resp["error"] != "one of templateId, html or text is required" {
		t.Fatalf("error = %v", resp["error"])
	}
}

func TestSendEmailUpstreamFailure(t *testing.T) {
	e := &fakeEmail{err: errUpstream("email provider error (status 422): invalid from")}
	h := newTestHandlers(nil, nil, nil, nil, e)

	w := perform(h.SendEmail, `{"to":"u@example.com","text":"hello"}`, testPrincipal)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestSubjectFromTemplate(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"welcome_user", "Welcome User"},
		{"password-reset", "Password Reset"},
		{"receipt", "Receipt"},
		{"weekly_digest-v2", "Weekly Digest V2"},
	}
	for _, tc := range cases {
		if got := subjectFromTemplate(tc.in); got != tc.want {
			t.Errorf("subjectFromTemplate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
