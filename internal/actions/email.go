package actions

import (
	"github.com/tasknest/actions-gateway/internal/validate"
)

// Email constraints.
const (
	maxEmailRecipients = 50
	maxSubjectLen      = 200
	maxHTMLLen         = 50000
	maxTextLen         = 10000
)

// EmailRequest is the validated send-email payload. To is normalized to a
// slice whether the input was a single address or an array. Exactly the
// fields among TemplateID / HTML / Text that were provided are set; at least
// one is guaranteed present when validation succeeds.
type EmailRequest struct {
	To         []string       `json:"to"`
	Subject    string         `json:"subject,omitempty"`
	TemplateID string         `json:"templateId,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	HTML       string         `json:"html,omitempty"`
	Text       string         `json:"text,omitempty"`
}

// ValidateEmail checks body against the send-email shape.
func ValidateEmail(body map[string]any) (EmailRequest, *validate.Violations) {
	vi := &validate.Violations{}
	var req EmailRequest

	switch raw := body["to"].(type) {
	case string:
		if !validate.IsEmail(raw) {
			vi.Add("to must be a valid email address")
		} else {
			req.To = []string{raw}
		}
	case []any:
		ids, ok := validate.StrSlice(raw)
		switch {
		case !ok || len(ids) == 0:
			vi.Add("to must be an email address or a non-empty array of email addresses")
		case len(ids) > maxEmailRecipients:
			vi.Addf("too many recipients (maximum %d)", maxEmailRecipients)
		default:
			for i, addr := range ids {
				if !validate.IsEmail(addr) {
					vi.Addf("to[%d] must be a valid email address", i)
				}
			}
			req.To = ids
		}
	default:
		vi.Add("to is required")
	}

	if v, ok := body["subject"]; ok {
		if s, isStr := validate.Str(v); isStr && len(s) <= maxSubjectLen {
			req.Subject = s
		} else {
			vi.Addf("subject must be a string of at most %d characters", maxSubjectLen)
		}
	}

	if v, ok := body["templateId"]; ok {
		if s, isStr := validate.Str(v); isStr && s != "" {
			req.TemplateID = s
		} else {
			vi.Add("templateId must be a non-empty string")
		}
	}

	if v, ok := body["data"]; ok {
		if m, isMap := validate.Map(v); isMap {
			req.Data = m
		} else {
			vi.Add("data must be an object")
		}
	}

	if v, ok := body["html"]; ok {
		if s, isStr := validate.Str(v); isStr && len(s) <= maxHTMLLen {
			req.HTML = s
		} else {
			vi.Addf("html must be a string of at most %d characters", maxHTMLLen)
		}
	}

	if v, ok := body["text"]; ok {
		if s, isStr := validate.Str(v); isStr && len(s) <= maxTextLen {
			req.Text = s
		} else {
			vi.Addf("text must be a string of at most %d characters", maxTextLen)
		}
	}

	_, hasTemplate := body["templateId"]
	_, hasHTML := body["html"]
	_, hasText := body["text"]
	if !hasTemplate && !hasHTML && !hasText {
		vi.Add("one of templateId, html or text is required")
	}

	return req, vi
}
