// Transactional email handler.
//
// POST /<base>/send-email relays one email through the provider. When the
// caller supplies a template id but no subject, a presentable default subject
// is derived from the template name ("welcome_user" -> "Welcome User").
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/upstream/email"
)

var subjectCaser = cases.Title(language.English)

// EmailResponse is the success body for send-email.
type EmailResponse struct {
	ID string `json:"id"`
}

// SendEmail handles POST send-email requests.
func (h *Handlers) SendEmail(c *gin.Context) {
	body, okParse := parseBody(c)
	if !okParse {
		return
	}
	req, vi := actions.ValidateEmail(body)
	if !vi.OK() {
		failValidation(c, vi)
		return
	}

	subject := req.Subject
	if subject == "" && req.TemplateID != "" {
		subject = subjectFromTemplate(req.TemplateID)
	}

	p, _ := middleware.PrincipalFrom(c)
	resp, err := h.email.Send(c.Request.Context(), &email.SendRequest{
		To:         req.To,
		Subject:    subject,
		TemplateID: req.TemplateID,
		Data:       req.Data,
		HTML:       req.HTML,
		Text:       req.Text,
		Tags:       []email.Tag{{Name: "user_id", Value: p.ID}},
	})
	if err != nil {
		failUpstream(c, err)
		return
	}

	ok(c, EmailResponse{ID: resp.ID})
}

// subjectFromTemplate turns a template identifier into a readable subject
// line: separators become spaces and each word is title-cased.
func subjectFromTemplate(templateID string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(templateID)
	return subjectCaser.String(strings.TrimSpace(s))
}
