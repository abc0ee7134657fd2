// Notification fan-out handler.
//
// POST /<base>/send-notifications resolves the requested users' registered
// device tokens and hands one batched message to the push gateway. Users with
// no registered tokens yield a 404 rather than a silent no-op so callers can
// distinguish "sent" from "nobody to send to".
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tasknest/actions-gateway/internal/actions"
	"github.com/tasknest/actions-gateway/internal/http/middleware"
	"github.com/tasknest/actions-gateway/internal/repo"
	"github.com/tasknest/actions-gateway/internal/upstream/push"
)

// NotificationResponse is the success body for send-notifications.
type NotificationResponse struct {
	// Sent is the number of tokens the gateway accepted delivery for.
	Sent int `json:"sent"`
	// Failed is the number of tokens the gateway rejected.
	Failed int `json:"failed"`
	// Tokens is the total number of device tokens targeted.
	Tokens int `json:"tokens"`
}

// SendNotifications handles POST send-notifications requests.
func (h *Handlers) SendNotifications(c *gin.Context) {
	body, okParse := parseBody(c)
	if !okParse {
		return
	}
	req, vi := actions.ValidateNotification(body)
	if !vi.OK() {
		failValidation(c, vi)
		return
	}

	ctx := c.Request.Context()
	tokens, err := repo.PushTokensForUsers(ctx, h.db, req.UserIDs)
	if err != nil {
		failUpstream(c, err)
		return
	}
	if len(tokens) == 0 {
		failNotFound(c, "No push tokens found for the requested users")
		return
	}

	p, _ := middleware.PrincipalFrom(c)
	msg := push.Message{
		To:    make([]string, len(tokens)),
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
		Sound: req.Sound,
	}
	for i, t := range tokens {
		msg.To[i] = t.Token
	}
	if req.BadgeSet {
		badge := req.Badge
		msg.Badge = &badge
	}
	if msg.Data == nil {
		msg.Data = map[string]any{}
	}
	// Attribution for the downstream gateway and analytics.
	msg.Data["sender_id"] = p.ID

	tickets, err := h.push.Send(ctx, msg)
	if err != nil {
		failUpstream(c, err)
		return
	}

	sent := 0
	for _, t := range tickets {
		if t.Status == "ok" {
			sent++
		}
	}

	if err := repo.RecordNotification(ctx, h.db, p.ID, req.Title, req.Body, len(tokens), sent); err != nil {
		middleware.LoggerFrom(c).Error().Err(err).Msg("notification audit write failed")
	}

	ok(c, NotificationResponse{Sent: sent, Failed: len(tickets) - sent, Tokens: len(tokens)})
}
