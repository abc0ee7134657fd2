package actions

import (
	"github.com/tasknest/actions-gateway/internal/validate"
)

// Notification constraints.
const (
	maxNotifTitleLen   = 100
	maxNotifBodyLen    = 500
	maxNotifRecipients = 100
)

// NotificationRequest is the validated send-notifications payload. Recipients
// is the normalized union of the userId / userIds input fields.
type NotificationRequest struct {
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	UserIDs  []string       `json:"userIds"`
	Data     map[string]any `json:"data,omitempty"`
	Badge    int            `json:"badge,omitempty"`
	BadgeSet bool           `json:"-"`
	Sound    string         `json:"sound,omitempty"`
}

// ValidateNotification checks body against the send-notifications shape.
// Either `userId` (single) or `userIds` (array) must name the recipients;
// when both are present the array wins.
func ValidateNotification(body map[string]any) (NotificationRequest, *validate.Violations) {
	vi := &validate.Violations{}
	var req NotificationRequest

	if s, ok := validate.Str(body["title"]); !ok || s == "" {
		vi.Add("title is required")
	} else if len(s) > maxNotifTitleLen {
		vi.Addf("title must be at most %d characters", maxNotifTitleLen)
	} else {
		req.Title = s
	}

	if s, ok := validate.Str(body["body"]); !ok || s == "" {
		vi.Add("body is required")
	} else if len(s) > maxNotifBodyLen {
		vi.Addf("body must be at most %d characters", maxNotifBodyLen)
	} else {
		req.Body = s
	}

	rawIDs, hasIDs := body["userIds"]
	rawID, hasID := body["userId"]
	switch {
	case hasIDs:
		ids, ok := validate.StrSlice(rawIDs)
		if !ok {
			vi.Add("userIds must be an array of strings")
		} else if len(ids) == 0 {
			vi.Add("userIds array cannot be empty")
		} else if len(ids) > maxNotifRecipients {
			vi.Addf("too many recipients (maximum %d)", maxNotifRecipients)
		} else {
			req.UserIDs = ids
		}
	case hasID:
		if s, ok := validate.Str(rawID); ok && s != "" {
			req.UserIDs = []string{s}
		} else {
			vi.Add("userId must be a non-empty string")
		}
	default:
		vi.Add("userId or userIds is required")
	}

	if v, ok := body["data"]; ok {
		if m, isMap := validate.Map(v); isMap {
			req.Data = m
		} else {
			vi.Add("data must be an object")
		}
	}

	if v, ok := body["badge"]; ok {
		if n, isInt := validate.Int(v); isInt && n >= 0 {
			req.Badge = n
			req.BadgeSet = true
		} else {
			vi.Add("badge must be a non-negative integer")
		}
	}

	if v, ok := body["sound"]; ok {
		if s, isStr := validate.Str(v); isStr {
			req.Sound = s
		} else {
			vi.Add("sound must be a string")
		}
	}

	return req, vi
}
