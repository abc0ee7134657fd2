package actions

import (
	"strings"
	"testing"
)

func TestValidateNotificationHappyPath(t *testing.T) {
	body := decode(t, `{
		"title":"Reminder","body":"Standup in 5 minutes",
		"userIds":["u1","u2"],"data":{"taskId":"t-9"},"badge":3,"sound":"default"
	}`)
	req, vi := ValidateNotification(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if len(req.UserIDs) != 2 || req.UserIDs[0] != "u1" {
		t.Errorf("userIds = %v", req.UserIDs)
	}
	if req.Badge != 3 || !req.BadgeSet {
		t.Errorf("badge = %d set=%v", req.Badge, req.BadgeSet)
	}
	if req.Sound != "default" {
		t.Errorf("sound = %q", req.Sound)
	}
}

func TestValidateNotificationSingleUserID(t *testing.T) {
	body := decode(t, `{"title":"t","body":"b","userId":"u1"}`)
	req, vi := ValidateNotification(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if len(req.UserIDs) != 1 || req.UserIDs[0] != "u1" {
		t.Fatalf("userIds = %v, want [u1]", req.UserIDs)
	}
	if req.BadgeSet {
		t.Fatalf("badge should not be marked set")
	}
}

func TestValidateNotificationUserIDsWinsOverUserID(t *testing.T) {
	body := decode(t, `{"title":"t","body":"b","userId":"solo","userIds":["a","b"]}`)
	req, vi := ValidateNotification(body)
	if !vi.OK() {
		t.Fatalf("unexpected violations: %v", vi.Messages())
	}
	if len(req.UserIDs) != 2 {
		t.Fatalf("userIds = %v, want the array form", req.UserIDs)
	}
}

func TestValidateNotificationEmptyUserIDs(t *testing.T) {
	_, vi := ValidateNotification(decode(t, `{"title":"t","body":"b","userIds":[]}`))
	if got := vi.Join(); got != "userIds array cannot be empty" {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateNotificationMissingRecipients(t *testing.T) {
	_, vi := ValidateNotification(decode(t, `{"title":"t","body":"b"}`))
	if got := vi.Join(); got != "userId or userIds is required" {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateNotificationTooManyRecipients(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"title":"t","body":"b","userIds":[`)
	for i := 0; i < 101; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"u"`)
	}
	sb.WriteString(`]}`)
	_, vi := ValidateNotification(decode(t, sb.String()))
	if got := vi.Join(); got != "too many recipients (maximum 100)" {
		t.Fatalf("error = %q", got)
	}
}

func TestValidateNotificationFieldLimits(t *testing.T) {
	longTitle := strings.Repeat("t", 101)
	_, vi := ValidateNotification(decode(t, `{"title":"`+longTitle+`","body":"b","userId":"u"}`))
	if got := vi.Join(); !strings.Contains(got, "title must be at most 100 characters") {
		t.Fatalf("long title: error = %q", got)
	}

	longBody := strings.Repeat("b", 501)
	_, vi = ValidateNotification(decode(t, `{"title":"t","body":"`+longBody+`","userId":"u"}`))
	if got := vi.Join(); !strings.Contains(got, "body must be at most 500 characters") {
		t.Fatalf("long body: error = %q", got)
	}

	_, vi = ValidateNotification(decode(t, `{"title":"t","body":"b","userId":"u","badge":-1}`))
	if got := vi.Join(); !strings.Contains(got, "badge must be a non-negative integer") {
		t.Fatalf("negative badge: error = %q", got)
	}
}

func TestValidateNotificationAccumulates(t *testing.T) {
	_, vi := ValidateNotification(decode(t, `{"userIds":"nope","badge":"x"}`))
	// title, body, userIds shape, badge type.
	if len(vi.Messages()) != 4 {
		t.Fatalf("violations = %v, want 4", vi.Messages())
	}
}
