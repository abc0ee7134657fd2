package repo

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenSQLite(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestOpenSQLiteRejectsMissingDirectory(t *testing.T) {
	if _, err := OpenSQLite("/no/such/dir/test.db"); err == nil {
		t.Fatalf("expected an error for a nonexistent parent directory")
	}
}

func TestUpsertPushTokenCreatesAndReassigns(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := UpsertPushToken(ctx, db, "u1", "ExponentPushToken[aaa]", "ios")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.UserID != "u1" {
		t.Fatalf("created = %+v", created)
	}

	// Registering the same token for another user reassigns, not duplicates.
	moved, err := UpsertPushToken(ctx, db, "u2", "ExponentPushToken[aaa]", "android")
	if err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if moved.ID != created.ID {
		t.Fatalf("reassigned id = %q, want the original row %q", moved.ID, created.ID)
	}
	if moved.UserID != "u2" || moved.Platform != "android" {
		t.Fatalf("reassigned = %+v", moved)
	}

	var count int64
	if err := db.Model(&domain.PushToken{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("token rows = %d, want 1", count)
	}
}

func TestPushTokensForUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for _, reg := range []struct{ user, token string }{
		{"u1", "tok-a"},
		{"u1", "tok-b"},
		{"u2", "tok-c"},
		{"u3", "tok-d"},
	} {
		if _, err := UpsertPushToken(ctx, db, reg.user, reg.token, "ios"); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tokens, err := PushTokensForUsers(ctx, db, []string{"u1", "u2"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("tokens = %d, want 3", len(tokens))
	}

	tokens, err = PushTokensForUsers(ctx, db, []string{"ghost"})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(tokens) != 0 {
		t.Fatalf("tokens for unknown user = %d, want 0", len(tokens))
	}
}

func TestRecordPayment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := RecordPayment(ctx, db, "u1", "payment_intent", "pi_1", 999, "usd", "succeeded"); err != nil {
		t.Fatalf("record: %v", err)
	}

	var rec domain.PaymentRecord
	if err := db.Where("upstream_id = ?", "pi_1").First(&rec).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if rec.UserID != "u1" || rec.Kind != "payment_intent" || rec.Amount != 999 || rec.Currency != "usd" {
		t.Fatalf("row = %+v", rec)
	}
	if rec.ID == "" || rec.CreatedAt.IsZero() {
		t.Fatalf("row missing id or timestamp: %+v", rec)
	}
}

func TestRecordNotification(t *testing.T) {
	db := newTestDB(t)

	if err := RecordNotification(context.Background(), db, "u1", "Hi", "There", 5, 4); err != nil {
		t.Fatalf("record: %v", err)
	}

	var rec domain.NotificationRecord
	if err := db.First(&rec).Error; err != nil {
		t.Fatalf("read back: %v", err)
	}
	if rec.SenderID != "u1" || rec.Recipients != 5 || rec.Delivered != 4 {
		t.Fatalf("row = %+v", rec)
	}
}
