// Package domain defines the core types shared across the gateway: the
// authenticated Principal, and the persistence models for push-token lookup
// and best-effort outcome auditing. Persistence models are mapped with GORM.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Principal is the authenticated caller of a request, derived from a verified
// bearer token by the auth verifier. It is constructed fresh per request and
// never persisted; its ID is the sole key used for rate limiting and for
// tagging outbound calls.
//
// A Principal only exists when token verification succeeded. Identity fields
// come from the identity service's response, never from client-supplied
// claims.
type Principal struct {
	// ID is an opaque identifier, stable per account.
	ID string `json:"id"`
	// Email is optional; empty when the identity service omits it.
	Email string `json:"email,omitempty"`
	// Role is optional (e.g. "authenticated", "service_role").
	Role string `json:"role,omitempty"`
}

// PushToken maps a user to a device push token registered by the mobile
// client. Notification fan-out resolves recipients through this table so the
// gateway never trusts client-supplied device tokens.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the device; indexed for fan-out lookups.
//   - Token: provider push token (e.g. ExponentPushToken[...]).
//   - Platform: "ios" or "android".
type PushToken struct {
	ID        string         `json:"id"       gorm:"type:char(36);primaryKey"`
	UserID    string         `json:"user_id"  gorm:"type:varchar(64);not null;index:idx_user_tokens"`
	Token     string         `json:"token"    gorm:"type:varchar(255);not null;uniqueIndex"`
	Platform  string         `json:"platform" gorm:"type:varchar(16);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"        gorm:"index"`
}

// TableName returns the database table name for PushToken.
func (PushToken) TableName() string { return "push_tokens" }

// PaymentRecord is the best-effort audit row written after a payment intent
// or checkout session has been created upstream. Failures writing this row
// never fail the request that produced it; the upstream object is the source
// of truth.
type PaymentRecord struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:varchar(64);not null;index:idx_user_payments"`
	Kind       string    `json:"kind"        gorm:"type:varchar(32);not null"` // "payment_intent" | "checkout_session"
	UpstreamID string    `json:"upstream_id" gorm:"type:varchar(128);not null"`
	Amount     int64     `json:"amount"      gorm:"not null;default:0"` // minor units; 0 for checkout sessions
	Currency   string    `json:"currency"    gorm:"type:char(3)"`
	Status     string    `json:"status"      gorm:"type:varchar(32)"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for PaymentRecord.
func (PaymentRecord) TableName() string { return "payment_records" }

// NotificationRecord is the best-effort audit row written after a push
// notification batch has been handed to the push gateway.
type NotificationRecord struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SenderID   string    `json:"sender_id"  gorm:"type:varchar(64);not null;index:idx_sender_notifs"`
	Title      string    `json:"title"      gorm:"type:varchar(100);not null"`
	Body       string    `json:"body"       gorm:"type:varchar(500);not null"`
	Recipients int       `json:"recipients" gorm:"not null"`
	Delivered  int       `json:"delivered"  gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the database table name for NotificationRecord.
func (NotificationRecord) TableName() string { return "notification_records" }
