// Package repo implements the data persistence layer for the gateway.
// This file provides the best-effort audit writers invoked by handlers after
// an upstream call succeeds. Callers log failures and move on; nothing here
// may affect the primary response.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/domain"
)

// RecordPayment inserts an audit row for a created payment intent or
// checkout session.
func RecordPayment(ctx context.Context, db *gorm.DB, userID, kind, upstreamID string, amount int64, currency, status string) error {
	rec := &domain.PaymentRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       kind,
		UpstreamID: upstreamID,
		Amount:     amount,
		Currency:   currency,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(rec).Error
}

// RecordNotification inserts an audit row for a completed push fan-out.
func RecordNotification(ctx context.Context, db *gorm.DB, senderID, title, body string, recipients, delivered int) error {
	rec := &domain.NotificationRecord{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		Title:      title,
		Body:       body,
		Recipients: recipients,
		Delivered:  delivered,
		CreatedAt:  time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(rec).Error
}
