// Package repo implements the data persistence layer for the gateway.
// This file provides repository functions for the push-token store.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the thin-repository approach: no business logic, only CRUD
// persistence and query composition.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tasknest/actions-gateway/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist. It aliases
// gorm.ErrRecordNotFound for consistency across handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// PushTokensForUsers returns every registered push token belonging to any of
// the given users. The result may be empty; callers decide whether that is an
// error (notification fan-out treats it as 404).
func PushTokensForUsers(ctx context.Context, db *gorm.DB, userIDs []string) ([]domain.PushToken, error) {
	var out []domain.PushToken
	err := db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// UpsertPushToken registers (or refreshes) a device token for userID. An
// existing row with the same token is reassigned rather than duplicated.
func UpsertPushToken(ctx context.Context, db *gorm.DB, userID, token, platform string) (*domain.PushToken, error) {
	var existing domain.PushToken
	err := db.WithContext(ctx).Where("token = ?", token).First(&existing).Error
	switch {
	case err == nil:
		existing.UserID = userID
		existing.Platform = platform
		if err := db.WithContext(ctx).Save(&existing).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case err == gorm.ErrRecordNotFound:
		t := &domain.PushToken{
			ID:        uuid.NewString(),
			UserID:    userID,
			Token:     token,
			Platform:  platform,
			CreatedAt: time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(t).Error; err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, err
	}
}
