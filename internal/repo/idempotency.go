// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// IdempotencyKey model used to implement safe-retry semantics for POST /racks.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given key.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotencyKey returns a non-expired record for key, or ErrNotFound.
func GetIdempotencyKey(ctx context.Context, db *gorm.DB, key string, now time.Time) (*domain.IdempotencyKey, error) {
	if strings.TrimSpace(key) == "" {
		return nil, ErrNotFound
	}
	var rec domain.IdempotencyKey
	err := db.WithContext(ctx).
		Where("key = ? AND expires_at > ?", key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotencyKey records that key produced rackID with the given HTTP
// status, valid for ttl. It returns ErrDuplicate on a unique violation.
func CreateIdempotencyKey(ctx context.Context, db *gorm.DB, key, rackID string, status int, ttl time.Duration) (*domain.IdempotencyKey, error) {
	now := time.Now().UTC()
	rec := &domain.IdempotencyKey{
		ID:        uuid.NewString(),
		Key:       key,
		RackID:    rackID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
