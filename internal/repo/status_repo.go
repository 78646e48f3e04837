// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the legacy
// StatusCheck ping log.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

// CreateStatusCheck appends a ping log entry for clientName with a fresh UUID
// and the current UTC time. Entries are immutable after creation.
func CreateStatusCheck(ctx context.Context, db *gorm.DB, clientName string) (*domain.StatusCheck, error) {
	s := &domain.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// ListStatusChecks returns up to limit ping log entries in insertion order
// (oldest first). A limit <= 0 disables the cap.
func ListStatusChecks(ctx context.Context, db *gorm.DB, limit int) ([]domain.StatusCheck, error) {
	tx := db.WithContext(ctx).Order("timestamp asc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var out []domain.StatusCheck
	err := tx.Find(&out).Error
	return out, err
}
