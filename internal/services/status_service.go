// Package services – StatusService
//
// Thin orchestration over the legacy status-check ping log: create one entry,
// list them all (capped). Kept for interface completeness with older clients.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

// StatusRepo defines the repository contract required by StatusService.
type StatusRepo interface {
	CreateStatusCheck(ctx context.Context, db *gorm.DB, clientName string) (*domain.StatusCheck, error)
	ListStatusChecks(ctx context.Context, db *gorm.DB, limit int) ([]domain.StatusCheck, error)
}

// StatusService records and lists status-check pings.
type StatusService struct {
	DB   *gorm.DB
	Repo StatusRepo

	// ListLimit caps list results. Defaults to 1000 via NewStatusService.
	ListLimit int
}

// NewStatusService constructs a StatusService with the default list cap.
func NewStatusService(db *gorm.DB, r StatusRepo) *StatusService {
	return &StatusService{DB: db, Repo: r, ListLimit: 1000}
}

// Create appends a ping entry for clientName, which must be non-blank.
func (s *StatusService) Create(ctx context.Context, clientName string) (*domain.StatusCheck, error) {
	if strings.TrimSpace(clientName) == "" {
		return nil, ErrEmptyClientName
	}
	return s.Repo.CreateStatusCheck(ctx, s.DB, clientName)
}

// List returns the recorded pings, oldest first, capped at ListLimit.
func (s *StatusService) List(ctx context.Context) ([]domain.StatusCheck, error) {
	out, err := s.Repo.ListStatusChecks(ctx, s.DB, s.ListLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.StatusCheck{}
	}
	return out, nil
}
