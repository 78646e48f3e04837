// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Rack model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a rack is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// This repository is designed to be wrapped by a higher-level service
// (see services.RackService) which enforces validation, pagination windows,
// and search-result shaping.
package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// RackUpdate carries the optional fields of a partial rack update. A nil
// pointer means "leave the stored value untouched"; a non-nil pointer
// replaces the field wholesale (Items included — the sequence is replaced,
// never merged element-wise).
type RackUpdate struct {
	RackNumber *string
	Floor      *string
	Items      *[]string
}

// CreateRack inserts a new Rack with a freshly generated UUID and
// CreatedAt == UpdatedAt == now (UTC). items may be nil; it is stored as an
// empty sequence so readers always see a JSON array.
//
// Rack numbers are intentionally not checked for uniqueness.
func CreateRack(ctx context.Context, db *gorm.DB, rackNumber, floor string, items []string) (*domain.Rack, error) {
	if items == nil {
		items = []string{}
	}
	now := time.Now().UTC()
	r := &domain.Rack{
		ID:         uuid.NewString(),
		RackNumber: rackNumber,
		Floor:      floor,
		Items:      items,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRack fetches a single rack by its ID. If the record does not exist, it
// returns ErrNotFound. On other DB errors, the raw error is returned.
func GetRack(ctx context.Context, db *gorm.DB, id string) (*domain.Rack, error) {
	var r domain.Rack
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRack merges the fields present in patch into the stored record,
// refreshes UpdatedAt, persists, and returns the full refreshed record.
// Fields omitted from patch are left untouched. An entirely empty patch is
// permitted and still bumps UpdatedAt.
//
// The read-merge-write sequence is not atomic against a concurrent delete of
// the same id; last write wins, which is the accepted trade-off here.
func UpdateRack(ctx context.Context, db *gorm.DB, id string, patch RackUpdate) (*domain.Rack, error) {
	var r domain.Rack
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}

	if patch.RackNumber != nil {
		r.RackNumber = *patch.RackNumber
	}
	if patch.Floor != nil {
		r.Floor = *patch.Floor
	}
	if patch.Items != nil {
		items := *patch.Items
		if items == nil {
			items = []string{}
		}
		r.Items = items
	}
	r.UpdatedAt = time.Now().UTC()

	if err := db.WithContext(ctx).Save(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRack removes the rack matching id and reports whether a record was
// actually removed, so callers can distinguish "deleted" from "nothing to
// delete".
func DeleteRack(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Rack{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListFloors returns every distinct floor value across all racks, sorted
// ascending. It returns an empty slice when no racks exist.
func ListFloors(ctx context.Context, db *gorm.DB) ([]string, error) {
	var floors []string
	err := db.WithContext(ctx).
		Model(&domain.Rack{}).
		Distinct().
		Order("floor asc").
		Pluck("floor", &floors).Error
	return floors, err
}

// ListRacksByFloors returns every rack whose floor is in the given set,
// sorted by floor ascending and creation time within a floor. An empty floor
// set yields an empty result without touching the store.
func ListRacksByFloors(ctx context.Context, db *gorm.DB, floors []string) ([]domain.Rack, error) {
	if len(floors) == 0 {
		return []domain.Rack{}, nil
	}
	var out []domain.Rack
	err := db.WithContext(ctx).
		Where("floor IN ?", floors).
		Order("floor asc, created_at asc").
		Find(&out).Error
	return out, err
}

// SearchRacks returns every rack where query occurs as a case-insensitive
// literal substring in rack_number, floor, or the serialized items column,
// capped at limit rows (<= 0 means no cap).
//
// instr() treats the needle as plain text, so pattern metacharacters in the
// query ("*", ".", "%", "_") cannot alter matching. Matching against the
// JSON-encoded items text is a recall superset; the service layer recomputes
// exact per-item matches in memory for highlighting.
func SearchRacks(ctx context.Context, db *gorm.DB, query string, limit int) ([]domain.Rack, error) {
	q := strings.ToLower(query)
	tx := db.WithContext(ctx).
		Where("instr(lower(rack_number), ?) > 0 OR instr(lower(floor), ?) > 0 OR instr(lower(items), ?) > 0", q, q, q).
		Order("floor asc, created_at asc")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	var out []domain.Rack
	err := tx.Find(&out).Error
	return out, err
}
