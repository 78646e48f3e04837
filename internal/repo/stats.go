// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides cheap aggregate queries used by the HTTP
// layer to derive weak ETags for the rack listing.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

// RacksStats returns the total number of racks together with the most recent
// updated_at across all of them. maxUpdatedAt is nil when the table is empty.
//
// The pair changes whenever any rack is created, updated, or deleted (count
// covers deletions/creations, the timestamp covers updates), which makes it a
// sound basis for a weak listing ETag.
func RacksStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = db.WithContext(ctx).
		Model(&domain.Rack{}).
		Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// MAX() would need driver-specific time scanning; fetching the newest row
	// keeps the conversion inside gorm.
	var newest domain.Rack
	if err = db.WithContext(ctx).
		Model(&domain.Rack{}).
		Select("updated_at").
		Order("updated_at desc").
		First(&newest).Error; err != nil {
		return count, nil, err
	}
	return count, &newest.UpdatedAt, nil
}
