// Package domain defines the persistence models for racks and status checks.
package domain

import "time"

// IdempotencyKey records the outcome of a previously processed rack creation,
// keyed by the client-supplied Idempotency-Key header. It enables safe retries
// of POST /racks: a replay within the TTL window returns the originally
// created rack without inserting a second record.
type IdempotencyKey struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_idempotency_key"`
	RackID    string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (IdempotencyKey) TableName() string { return "idempotency_keys" }
