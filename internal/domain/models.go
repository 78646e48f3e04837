// Package domain defines the persistence models for racks and status checks.
// These types are mapped with GORM and form the core data layer of the rack
// management application.
package domain

import "time"

// Rack represents a physical storage rack on a floor, holding an ordered list
// of item names. Racks are the sole first-class entity of the system.
//
// Fields:
//   - ID: stable UUID primary key (char(36)), assigned once at creation and
//     never reused after deletion.
//   - RackNumber: free-form rack label; indexed but not unique.
//   - Floor: free-form floor label; indexed, used as the grouping key for the
//     floor-paginated listing.
//   - Items: ordered item names, duplicates allowed, may be empty. Stored as
//     a JSON array in a single text column (serializer:json).
//   - CreatedAt: set once at creation, never modified.
//   - UpdatedAt: set at creation and refreshed on every successful update.
//
// JSON field names follow the external API contract (camelCase), which the
// front-end depends on.
type Rack struct {
	ID         string    `json:"id"         gorm:"type:char(36);primaryKey"`
	RackNumber string    `json:"rackNumber" gorm:"type:varchar(64);not null;index:idx_racks_rack_number"`
	Floor      string    `json:"floor"      gorm:"type:varchar(128);not null;index:idx_racks_floor"`
	Items      []string  `json:"items"      gorm:"type:text;not null;serializer:json"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TableName returns the database table name for Rack.
func (Rack) TableName() string { return "racks" }

// StatusCheck is a legacy append-only ping log entry. It has no relationship
// to Rack and no lifecycle beyond create and list-all; it is preserved for
// interface completeness with older clients.
type StatusCheck struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	ClientName string    `json:"client_name" gorm:"type:varchar(128);not null"`
	Timestamp  time.Time `json:"timestamp"`
}

// TableName returns the database table name for StatusCheck.
func (StatusCheck) TableName() string { return "status_checks" }
