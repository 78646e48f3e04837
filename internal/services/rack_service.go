// Package services – RackService
//
// This file implements the RackService, which manages the lifecycle of racks.
// It validates listing and search parameters, orchestrates repository calls,
// and shapes results for the transport layer: the paginated listing is
// grouped by floor (page size counts distinct floors, not rack records), and
// search responses carry a per-rack map of the items that matched the query.
//
// Service-level errors (e.g., ErrRackNotFound, ErrInvalidLimit) are returned
// for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
	"github.com/NamanHarbola/Rack-Management/internal/repo"
	"github.com/NamanHarbola/Rack-Management/internal/search"
)

// Floor-pagination bounds. The limit counts distinct floors per page.
const (
	DefaultPage  = 1
	DefaultLimit = 5
	MaxLimit     = 20
)

// RackRepo defines the repository contract required by RackService.
// Implementations are responsible for persistence of rack records; any
// backing store offering these operations can serve the service layer.
type RackRepo interface {
	// CreateRack inserts a new rack with a generated id and timestamps.
	CreateRack(ctx context.Context, db *gorm.DB, rackNumber, floor string, items []string) (*domain.Rack, error)

	// GetRack fetches a rack by id, returning repo.ErrNotFound when absent.
	GetRack(ctx context.Context, db *gorm.DB, id string) (*domain.Rack, error)

	// UpdateRack merges the present fields of patch and bumps updatedAt.
	UpdateRack(ctx context.Context, db *gorm.DB, id string, patch repo.RackUpdate) (*domain.Rack, error)

	// DeleteRack removes a rack, reporting whether anything was deleted.
	DeleteRack(ctx context.Context, db *gorm.DB, id string) (bool, error)

	// ListFloors returns all distinct floor values, sorted ascending.
	ListFloors(ctx context.Context, db *gorm.DB) ([]string, error)

	// ListRacksByFloors returns racks on the given floors, sorted by floor.
	ListRacksByFloors(ctx context.Context, db *gorm.DB, floors []string) ([]domain.Rack, error)

	// SearchRacks returns racks matching query as a literal substring.
	SearchRacks(ctx context.Context, db *gorm.DB, query string, limit int) ([]domain.Rack, error)
}

// SearchResult is the shaped outcome of a rack search: the matching racks
// plus, for each rack where at least one stored item contained the query, the
// exact items that matched (for UI highlighting). Racks matched only via
// rackNumber or floor appear in Racks but have no MatchedItems entry.
type SearchResult struct {
	Racks        []domain.Rack       `json:"racks"`
	MatchedItems map[string][]string `json:"matchedItems"`
}

// RackService provides rack-level operations: create, floor-paginated
// listing, point lookup, partial update, delete, and substring search.
type RackService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the rack repository used by this service.
	Repo RackRepo

	// SearchLimit caps the number of racks a single search may return.
	SearchLimit int
}

// NewRackService constructs a RackService with sane defaults.
func NewRackService(db *gorm.DB, r RackRepo) *RackService {
	return &RackService{
		DB:          db,
		Repo:        r,
		SearchLimit: 1000,
	}
}

// Create persists a new rack. Inputs are assumed non-empty (the transport
// layer enforces that); a nil items slice defaults to an empty sequence.
func (s *RackService) Create(ctx context.Context, rackNumber, floor string, items []string) (*domain.Rack, error) {
	if items == nil {
		items = []string{}
	}
	return s.Repo.CreateRack(ctx, s.DB, rackNumber, floor, items)
}

// Get returns the rack with the given id, or ErrRackNotFound.
func (s *RackService) Get(ctx context.Context, id string) (*domain.Rack, error) {
	r, err := s.Repo.GetRack(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRackNotFound
		}
		return nil, err
	}
	return r, nil
}

// Update applies a partial update to the rack with the given id and returns
// the refreshed record. An entirely empty patch is permitted; it still bumps
// updatedAt.
func (s *RackService) Update(ctx context.Context, id string, patch repo.RackUpdate) (*domain.Rack, error) {
	r, err := s.Repo.UpdateRack(ctx, s.DB, id, patch)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRackNotFound
		}
		return nil, err
	}
	return r, nil
}

// Delete removes the rack with the given id. Deleting an id that does not
// exist returns ErrRackNotFound, distinguishing "deleted" from "nothing to
// delete".
func (s *RackService) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.DeleteRack(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrRackNotFound
	}
	return nil
}

// ListByFloorPage returns one page of the floor-grouped listing. Pagination
// runs over distinct floors, not rack records: the page window is the slice
// [ (page-1)*limit, (page-1)*limit+limit ) of the ascending floor list, and
// every windowed floor appears as a key even when it currently holds no racks
// (a floor can be known via the distinct listing but momentarily empty in a
// race with a concurrent delete; that is accepted, not an error).
//
// A page beyond the available floors yields an empty map, which is the
// pagination termination signal for callers.
func (s *RackService) ListByFloorPage(ctx context.Context, page, limit int) (map[string][]domain.Rack, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if limit < 1 || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}

	floors, err := s.Repo.ListFloors(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	skip := (page - 1) * limit
	if skip >= len(floors) {
		return map[string][]domain.Rack{}, nil
	}
	end := skip + limit
	if end > len(floors) {
		end = len(floors)
	}
	window := floors[skip:end]

	racks, err := s.Repo.ListRacksByFloors(ctx, s.DB, window)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]domain.Rack, len(window))
	for _, f := range window {
		grouped[f] = []domain.Rack{}
	}
	for _, r := range racks {
		// Membership check guards against racks whose floor changed between
		// the distinct listing and the fetch.
		if _, ok := grouped[r.Floor]; ok {
			grouped[r.Floor] = append(grouped[r.Floor], r)
		}
	}
	return grouped, nil
}

// Search returns the racks matching query together with per-rack matched-item
// highlights. The query must be at least one character; matching is
// case-insensitive and always literal, so pattern metacharacters in the query
// have no special effect. The highlight pass is computed in memory
// independently of how the repository resolved recall.
func (s *RackService) Search(ctx context.Context, query string) (*SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	racks, err := s.Repo.SearchRacks(ctx, s.DB, query, s.SearchLimit)
	if err != nil {
		return nil, err
	}

	matched := make(map[string][]string)
	for _, r := range racks {
		if hits := search.MatchItems(r.Items, query); len(hits) > 0 {
			matched[r.ID] = hits
		}
	}
	if racks == nil {
		racks = []domain.Rack{}
	}
	return &SearchResult{Racks: racks, MatchedItems: matched}, nil
}
