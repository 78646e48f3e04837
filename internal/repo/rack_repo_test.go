package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NamanHarbola/Rack-Management/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("rack_repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func TestCreateRack_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	r, err := CreateRack(context.Background(), db, "R001", "Ground Floor", nil)
	if err == nil || r != nil {
		t.Fatalf("expected error creating without table, got rack=%v err=%v", r, err)
	}
}

func TestCreateRack_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	r, err := CreateRack(context.Background(), db, "R001", "Ground Floor", []string{"Electronics", "Chargers"})
	if err != nil {
		t.Fatalf("CreateRack: %v", err)
	}
	if r.ID == "" {
		t.Fatalf("expected generated id")
	}
	if !r.CreatedAt.Equal(r.UpdatedAt) {
		t.Fatalf("createdAt != updatedAt on fresh rack: %v vs %v", r.CreatedAt, r.UpdatedAt)
	}

	got, err := GetRack(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("GetRack: %v", err)
	}
	if got.RackNumber != "R001" || got.Floor != "Ground Floor" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if !reflect.DeepEqual(got.Items, []string{"Electronics", "Chargers"}) {
		t.Fatalf("items mismatch: %#v", got.Items)
	}
}

func TestCreateRack_NilItems_StoredAsEmptySequence(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	r, err := CreateRack(context.Background(), db, "R002", "1st Floor", nil)
	if err != nil {
		t.Fatalf("CreateRack: %v", err)
	}
	got, err := GetRack(context.Background(), db, r.ID)
	if err != nil {
		t.Fatalf("GetRack: %v", err)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Fatalf("expected empty items slice, got %#v", got.Items)
	}
}

func TestCreateRack_DuplicateRackNumberAllowed(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	a, err := CreateRack(context.Background(), db, "R010", "2nd Floor", nil)
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	b, err := CreateRack(context.Background(), db, "R010", "2nd Floor", nil)
	if err != nil {
		t.Fatalf("second create with same rack number: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("expected distinct ids, got %q twice", a.ID)
	}
}

func TestGetRack_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	if _, err := GetRack(context.Background(), db, "missing-id"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateRack_PartialPreservesUntouchedFields(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	r, err := CreateRack(context.Background(), db, "R001", "Ground Floor", []string{"Cables"})
	if err != nil {
		t.Fatalf("CreateRack: %v", err)
	}

	items := []string{"Cables", "Adapters"}
	upd, err := UpdateRack(context.Background(), db, r.ID, RackUpdate{Items: &items})
	if err != nil {
		t.Fatalf("UpdateRack: %v", err)
	}
	if upd.RackNumber != "R001" || upd.Floor != "Ground Floor" {
		t.Fatalf("untouched fields changed: %+v", upd)
	}
	if !reflect.DeepEqual(upd.Items, items) {
		t.Fatalf("items not replaced: %#v", upd.Items)
	}
	if !upd.UpdatedAt.After(r.UpdatedAt) {
		t.Fatalf("updatedAt did not advance: %v -> %v", r.UpdatedAt, upd.UpdatedAt)
	}
	if !upd.CreatedAt.Equal(r.CreatedAt) {
		t.Fatalf("createdAt changed on update")
	}
}

func TestUpdateRack_EmptyPatchBumpsUpdatedAt(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	r, err := CreateRack(context.Background(), db, "R003", "3rd Floor", nil)
	if err != nil {
		t.Fatalf("CreateRack: %v", err)
	}
	upd, err := UpdateRack(context.Background(), db, r.ID, RackUpdate{})
	if err != nil {
		t.Fatalf("UpdateRack: %v", err)
	}
	if upd.RackNumber != r.RackNumber || upd.Floor != r.Floor {
		t.Fatalf("fields changed by empty patch: %+v", upd)
	}
	if !upd.UpdatedAt.After(r.UpdatedAt) {
		t.Fatalf("empty patch must still bump updatedAt")
	}
}

func TestUpdateRack_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	n := "R999"
	if _, err := UpdateRack(context.Background(), db, "missing-id", RackUpdate{RackNumber: &n}); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRack_Terminal(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})

	r, err := CreateRack(context.Background(), db, "R004", "4th Floor", nil)
	if err != nil {
		t.Fatalf("CreateRack: %v", err)
	}

	deleted, err := DeleteRack(context.Background(), db, r.ID)
	if err != nil || !deleted {
		t.Fatalf("first delete: deleted=%v err=%v", deleted, err)
	}

	// get after delete
	if _, err := GetRack(context.Background(), db, r.ID); err != ErrNotFound {
		t.Fatalf("get after delete: %v", err)
	}
	// update after delete
	if _, err := UpdateRack(context.Background(), db, r.ID, RackUpdate{}); err != ErrNotFound {
		t.Fatalf("update after delete: %v", err)
	}
	// delete after delete
	deleted, err = DeleteRack(context.Background(), db, r.ID)
	if err != nil || deleted {
		t.Fatalf("second delete: deleted=%v err=%v", deleted, err)
	}
}

func TestListFloors_DistinctSortedAscending(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	ctx := context.Background()

	for _, f := range []string{"2nd Floor", "Ground Floor", "1st Floor", "Ground Floor"} {
		if _, err := CreateRack(ctx, db, "R", f, nil); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	floors, err := ListFloors(ctx, db)
	if err != nil {
		t.Fatalf("ListFloors: %v", err)
	}
	want := []string{"1st Floor", "2nd Floor", "Ground Floor"}
	if !reflect.DeepEqual(floors, want) {
		t.Fatalf("floors = %v; want %v", floors, want)
	}
}

func TestListRacksByFloors_FilterAndOrder(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	ctx := context.Background()

	seed := []struct{ num, floor string }{
		{"R201", "2nd Floor"},
		{"R101", "1st Floor"},
		{"R102", "1st Floor"},
		{"R301", "3rd Floor"},
	}
	for _, s := range seed {
		if _, err := CreateRack(ctx, db, s.num, s.floor, nil); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	racks, err := ListRacksByFloors(ctx, db, []string{"1st Floor", "2nd Floor"})
	if err != nil {
		t.Fatalf("ListRacksByFloors: %v", err)
	}
	if len(racks) != 3 {
		t.Fatalf("expected 3 racks, got %d", len(racks))
	}
	for i := 1; i < len(racks); i++ {
		if racks[i-1].Floor > racks[i].Floor {
			t.Fatalf("not sorted by floor: %v", racks)
		}
	}

	empty, err := ListRacksByFloors(ctx, db, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty floor set: racks=%v err=%v", empty, err)
	}
}

func TestSearchRacks_SubstringRecall(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	ctx := context.Background()

	r1, err := CreateRack(ctx, db, "R001", "Ground Floor", []string{"Electronics", "Chargers"})
	if err != nil {
		t.Fatalf("seed r1: %v", err)
	}
	if _, err := CreateRack(ctx, db, "R002", "Ground Floor", []string{"Cables"}); err != nil {
		t.Fatalf("seed r2: %v", err)
	}

	// match via items, case-insensitive
	got, err := SearchRacks(ctx, db, "electronics", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 1 || got[0].ID != r1.ID {
		t.Fatalf("expected only r1, got %+v", got)
	}

	// match via rack number substring
	got, err = SearchRacks(ctx, db, "r00", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both racks for %q, got %d", "r00", len(got))
	}

	// match via floor
	got, err = SearchRacks(ctx, db, "ground", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both racks for %q, got %d", "ground", len(got))
	}

	// no match
	got, err = SearchRacks(ctx, db, "forklift", 0)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected no racks, got %v err=%v", got, err)
	}
}

func TestSearchRacks_MetacharactersAreLiteral(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	ctx := context.Background()

	weird, err := CreateRack(ctx, db, "R0*1", "Mezzanine", []string{"Boxes (large)"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := CreateRack(ctx, db, "R001", "Mezzanine", nil); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// "*" must not act as a wildcard: only the literal match returns.
	got, err := SearchRacks(ctx, db, "R0*1", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 1 || got[0].ID != weird.ID {
		t.Fatalf("metacharacter query must match literally, got %+v", got)
	}

	// "%" and "_" must not act as LIKE wildcards either.
	got, err = SearchRacks(ctx, db, "%", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("%% must be literal, matched %d racks", len(got))
	}

	// "(" in items matches literally.
	got, err = SearchRacks(ctx, db, "(large", 0)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 1 || got[0].ID != weird.ID {
		t.Fatalf("expected literal paren match, got %+v", got)
	}
}

func TestSearchRacks_LimitApplied(t *testing.T) {
	db := newRepoDB(t, &domain.Rack{})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := CreateRack(ctx, db, fmt.Sprintf("RK%d", i), "Basement", nil); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	got, err := SearchRacks(ctx, db, "RK", 3)
	if err != nil {
		t.Fatalf("SearchRacks: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("limit not applied: got %d", len(got))
	}
}
