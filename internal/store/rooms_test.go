package store

import (
	"context"
	"testing"

	"github.com/honlab/equiptrack/internal/db"
	"github.com/honlab/equiptrack/internal/model"
)

var testRooms = []model.Room{
	{ID: "warehouse-1", Name: "HON Warehouse", BuildingType: model.BuildingWarehouse},
	{ID: "classroom-1-1", Name: "HON 101", BuildingType: model.BuildingClassroom},
	{ID: "office-1-9", Name: "HON 109", BuildingType: model.BuildingOffice},
}

func seedRooms(t *testing.T, q Querier) {
	t.Helper()
	if err := UpsertRooms(context.Background(), q, testRooms); err != nil {
		t.Fatalf("UpsertRooms: %v", err)
	}
}

func TestUpsertRooms(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedRooms(t, database)

	// Upserting again renames without duplicating.
	renamed := []model.Room{{ID: "classroom-1-1", Name: "HON 101A", BuildingType: model.BuildingClassroom}}
	if err := UpsertRooms(ctx, database, renamed); err != nil {
		t.Fatalf("UpsertRooms: %v", err)
	}

	rooms, err := ListRooms(ctx, database)
	if err != nil {
		t.Fatalf("ListRooms: %v", err)
	}
	if len(rooms) != 3 {
		t.Fatalf("expected 3 rooms, got %d", len(rooms))
	}
	if rooms[0].Name != "HON 101A" {
		t.Errorf("expected renamed room first, got %q", rooms[0].Name)
	}
}

func TestUpsertRoomsNameHeldByOtherID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedRooms(t, database)

	moved := []model.Room{{ID: "classroom-9-9", Name: "HON 101", BuildingType: model.BuildingClassroom}}
	if err := UpsertRooms(ctx, database, moved); err == nil {
		t.Fatal("expected error for a name held by another room")
	}

	r, err := FindRoomByName(ctx, database, "HON 101")
	if err != nil {
		t.Fatalf("FindRoomByName: %v", err)
	}
	if r == nil || r.ID != "classroom-1-1" {
		t.Errorf("expected the stored room to be untouched, got %+v", r)
	}
}

func TestFindRoomByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedRooms(t, database)

	r, err := FindRoomByName(ctx, database, "HON Warehouse")
	if err != nil {
		t.Fatalf("FindRoomByName: %v", err)
	}
	if r == nil || r.ID != "warehouse-1" || r.BuildingType != model.BuildingWarehouse {
		t.Errorf("unexpected room %+v", r)
	}

	r, err = FindRoomByName(ctx, database, "HON 999")
	if err != nil {
		t.Fatalf("FindRoomByName: %v", err)
	}
	if r != nil {
		t.Errorf("expected nil for unknown room, got %+v", r)
	}
}
