package store

import (
	"context"
	"testing"
	"time"

	"github.com/honlab/equiptrack/internal/db"
	"github.com/honlab/equiptrack/internal/model"
)

func TestRecordAndListTransfers(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	seedEquipment(t, database, newItem(1, "warehouse-1", model.StatusStored), newItem(2, "warehouse-1", model.StatusStored))

	user, err := CreateUser(ctx, database, "marta", "hash", model.RoleManager)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	first, err := RecordTransfer(ctx, database, model.Transfer{
		EquipmentID:    "item-1",
		SerialNumber:   "SN-001",
		FromRoomID:     "warehouse-1",
		ToRoomID:       "classroom-1-1",
		PreviousStatus: model.StatusStored,
		NewStatus:      model.StatusInUse,
		TransferredAt:  testTime,
		TransferredBy:  &user.ID,
	})
	if err != nil {
		t.Fatalf("RecordTransfer: %v", err)
	}
	if first.FromRoomName != "HON Warehouse" || first.ToRoomName != "HON 101" {
		t.Errorf("expected room names, got %q -> %q", first.FromRoomName, first.ToRoomName)
	}
	if first.TransferredBy == nil || *first.TransferredBy != user.ID {
		t.Errorf("expected transferred_by %d, got %v", user.ID, first.TransferredBy)
	}

	second, err := RecordTransfer(ctx, database, model.Transfer{
		EquipmentID:    "item-2",
		SerialNumber:   "SN-002",
		FromRoomID:     "warehouse-1",
		ToRoomID:       "office-1-9",
		PreviousStatus: model.StatusStored,
		NewStatus:      model.StatusInUse,
		TransferredAt:  testTime.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("RecordTransfer: %v", err)
	}
	if second.TransferredBy != nil {
		t.Errorf("expected no actor, got %v", *second.TransferredBy)
	}

	all, err := ListTransfers(ctx, database, model.TransferFilter{})
	if err != nil {
		t.Fatalf("ListTransfers: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", all)
	}

	byItem, _ := ListTransfers(ctx, database, model.TransferFilter{EquipmentID: "item-1"})
	if len(byItem) != 1 || byItem[0].ID != first.ID {
		t.Errorf("expected only item-1's transfer, got %+v", byItem)
	}

	byRoom, _ := ListTransfers(ctx, database, model.TransferFilter{RoomID: "warehouse-1"})
	if len(byRoom) != 2 {
		t.Errorf("room filter should match transfers out of the room, got %d", len(byRoom))
	}
	byRoom, _ = ListTransfers(ctx, database, model.TransferFilter{RoomID: "office-1-9"})
	if len(byRoom) != 1 {
		t.Errorf("room filter should match transfers into the room, got %d", len(byRoom))
	}
}

func TestTransfersOutlivePurge(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := newItem(1, "warehouse-1", model.StatusStored)
	item.DeleteReason = model.DeleteReasonBroken
	seedEquipment(t, database, item)

	if _, err := RecordTransfer(ctx, database, model.Transfer{
		EquipmentID: "item-1", SerialNumber: "SN-001",
		FromRoomID: "classroom-1-1", ToRoomID: "warehouse-1",
		PreviousStatus: model.StatusInUse, NewStatus: model.StatusStored,
		TransferredAt: testTime,
	}); err != nil {
		t.Fatalf("RecordTransfer: %v", err)
	}

	if n, err := DeleteEquipmentPermanently(ctx, database, []string{"item-1"}); err != nil || n != 1 {
		t.Fatalf("DeleteEquipmentPermanently: %d, %v", n, err)
	}

	history, err := ListTransfers(ctx, database, model.TransferFilter{EquipmentID: "item-1"})
	if err != nil {
		t.Fatalf("ListTransfers: %v", err)
	}
	if len(history) != 1 || history[0].SerialNumber != "SN-001" {
		t.Errorf("expected history to survive purge, got %+v", history)
	}
}
