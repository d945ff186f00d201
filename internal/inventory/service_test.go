package inventory_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honlab/equiptrack/internal/catalog"
	"github.com/honlab/equiptrack/internal/db"
	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/model"
	"github.com/honlab/equiptrack/internal/policy"
	"github.com/honlab/equiptrack/internal/retention"
	"github.com/honlab/equiptrack/internal/store"
)

const (
	classroom = "classroom-1-1"
	office    = "office-2-10"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time          { return c.t }
func (c *clock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newService(t *testing.T) (*inventory.Service, *clock) {
	t.Helper()
	svc, clk, _ := newServiceDB(t)
	return svc, clk
}

// newServiceDB also returns the database, for tests that seed users.
func newServiceDB(t *testing.T) (*inventory.Service, *clock, *sql.DB) {
	t.Helper()
	database := db.NewTestDB(t)
	clk := &clock{t: time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)}
	svc := inventory.NewService(
		store.NewInventory(database),
		catalog.Default(),
		inventory.WithClock(clk.Now),
		inventory.WithPurgeChunkSize(2),
	)
	require.NoError(t, svc.SyncRooms(context.Background()))
	return svc, clk, database
}

func laptops() inventory.NewEquipment {
	return inventory.NewEquipment{Model: "ThinkPad T14", EquipmentType: "Laptop", DateImported: "09/2025"}
}

func createOne(t *testing.T, svc *inventory.Service, serial string) model.Equipment {
	t.Helper()
	items, err := svc.Create(context.Background(), laptops(), []string{serial})
	require.NoError(t, err)
	require.Len(t, items, 1)
	return items[0]
}

func validationIssues(t *testing.T, err error) []inventory.Issue {
	t.Helper()
	var verr *inventory.ValidationError
	require.ErrorAs(t, err, &verr)
	return verr.Issues
}

func TestCreatePlacesItemsInWarehouse(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	items, err := svc.Create(ctx, laptops(), []string{"SN-1", " SN-2 "})
	require.NoError(t, err)
	require.Len(t, items, 2)

	for _, e := range items {
		assert.Equal(t, model.StatusStored, e.Status)
		assert.Equal(t, catalog.WarehouseID, e.RoomID)
		assert.Equal(t, model.BuildingWarehouse, e.BuildingType)
		assert.Equal(t, "HON Warehouse", e.RoomName)
		assert.True(t, e.DateAdded.Equal(clk.Now()))
		assert.True(t, e.LastUpdated.Equal(clk.Now()))
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Deleted())
	}
	assert.ElementsMatch(t, []string{"SN-1", "SN-2"}, []string{items[0].SerialNumber, items[1].SerialNumber})
}

func TestCreateRejectsDuplicateSerialsInBatch(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, laptops(), []string{"A", "B", "A"})
	require.ErrorIs(t, err, inventory.ErrValidation)

	issues := validationIssues(t, err)
	var flagged []int
	for _, is := range issues {
		flagged = append(flagged, is.Index)
	}
	assert.Equal(t, []int{0, 2}, flagged)

	all, err := svc.List(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "nothing may be created from a rejected batch")
}

func TestCreateRejectsExistingSerial(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	createOne(t, svc, "SN-100")

	_, err := svc.Create(ctx, laptops(), []string{"SN-101", "SN-100"})
	issues := validationIssues(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].Index)
	assert.Equal(t, "serial_number", issues[0].Field)

	// Matching is exact and case-sensitive.
	_, err = svc.Create(ctx, laptops(), []string{"sn-100"})
	assert.NoError(t, err)
}

func TestCreateValidatesCommonFields(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		common  inventory.NewEquipment
		serials []string
		field   string
	}{
		{"missing model", inventory.NewEquipment{EquipmentType: "Laptop", DateImported: "01/2024"}, []string{"X"}, "model"},
		{"missing type", inventory.NewEquipment{Model: "M", DateImported: "01/2024"}, []string{"X"}, "equipment_type"},
		{"bad month", inventory.NewEquipment{Model: "M", EquipmentType: "T", DateImported: "13/2024"}, []string{"X"}, "date_imported"},
		{"bad format", inventory.NewEquipment{Model: "M", EquipmentType: "T", DateImported: "2024-01"}, []string{"X"}, "date_imported"},
		{"no serials", laptops(), nil, "serial_numbers"},
		{"blank serial", laptops(), []string{"  "}, "serial_number"},
		{"too many", laptops(), make([]string, inventory.MaxCreateBatch+1), "serial_numbers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.common, tt.serials)
			issues := validationIssues(t, err)
			require.NotEmpty(t, issues)
			assert.Equal(t, tt.field, issues[0].Field)
		})
	}
}

func TestTransferRoundTrip(t *testing.T) {
	svc, clk, database := newServiceDB(t)
	ctx := context.Background()
	clerk, err := store.CreateUser(ctx, database, "clerk", "hash", model.RoleManager)
	require.NoError(t, err)
	a := createOne(t, svc, "A")

	clk.Advance(time.Hour)
	out, err := svc.Transfer(inventory.WithActor(ctx, clerk.ID), a.ID, classroom)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInUse, out.Equipment.Status)
	assert.Equal(t, classroom, out.Equipment.RoomID)
	assert.True(t, out.Equipment.LastUpdated.Equal(clk.Now()))
	assert.Equal(t, catalog.WarehouseID, out.Transfer.FromRoomID)
	assert.Equal(t, classroom, out.Transfer.ToRoomID)
	assert.Equal(t, model.StatusStored, out.Transfer.PreviousStatus)
	assert.Equal(t, model.StatusInUse, out.Transfer.NewStatus)
	assert.Equal(t, "A", out.Transfer.SerialNumber)
	require.NotNil(t, out.Transfer.TransferredBy)
	assert.Equal(t, clerk.ID, *out.Transfer.TransferredBy)

	history, err := svc.History(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)

	back, err := svc.Transfer(ctx, a.ID, catalog.WarehouseID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStored, back.Equipment.Status)
	assert.Nil(t, back.Transfer.TransferredBy)

	history, err = svc.History(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTransferMaintenanceDoesNotRoundTrip(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")

	_, err := svc.ChangeStatusBatch(ctx, []string{a.ID}, model.StatusMaintenance)
	require.NoError(t, err)

	out, err := svc.Transfer(ctx, a.ID, office)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInUse, out.Equipment.Status)

	back, err := svc.Transfer(ctx, a.ID, catalog.WarehouseID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusStored, back.Equipment.Status, "maintenance is not restored")
}

func TestReplacedItemCannotLeaveWarehouse(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	b := createOne(t, svc, "B")

	_, err := svc.Transfer(ctx, b.ID, classroom)
	require.NoError(t, err)
	_, err = svc.ChangeStatusBatch(ctx, []string{b.ID}, model.StatusNeedReplacement)
	require.NoError(t, err)

	back, err := svc.Transfer(ctx, b.ID, catalog.WarehouseID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusReplaced, back.Equipment.Status)

	_, err = svc.Transfer(ctx, b.ID, classroom)
	require.ErrorIs(t, err, inventory.ErrValidation)

	got, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.WarehouseID, got.RoomID)
	assert.Equal(t, model.StatusReplaced, got.Status)

	history, err := svc.History(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTransferErrors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")

	_, err := svc.Transfer(ctx, a.ID, "classroom-9-9")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	_, err = svc.Transfer(ctx, "missing", classroom)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	_, err = svc.Transfer(ctx, a.ID, catalog.WarehouseID)
	issues := validationIssues(t, err)
	assert.Equal(t, -1, issues[0].Index)
}

func TestTransferBatchIsAllOrNothing(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	items, err := svc.Create(ctx, laptops(), []string{"1", "2", "3"})
	require.NoError(t, err)
	// Item 3 ends up replaced in the warehouse and cannot leave.
	_, err = svc.Transfer(ctx, items[2].ID, classroom)
	require.NoError(t, err)
	_, err = svc.ChangeStatusBatch(ctx, []string{items[2].ID}, model.StatusNeedReplacement)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, items[2].ID, catalog.WarehouseID)
	require.NoError(t, err)

	ids := []string{items[0].ID, items[1].ID, items[2].ID}
	_, err = svc.TransferBatch(ctx, ids, office)
	issues := validationIssues(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].Index)

	for _, id := range ids[:2] {
		e, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, catalog.WarehouseID, e.RoomID)
		h, err := svc.History(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, h)
	}

	results, err := svc.TransferBatch(ctx, ids[:2], office)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, office, r.Equipment.RoomID)
		assert.Equal(t, model.StatusInUse, r.Equipment.Status)
	}

	log, err := svc.Transfers(ctx, model.TransferFilter{RoomID: office})
	require.NoError(t, err)
	assert.Len(t, log, 2)
}

func TestTransferBatchRejectsRepeatedIDs(t *testing.T) {
	svc, _ := newService(t)
	a := createOne(t, svc, "A")

	_, err := svc.TransferBatch(context.Background(), []string{a.ID, a.ID}, classroom)
	issues := validationIssues(t, err)
	assert.Equal(t, 1, issues[0].Index)
}

func TestEdit(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")
	createOne(t, svc, "B")

	clk.Advance(time.Minute)
	newModel := "ThinkPad T16"
	maint := model.StatusMaintenance
	got, err := svc.Edit(ctx, a.ID, inventory.EditFields{Model: &newModel, Status: &maint})
	require.NoError(t, err)
	assert.Equal(t, newModel, got.Model)
	assert.Equal(t, model.StatusMaintenance, got.Status)
	assert.True(t, got.LastUpdated.Equal(clk.Now()))

	dup := "B"
	_, err = svc.Edit(ctx, a.ID, inventory.EditFields{SerialNumber: &dup})
	assert.ErrorIs(t, err, inventory.ErrValidation)

	same := "A"
	_, err = svc.Edit(ctx, a.ID, inventory.EditFields{SerialNumber: &same})
	assert.NoError(t, err)

	inUse := model.StatusInUse
	_, err = svc.Edit(ctx, a.ID, inventory.EditFields{Status: &inUse})
	issues := validationIssues(t, err)
	assert.Equal(t, "status", issues[0].Field)

	badDate := "2025"
	_, err = svc.Edit(ctx, a.ID, inventory.EditFields{DateImported: &badDate})
	assert.ErrorIs(t, err, inventory.ErrValidation)

	_, err = svc.Edit(ctx, "missing", inventory.EditFields{Model: &newModel})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestDeleteRequiresWarehouse(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")
	_, err := svc.Transfer(ctx, a.ID, classroom)
	require.NoError(t, err)

	for _, reason := range []model.DeleteReason{model.DeleteReasonBroken, model.DeleteReasonObsolete, model.DeleteReasonOther} {
		_, err := svc.Delete(ctx, a.ID, reason, "note")
		assert.ErrorIs(t, err, inventory.ErrValidation, "reason %s", reason)
	}

	deleted, err := svc.ListSoftDeleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestDeleteValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")

	_, err := svc.Delete(ctx, a.ID, "lost", "")
	assert.ErrorIs(t, err, inventory.ErrValidation)

	_, err = svc.Delete(ctx, a.ID, model.DeleteReasonOther, "   ")
	issues := validationIssues(t, err)
	assert.Equal(t, "note", issues[0].Field)

	_, err = svc.Delete(ctx, "missing", model.DeleteReasonBroken, "")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	got, err := svc.Delete(ctx, a.ID, model.DeleteReasonOther, "damaged screen")
	require.NoError(t, err)
	assert.True(t, got.Deleted())
	assert.Equal(t, "damaged screen", got.DeleteNote)

	_, err = svc.Delete(ctx, a.ID, model.DeleteReasonBroken, "")
	assert.ErrorIs(t, err, inventory.ErrValidation, "already deleted")

	_, err = svc.Transfer(ctx, a.ID, classroom)
	assert.ErrorIs(t, err, inventory.ErrValidation, "deleted items do not move")

	active, err := svc.List(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDeleteBatchSkipsIneligible(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	items, err := svc.Create(ctx, laptops(), []string{"1", "2", "3"})
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, items[1].ID, classroom)
	require.NoError(t, err)

	res, err := svc.DeleteBatch(ctx, []string{items[0].ID, items[1].ID, items[2].ID, "missing"}, model.DeleteReasonObsolete, "")
	require.NoError(t, err)
	require.Len(t, res.Deleted, 2)
	assert.Equal(t, []string{items[1].ID, "missing"}, res.Skipped)

	deleted, err := svc.ListSoftDeleted(ctx)
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	_, err = svc.DeleteBatch(ctx, []string{items[0].ID}, model.DeleteReasonOther, "")
	assert.ErrorIs(t, err, inventory.ErrValidation)
}

func TestChangeStatusBatchRejectsMixedStatuses(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()

	items, err := svc.Create(ctx, laptops(), []string{"1", "2"})
	require.NoError(t, err)
	_, err = svc.ChangeStatusBatch(ctx, []string{items[1].ID}, model.StatusMaintenance)
	require.NoError(t, err)

	before, err := svc.List(ctx, model.EquipmentFilter{})
	require.NoError(t, err)

	clk.Advance(time.Hour)
	_, err = svc.ChangeStatusBatch(ctx, []string{items[0].ID, items[1].ID}, model.StatusReplaced)
	require.ErrorIs(t, err, inventory.ErrValidation)

	after, err := svc.List(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, before, after, "no item may change")
}

func TestChangeStatusBatchChecksVocabulary(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	items, err := svc.Create(ctx, laptops(), []string{"1", "2"})
	require.NoError(t, err)
	ids := []string{items[0].ID, items[1].ID}

	_, err = svc.ChangeStatusBatch(ctx, ids, model.StatusInUse)
	assert.ErrorIs(t, err, inventory.ErrValidation)

	_, err = svc.ChangeStatusBatch(ctx, ids, "lost")
	assert.ErrorIs(t, err, inventory.ErrValidation)

	changed, err := svc.ChangeStatusBatch(ctx, ids, model.StatusReplaced)
	require.NoError(t, err)
	for _, e := range changed {
		assert.Equal(t, model.StatusReplaced, e.Status)
	}
}

func TestStatusAlwaysValidForRoom(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	items, err := svc.Create(ctx, laptops(), []string{"1", "2", "3", "4"})
	require.NoError(t, err)
	_, err = svc.TransferBatch(ctx, []string{items[0].ID, items[1].ID}, classroom)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, items[2].ID, office)
	require.NoError(t, err)
	_, err = svc.ChangeStatusBatch(ctx, []string{items[0].ID}, model.StatusNeedReplacement)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, items[0].ID, catalog.WarehouseID)
	require.NoError(t, err)

	all, err := svc.List(ctx, model.EquipmentFilter{})
	require.NoError(t, err)
	for _, e := range all {
		assert.True(t, policy.ValidStatus(e.Status, e.BuildingType), "%s has %s in a %s", e.SerialNumber, e.Status, e.BuildingType)
	}
}

func TestListFiltersAndStats(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, inventory.NewEquipment{Model: "Dell U2720Q", EquipmentType: "Monitor", DateImported: "02/2024"}, []string{"MON-1", "MON-2"})
	require.NoError(t, err)
	laptop := createOne(t, svc, "LAP-1")
	_, err = svc.Transfer(ctx, laptop.ID, classroom)
	require.NoError(t, err)

	got, err := svc.List(ctx, model.EquipmentFilter{Query: "monitor"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(ctx, model.EquipmentFilter{Query: "lap"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, model.EquipmentFilter{BuildingType: model.BuildingClassroom})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "LAP-1", got[0].SerialNumber)

	got, err = svc.List(ctx, model.EquipmentFilter{Status: model.StatusStored})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = svc.List(ctx, model.EquipmentFilter{Status: "lost"})
	assert.ErrorIs(t, err, inventory.ErrValidation)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[model.BuildingType]int{
		model.BuildingWarehouse: 2,
		model.BuildingClassroom: 1,
		model.BuildingOffice:    0,
	}, stats)
}

func TestPurgeFixedWindow(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()
	c := createOne(t, svc, "C")
	keep := createOne(t, svc, "KEEP")

	_, err := svc.Delete(ctx, c.ID, model.DeleteReasonOther, "damaged screen")
	require.NoError(t, err)
	deletedAt := clk.Now()
	window := retention.FixedWindow{Days: 3}

	clk.t = deletedAt.Add(48 * time.Hour)
	res, err := svc.PurgeExpired(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Purged)

	clk.t = deletedAt.Add(72*time.Hour + time.Second)
	res, err = svc.PurgeExpired(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Purged)

	res, err = svc.PurgeExpired(ctx, window)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Purged, "second run is a no-op")

	_, err = svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
	_, err = svc.Get(ctx, keep.ID)
	assert.NoError(t, err)
}

func TestPurgeWeeklyCutoff(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()
	// 2026-03-04 is a Wednesday.
	items, err := svc.Create(ctx, laptops(), []string{"1", "2", "3", "4", "5"})
	require.NoError(t, err)
	ids := make([]string, len(items))
	for i, e := range items {
		ids[i] = e.ID
	}
	_, err = svc.DeleteBatch(ctx, ids, model.DeleteReasonBroken, "")
	require.NoError(t, err)

	cutoff := retention.WeeklyCutoff{Weekday: time.Sunday, Hour: 23, Minute: 59, Location: time.UTC}

	clk.t = time.Date(2026, 3, 8, 23, 58, 0, 0, time.UTC)
	res, err := svc.PurgeExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Purged)

	clk.t = time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC)
	res, err = svc.PurgeExpired(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Purged, "purged across chunks")

	deleted, err := svc.ListSoftDeleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)
}

func TestHistorySurvivesPurge(t *testing.T) {
	svc, clk := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")
	_, err := svc.Transfer(ctx, a.ID, classroom)
	require.NoError(t, err)
	_, err = svc.Transfer(ctx, a.ID, catalog.WarehouseID)
	require.NoError(t, err)
	_, err = svc.Delete(ctx, a.ID, model.DeleteReasonObsolete, "")
	require.NoError(t, err)

	clk.Advance(4 * 24 * time.Hour)
	res, err := svc.PurgeExpired(ctx, retention.FixedWindow{Days: 3})
	require.NoError(t, err)
	require.Equal(t, 1, res.Purged)

	history, err := svc.History(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "A", history[0].SerialNumber)
}

func TestImages(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	a := createOne(t, svc, "A")

	_, _, err := svc.Image(ctx, a.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	err = svc.SetImage(ctx, a.ID, bytes.NewReader([]byte("not an image")))
	assert.True(t, errors.Is(err, inventory.ErrValidation))

	require.NoError(t, svc.SetImage(ctx, a.ID, bytes.NewReader(testPNG(t))))
	data, mime, err := svc.Image(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.NotEmpty(t, data)

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.HasImage)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		for y := 0; y < 30; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
