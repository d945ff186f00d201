package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/honlab/equiptrack/internal/model"
)

// RecordTransfer appends a transfer to the log.
func RecordTransfer(ctx context.Context, q Querier, t model.Transfer) (*model.Transfer, error) {
	var by sql.NullInt64
	if t.TransferredBy != nil {
		by = sql.NullInt64{Int64: *t.TransferredBy, Valid: true}
	}

	result, err := q.ExecContext(ctx,
		`INSERT INTO transfers (equipment_id, serial_number, from_location_id, to_location_id,
		 previous_status, new_status, transferred_at, transferred_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.EquipmentID, t.SerialNumber, t.FromRoomID, t.ToRoomID,
		string(t.PreviousStatus), string(t.NewStatus), t.TransferredAt.UTC(), by,
	)
	if err != nil {
		return nil, fmt.Errorf("recording transfer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting transfer id: %w", err)
	}

	transfers, err := ListTransfers(ctx, q, model.TransferFilter{}, id)
	if err != nil {
		return nil, err
	}
	if len(transfers) == 0 {
		return nil, fmt.Errorf("recorded transfer %d not found", id)
	}
	return &transfers[0], nil
}

// ListTransfers returns transfers newest first. If ids are given, only those
// transfers are returned.
func ListTransfers(ctx context.Context, q Querier, f model.TransferFilter, ids ...int64) ([]model.Transfer, error) {
	ds := dialect.From(goqu.T("transfers").As("t")).
		Join(goqu.T("locations").As("fl"), goqu.On(goqu.I("fl.id").Eq(goqu.I("t.from_location_id")))).
		Join(goqu.T("locations").As("tl"), goqu.On(goqu.I("tl.id").Eq(goqu.I("t.to_location_id")))).
		Select(
			goqu.I("t.id"), goqu.I("t.equipment_id"), goqu.I("t.serial_number"),
			goqu.I("t.from_location_id"), goqu.I("t.to_location_id"),
			goqu.I("t.previous_status"), goqu.I("t.new_status"),
			goqu.I("t.transferred_at"), goqu.I("t.transferred_by"),
			goqu.I("fl.room_name"), goqu.I("tl.room_name"),
		).
		Order(goqu.I("t.transferred_at").Desc(), goqu.I("t.id").Desc())

	if f.EquipmentID != "" {
		ds = ds.Where(goqu.I("t.equipment_id").Eq(f.EquipmentID))
	}
	if f.RoomID != "" {
		ds = ds.Where(goqu.Or(
			goqu.I("t.from_location_id").Eq(f.RoomID),
			goqu.I("t.to_location_id").Eq(f.RoomID),
		))
	}
	if len(ids) > 0 {
		ds = ds.Where(goqu.I("t.id").In(ids))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building transfer query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transfers: %w", err)
	}
	defer rows.Close()

	var transfers []model.Transfer
	for rows.Next() {
		var t model.Transfer
		var prev, next string
		var by sql.NullInt64
		if err := rows.Scan(&t.ID, &t.EquipmentID, &t.SerialNumber, &t.FromRoomID, &t.ToRoomID,
			&prev, &next, &t.TransferredAt, &by, &t.FromRoomName, &t.ToRoomName); err != nil {
			return nil, fmt.Errorf("scanning transfer: %w", err)
		}
		t.PreviousStatus = model.EquipmentStatus(prev)
		t.NewStatus = model.EquipmentStatus(next)
		t.TransferredAt = t.TransferredAt.UTC()
		if by.Valid {
			t.TransferredBy = &by.Int64
		}
		transfers = append(transfers, t)
	}
	return transfers, rows.Err()
}
