package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/honlab/equiptrack/internal/model"
)

// UpsertRooms inserts rooms keyed by id, updating the name and building type
// of rooms that already exist. A name held by another id is an error.
func UpsertRooms(ctx context.Context, q Querier, rooms []model.Room) error {
	for _, r := range rooms {
		_, err := q.ExecContext(ctx,
			`INSERT INTO locations (id, room_name, building_type) VALUES (?, ?, ?)
			 ON CONFLICT (id) DO UPDATE SET room_name = excluded.room_name, building_type = excluded.building_type`,
			r.ID, r.Name, string(r.BuildingType),
		)
		if err != nil {
			return fmt.Errorf("upserting room %s: %w", r.Name, err)
		}
	}
	return nil
}

// FindRoomByName returns the stored room with the given name.
func FindRoomByName(ctx context.Context, q Querier, name string) (*model.Room, error) {
	r := &model.Room{}
	var bt string
	err := q.QueryRowContext(ctx,
		`SELECT id, room_name, building_type FROM locations WHERE room_name = ?`, name,
	).Scan(&r.ID, &r.Name, &bt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding room: %w", err)
	}
	r.BuildingType = model.BuildingType(bt)
	return r, nil
}

// ListRooms returns all stored rooms ordered by name.
func ListRooms(ctx context.Context, q Querier) ([]model.Room, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, room_name, building_type FROM locations ORDER BY room_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rooms: %w", err)
	}
	defer rows.Close()

	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		var bt string
		if err := rows.Scan(&r.ID, &r.Name, &bt); err != nil {
			return nil, fmt.Errorf("scanning room: %w", err)
		}
		r.BuildingType = model.BuildingType(bt)
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}
