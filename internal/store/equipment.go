package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/honlab/equiptrack/internal/model"
)

var equipmentColumns = []any{
	goqu.I("e.id"),
	goqu.I("e.model"),
	goqu.I("e.equipment_type"),
	goqu.I("e.serial_number"),
	goqu.I("e.date_imported"),
	goqu.I("e.status"),
	goqu.I("e.location_id"),
	goqu.I("e.date_added"),
	goqu.I("e.last_updated"),
	goqu.I("e.delete_reason"),
	goqu.I("e.delete_note"),
	goqu.L("e.image IS NOT NULL").As("has_image"),
	goqu.I("l.room_name"),
	goqu.I("l.building_type"),
}

// likeEscaper escapes LIKE wildcards so a search matches them literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsLike(col, pattern string) goqu.Expression {
	return goqu.L(`? LIKE ? ESCAPE '\'`, goqu.I(col), pattern)
}

// ListEquipment returns equipment matching the filter, oldest first.
func ListEquipment(ctx context.Context, q Querier, f model.EquipmentFilter) ([]model.Equipment, error) {
	ds := dialect.From(goqu.T("equipment").As("e")).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("e.location_id")))).
		Select(equipmentColumns...).
		Order(goqu.I("e.date_added").Asc(), goqu.I("e.serial_number").Asc())

	if f.Deleted != nil {
		if *f.Deleted {
			ds = ds.Where(goqu.I("e.delete_reason").IsNotNull())
		} else {
			ds = ds.Where(goqu.I("e.delete_reason").IsNull())
		}
	}
	if f.Status != "" {
		ds = ds.Where(goqu.I("e.status").Eq(string(f.Status)))
	}
	if f.BuildingType != "" {
		ds = ds.Where(goqu.I("l.building_type").Eq(string(f.BuildingType)))
	}
	if f.Query != "" {
		pattern := "%" + likeEscaper.Replace(f.Query) + "%"
		ds = ds.Where(goqu.Or(
			containsLike("e.model", pattern),
			containsLike("e.equipment_type", pattern),
			containsLike("e.serial_number", pattern),
		))
	}
	if len(f.IDs) > 0 {
		ds = ds.Where(goqu.I("e.id").In(f.IDs))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building equipment query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	defer rows.Close()

	var items []model.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func scanEquipment(rows *sql.Rows) (model.Equipment, error) {
	var e model.Equipment
	var status, buildingType string
	var reason, note sql.NullString
	err := rows.Scan(&e.ID, &e.Model, &e.EquipmentType, &e.SerialNumber, &e.DateImported,
		&status, &e.RoomID, &e.DateAdded, &e.LastUpdated, &reason, &note, &e.HasImage,
		&e.RoomName, &buildingType)
	if err != nil {
		return e, fmt.Errorf("scanning equipment: %w", err)
	}
	e.Status = model.EquipmentStatus(status)
	e.BuildingType = model.BuildingType(buildingType)
	e.DeleteReason = model.DeleteReason(reason.String)
	e.DeleteNote = note.String
	e.DateAdded = e.DateAdded.UTC()
	e.LastUpdated = e.LastUpdated.UTC()
	return e, nil
}

// GetEquipment returns a single item, including soft-deleted ones.
func GetEquipment(ctx context.Context, q Querier, id string) (*model.Equipment, error) {
	items, err := ListEquipment(ctx, q, model.EquipmentFilter{IDs: []string{id}})
	if err != nil {
		return nil, fmt.Errorf("getting equipment: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// InsertEquipment inserts all rows in one statement and returns them as stored.
func InsertEquipment(ctx context.Context, q Querier, items []model.Equipment) ([]model.Equipment, error) {
	if len(items) == 0 {
		return nil, nil
	}

	records := make([]any, 0, len(items))
	ids := make([]string, 0, len(items))
	for _, e := range items {
		records = append(records, goqu.Record{
			"id":             e.ID,
			"model":          e.Model,
			"equipment_type": e.EquipmentType,
			"serial_number":  e.SerialNumber,
			"date_imported":  e.DateImported,
			"status":         string(e.Status),
			"location_id":    e.RoomID,
			"date_added":     e.DateAdded.UTC(),
			"last_updated":   e.LastUpdated.UTC(),
			"delete_reason":  nullString(string(e.DeleteReason)),
			"delete_note":    nullString(e.DeleteNote),
		})
		ids = append(ids, e.ID)
	}

	query, args, err := dialect.Insert("equipment").Rows(records...).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building equipment insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting equipment: %w", err)
	}

	return ListEquipment(ctx, q, model.EquipmentFilter{IDs: ids})
}

// UpdateEquipment overwrites the mutable fields of an item and returns it as
// stored. It returns nil if no item has the given ID.
func UpdateEquipment(ctx context.Context, q Querier, e model.Equipment) (*model.Equipment, error) {
	result, err := q.ExecContext(ctx,
		`UPDATE equipment SET model = ?, equipment_type = ?, serial_number = ?, date_imported = ?,
		 status = ?, location_id = ?, last_updated = ?, delete_reason = ?, delete_note = ?
		 WHERE id = ?`,
		e.Model, e.EquipmentType, e.SerialNumber, e.DateImported,
		string(e.Status), e.RoomID, e.LastUpdated.UTC(),
		nullString(string(e.DeleteReason)), nullString(e.DeleteNote), e.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("updating equipment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("updating equipment: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return GetEquipment(ctx, q, e.ID)
}

// DeleteEquipmentPermanently removes soft-deleted items with the given IDs.
// Active items and unknown IDs are ignored, so repeating a call is a no-op.
func DeleteEquipmentPermanently(ctx context.Context, q Querier, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := dialect.Delete("equipment").
		Where(goqu.C("id").In(ids), goqu.C("delete_reason").IsNotNull()).
		Prepared(true).ToSQL()
	if err != nil {
		return 0, fmt.Errorf("building equipment delete: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purging equipment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging equipment: %w", err)
	}
	return int(n), nil
}

// SetEquipmentImage stores a photo for an item.
func SetEquipmentImage(ctx context.Context, q Querier, id string, image []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE equipment SET image = ?, image_mime = ? WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting equipment image: %w", err)
	}
	return nil
}

// GetEquipmentImage returns the photo of an item. Returns nil data if the item
// has no photo.
func GetEquipmentImage(ctx context.Context, q Querier, id string) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image, image_mime FROM equipment WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting equipment image: %w", err)
	}
	return data, mime.String, nil
}

// CountByBuildingType returns the number of active items per building type.
func CountByBuildingType(ctx context.Context, q Querier) (map[model.BuildingType]int, error) {
	query, args, err := dialect.From(goqu.T("equipment").As("e")).
		Join(goqu.T("locations").As("l"), goqu.On(goqu.I("l.id").Eq(goqu.I("e.location_id")))).
		Select(goqu.I("l.building_type"), goqu.COUNT(goqu.I("e.id"))).
		Where(goqu.I("e.delete_reason").IsNull()).
		GroupBy(goqu.I("l.building_type")).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("building equipment stats query: %w", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("counting equipment: %w", err)
	}
	defer rows.Close()

	counts := map[model.BuildingType]int{}
	for rows.Next() {
		var bt string
		var n int
		if err := rows.Scan(&bt, &n); err != nil {
			return nil, fmt.Errorf("scanning equipment count: %w", err)
		}
		counts[model.BuildingType(bt)] = n
	}
	return counts, rows.Err()
}
