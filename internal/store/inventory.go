package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/honlab/equiptrack/internal/inventory"
	"github.com/honlab/equiptrack/internal/model"
)

// Inventory is the SQLite-backed data store for the lifecycle engine.
type Inventory struct {
	db *sql.DB
	q  Querier
}

var _ inventory.Store = (*Inventory)(nil)

// NewInventory wraps a database for use by inventory.Service.
func NewInventory(db *sql.DB) *Inventory {
	return &Inventory{db: db, q: db}
}

// InTx runs fn against a store bound to a single transaction. The transaction
// is committed if fn returns nil and rolled back otherwise.
func (s *Inventory) InTx(ctx context.Context, fn func(tx inventory.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Inventory{db: s.db, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *Inventory) FetchAllEquipment(ctx context.Context) ([]model.Equipment, error) {
	return ListEquipment(ctx, s.q, model.EquipmentFilter{})
}

func (s *Inventory) ListEquipment(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error) {
	return ListEquipment(ctx, s.q, f)
}

func (s *Inventory) GetEquipment(ctx context.Context, id string) (*model.Equipment, error) {
	return GetEquipment(ctx, s.q, id)
}

func (s *Inventory) InsertEquipment(ctx context.Context, rows []model.Equipment) ([]model.Equipment, error) {
	return InsertEquipment(ctx, s.q, rows)
}

func (s *Inventory) UpdateEquipment(ctx context.Context, e model.Equipment) (*model.Equipment, error) {
	return UpdateEquipment(ctx, s.q, e)
}

func (s *Inventory) DeleteEquipmentPermanently(ctx context.Context, ids []string) (int, error) {
	return DeleteEquipmentPermanently(ctx, s.q, ids)
}

func (s *Inventory) SetEquipmentImage(ctx context.Context, id string, image []byte, mime string) error {
	return SetEquipmentImage(ctx, s.q, id, image, mime)
}

func (s *Inventory) GetEquipmentImage(ctx context.Context, id string) ([]byte, string, error) {
	return GetEquipmentImage(ctx, s.q, id)
}

func (s *Inventory) CountByBuildingType(ctx context.Context) (map[model.BuildingType]int, error) {
	return CountByBuildingType(ctx, s.q)
}

func (s *Inventory) RecordTransfer(ctx context.Context, t model.Transfer) (*model.Transfer, error) {
	return RecordTransfer(ctx, s.q, t)
}

func (s *Inventory) ListTransfers(ctx context.Context, f model.TransferFilter) ([]model.Transfer, error) {
	return ListTransfers(ctx, s.q, f)
}

func (s *Inventory) FindRoomByName(ctx context.Context, name string) (*model.Room, error) {
	return FindRoomByName(ctx, s.q, name)
}

func (s *Inventory) UpsertRooms(ctx context.Context, rooms []model.Room) error {
	return UpsertRooms(ctx, s.q, rooms)
}
