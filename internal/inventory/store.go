package inventory

import (
	"context"

	"github.com/honlab/equiptrack/internal/model"
)

// Store is the persistence collaborator of the Service. Implementations must
// make InTx atomic: either every write made through the transactional Store
// commits, or none does.
type Store interface {
	FetchAllEquipment(ctx context.Context) ([]model.Equipment, error)
	ListEquipment(ctx context.Context, f model.EquipmentFilter) ([]model.Equipment, error)
	// GetEquipment returns nil, nil when no item has the id.
	GetEquipment(ctx context.Context, id string) (*model.Equipment, error)
	InsertEquipment(ctx context.Context, rows []model.Equipment) ([]model.Equipment, error)
	UpdateEquipment(ctx context.Context, e model.Equipment) (*model.Equipment, error)
	// DeleteEquipmentPermanently removes soft-deleted items and returns how
	// many rows went away. Ids that no longer exist are ignored.
	DeleteEquipmentPermanently(ctx context.Context, ids []string) (int, error)
	SetEquipmentImage(ctx context.Context, id string, image []byte, mime string) error
	GetEquipmentImage(ctx context.Context, id string) ([]byte, string, error)
	CountByBuildingType(ctx context.Context) (map[model.BuildingType]int, error)

	RecordTransfer(ctx context.Context, t model.Transfer) (*model.Transfer, error)
	ListTransfers(ctx context.Context, f model.TransferFilter) ([]model.Transfer, error)

	FindRoomByName(ctx context.Context, name string) (*model.Room, error)
	UpsertRooms(ctx context.Context, rooms []model.Room) error

	InTx(ctx context.Context, fn func(tx Store) error) error
}
