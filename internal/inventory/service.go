// Package inventory is the equipment lifecycle engine. It validates every
// mutation against the room catalog and the status policy, and applies it
// through a Store.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/honlab/equiptrack/internal/catalog"
	"github.com/honlab/equiptrack/internal/metrics"
	"github.com/honlab/equiptrack/internal/model"
)

// DefaultPurgeChunkSize is how many items one purge statement removes.
const DefaultPurgeChunkSize = 50

// Service runs lifecycle operations. It is safe for concurrent use as far as
// its Store is.
type Service struct {
	store      Store
	catalog    *catalog.Catalog
	now        func() time.Time
	metrics    *metrics.Metrics
	purgeChunk int
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics records lifecycle events on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPurgeChunkSize sets how many items are purged per store call.
func WithPurgeChunkSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.purgeChunk = n
		}
	}
}

// NewService creates a Service over store and the rooms in cat.
func NewService(store Store, cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{
		store:      store,
		catalog:    cat,
		now:        time.Now,
		purgeChunk: DefaultPurgeChunkSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Catalog returns the rooms the service places equipment in.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

type actorKey struct{}

// WithActor returns a context that attributes transfers to a user.
func WithActor(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, actorKey{}, userID)
}

func actorFrom(ctx context.Context) *int64 {
	id, ok := ctx.Value(actorKey{}).(int64)
	if !ok {
		return nil
	}
	return &id
}

// SyncRooms writes the catalog to the store and checks that the warehouse can
// be resolved by name afterwards.
func (s *Service) SyncRooms(ctx context.Context) error {
	if err := s.store.UpsertRooms(ctx, s.catalog.Rooms()); err != nil {
		return storeErr("syncing rooms", err)
	}

	wh := s.catalog.Warehouse()
	got, err := s.store.FindRoomByName(ctx, wh.Name)
	if err != nil {
		return storeErr("syncing rooms", err)
	}
	if got == nil || got.ID != wh.ID {
		return &NotFoundError{Kind: "room", ID: wh.Name}
	}

	slog.Info("rooms synced", "rooms", len(s.catalog.Rooms()), "warehouse", wh.Name)
	return nil
}

// buildingType resolves the building type of the room an item is in. Rooms
// that are no longer in the catalog fall back to the stored type.
func (s *Service) buildingType(e *model.Equipment) model.BuildingType {
	if r, ok := s.catalog.FindByID(e.RoomID); ok {
		return r.BuildingType
	}
	return e.BuildingType
}

// load fetches one item or fails with NotFoundError.
func (s *Service) load(ctx context.Context, st Store, id string) (*model.Equipment, error) {
	e, err := st.GetEquipment(ctx, id)
	if err != nil {
		return nil, storeErr("loading equipment", err)
	}
	if e == nil {
		return nil, &NotFoundError{Kind: "equipment", ID: id}
	}
	return e, nil
}

// loadAll fetches the items with the given ids, keyed by id. Any unknown id
// fails the whole call.
func (s *Service) loadAll(ctx context.Context, st Store, ids []string) (map[string]*model.Equipment, error) {
	items, err := st.ListEquipment(ctx, model.EquipmentFilter{IDs: ids})
	if err != nil {
		return nil, storeErr("loading equipment", err)
	}
	byID := make(map[string]*model.Equipment, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, &NotFoundError{Kind: "equipment", ID: id}
		}
	}
	return byID, nil
}

// checkIDs rejects empty selections and repeated ids.
func checkIDs(ids []string) error {
	if len(ids) == 0 {
		return invalid("ids", "at least one item must be selected")
	}
	var issues []Issue
	seen := make(map[string]bool, len(ids))
	for i, id := range ids {
		if id == "" {
			issues = append(issues, Issue{Index: i, Field: "id", Message: "required"})
			continue
		}
		if seen[id] {
			issues = append(issues, Issue{Index: i, Field: "id", Message: "selected more than once"})
		}
		seen[id] = true
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
