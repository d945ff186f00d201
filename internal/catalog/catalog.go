// Package catalog holds the read-only registry of rooms equipment can be
// located in.
package catalog

import (
	"fmt"
	"strings"

	"github.com/honlab/equiptrack/internal/model"
)

// Catalog is an immutable, ordered set of rooms. Exactly one room is the
// warehouse.
type Catalog struct {
	rooms     []model.Room
	byID      map[string]int
	warehouse model.Room
}

// New builds a catalog from rooms. It fails on duplicate ids or names, unknown
// building types, and unless exactly one warehouse room is present.
func New(rooms []model.Room) (*Catalog, error) {
	c := &Catalog{
		rooms: make([]model.Room, len(rooms)),
		byID:  make(map[string]int, len(rooms)),
	}
	copy(c.rooms, rooms)

	names := make(map[string]bool, len(rooms))
	warehouses := 0
	for i, r := range c.rooms {
		if r.ID == "" || r.Name == "" {
			return nil, fmt.Errorf("room %d: id and name required", i)
		}
		if !r.BuildingType.Valid() {
			return nil, fmt.Errorf("room %s: unknown building type %q", r.ID, r.BuildingType)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate room id %s", r.ID)
		}
		if names[r.Name] {
			return nil, fmt.Errorf("duplicate room name %s", r.Name)
		}
		c.byID[r.ID] = i
		names[r.Name] = true
		if r.BuildingType == model.BuildingWarehouse {
			warehouses++
			c.warehouse = r
		}
	}
	if warehouses != 1 {
		return nil, fmt.Errorf("expected exactly one warehouse room, got %d", warehouses)
	}
	return c, nil
}

// Default returns the catalog for the standard building layout.
func Default() *Catalog {
	c, err := New(DefaultRooms())
	if err != nil {
		panic(fmt.Sprintf("default room layout: %v", err))
	}
	return c
}

// Warehouse returns the warehouse room.
func (c *Catalog) Warehouse() model.Room {
	return c.warehouse
}

// Rooms returns all rooms in catalog order.
func (c *Catalog) Rooms() []model.Room {
	out := make([]model.Room, len(c.rooms))
	copy(out, c.rooms)
	return out
}

// FindByID returns the room with the given id.
func (c *Catalog) FindByID(id string) (model.Room, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Room{}, false
	}
	return c.rooms[i], true
}

// FindByBuildingType returns the rooms of the given type in catalog order.
func (c *Catalog) FindByBuildingType(t model.BuildingType) []model.Room {
	var out []model.Room
	for _, r := range c.rooms {
		if r.BuildingType == t {
			out = append(out, r)
		}
	}
	return out
}

// Search returns rooms whose name contains query, ignoring case. An empty
// buildingType matches every type; an empty query matches every room.
func (c *Catalog) Search(query string, buildingType model.BuildingType) []model.Room {
	q := strings.ToUpper(strings.TrimSpace(query))
	var out []model.Room
	for _, r := range c.rooms {
		if buildingType != "" && r.BuildingType != buildingType {
			continue
		}
		if !strings.Contains(strings.ToUpper(r.Name), q) {
			continue
		}
		out = append(out, r)
	}
	return out
}
