package model

// BuildingType classifies a room and decides which status vocabulary applies to
// equipment located there.
type BuildingType string

// Building types.
const (
	BuildingWarehouse BuildingType = "warehouse"
	BuildingClassroom BuildingType = "classroom"
	BuildingOffice    BuildingType = "office"
)

// Valid reports whether t is a known building type.
func (t BuildingType) Valid() bool {
	switch t {
	case BuildingWarehouse, BuildingClassroom, BuildingOffice:
		return true
	}
	return false
}

// Room is a physical location that can hold equipment.
type Room struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	BuildingType BuildingType `json:"building_type"`
}
