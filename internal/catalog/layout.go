package catalog

import (
	"fmt"

	"github.com/honlab/equiptrack/internal/model"
)

// Building layout constants.
const (
	BuildingPrefix  = "HON"
	WarehouseID     = "warehouse-1"
	Floors          = 4
	RoomsPerFloor   = 12
	ClassroomsFloor = 8
)

// DefaultRooms generates the standard layout: one warehouse followed by every
// floor's rooms. On each floor the first ClassroomsFloor rooms are classrooms
// and the rest are offices.
func DefaultRooms() []model.Room {
	rooms := []model.Room{{
		ID:           WarehouseID,
		Name:         BuildingPrefix + " Warehouse",
		BuildingType: model.BuildingWarehouse,
	}}

	for floor := 1; floor <= Floors; floor++ {
		for n := 1; n <= RoomsPerFloor; n++ {
			bt := model.BuildingClassroom
			if n > ClassroomsFloor {
				bt = model.BuildingOffice
			}
			rooms = append(rooms, model.Room{
				ID:           fmt.Sprintf("%s-%d-%d", bt, floor, n),
				Name:         fmt.Sprintf("%s %d%02d", BuildingPrefix, floor, n),
				BuildingType: bt,
			})
		}
	}
	return rooms
}
