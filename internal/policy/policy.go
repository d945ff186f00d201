// Package policy decides which equipment statuses are valid in which rooms and
// how a status changes when an item moves between rooms. Everything here is
// pure.
package policy

import "github.com/honlab/equiptrack/internal/model"

var (
	warehouseStatuses = []model.EquipmentStatus{
		model.StatusStored,
		model.StatusMaintenance,
		model.StatusReplaced,
	}
	usageStatuses = []model.EquipmentStatus{
		model.StatusInUse,
		model.StatusNeedReplacement,
	}
)

// EligibleStatuses returns the status vocabulary for a building type. Unknown
// building types have no valid statuses.
func EligibleStatuses(bt model.BuildingType) []model.EquipmentStatus {
	var src []model.EquipmentStatus
	switch bt {
	case model.BuildingWarehouse:
		src = warehouseStatuses
	case model.BuildingClassroom, model.BuildingOffice:
		src = usageStatuses
	default:
		return nil
	}
	out := make([]model.EquipmentStatus, len(src))
	copy(out, src)
	return out
}

// ValidStatus reports whether status belongs to the vocabulary of bt.
func ValidStatus(status model.EquipmentStatus, bt model.BuildingType) bool {
	for _, s := range EligibleStatuses(bt) {
		if s == status {
			return true
		}
	}
	return false
}

// KnownStatus reports whether status is in any vocabulary.
func KnownStatus(status model.EquipmentStatus) bool {
	return ValidStatus(status, model.BuildingWarehouse) || ValidStatus(status, model.BuildingClassroom)
}

// CanTransfer reports whether an item with the given status may leave a room
// of type from. Items in the warehouse leave only while stored or under
// maintenance; items elsewhere can always move.
func CanTransfer(status model.EquipmentStatus, from model.BuildingType) bool {
	if from != model.BuildingWarehouse {
		return true
	}
	return status == model.StatusStored || status == model.StatusMaintenance
}

// StatusOnTransfer computes the status an item takes when moved from a room of
// type from to a room of type to. Moves that keep the item on the same side of
// the warehouse boundary keep the status.
func StatusOnTransfer(current model.EquipmentStatus, from, to model.BuildingType) model.EquipmentStatus {
	fromWarehouse := from == model.BuildingWarehouse
	toWarehouse := to == model.BuildingWarehouse

	switch {
	case fromWarehouse && !toWarehouse:
		if current == model.StatusStored || current == model.StatusMaintenance {
			return model.StatusInUse
		}
	case !fromWarehouse && toWarehouse:
		switch current {
		case model.StatusInUse:
			return model.StatusStored
		case model.StatusNeedReplacement:
			return model.StatusReplaced
		}
	}
	return current
}
