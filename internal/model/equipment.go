package model

import "time"

// EquipmentStatus is the lifecycle status of a single piece of equipment.
type EquipmentStatus string

// Warehouse statuses.
const (
	StatusStored      EquipmentStatus = "stored"
	StatusMaintenance EquipmentStatus = "maintenance"
	StatusReplaced    EquipmentStatus = "replaced"
)

// Statuses for equipment in classrooms and offices.
const (
	StatusInUse           EquipmentStatus = "in-use"
	StatusNeedReplacement EquipmentStatus = "need-replacement"
)

// DeleteReason explains why an item was soft-deleted.
type DeleteReason string

// Delete reasons.
const (
	DeleteReasonBroken   DeleteReason = "broken"
	DeleteReasonObsolete DeleteReason = "obsolete"
	DeleteReasonOther    DeleteReason = "other"
)

// Valid reports whether r is a known delete reason.
func (r DeleteReason) Valid() bool {
	return r == DeleteReasonBroken || r == DeleteReasonObsolete || r == DeleteReasonOther
}

// Equipment is an individually tracked item identified by its serial number.
type Equipment struct {
	ID            string          `json:"id"`
	Model         string          `json:"model"`
	EquipmentType string          `json:"equipment_type"`
	SerialNumber  string          `json:"serial_number"`
	DateImported  string          `json:"date_imported"`
	Status        EquipmentStatus `json:"status"`
	RoomID        string          `json:"room_id"`
	DateAdded     time.Time       `json:"date_added"`
	LastUpdated   time.Time       `json:"last_updated"`
	DeleteReason  DeleteReason    `json:"delete_reason,omitempty"`
	DeleteNote    string          `json:"delete_note,omitempty"`
	HasImage      bool            `json:"has_image"`

	// Joined fields (not always populated).
	RoomName     string       `json:"room_name,omitempty"`
	BuildingType BuildingType `json:"building_type,omitempty"`
}

// Deleted reports whether the item is soft-deleted and waiting to be purged.
func (e *Equipment) Deleted() bool {
	return e.DeleteReason != ""
}

// EquipmentFilter narrows an equipment listing. Zero values match everything.
type EquipmentFilter struct {
	// Query matches model, equipment type, or serial number, ignoring case.
	Query        string
	Status       EquipmentStatus
	BuildingType BuildingType
	IDs          []string
	// Deleted selects active (false) or soft-deleted (true) items. Nil
	// selects both.
	Deleted *bool
}
