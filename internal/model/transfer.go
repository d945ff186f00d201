package model

import "time"

// Transfer is an append-only record of an equipment move between rooms.
type Transfer struct {
	ID             int64           `json:"id"`
	EquipmentID    string          `json:"equipment_id"`
	SerialNumber   string          `json:"serial_number"`
	FromRoomID     string          `json:"from_room_id"`
	ToRoomID       string          `json:"to_room_id"`
	PreviousStatus EquipmentStatus `json:"previous_status"`
	NewStatus      EquipmentStatus `json:"new_status"`
	TransferredAt  time.Time       `json:"transferred_at"`
	TransferredBy  *int64          `json:"transferred_by,omitempty"`

	// Joined fields (not always populated).
	FromRoomName string `json:"from_room_name,omitempty"`
	ToRoomName   string `json:"to_room_name,omitempty"`
}

// TransferFilter narrows a transfer listing. Zero values match everything.
type TransferFilter struct {
	EquipmentID string
	// RoomID matches transfers either out of or into the room.
	RoomID string
}
