package model

import (
	"fmt"
	"time"
)

// User is a staff account. Users sign the transfers they perform.
type User struct {
	ID           int64      `json:"id"`
	Username     string     `json:"username"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Roles. Users can browse, managers can change equipment, admins also manage
// accounts.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var roleLevels = map[string]int{
	RoleUser:    1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	return roleLevels[role] > 0
}

// RoleAtLeast reports whether role meets or exceeds minimum. Unknown roles
// never do.
func RoleAtLeast(role, minimum string) bool {
	have, want := roleLevels[role], roleLevels[minimum]
	return have > 0 && want > 0 && have >= want
}

// ValidatePassword checks password length.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
