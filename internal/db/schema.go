package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'manager', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS locations (
    id            TEXT PRIMARY KEY,
    room_name     TEXT NOT NULL UNIQUE,
    building_type TEXT NOT NULL CHECK (building_type IN ('warehouse', 'classroom', 'office')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS equipment (
    id             TEXT PRIMARY KEY,
    model          TEXT NOT NULL,
    equipment_type TEXT NOT NULL,
    serial_number  TEXT NOT NULL UNIQUE,
    date_imported  TEXT NOT NULL,
    status         TEXT NOT NULL DEFAULT 'stored'
                   CHECK (status IN ('stored', 'maintenance', 'replaced', 'in-use', 'need-replacement')),
    location_id    TEXT NOT NULL REFERENCES locations(id),
    date_added     DATETIME NOT NULL,
    last_updated   DATETIME NOT NULL,
    delete_reason  TEXT CHECK (delete_reason IN ('broken', 'obsolete', 'other')),
    delete_note    TEXT,
    image          BLOB,
    image_mime     TEXT
);

CREATE INDEX IF NOT EXISTS idx_equipment_location ON equipment(location_id);
CREATE INDEX IF NOT EXISTS idx_equipment_deleted ON equipment(delete_reason) WHERE delete_reason IS NOT NULL;

-- Transfers outlive purged equipment, so equipment_id is not a foreign key.
CREATE TABLE IF NOT EXISTS transfers (
    id               INTEGER PRIMARY KEY,
    equipment_id     TEXT NOT NULL,
    serial_number    TEXT NOT NULL,
    from_location_id TEXT NOT NULL REFERENCES locations(id),
    to_location_id   TEXT NOT NULL REFERENCES locations(id),
    previous_status  TEXT NOT NULL,
    new_status       TEXT NOT NULL,
    transferred_at   DATETIME NOT NULL,
    transferred_by   INTEGER REFERENCES users(id)
);

CREATE INDEX IF NOT EXISTS idx_transfers_equipment ON transfers(equipment_id);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: speed up history lookups by room.
	`CREATE INDEX IF NOT EXISTS idx_transfers_to_location ON transfers(to_location_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transfers_from_location ON transfers(from_location_id)`,
}

// EnsureSchema creates all tables and indexes if they don't already exist and
// applies pending migrations.
func EnsureSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
