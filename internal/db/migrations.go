package db

import (
	"database/sql"
	"fmt"
)

// migrations is an ordered list of SQL statements to run.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS properties (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		location    TEXT NOT NULL,
		category    TEXT NOT NULL,
		price       REAL NOT NULL,
		status      TEXT NOT NULL DEFAULT 'available',
		type        TEXT NOT NULL DEFAULT '',
		bedrooms    INTEGER NOT NULL DEFAULT 0,
		bathrooms   INTEGER NOT NULL DEFAULT 0,
		area        REAL NOT NULL DEFAULT 0,
		description TEXT NOT NULL DEFAULT '',
		features    TEXT NOT NULL DEFAULT '[]',
		views       INTEGER NOT NULL DEFAULT 0,
		leads       INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS property_images (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		property_id TEXT    NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		ref         TEXT    NOT NULL,
		position    INTEGER NOT NULL DEFAULT 0,
		is_main     INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS sales (
		id          TEXT PRIMARY KEY,
		property_id TEXT NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
		sale_price  REAL NOT NULL,
		commission  REAL NOT NULL DEFAULT 0,
		client_name TEXT NOT NULL DEFAULT '',
		sale_date   DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS activity_logs (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		activity_type TEXT NOT NULL,
		description   TEXT NOT NULL,
		property_id   TEXT REFERENCES properties(id) ON DELETE SET NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_category ON properties(category)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_status ON properties(status)`,
	`CREATE INDEX IF NOT EXISTS idx_property_images_property ON property_images(property_id)`,
	`CREATE INDEX IF NOT EXISTS idx_sales_property ON sales(property_id)`,
}

// migrate runs all migrations in order.
func migrate(db *sql.DB) error {
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
