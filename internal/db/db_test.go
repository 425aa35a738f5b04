package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T) string
		wantErr bool
	}{
		{
			name: "creates new database",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "listings.db")
			},
		},
		{
			name: "creates nested directories",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b", "listings.db")
			},
		},
		{
			name: "opens existing database",
			setup: func(t *testing.T) string {
				path := filepath.Join(t.TempDir(), "listings.db")
				d, err := Open(path)
				if err != nil {
					t.Fatalf("setup: %v", err)
				}
				if err := d.Close(); err != nil {
					t.Fatalf("setup close: %v", err)
				}
				return path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.setup(t)
			d, err := Open(path)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer func() {
				if err := d.Close(); err != nil {
					t.Errorf("close: %v", err)
				}
			}()

			if _, err := os.Stat(path); os.IsNotExist(err) {
				t.Error("database file was not created")
			}
		})
	}
}

func TestWALMode(t *testing.T) {
	d := openTestDB(t)

	var mode string
	if err := d.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}
}

func TestForeignKeys(t *testing.T) {
	d := openTestDB(t)

	var fk int
	if err := d.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestMigrations(t *testing.T) {
	tests := []struct {
		name  string
		table string
		cols  []string
	}{
		{
			name:  "properties table exists",
			table: "properties",
			cols:  []string{"id", "title", "location", "category", "price", "status", "type", "bedrooms", "bathrooms", "area", "description", "features", "views", "leads", "created_at", "updated_at"},
		},
		{
			name:  "property_images table exists",
			table: "property_images",
			cols:  []string{"id", "property_id", "ref", "position", "is_main", "created_at"},
		},
		{
			name:  "sales table exists",
			table: "sales",
			cols:  []string{"id", "property_id", "sale_price", "commission", "client_name", "sale_date"},
		},
		{
			name:  "activity_logs table exists",
			table: "activity_logs",
			cols:  []string{"id", "activity_type", "description", "property_id", "created_at"},
		},
		{
			name:  "users table exists",
			table: "users",
			cols:  []string{"id", "username", "email", "password_hash", "created_at"},
		},
	}

	d := openTestDB(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := tableColumns(t, d, tt.table)
			if len(cols) != len(tt.cols) {
				t.Fatalf("got %d columns, want %d: %v", len(cols), len(tt.cols), cols)
			}
			for i, want := range tt.cols {
				if cols[i] != want {
					t.Errorf("column %d = %q, want %q", i, cols[i], want)
				}
			}
		})
	}
}

func TestCascadeDeleteImages(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Exec(
		`INSERT INTO properties (id, title, location, category, price) VALUES (?, ?, ?, ?, ?)`,
		"prop-cascade", "Casa Azul", "Centro", "sale", 250000,
	); err != nil {
		t.Fatalf("insert property: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := d.Exec(
			`INSERT INTO property_images (property_id, ref, position, is_main) VALUES (?, ?, ?, ?)`,
			"prop-cascade", fmt.Sprintf("img-%d.jpg", i), i, i == 0,
		); err != nil {
			t.Fatalf("insert image %d: %v", i, err)
		}
	}

	var count int
	if err := d.QueryRow(`SELECT COUNT(*) FROM property_images WHERE property_id = ?`, "prop-cascade").Scan(&count); err != nil {
		t.Fatalf("count images: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 images, got %d", count)
	}

	if _, err := d.Exec(`DELETE FROM properties WHERE id = ?`, "prop-cascade"); err != nil {
		t.Fatalf("delete property: %v", err)
	}

	if err := d.QueryRow(`SELECT COUNT(*) FROM property_images WHERE property_id = ?`, "prop-cascade").Scan(&count); err != nil {
		t.Fatalf("count images after delete: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 images after cascade delete, got %d", count)
	}
}

func TestActivityLogKeepsRowOnPropertyDelete(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Exec(
		`INSERT INTO properties (id, title, location, category, price) VALUES (?, ?, ?, ?, ?)`,
		"prop-log", "Cobertura Mar", "Orla", "sale", 900000,
	); err != nil {
		t.Fatalf("insert property: %v", err)
	}
	if _, err := d.Exec(
		`INSERT INTO activity_logs (activity_type, description, property_id) VALUES (?, ?, ?)`,
		"property_created", "created", "prop-log",
	); err != nil {
		t.Fatalf("insert log: %v", err)
	}

	if _, err := d.Exec(`DELETE FROM properties WHERE id = ?`, "prop-log"); err != nil {
		t.Fatalf("delete property: %v", err)
	}

	var propID sql.NullString
	if err := d.QueryRow(`SELECT property_id FROM activity_logs`).Scan(&propID); err != nil {
		t.Fatalf("read log: %v", err)
	}
	if propID.Valid {
		t.Errorf("expected NULL property_id after delete, got %q", propID.String)
	}
}

func TestUniqueUsers(t *testing.T) {
	d := openTestDB(t)

	if _, err := d.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		"marcelo", "marcelo@example.com", "hash",
	); err != nil {
		t.Fatalf("insert user: %v", err)
	}

	if _, err := d.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		"marcelo", "other@example.com", "hash",
	); err == nil {
		t.Error("expected unique violation for duplicate username")
	}

	if _, err := d.Exec(
		`INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`,
		"other", "marcelo@example.com", "hash",
	); err == nil {
		t.Error("expected unique violation for duplicate email")
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.db")

	// Open twice — migrations should not fail on second run
	d1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := d1.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}

	d2, err := Open(path)
	if err != nil {
		t.Fatalf("second open (idempotency): %v", err)
	}
	if err := d2.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

// openTestDB creates a temporary database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "listings.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close test db: %v", err)
		}
	})
	return d
}

// tableColumns returns column names for a table using PRAGMA table_info.
func tableColumns(t *testing.T, d *sql.DB, table string) []string {
	t.Helper()
	rows, err := d.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("pragma table_info(%s): %v", table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			t.Errorf("close rows: %v", err)
		}
	}()

	var cols []string
	for rows.Next() {
		var cid int
		var name, typ string
		var notnull int
		var dflt *string
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notnull, &dflt, &pk); err != nil {
			t.Fatalf("scan: %v", err)
		}
		cols = append(cols, name)
	}
	return cols
}
