package activity

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Repository appends and reads activity log entries.
type Repository struct {
	db *sql.DB
}

// NewRepository creates an activity repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Record appends an entry. It is fire-and-forget: failures are logged and
// swallowed so they never fail the caller's primary operation.
func (r *Repository) Record(activityType, description string, propertyID *string) {
	_, err := r.db.Exec(
		"INSERT INTO activity_logs (activity_type, description, property_id) VALUES (?, ?, ?)",
		activityType, description, propertyID,
	)
	if err != nil {
		slog.Warn("recording activity failed",
			"type", activityType,
			"error", err,
		)
	}
}

// Recent returns the latest entries, newest first.
func (r *Repository) Recent(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(
		"SELECT id, activity_type, description, property_id, created_at FROM activity_logs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	var entries []*Entry
	for rows.Next() {
		var e Entry
		var propID sql.NullString
		if err := rows.Scan(&e.ID, &e.Type, &e.Description, &propID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		if propID.Valid {
			e.PropertyID = &propID.String
		}
		entries = append(entries, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}

	return entries, nil
}
