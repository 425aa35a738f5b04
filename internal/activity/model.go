// Package activity provides the dashboard activity log.
package activity

import "time"

// Entry represents one recorded activity.
type Entry struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	PropertyID  *string   `json:"property_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Activity types recorded by the API layer.
const (
	TypePropertyCreated = "property_created"
	TypePropertyUpdated = "property_updated"
	TypePropertyDeleted = "property_deleted"
	TypeSaleRecorded    = "sale_recorded"
	TypeUserRegistered  = "user_registered"
)
