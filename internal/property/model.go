// Package property provides the listing domain model and the persistence
// and query layer behind it.
package property

import (
	"encoding/json"
	"fmt"
	"time"
)

// Status represents where a property is in its sales lifecycle.
type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

// ValidStatus returns true if s is a known status.
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	}
	return false
}

// Property represents a real-estate listing.
type Property struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Status      Status    `json:"status"`
	Type        string    `json:"type,omitempty"`
	Bedrooms    int       `json:"bedrooms"`
	Bathrooms   int       `json:"bathrooms"`
	Area        float64   `json:"area"`
	Description string    `json:"description,omitempty"`
	Features    []string  `json:"features"`
	Images      []string  `json:"images"`
	Views       int64     `json:"views"`
	Leads       int64     `json:"leads"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Sale records a completed transaction on a property.
type Sale struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	SalePrice  float64   `json:"sale_price"`
	Commission float64   `json:"commission"`
	ClientName string    `json:"client_name,omitempty"`
	SaleDate   time.Time `json:"sale_date"`
}

// Input carries the caller-supplied fields for create and update. Updates
// are full-field replaces; a nil Images slice leaves the stored image set
// untouched, a non-nil slice replaces it.
type Input struct {
	Title       string   `json:"title" validate:"required"`
	Location    string   `json:"location" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=available reserved sold"`
	Type        string   `json:"type"`
	Bedrooms    int      `json:"bedrooms" validate:"gte=0"`
	Bathrooms   int      `json:"bathrooms" validate:"gte=0"`
	Area        float64  `json:"area" validate:"gte=0"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Images      [][]byte `json:"-"`
}

// encodeFeatures serializes the feature list as a JSON array so feature
// strings round-trip regardless of their content.
func encodeFeatures(features []string) (string, error) {
	if features == nil {
		features = []string{}
	}
	b, err := json.Marshal(features)
	if err != nil {
		return "", fmt.Errorf("encoding features: %w", err)
	}
	return string(b), nil
}

// decodeFeatures parses the stored JSON array. The result is never nil.
func decodeFeatures(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var features []string
	if err := json.Unmarshal([]byte(raw), &features); err != nil {
		return nil, fmt.Errorf("decoding features: %w", err)
	}
	if features == nil {
		features = []string{}
	}
	return features, nil
}

// scanProperty scans a property row. Images are loaded separately.
func scanProperty(row interface{ Scan(...interface{}) error }) (*Property, error) {
	var p Property
	var status, features string

	err := row.Scan(
		&p.ID, &p.Title, &p.Location, &p.Category, &p.Price,
		&status, &p.Type, &p.Bedrooms, &p.Bathrooms, &p.Area,
		&p.Description, &features, &p.Views, &p.Leads,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = Status(status)
	p.Features, err = decodeFeatures(features)
	if err != nil {
		return nil, err
	}
	p.Images = []string{}

	return &p, nil
}
