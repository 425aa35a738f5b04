package property

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/imobly/imobly/internal/apperr"
	"github.com/imobly/imobly/internal/imagestore"
)

// Store owns the properties table and its side tables (images, sales).
// Every multi-statement operation runs in a single transaction.
type Store struct {
	db     *sql.DB
	images imagestore.Store
}

// NewStore creates a listing store backed by db. Image blobs go through
// the given image store.
func NewStore(db *sql.DB, images imagestore.Store) *Store {
	return &Store{db: db, images: images}
}

const selectColumns = `id, title, location, category, price, status, type, bedrooms, bathrooms, area, description, features, views, leads, created_at, updated_at`

const insertSQL = `INSERT INTO properties
	(id, title, location, category, price, status, type, bedrooms, bathrooms, area, description, features)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const updateSQL = `UPDATE properties SET
	title = ?, location = ?, category = ?, price = ?, status = ?, type = ?,
	bedrooms = ?, bathrooms = ?, area = ?, description = ?, features = ?,
	updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`

// FilterAll is the sentinel that disables a category or status filter.
const FilterAll = "all"

// ListOptions controls filtering for List. Empty or "all" values mean
// no filter.
type ListOptions struct {
	Category string
	Status   string
	Limit    int
}

// List returns properties newest first, optionally filtered. An empty
// result is not an error.
func (s *Store) List(opts ListOptions) ([]*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties", selectColumns)
	var args []interface{}
	var conditions []string

	if opts.Category != "" && opts.Category != FilterAll {
		conditions = append(conditions, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Status != "" && opts.Status != FilterAll {
		conditions = append(conditions, "status = ?")
		args = append(args, opts.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	// rowid breaks created_at ties so same-second inserts stay ordered.
	query += " ORDER BY created_at DESC, rowid DESC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Storage(err, "listing properties")
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			err = fmt.Errorf("closing rows: %w", closeErr)
		}
	}()

	properties := []*Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, apperr.Storage(err, "scanning property")
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterating properties")
	}

	if err := s.attachImages(properties); err != nil {
		return nil, err
	}

	return properties, nil
}

// Get returns a property by id.
func (s *Store) Get(id string) (*Property, error) {
	query := fmt.Sprintf("SELECT %s FROM properties WHERE id = ?", selectColumns)

	p, err := scanProperty(s.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("property %s not found", id)
	}
	if err != nil {
		return nil, apperr.Storage(err, "querying property %s", id)
	}

	if err := s.attachImages([]*Property{p}); err != nil {
		return nil, err
	}

	return p, nil
}

// Create validates the input, assigns a fresh id and stores the property
// together with its image blobs. The row inserts share one transaction;
// blobs written before a failure are removed again.
func (s *Store) Create(input *Input) (*Property, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = string(StatusAvailable)
	}

	features, err := encodeFeatures(input.Features)
	if err != nil {
		return nil, apperr.Storage(err, "encoding features")
	}

	id := uuid.NewString()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Storage(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(insertSQL,
		id, input.Title, input.Location, input.Category, input.Price,
		status, input.Type, input.Bedrooms, input.Bathrooms, input.Area,
		input.Description, features,
	)
	if err != nil {
		return nil, apperr.Storage(err, "inserting property")
	}

	refs, err := s.saveImages(tx, id, input.Images)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		s.removeBlobs(refs)
		return nil, apperr.Storage(err, "committing property")
	}

	return s.Get(id)
}

// Update replaces every stored field of the property. A non-nil image set
// replaces the prior one; the orphaned blobs are removed after commit,
// best-effort.
func (s *Store) Update(id string, input *Input) (*Property, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = string(StatusAvailable)
	}

	features, err := encodeFeatures(input.Features)
	if err != nil {
		return nil, apperr.Storage(err, "encoding features")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Storage(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(updateSQL,
		input.Title, input.Location, input.Category, input.Price,
		status, input.Type, input.Bedrooms, input.Bathrooms, input.Area,
		input.Description, features, id,
	)
	if err != nil {
		return nil, apperr.Storage(err, "updating property")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperr.Storage(err, "checking rows affected")
	}
	if affected == 0 {
		return nil, apperr.NotFound("property %s not found", id)
	}

	var oldRefs, newRefs []string
	if input.Images != nil {
		oldRefs, err = imageRefs(tx, id)
		if err != nil {
			return nil, err
		}
		if _, err := tx.Exec("DELETE FROM property_images WHERE property_id = ?", id); err != nil {
			return nil, apperr.Storage(err, "clearing images")
		}
		newRefs, err = s.saveImages(tx, id, input.Images)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.removeBlobs(newRefs)
		return nil, apperr.Storage(err, "committing property")
	}

	s.removeBlobs(oldRefs)

	return s.Get(id)
}

// Delete removes a property; image and sale rows cascade. Blob removal is
// best-effort per file — refs that could not be removed are returned so
// the caller can report them.
func (s *Store) Delete(id string) ([]string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Storage(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	refs, err := imageRefs(tx, id)
	if err != nil {
		return nil, err
	}

	result, err := tx.Exec("DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return nil, apperr.Storage(err, "deleting property")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, apperr.Storage(err, "checking rows affected")
	}
	if affected == 0 {
		return nil, apperr.NotFound("property %s not found", id)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Storage(err, "committing delete")
	}

	return s.removeBlobs(refs), nil
}

// RecordSale inserts a sale and flips the property to sold in one
// transaction: either both writes land or neither does.
func (s *Store) RecordSale(propertyID string, salePrice, commission float64, clientName string) (*Sale, error) {
	if salePrice <= 0 {
		return nil, apperr.Validation("sale_price must be greater than 0")
	}
	if commission < 0 {
		return nil, apperr.Validation("commission must be at least 0")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Storage(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	var status string
	err = tx.QueryRow("SELECT status FROM properties WHERE id = ?", propertyID).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("property %s not found", propertyID)
	}
	if err != nil {
		return nil, apperr.Storage(err, "querying property %s", propertyID)
	}

	saleID := uuid.NewString()
	_, err = tx.Exec(
		"INSERT INTO sales (id, property_id, sale_price, commission, client_name) VALUES (?, ?, ?, ?, ?)",
		saleID, propertyID, salePrice, commission, clientName,
	)
	if err != nil {
		return nil, apperr.Storage(err, "inserting sale")
	}

	_, err = tx.Exec(
		"UPDATE properties SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(StatusSold), propertyID,
	)
	if err != nil {
		return nil, apperr.Storage(err, "marking property sold")
	}

	var sale Sale
	err = tx.QueryRow(
		"SELECT id, property_id, sale_price, commission, client_name, sale_date FROM sales WHERE id = ?",
		saleID,
	).Scan(&sale.ID, &sale.PropertyID, &sale.SalePrice, &sale.Commission, &sale.ClientName, &sale.SaleDate)
	if err != nil {
		return nil, apperr.Storage(err, "reading back sale")
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Storage(err, "committing sale")
	}

	return &sale, nil
}

// RecordView increments the view counter. Called by the analytics
// collaborator, never as a side effect of store operations.
func (s *Store) RecordView(id string) error {
	return s.bumpCounter(id, "views")
}

// RecordLead increments the lead counter.
func (s *Store) RecordLead(id string) error {
	return s.bumpCounter(id, "leads")
}

func (s *Store) bumpCounter(id, column string) error {
	result, err := s.db.Exec(
		fmt.Sprintf("UPDATE properties SET %s = %s + 1 WHERE id = ?", column, column),
		id,
	)
	if err != nil {
		return apperr.Storage(err, "incrementing %s", column)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Storage(err, "checking rows affected")
	}
	if affected == 0 {
		return apperr.NotFound("property %s not found", id)
	}
	return nil
}

// Stats summarizes the store for the dashboard.
type Stats struct {
	TotalProperties int64            `json:"total_properties"`
	TotalSales      int64            `json:"total_sales"`
	TotalRevenue    float64          `json:"total_revenue"`
	TotalViews      int64            `json:"total_views"`
	TotalLeads      int64            `json:"total_leads"`
	ByCategory      map[string]int64 `json:"by_category"`
	ByStatus        map[string]int64 `json:"by_status"`
}

// Stats aggregates counts and revenue from one transaction snapshot.
func (s *Store) Stats() (*Stats, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, apperr.Storage(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	st := &Stats{
		ByCategory: map[string]int64{},
		ByStatus:   map[string]int64{},
	}

	var views, leads sql.NullInt64
	err = tx.QueryRow(
		"SELECT COUNT(*), SUM(views), SUM(leads) FROM properties",
	).Scan(&st.TotalProperties, &views, &leads)
	if err != nil {
		return nil, apperr.Storage(err, "counting properties")
	}
	st.TotalViews = views.Int64
	st.TotalLeads = leads.Int64

	var revenue sql.NullFloat64
	err = tx.QueryRow("SELECT COUNT(*), SUM(sale_price) FROM sales").Scan(&st.TotalSales, &revenue)
	if err != nil {
		return nil, apperr.Storage(err, "counting sales")
	}
	st.TotalRevenue = revenue.Float64

	groups := []struct {
		column string
		into   map[string]int64
	}{
		{"category", st.ByCategory},
		{"status", st.ByStatus},
	}
	for _, g := range groups {
		rows, err := tx.Query(fmt.Sprintf("SELECT %s, COUNT(*) FROM properties GROUP BY %s", g.column, g.column))
		if err != nil {
			return nil, apperr.Storage(err, "grouping by %s", g.column)
		}
		for rows.Next() {
			var key string
			var count int64
			if err := rows.Scan(&key, &count); err != nil {
				closeRows(rows)
				return nil, apperr.Storage(err, "scanning %s counts", g.column)
			}
			g.into[key] = count
		}
		if err := rows.Err(); err != nil {
			closeRows(rows)
			return nil, apperr.Storage(err, "iterating %s counts", g.column)
		}
		closeRows(rows)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperr.Storage(err, "committing stats read")
	}

	return st, nil
}

// saveImages writes blobs through the image store and records a row per
// image inside tx. On failure, blobs already written are removed.
func (s *Store) saveImages(tx *sql.Tx, propertyID string, blobs [][]byte) ([]string, error) {
	var refs []string
	for i, data := range blobs {
		if len(data) == 0 {
			continue
		}
		ref, err := s.images.Save(data, propertyID, i)
		if err != nil {
			s.removeBlobs(refs)
			return nil, apperr.Storage(err, "saving image %d", i)
		}
		refs = append(refs, ref)

		_, err = tx.Exec(
			"INSERT INTO property_images (property_id, ref, position, is_main) VALUES (?, ?, ?, ?)",
			propertyID, ref, i, i == 0,
		)
		if err != nil {
			s.removeBlobs(refs)
			return nil, apperr.Storage(err, "recording image %d", i)
		}
	}
	return refs, nil
}

// removeBlobs deletes blobs best-effort and returns the refs that failed.
func (s *Store) removeBlobs(refs []string) []string {
	var failed []string
	for _, ref := range refs {
		if err := s.images.Remove(ref); err != nil {
			slog.Warn("removing image blob failed", "ref", ref, "error", err)
			failed = append(failed, ref)
		}
	}
	return failed
}

// imageRefs returns a property's image refs in display order, inside tx.
func imageRefs(tx *sql.Tx, propertyID string) ([]string, error) {
	rows, err := tx.Query(
		"SELECT ref FROM property_images WHERE property_id = ? ORDER BY position, id",
		propertyID,
	)
	if err != nil {
		return nil, apperr.Storage(err, "querying image refs")
	}
	defer closeRows(rows)

	var refs []string
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return nil, apperr.Storage(err, "scanning image ref")
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage(err, "iterating image refs")
	}
	return refs, nil
}

// attachImages fills Images for each property with one query.
func (s *Store) attachImages(properties []*Property) error {
	if len(properties) == 0 {
		return nil
	}

	placeholders := make([]string, len(properties))
	args := make([]interface{}, len(properties))
	byID := make(map[string]*Property, len(properties))
	for i, p := range properties {
		placeholders[i] = "?"
		args[i] = p.ID
		byID[p.ID] = p
	}

	query := fmt.Sprintf(
		"SELECT property_id, ref FROM property_images WHERE property_id IN (%s) ORDER BY property_id, position, id",
		strings.Join(placeholders, ", "),
	)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return apperr.Storage(err, "querying images")
	}
	defer closeRows(rows)

	for rows.Next() {
		var propertyID, ref string
		if err := rows.Scan(&propertyID, &ref); err != nil {
			return apperr.Storage(err, "scanning image")
		}
		if p, ok := byID[propertyID]; ok {
			p.Images = append(p.Images, ref)
		}
	}
	if err := rows.Err(); err != nil {
		return apperr.Storage(err, "iterating images")
	}

	return nil
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		slog.Warn("closing rows failed", "error", err)
	}
}
