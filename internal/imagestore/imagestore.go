// Package imagestore persists property image blobs and hands back opaque
// reference strings. The listing store only ever sees the refs.
package imagestore

// Store saves and removes image blobs.
type Store interface {
	// Save persists raw image bytes for a property at the given position
	// and returns an opaque reference.
	Save(data []byte, propertyID string, position int) (string, error)
	// Remove deletes the blob behind a reference.
	Remove(ref string) error
}
