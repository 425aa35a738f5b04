package imagestore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore keeps image blobs as files in a single directory.
// References are bare filenames.
type FileStore struct {
	dir string
}

// NewFileStore creates the directory if needed and returns a FileStore.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the blob to disk under a unique filename.
func (s *FileStore) Save(data []byte, propertyID string, position int) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image data")
	}

	name := fmt.Sprintf("%s_%d_%s.jpg", propertyID, position, uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("writing image %s: %w", name, err)
	}

	return name, nil
}

// Remove deletes the blob file. Removing an already-missing blob is not
// an error.
func (s *FileStore) Remove(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("removing image %s: %w", ref, err)
	}
	return nil
}

// Open returns the blob path for serving, rejecting refs that escape
// the upload directory.
func (s *FileStore) Open(ref string) (string, error) {
	return s.resolve(ref)
}

func (s *FileStore) resolve(ref string) (string, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || strings.Contains(ref, "..") {
		return "", fmt.Errorf("invalid image reference %q", ref)
	}
	return filepath.Join(s.dir, ref), nil
}
