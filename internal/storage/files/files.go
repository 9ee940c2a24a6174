// Package files keeps generated PDFs in a flat directory.
package files

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmynk/feereceipt/internal/storage"
)

// ErrInvalidName is returned for names that are not a plain .pdf file
// name inside the store directory.
var ErrInvalidName = errors.New("invalid file name")

// FileStore writes and reads PDFs under a single directory.
type FileStore struct {
	dir string
}

// New creates the directory if needed.
func New(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create pdf directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the store's directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// ValidateName accepts a bare file name with a .pdf suffix.
func ValidateName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") || !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Save writes data under name. The file appears complete or not at all.
// An existing file is never replaced; it returns storage.ErrConflict.
func (s *FileStore) Save(name string, data []byte) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Link fails if the target exists, unlike Rename.
	if err := os.Link(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s: %w", name, storage.ErrConflict)
		}
		return fmt.Errorf("failed to store %s: %w", name, err)
	}
	return nil
}

// Open returns the stored file. Unknown names return storage.ErrNotFound.
func (s *FileStore) Open(name string) (*os.File, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// Remove deletes a stored file. Removing a missing file is not an error.
func (s *FileStore) Remove(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}
