package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps uploaded files (achievement documents and import batches) on
// local disk under a single directory.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes the reader to a uniquely named file, preserving the original
// extension, and returns the stored file name.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := "file-" + hex.EncodeToString(suffix) + ext

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}

	return name, nil
}

// Path returns the on-disk path of a stored file name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// Delete removes a stored file; missing files are not an error.
func (s *Store) Delete(name string) error {
	err := os.Remove(s.Path(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
