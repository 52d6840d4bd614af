package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSubstrate stores each key as <key>.json inside a directory.
type FileSubstrate struct {
	basePath string
}

// NewFileSubstrate creates a FileSubstrate and ensures the base directory exists.
func NewFileSubstrate(basePath string) (*FileSubstrate, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	return &FileSubstrate{basePath: basePath}, nil
}

// sanitizeKey makes the key safe for filenames.
func sanitizeKey(key string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "-", "..", "_").Replace(key)
}

func (s *FileSubstrate) path(key string) string {
	return filepath.Join(s.basePath, sanitizeKey(key)+".json")
}

// Get reads the file stored for key.
func (s *FileSubstrate) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Put writes value through a temp file and renames it over the old one.
func (s *FileSubstrate) Put(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(s.basePath, sanitizeKey(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// Close is a no-op.
func (s *FileSubstrate) Close() error { return nil }
