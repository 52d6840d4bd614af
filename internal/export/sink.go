package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives finished exports.
type Sink interface {
	Deliver(ctx context.Context, f File) error
}

// DirSink writes exports into a directory, replacing files of the same name.
type DirSink struct {
	dir string
}

// NewDirSink creates the directory if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// Path returns where f is written.
func (s *DirSink) Path(f File) string {
	return filepath.Join(s.dir, f.Name)
}

func (s *DirSink) Deliver(_ context.Context, f File) error {
	if err := os.WriteFile(s.Path(f), f.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.Name, err)
	}
	return nil
}
