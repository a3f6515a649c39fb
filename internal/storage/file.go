package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage keeps the snapshot in a single JSON file, replaced atomically
// on every save.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage stores the snapshot under dir, creating it when missing.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}
	return &FileStorage{path: filepath.Join(dir, Key+".json")}, nil
}

// Path is the snapshot file location.
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrCorruptState, s.path)
	}
	return data, nil
}

func (s *FileStorage) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// Health checks that the snapshot directory is still a writable directory.
func (s *FileStorage) Health(ctx context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrStorageUnreachable, dir)
	}
	probe, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnreachable, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

func (s *FileStorage) Close() error {
	return nil
}
