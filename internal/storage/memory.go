package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps the snapshot in process memory. Used by tests and by
// STORAGE_DRIVER=memory.
type MemoryStorage struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return append([]byte(nil), s.data...), nil
}

func (s *MemoryStorage) Save(ctx context.Context, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.saves++
	return nil
}

// Saves reports how many snapshots were written.
func (s *MemoryStorage) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func (s *MemoryStorage) Health(ctx context.Context) error { return nil }

func (s *MemoryStorage) Close() error { return nil }
