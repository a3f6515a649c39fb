// Package storage persists the serialized conversation map. Every driver
// holds exactly one snapshot under the shared Key.
package storage

import (
	"fmt"

	"github.com/bull/iris-search/internal/config"
)

// New opens the driver selected by cfg.
func New(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case config.StorageFile, "":
		return NewFileStorage(cfg.Path)
	case config.StorageRedis:
		return NewRedisStorage(cfg.RedisURL)
	case config.StorageMemory:
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
