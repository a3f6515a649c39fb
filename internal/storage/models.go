package storage

import "context"

// Key is the fixed storage name of the persisted conversation map. The file
// driver stores it as Key+".json"; the redis driver uses it as the key.
const Key = "iris-conversations"

// Backend is a durable slot holding one serialized conversation map.
// Load returns nil, nil when nothing was stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Health(ctx context.Context) error
	Close() error
}
