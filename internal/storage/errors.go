package storage

import "errors"

var (
	ErrStorageUnreachable = errors.New("conversation storage unreachable")
	ErrCorruptState       = errors.New("persisted conversation state is corrupt")
	ErrUnknownDriver      = errors.New("unknown storage driver")
)
