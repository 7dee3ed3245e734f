// Package storage defines the durable key/value contract used to persist the
// roster and settings between sessions, plus the JSON codec for both blobs.
package storage

import (
	"context"
	"errors"
)

// Keys under which the two persisted documents are stored.
const (
	SettingsKey = "gh-settings"
	EnemiesKey  = "gh-enemies"
)

// ErrNotFound is returned by Load when nothing is stored under the key.
var ErrNotFound = errors.New("key not found")

// Store is a durable string blob store.
type Store interface {
	// Load returns the blob saved under key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)
	// Save replaces the blob under key.
	Save(ctx context.Context, key, value string) error
}
