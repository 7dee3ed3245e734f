// Package settings holds the user preferences that modulate roster behavior.
package settings

import (
	"errors"
	"fmt"
)

// ErrUnknownKey is returned when updating a setting that does not exist.
var ErrUnknownKey = errors.New("unknown setting")

// Key names a boolean setting. Values match the persisted JSON field names.
type Key string

const (
	KeyConfirmClear   Key = "confirmClear"
	KeyAutoRemoveDead Key = "autoRemoveDead"
	KeyCompactCards   Key = "compactCards"
)

// Keys lists every setting in display order.
var Keys = []Key{KeyConfirmClear, KeyAutoRemoveDead, KeyCompactCards}

// Settings is the process-wide preference record.
type Settings struct {
	ConfirmClear   bool `json:"confirmClear"`   // Ask before clearing the roster
	AutoRemoveDead bool `json:"autoRemoveDead"` // Drop enemies whose HP reaches 0
	CompactCards   bool `json:"compactCards"`   // New enemies start collapsed
}

// Default returns the settings used when nothing has been persisted.
func Default() Settings {
	return Settings{
		ConfirmClear:   true,
		AutoRemoveDead: true,
		CompactCards:   false,
	}
}

// Get returns the value of the setting named by key.
func (s Settings) Get(key Key) (bool, error) {
	switch key {
	case KeyConfirmClear:
		return s.ConfirmClear, nil
	case KeyAutoRemoveDead:
		return s.AutoRemoveDead, nil
	case KeyCompactCards:
		return s.CompactCards, nil
	default:
		return false, fmt.Errorf("get %q: %w", key, ErrUnknownKey)
	}
}

// With returns a copy of s with one field replaced. Changes only govern
// future operations; nothing already in the roster is revisited.
func (s Settings) With(key Key, value bool) (Settings, error) {
	switch key {
	case KeyConfirmClear:
		s.ConfirmClear = value
	case KeyAutoRemoveDead:
		s.AutoRemoveDead = value
	case KeyCompactCards:
		s.CompactCards = value
	default:
		return s, fmt.Errorf("update %q: %w", key, ErrUnknownKey)
	}
	return s, nil
}
