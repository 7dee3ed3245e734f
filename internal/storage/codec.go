package storage

import (
	"encoding/json"
	"fmt"

	"github.com/samdwyer/warband/internal/entity"
	"github.com/samdwyer/warband/internal/roster"
	"github.com/samdwyer/warband/internal/settings"
)

// Decode unmarshals a JSON blob into a fresh T.
func Decode[T any](blob string) (T, error) {
	var result T
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		return result, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// Encode marshals v into a JSON blob.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}

// DecodeSettings parses a settings document. Fields absent from the document keep their defaults.
func DecodeSettings(blob string) (settings.Settings, error) {
	s := settings.Default()
	if err := json.Unmarshal([]byte(blob), &s); err != nil {
		return settings.Default(), fmt.Errorf("failed to parse settings: %w", err)
	}
	return s, nil
}

// DecodeRoster parses a roster document, preserving order.
func DecodeRoster(blob string) (roster.Roster, error) {
	enemies, err := Decode[[]entity.Enemy](blob)
	if err != nil {
		return roster.Roster{}, fmt.Errorf("failed to parse roster: %w", err)
	}
	r := make(roster.Roster, len(enemies))
	for i, e := range enemies {
		r[i] = e.Clone()
	}
	return r, nil
}

// EncodeRoster serializes a roster as a JSON array. An empty roster encodes as [].
func EncodeRoster(r roster.Roster) (string, error) {
	if r == nil {
		r = roster.Roster{}
	}
	return Encode(r)
}
