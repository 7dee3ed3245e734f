package bestiary

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/samdwyer/warband/internal/entity"
)

// Preset is a named enemy template.
type Preset struct {
	Name  string           `json:"name"`
	MaxHP int              `json:"maxHp"`
	Type  entity.EnemyType `json:"type"`
}

// PresetsFile represents the structure of presets.json.
type PresetsFile struct {
	Presets []Preset `json:"presets"`
}

// Registry holds loaded presets and resolves typed names against them.
type Registry struct {
	presets []Preset
	byName  map[string]*Preset
}

// NewRegistry creates a registry from preset definitions.
func NewRegistry(presets []Preset) *Registry {
	r := &Registry{
		presets: presets,
		byName:  make(map[string]*Preset, len(presets)),
	}
	for i := range presets {
		r.byName[normalize(presets[i].Name)] = &presets[i]
	}
	return r
}

// LoadRegistry loads the embedded presets.json.
func LoadRegistry() (*Registry, error) {
	presets, err := readPresets(dataFS, "presets.json")
	if err != nil {
		return nil, err
	}
	return NewRegistry(presets), nil
}

// MustLoadRegistry loads the registry, panicking on error.
func MustLoadRegistry() *Registry {
	r, err := LoadRegistry()
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the preset whose name matches exactly, ignoring case and
// surrounding space.
func (r *Registry) Lookup(name string) (Preset, bool) {
	p, ok := r.byName[normalize(name)]
	if !ok {
		return Preset{}, false
	}
	return *p, true
}

// Suggest returns the closest preset to name by edit distance, tolerating
// more typos for longer names. Exact matches win outright.
func (r *Registry) Suggest(name string) (Preset, bool) {
	if p, ok := r.Lookup(name); ok {
		return p, true
	}
	typed := normalize(name)
	if len(typed) < 3 {
		return Preset{}, false
	}

	best, bestDist := -1, 0
	for i := range r.presets {
		candidate := normalize(r.presets[i].Name)
		dist := levenshtein.ComputeDistance(typed, candidate)
		if dist > distanceLimit(len(candidate)) {
			continue
		}
		if best < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	if best < 0 {
		return Preset{}, false
	}
	return r.presets[best], true
}

// All returns all presets in file order.
func (r *Registry) All() []Preset {
	return r.presets
}

// Count returns the number of presets.
func (r *Registry) Count() int {
	return len(r.presets)
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
