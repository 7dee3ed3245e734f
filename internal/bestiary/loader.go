package bestiary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
)

// readPresets decodes a presets file from fsys and rejects entries the add
// form could not use: blank names, health below 1, unknown types, and names
// that collide once case is ignored.
func readPresets(fsys fs.FS, filename string) ([]Preset, error) {
	content, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	var file PresetsFile
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("%s: no presets", filename)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i, p := range file.Presets {
		if normalize(p.Name) == "" || p.MaxHP < 1 || !p.Type.Valid() {
			return nil, fmt.Errorf("%s: preset %d is invalid: %+v", filename, i, p)
		}
		key := normalize(p.Name)
		if seen[key] {
			return nil, fmt.Errorf("%s: duplicate preset %q", filename, p.Name)
		}
		seen[key] = true
	}
	return file.Presets, nil
}
