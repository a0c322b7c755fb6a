package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Value is one preset entry. Codec presets carry a command template and an
// optional explicit output extension, framerate presets carry the fps as text.
type Value struct {
	Command   string
	Extension string
}

// UnmarshalJSON accepts either a bare string or {"command", "extension"}.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Command: s}
		return nil
	}
	var obj struct {
		Command   string `json:"command"`
		Extension string `json:"extension"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("preset value must be a string or an object: %w", err)
	}
	*v = Value{Command: obj.Command, Extension: obj.Extension}
	return nil
}

// MarshalJSON keeps the flat string form unless an extension is set.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.Extension == "" {
		return json.Marshal(v.Command)
	}
	return json.Marshal(struct {
		Command   string `json:"command"`
		Extension string `json:"extension"`
	}{v.Command, v.Extension})
}

// Mapping is a persisted name -> value document.
type Mapping map[string]Value

// Names returns the preset names in sorted order.
func (m Mapping) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a shallow copy.
func (m Mapping) Clone() Mapping {
	cp := make(Mapping, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

// Load reads the mapping at path. A missing file is an empty mapping.
func Load(path string) (Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Mapping{}, nil
		}
		return nil, fmt.Errorf("read presets %s: %w", path, err)
	}
	m := Mapping{}
	if len(bytes.TrimSpace(data)) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse presets %s: %w", path, err)
	}
	return m, nil
}

// Save rewrites the whole mapping at path through a temp file and a rename.
func Save(m Mapping, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal presets: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create presets directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
