package palette

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Selections records which palette keys the user has enabled.
type Selections map[string]bool

// PresetToSelections marks every key of allKeys as selected when it belongs to
// presetKeys.
func PresetToSelections(allKeys, presetKeys []string) Selections {
	inPreset := make(map[string]bool, len(presetKeys))
	for _, k := range presetKeys {
		inPreset[k] = true
	}

	sel := make(Selections, len(allKeys))
	for _, k := range allKeys {
		sel[k] = inPreset[k]
	}
	return sel
}

// Keys returns the selected keys in CompareKeys order.
func (s Selections) Keys() []string {
	keys := make([]string, 0, len(s))
	for k, on := range s {
		if on {
			keys = append(keys, k)
		}
	}
	SortKeys(keys)
	return keys
}

// Apply narrows p to the selected keys.
func (s Selections) Apply(p *Palette) *Palette {
	return p.Subset(s.Keys())
}

// SaveSelections writes selections as JSON, creating parent directories as needed.
func SaveSelections(path string, s Selections) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { // #nosec G301 - Config directory needs standard permissions
		return fmt.Errorf("failed to create selections directory: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode selections: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - Selections are not sensitive
		return fmt.Errorf("failed to write selections: %w", err)
	}
	return nil
}

// LoadSelections reads selections saved by SaveSelections. A missing file yields
// nil selections and no error. A corrupt file is removed and reported.
func LoadSelections(path string) (Selections, error) {
	data, err := os.ReadFile(path) // #nosec G304 - Selections path controlled by application
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read selections: %w", err)
	}

	var s Selections
	if err := json.Unmarshal(data, &s); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("invalid selections file %s (removed): %w", path, err)
	}
	return s, nil
}
