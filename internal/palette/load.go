package palette

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a palette file from disk. See Parse for the format.
func Load(path string) (*Palette, []string, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("palette path cannot be empty")
	}

	file, err := os.Open(path) // #nosec G304 - User-specified palette path, intended to be read
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("palette file not found: %s", path)
		}
		return nil, nil, fmt.Errorf("failed to open palette file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a palette from a JSON object mapping bead keys to hex colours:
//
//	{"A1": "#FAF4C8", "A2": "#FFFFD5", "T1": "#FFFFFF"}
//
// Colours keep the order in which they appear in the document. Entries with an
// invalid hex value are skipped and their keys returned.
func Parse(r io.Reader) (*Palette, []string, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read palette: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("palette must be a JSON object of key to hex colour")
	}

	var (
		colours []Colour
		skipped []string
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read palette key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected palette token %v", tok)
		}

		var hex string
		if err := dec.Decode(&hex); err != nil {
			return nil, nil, fmt.Errorf("failed to read colour for key %q: %w", key, err)
		}

		c, err := NewColour(key, hex)
		if err != nil {
			skipped = append(skipped, key)
			continue
		}
		colours = append(colours, c)
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, fmt.Errorf("failed to read palette: %w", err)
	}

	p, err := New(colours)
	if err != nil {
		return nil, skipped, err
	}
	return p, skipped, nil
}

// ToJSON converts the palette back to the key to hex JSON format.
func (p *Palette) ToJSON() ([]byte, error) {
	if p.Len() == 0 {
		return []byte("{}"), nil
	}

	buf := []byte("{\n")
	for i, c := range p.colours {
		k, err := json.Marshal(c.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(c.Hex)
		if err != nil {
			return nil, err
		}
		buf = append(buf, "  "...)
		buf = append(buf, k...)
		buf = append(buf, ": "...)
		buf = append(buf, v...)
		if i < len(p.colours)-1 {
			buf = append(buf, ',')
		}
		buf = append(buf, '\n')
	}
	return append(buf, '}'), nil
}
