// Package project saves and restores converted bead patterns.
//
// A project stores the grid as palette keys plus the settings that produced
// it. Colours are re-resolved from a palette on load, so a project stays
// small and follows palette corrections.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
	"github.com/jmylchreest/beadgrid/internal/security"
)

// FormatVersion is the current project file format.
const FormatVersion = 1

// CompressedExt marks project files written as xz streams.
const CompressedExt = ".xz"

// Cell is one stored grid cell.
type Cell struct {
	Key      string `json:"k"`
	External bool   `json:"x,omitempty"`
}

// Settings are the conversion parameters recorded with a project.
type Settings struct {
	Source    string                 `json:"source,omitempty"`
	Preset    string                 `json:"preset,omitempty"`
	Threshold float64                `json:"threshold"`
	Mode      pixelate.Mode          `json:"mode"`
	Strategy  pixelate.MergeStrategy `json:"strategy"`
	Excluded  []string               `json:"excluded,omitempty"`
}

// Project is a saved bead pattern.
type Project struct {
	Version   int            `json:"version"`
	CreatedAt time.Time      `json:"createdAt"`
	Cols      int            `json:"cols"`
	Rows      int            `json:"rows"`
	Settings  Settings       `json:"settings"`
	Fallback  string         `json:"fallback,omitempty"`
	Cells     []Cell         `json:"cells"`
	Counts    map[string]int `json:"counts"`
}

// FromResult captures res and the settings that produced it.
func FromResult(res *pixelate.Result, settings Settings) (*Project, error) {
	if res == nil || res.Grid == nil {
		return nil, fmt.Errorf("no grid to save")
	}

	p := &Project{
		Version:   FormatVersion,
		CreatedAt: time.Now().UTC(),
		Cols:      res.Grid.Cols,
		Rows:      res.Grid.Rows,
		Settings:  settings,
		Fallback:  res.Fallback.Key,
		Cells:     make([]Cell, len(res.Grid.Cells)),
		Counts:    make(map[string]int, len(res.Counts)),
	}
	for i, c := range res.Grid.Cells {
		p.Cells[i] = Cell{Key: c.Key, External: c.External}
	}
	for key, entry := range res.Counts {
		p.Counts[key] = entry.Count
	}
	return p, nil
}

// Validate checks the project structure.
func (p *Project) Validate() error {
	if p.Version < 1 || p.Version > FormatVersion {
		return fmt.Errorf("unsupported project version %d", p.Version)
	}
	if p.Cols <= 0 || p.Rows <= 0 {
		return fmt.Errorf("%w: %dx%d", pixelate.ErrInvalidDimensions, p.Cols, p.Rows)
	}
	if len(p.Cells) != p.Cols*p.Rows {
		return fmt.Errorf("project has %d cells, want %d", len(p.Cells), p.Cols*p.Rows)
	}
	return nil
}

// Result rebuilds a pipeline result, resolving every key in pal. Counts are
// recomputed from the cells rather than trusted from the file.
func (p *Project) Result(pal *palette.Palette) (*pixelate.Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if pal.Len() == 0 {
		return nil, pixelate.ErrEmptyPalette
	}

	g, err := pixelate.NewGrid(p.Cols, p.Rows)
	if err != nil {
		return nil, err
	}
	external := 0
	for i, c := range p.Cells {
		pc, ok := pal.Lookup(c.Key)
		if !ok {
			return nil, fmt.Errorf("project cell %d,%d uses key %q which is not in the palette", i%p.Cols, i/p.Cols, c.Key)
		}
		g.Cells[i] = pixelate.Cell{Key: pc.Key, Hex: pc.Hex, External: c.External}
		if c.External {
			external++
		}
	}

	counts, total := pixelate.Aggregate(g)
	res := &pixelate.Result{
		Grid:          g,
		Counts:        counts,
		Total:         total,
		Cols:          p.Cols,
		Rows:          p.Rows,
		ExternalCells: external,
	}
	if fb, ok := pal.Lookup(p.Fallback); ok {
		res.Fallback = fb
	}
	return res, nil
}

// Keys returns the distinct keys used by internal cells in bead key order.
func (p *Project) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range p.Cells {
		if c.External || seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		keys = append(keys, c.Key)
	}
	palette.SortKeys(keys)
	return keys
}

// IsCompressed reports whether path names an xz project file.
func IsCompressed(path string) bool {
	return strings.EqualFold(filepath.Ext(path), CompressedExt)
}

// Encode writes p as JSON, xz-compressed when compress is set.
func Encode(w io.Writer, p *Project, compress bool) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if !compress {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write project: %w", err)
		}
		return nil
	}

	xzw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create xz writer: %w", err)
	}
	if _, err := xzw.Write(data); err != nil {
		return fmt.Errorf("failed to compress project: %w", err)
	}
	if err := xzw.Close(); err != nil {
		return fmt.Errorf("failed to finish xz stream: %w", err)
	}
	return nil
}

// Decode reads a project written by Encode and validates it.
func Decode(r io.Reader, compressed bool) (*Project, error) {
	if compressed {
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		r = security.NewLimitedReader(xzr, security.MaxDecompressedSize)
	}

	var p Project
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to parse project: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes p to path. Paths ending in .xz are compressed.
func Save(path string, p *Project) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p, IsCompressed(path)); err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Project directory needs standard permissions
			return fmt.Errorf("failed to create project directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil { // #nosec G306 - Project files need standard read permissions
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to store project: %w", err)
	}
	return nil
}

// Load reads a project from path. Paths ending in .xz are decompressed.
func Load(path string) (*Project, error) {
	f, err := os.Open(path) // #nosec G304 - User-specified project path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open project: %w", err)
	}
	defer f.Close()

	p, err := Decode(f, IsCompressed(path))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}
