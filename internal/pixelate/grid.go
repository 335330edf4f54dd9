// Package pixelate turns a raster image into a grid of bead palette keys.
//
// The pipeline samples one colour per cell, maps it to the nearest palette
// colour, consolidates similar colours, tags the background connected to the
// grid border and finally counts the beads needed.
package pixelate

import (
	"fmt"
	"slices"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

// Cell is the resolved state of one grid cell.
type Cell struct {
	// Key is the palette key of the bead.
	Key string `json:"key"`

	// Hex is the palette colour of Key.
	Hex string `json:"hex"`

	// External is set by TagExternal for background cells connected to the
	// grid border. External cells are not counted as beads.
	External bool `json:"external,omitempty"`
}

// cellFor builds an internal cell from a palette colour.
func cellFor(c palette.Colour) Cell {
	return Cell{Key: c.Key, Hex: c.Hex}
}

// Grid is a fixed-size, row-major grid of cells.
type Grid struct {
	Cols  int    `json:"cols"`
	Rows  int    `json:"rows"`
	Cells []Cell `json:"cells"`
}

// NewGrid creates a grid of cols x rows zero cells.
func NewGrid(cols, rows int) (*Grid, error) {
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, cols, rows)
	}
	return &Grid{
		Cols:  cols,
		Rows:  rows,
		Cells: make([]Cell, cols*rows),
	}, nil
}

// GridFromKeys builds a grid from rows of palette keys. Every row must have the
// same length and every key must exist in pal.
func GridFromKeys(keys [][]string, pal *palette.Palette) (*Grid, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	g, err := NewGrid(len(keys[0]), len(keys))
	if err != nil {
		return nil, err
	}
	for row, line := range keys {
		if len(line) != g.Cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, row, len(line), g.Cols)
		}
		for col, key := range line {
			c, ok := pal.Lookup(key)
			if !ok {
				return nil, fmt.Errorf("unknown palette key %q at %d,%d", key, col, row)
			}
			g.Set(col, row, cellFor(c))
		}
	}
	return g, nil
}

// index returns the slice index of a cell.
func (g *Grid) index(col, row int) int {
	return row*g.Cols + col
}

// InBounds reports whether col,row lies within the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// At returns the cell at col,row.
func (g *Grid) At(col, row int) Cell {
	return g.Cells[g.index(col, row)]
}

// Set replaces the cell at col,row.
func (g *Grid) Set(col, row int, c Cell) {
	g.Cells[g.index(col, row)] = c
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		Cols:  g.Cols,
		Rows:  g.Rows,
		Cells: slices.Clone(g.Cells),
	}
}

// Equal reports whether two grids have the same size and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.Cols == other.Cols && g.Rows == other.Rows && slices.Equal(g.Cells, other.Cells)
}

// Keys returns the distinct keys of the grid in row-major order of first appearance.
func (g *Grid) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range g.Cells {
		if !seen[c.Key] {
			seen[c.Key] = true
			keys = append(keys, c.Key)
		}
	}
	return keys
}

// KeyRows returns the keys of the grid row by row.
func (g *Grid) KeyRows() [][]string {
	out := make([][]string, g.Rows)
	for row := range g.Rows {
		line := make([]string, g.Cols)
		for col := range g.Cols {
			line[col] = g.At(col, row).Key
		}
		out[row] = line
	}
	return out
}
