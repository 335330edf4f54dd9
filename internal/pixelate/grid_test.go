package pixelate

import (
	"errors"
	"slices"
	"testing"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

// newPalette builds a palette from alternating key, hex pairs.
func newPalette(t testing.TB, pairs ...string) *palette.Palette {
	t.Helper()
	if len(pairs)%2 != 0 {
		t.Fatalf("newPalette() needs key/hex pairs, got %d values", len(pairs))
	}
	colours := make([]palette.Colour, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		c, err := palette.NewColour(pairs[i], pairs[i+1])
		if err != nil {
			t.Fatalf("NewColour() error = %v", err)
		}
		colours = append(colours, c)
	}
	p, err := palette.New(colours)
	if err != nil {
		t.Fatalf("palette.New() error = %v", err)
	}
	return p
}

// mustGrid builds a grid from rows of keys.
func mustGrid(t testing.TB, pal *palette.Palette, rows ...[]string) *Grid {
	t.Helper()
	g, err := GridFromKeys(rows, pal)
	if err != nil {
		t.Fatalf("GridFromKeys() error = %v", err)
	}
	return g
}

// lookup returns a palette colour that must exist.
func lookup(t testing.TB, pal *palette.Palette, key string) palette.Colour {
	t.Helper()
	c, ok := pal.Lookup(key)
	if !ok {
		t.Fatalf("palette has no key %s", key)
	}
	return c
}

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows int
		wantErr    bool
	}{
		{name: "single cell", cols: 1, rows: 1},
		{name: "wide", cols: 30, rows: 2},
		{name: "zero cols", cols: 0, rows: 2, wantErr: true},
		{name: "negative rows", cols: 2, rows: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGrid(tt.cols, tt.rows)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Errorf("NewGrid() error = %v, want ErrInvalidDimensions", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewGrid() error = %v", err)
			}
			if len(g.Cells) != tt.cols*tt.rows {
				t.Errorf("NewGrid() has %d cells, want %d", len(g.Cells), tt.cols*tt.rows)
			}
		})
	}
}

func TestGridFromKeys(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")

	g := mustGrid(t, pal, []string{"R1", "T1", "R1"}, []string{"T1", "T1", "R1"})
	if g.Cols != 3 || g.Rows != 2 {
		t.Fatalf("grid size = %dx%d, want 3x2", g.Cols, g.Rows)
	}
	if got := g.At(1, 0); got.Key != "T1" || got.Hex != "#FFFFFF" {
		t.Errorf("At(1, 0) = %+v", got)
	}
	if got := g.At(2, 1); got.Key != "R1" {
		t.Errorf("At(2, 1) = %+v", got)
	}

	if _, err := GridFromKeys([][]string{{"R1"}, {"R1", "T1"}}, pal); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("GridFromKeys() ragged rows error = %v, want ErrInvalidDimensions", err)
	}
	if _, err := GridFromKeys([][]string{{"Z9"}}, pal); err == nil {
		t.Error("GridFromKeys() with unknown key should fail")
	}
	if _, err := GridFromKeys(nil, pal); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("GridFromKeys(nil) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestGridCloneAndEqual(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF")
	g := mustGrid(t, pal, []string{"R1", "T1"})

	clone := g.Clone()
	if !g.Equal(clone) {
		t.Fatal("Clone() should be equal to the original")
	}

	clone.Set(0, 0, cellFor(lookup(t, pal, "T1")))
	if g.At(0, 0).Key != "R1" {
		t.Error("modifying a clone changed the original")
	}
	if g.Equal(clone) {
		t.Error("Equal() should detect a changed cell")
	}

	var nilGrid *Grid
	if nilGrid.Equal(g) || !nilGrid.Equal(nil) {
		t.Error("Equal() nil handling is wrong")
	}
}

func TestGridKeys(t *testing.T) {
	pal := newPalette(t, "R1", "#FF0000", "T1", "#FFFFFF", "B1", "#0000FF")
	g := mustGrid(t, pal, []string{"T1", "R1"}, []string{"B1", "R1"})

	if got := g.Keys(); !slices.Equal(got, []string{"T1", "R1", "B1"}) {
		t.Errorf("Keys() = %v, want [T1 R1 B1]", got)
	}

	want := [][]string{{"T1", "R1"}, {"B1", "R1"}}
	got := g.KeyRows()
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("KeyRows()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
