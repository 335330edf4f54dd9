package pixelate

import (
	"fmt"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

// Exclude removes one colour from a finished result without re-running the
// pipeline. Internal cells using key are recoloured with the closest colour
// among initialKeys, the keys of the grid before any exclusion, leaving out key
// itself and every key already in excluded. full is the palette the result
// was built from. The input result is left unchanged.
//
// ErrNoRemapTarget is returned when no candidate colour is left.
func Exclude(res *Result, key string, full *palette.Palette, initialKeys []string, excluded map[string]bool) (*Result, error) {
	if res == nil || res.Grid == nil {
		return nil, fmt.Errorf("%w: no grid to update", ErrInvalidDimensions)
	}

	target, ok := full.Lookup(key)
	if !ok {
		return nil, fmt.Errorf("cannot exclude %q: key is not in the palette", key)
	}

	var candidates []palette.Colour
	for _, k := range initialKeys {
		if k == key || excluded[k] {
			continue
		}
		if c, ok := full.Lookup(k); ok {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRemapTarget, key)
	}

	candidatePalette, err := palette.New(candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to build replacement palette: %w", err)
	}
	replacement, err := candidatePalette.FindClosest(target.RGB)
	if err != nil {
		return nil, fmt.Errorf("failed to find replacement for %s: %w", key, err)
	}

	g := res.Grid.Clone()
	for i, c := range g.Cells {
		if c.Key == key && !c.External {
			g.Cells[i] = cellFor(replacement)
		}
	}

	counts, total := Aggregate(g)
	out := *res
	out.Grid = g
	out.Counts = counts
	out.Total = total
	return &out, nil
}
