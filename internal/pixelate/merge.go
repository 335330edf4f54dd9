package pixelate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/palette"
)

// MergeStrategy selects how similar colours are consolidated after quantisation.
type MergeStrategy string

const (
	// MergeSpatial grows 4-connected regions of colours close to each region's
	// seed and recolours each region with its most frequent key. Merges never
	// cross region boundaries.
	MergeSpatial MergeStrategy = "spatial"

	// MergeGlobal folds less frequent keys into more frequent similar keys across
	// the whole grid, whether or not the cells touch.
	MergeGlobal MergeStrategy = "global"
)

// MergeStrategies returns the valid merge strategies.
func MergeStrategies() []MergeStrategy {
	return []MergeStrategy{MergeGlobal, MergeSpatial}
}

// ParseMergeStrategy parses a strategy name. An empty name selects MergeGlobal.
func ParseMergeStrategy(s string) (MergeStrategy, error) {
	switch MergeStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", MergeGlobal:
		return MergeGlobal, nil
	case MergeSpatial:
		return MergeSpatial, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: global, spatial)", ErrInvalidStrategy, s)
	}
}

// Valid reports whether s is a known strategy.
func (s MergeStrategy) Valid() bool {
	return s == MergeGlobal || s == MergeSpatial
}

// Merge consolidates similar colours of g in place and returns the number of
// cells whose key changed. Two colours are similar when the distance between
// their palette colours is strictly below threshold, so a threshold of 0 leaves
// the grid untouched.
//
// Cells whose key is missing from pal break the grid invariant; they are logged
// and reset to fallback.
func Merge(g *Grid, pal *palette.Palette, threshold float64, strategy MergeStrategy, background map[string]bool, fallback palette.Colour, log hclog.Logger) (int, error) {
	if log == nil {
		log = hclog.NewNullLogger()
	}

	switch strategy {
	case MergeSpatial:
		if threshold <= 0 {
			return 0, nil
		}
		return mergeSpatial(g, pal, threshold, fallback, log), nil
	case MergeGlobal:
		if threshold <= 0 {
			return 0, nil
		}
		return mergeGlobal(g, pal, threshold, background, fallback, log), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
}

// point is a grid coordinate.
type point struct {
	col, row int
}

// neighbours4 lists the 4-connected offsets in the order they are visited.
var neighbours4 = [4]point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}

// mergeSpatial runs a breadth-first search from every unvisited cell in
// row-major order. A neighbour joins the region when its colour is within
// threshold of the seed colour, which stops regions drifting along slow
// gradients.
func mergeSpatial(g *Grid, pal *palette.Palette, threshold float64, fallback palette.Colour, log hclog.Logger) int {
	visited := make([]bool, len(g.Cells))
	changed := 0

	var (
		queue  []point
		region []point
	)
	for row := range g.Rows {
		for col := range g.Cols {
			idx := g.index(col, row)
			if visited[idx] {
				continue
			}
			visited[idx] = true

			seed := g.Cells[idx]
			seedColour, ok := pal.Lookup(seed.Key)
			if !ok {
				log.Warn("cell key missing from palette, using fallback", "key", seed.Key, "col", col, "row", row, "fallback", fallback.Key)
				g.Cells[idx] = cellFor(fallback)
				changed++
				continue
			}

			queue = append(queue[:0], point{col, row})
			region = region[:0]
			histogram := newKeyHistogram()

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				region = append(region, p)
				histogram.add(g.At(p.col, p.row).Key)

				for _, d := range neighbours4 {
					n := point{p.col + d.col, p.row + d.row}
					if !g.InBounds(n.col, n.row) {
						continue
					}
					nIdx := g.index(n.col, n.row)
					if visited[nIdx] {
						continue
					}
					nColour, ok := pal.Lookup(g.Cells[nIdx].Key)
					if !ok {
						continue
					}
					if colour.Distance(seedColour.RGB, nColour.RGB) < threshold {
						visited[nIdx] = true
						queue = append(queue, n)
					}
				}
			}

			if len(region) < 2 {
				continue
			}

			winner, _ := pal.Lookup(histogram.dominant())
			for _, p := range region {
				if g.At(p.col, p.row).Key != winner.Key {
					g.Set(p.col, p.row, cellFor(winner))
					changed++
				}
			}
		}
	}

	return changed
}

// mergeGlobal processes keys from most to least frequent. Each key not yet
// absorbed takes over every less frequent, unabsorbed key that is similar to
// it. Background keys are left alone.
func mergeGlobal(g *Grid, pal *palette.Palette, threshold float64, background map[string]bool, fallback palette.Colour, log hclog.Logger) int {
	changed := resetUnknownKeys(g, pal, fallback, log)

	histogram := newKeyHistogram()
	for _, c := range g.Cells {
		if !background[c.Key] {
			histogram.add(c.Key)
		}
	}
	order := histogram.byFrequency()

	absorbed := make(map[string]bool, len(order))
	target := make(map[string]palette.Colour)
	for i, key := range order {
		if absorbed[key] {
			continue
		}
		keep, _ := pal.Lookup(key)
		for _, other := range order[i+1:] {
			if absorbed[other] {
				continue
			}
			candidate, _ := pal.Lookup(other)
			if colour.Distance(keep.RGB, candidate.RGB) < threshold {
				absorbed[other] = true
				target[other] = keep
				log.Trace("merging colour", "from", other, "into", key)
			}
		}
	}

	if len(target) == 0 {
		return changed
	}
	for i, c := range g.Cells {
		if to, ok := target[c.Key]; ok {
			g.Cells[i] = Cell{Key: to.Key, Hex: to.Hex, External: c.External}
			changed++
		}
	}
	return changed
}

// resetUnknownKeys replaces cells whose key is not in pal with fallback.
func resetUnknownKeys(g *Grid, pal *palette.Palette, fallback palette.Colour, log hclog.Logger) int {
	reset := 0
	for i, c := range g.Cells {
		if pal.Contains(c.Key) {
			continue
		}
		log.Warn("cell key missing from palette, using fallback", "key", c.Key, "col", i%g.Cols, "row", i/g.Cols, "fallback", fallback.Key)
		g.Cells[i] = cellFor(fallback)
		reset++
	}
	return reset
}

// keyHistogram counts keys and remembers the order they were first added.
type keyHistogram struct {
	counts map[string]int
	order  []string
}

func newKeyHistogram() *keyHistogram {
	return &keyHistogram{counts: make(map[string]int)}
}

func (h *keyHistogram) add(key string) {
	if _, ok := h.counts[key]; !ok {
		h.order = append(h.order, key)
	}
	h.counts[key]++
}

// dominant returns the most frequent key. Ties go to the key added first.
func (h *keyHistogram) dominant() string {
	best, bestCount := "", 0
	for _, k := range h.order {
		if h.counts[k] > bestCount {
			best, bestCount = k, h.counts[k]
		}
	}
	return best
}

// byFrequency returns the keys by descending count. Equal counts keep the order
// the keys were first added.
func (h *keyHistogram) byFrequency() []string {
	keys := slices.Clone(h.order)
	slices.SortStableFunc(keys, func(a, b string) int {
		return h.counts[b] - h.counts[a]
	})
	return keys
}
