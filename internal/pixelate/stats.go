package pixelate

import (
	"github.com/jmylchreest/beadgrid/internal/palette"
)

// Count is the number of beads needed for one palette key.
type Count struct {
	Count int    `json:"count"`
	Hex   string `json:"hex"`
}

// ColourCounts maps palette keys to their bead counts.
type ColourCounts map[string]Count

// Aggregate counts the internal cells of g per key and returns the counts and
// the total number of beads. External cells are skipped.
func Aggregate(g *Grid) (ColourCounts, int) {
	counts := make(ColourCounts)
	total := 0
	for _, c := range g.Cells {
		if c.External {
			continue
		}
		entry, ok := counts[c.Key]
		if !ok {
			entry.Hex = c.Hex
		}
		entry.Count++
		counts[c.Key] = entry
		total++
	}
	return counts, total
}

// SortedKeys returns the keys in bead key order (A1, A2, A10, B1, ...).
func (cc ColourCounts) SortedKeys() []string {
	keys := make([]string, 0, len(cc))
	for k := range cc {
		keys = append(keys, k)
	}
	palette.SortKeys(keys)
	return keys
}

// Total returns the sum of all counts.
func (cc ColourCounts) Total() int {
	total := 0
	for _, c := range cc {
		total += c.Count
	}
	return total
}
