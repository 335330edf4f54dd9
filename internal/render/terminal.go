package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
)

// beadWidth is the number of terminal columns used for one bead.
const beadWidth = 2

// Terminal writes an ANSI preview of res to w. Each bead is two character
// cells wide so the preview keeps roughly square proportions. When the grid is
// wider than maxCols terminal columns it is subsampled.
func Terminal(w io.Writer, res *pixelate.Result, maxCols int) error {
	if res == nil || res.Grid == nil {
		return fmt.Errorf("no grid to render")
	}
	g := res.Grid

	step := 1
	if maxCols > 0 && g.Cols*beadWidth > maxCols {
		step = (g.Cols*beadWidth + maxCols - 1) / maxCols
	}

	var sb strings.Builder
	for row := 0; row < g.Rows; row += step {
		for col := 0; col < g.Cols; col += step {
			sb.WriteString(colour.ColourPreview(cellColour(g.At(col, row)), beadWidth))
		}
		sb.WriteByte('\n')
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}

// Legend writes one line per colour in key order with a swatch, the key, the
// hex value and the bead count.
func Legend(w io.Writer, counts pixelate.ColourCounts) error {
	var sb strings.Builder
	for _, key := range counts.SortedKeys() {
		entry := counts[key]
		rgb, ok := colour.ParseHex(entry.Hex)
		if !ok {
			rgb = colour.White
		}
		fmt.Fprintf(&sb, "%s %6d\n", colour.FormatColourWithLabel(rgb, key, 4), entry.Count)
	}
	fmt.Fprintf(&sb, "Total: %d beads\n", counts.Total())

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write legend: %w", err)
	}
	return nil
}
