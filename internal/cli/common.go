package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/config"
	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
	"github.com/jmylchreest/beadgrid/internal/render"
)

// Output formats for bead counts.
const (
	formatTable = "table"
	formatJSON  = "json"
)

// addPaletteFlags registers the flags read by config.Builder.WithFlags.
func addPaletteFlags(fs *pflag.FlagSet) {
	fs.StringP(config.FlagPalette, "P", "", "bead palette JSON file (env: "+config.EnvPalette+")")
	fs.String(config.FlagPreset, palette.PresetAll, fmt.Sprintf("palette preset %v (env: %s)", palette.PresetNames(), config.EnvPreset))
	fs.String(config.FlagSelections, "", "selections file (env: "+config.EnvSelections+")")
}

// resolveConfig builds the shared configuration for cmd.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.NewBuilder().
		WithEnvConfig().
		WithFlags(cmd.Flags()).
		Build()
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadPalettes loads the configured palette file and returns the full palette
// and the palette narrowed by the configured preset.
func loadPalettes(cfg config.Config, log hclog.Logger) (full, effective *palette.Palette, err error) {
	if cfg.PaletteFile == "" {
		return nil, nil, fmt.Errorf("no palette file given: use --%s or %s", config.FlagPalette, config.EnvPalette)
	}

	full, skipped, err := palette.Load(cfg.PaletteFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load palette: %w", err)
	}
	if len(skipped) > 0 {
		log.Warn("skipped palette entries with invalid colours", "keys", skipped)
	}
	log.Debug("loaded palette", "file", cfg.PaletteFile, "colours", full.Len())

	effective, err = palette.ApplyPreset(full, cfg.Preset)
	if err != nil {
		return nil, nil, err
	}
	return full, effective, nil
}

// writeCounts prints the bead counts of res in the given format.
func writeCounts(w io.Writer, res *pixelate.Result, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(countsReport(res), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal counts: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write counts: %w", err)
		}
		return nil
	case formatTable:
		_, err := io.WriteString(w, countsTable(res.Counts, res.Total).Render())
		if err != nil {
			return fmt.Errorf("failed to write counts: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s (valid: %s, %s)", format, formatTable, formatJSON)
	}
}

// report is the JSON form of a conversion.
type report struct {
	Cols          int               `json:"cols"`
	Rows          int               `json:"rows"`
	Total         int               `json:"total"`
	Colours       int               `json:"colours"`
	FallbackCells int               `json:"fallbackCells"`
	MergedCells   int               `json:"mergedCells"`
	ExternalCells int               `json:"externalCells"`
	Counts        []reportCount     `json:"counts"`
	Grid          [][]string        `json:"grid"`
	External      [][]bool          `json:"external,omitempty"`
	Palette       map[string]string `json:"palette"`
}

type reportCount struct {
	Key   string `json:"key"`
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

func countsReport(res *pixelate.Result) report {
	r := report{
		Cols:          res.Cols,
		Rows:          res.Rows,
		Total:         res.Total,
		Colours:       len(res.Counts),
		FallbackCells: res.FallbackCells,
		MergedCells:   res.MergedCells,
		ExternalCells: res.ExternalCells,
		Grid:          res.Grid.KeyRows(),
		Palette:       make(map[string]string),
	}
	for _, key := range res.Counts.SortedKeys() {
		entry := res.Counts[key]
		r.Counts = append(r.Counts, reportCount{Key: key, Hex: entry.Hex, Count: entry.Count})
	}
	if res.ExternalCells > 0 {
		r.External = make([][]bool, res.Grid.Rows)
		for row := range res.Grid.Rows {
			r.External[row] = make([]bool, res.Grid.Cols)
			for col := range res.Grid.Cols {
				r.External[row][col] = res.Grid.At(col, row).External
			}
		}
	}
	for _, c := range res.Grid.Cells {
		r.Palette[c.Key] = c.Hex
	}
	return r
}

// countsTable builds the bead count table with colour swatches.
func countsTable(counts pixelate.ColourCounts, total int) *Table {
	table := NewTable([]string{"", "Key", "Hex", "Count"})
	table.AlignRight(3)
	for _, key := range counts.SortedKeys() {
		entry := counts[key]
		rgb, ok := colour.ParseHex(entry.Hex)
		if !ok {
			rgb = colour.White
		}
		table.AddRow([]string{colour.ColourPreview(rgb, 2), key, rgb.Hex(), strconv.Itoa(entry.Count)})
	}
	table.SetFooter([]string{"", "Total", fmt.Sprintf("%d colours", len(counts)), strconv.Itoa(total)})
	return table
}

// savePNG encodes img and writes it to path.
func savePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Output directory needs standard permissions
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { // #nosec G306 - Pattern images need standard read permissions
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// parseGridLineColour parses a --grid-colour value.
func parseGridLineColour(s string) (*colour.RGB, error) {
	if s == "" {
		return nil, nil
	}
	rgb, ok := colour.ParseHex(strings.TrimSpace(s))
	if !ok {
		return nil, fmt.Errorf("invalid grid colour %q: expected a hex colour like #555555", s)
	}
	return &rgb, nil
}
