package pixelate

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

// DefaultFallbackKey is the preferred key for cells the palette cannot express.
const DefaultFallbackKey = "T1"

// Options configures a pipeline run.
type Options struct {
	// Cols is the number of grid columns. Rows follow the image aspect ratio.
	Cols int

	// Threshold is the merge sensitivity as an RGB distance. 0 disables merging.
	Threshold float64

	// Mode selects the cell sampling mode. Default: dominant.
	Mode Mode

	// Strategy selects the merge strategy. Default: global.
	Strategy MergeStrategy

	// Palette is the effective palette, after any exclusions.
	Palette *palette.Palette

	// BackgroundKeys are the keys flood filled from the border.
	// nil uses DefaultBackgroundKeys; an empty, non-nil slice disables tagging.
	BackgroundKeys []string

	// FallbackKey is the preferred key for transparent or degenerate cells.
	// When it is not in the palette, the first white colour is used, then the
	// first colour. Default: T1.
	FallbackKey string

	// Workers is the number of quantisation goroutines. <= 0 uses one per CPU.
	Workers int

	// Logger receives stage timings and anomalies. Default: a null logger.
	Logger hclog.Logger
}

// Result is the output of one pipeline run. It is not modified after Run
// returns.
type Result struct {
	Grid   *Grid        `json:"grid"`
	Counts ColourCounts `json:"counts"`
	Total  int          `json:"total"`
	Cols   int          `json:"cols"`
	Rows   int          `json:"rows"`

	// Fallback is the colour used for cells without a usable sample.
	Fallback palette.Colour `json:"fallback"`

	// FallbackCells is the number of cells resolved to Fallback during
	// quantisation.
	FallbackCells int `json:"fallbackCells"`

	// MergedCells is the number of cells recoloured by the merge stage.
	MergedCells int `json:"mergedCells"`

	// ExternalCells is the number of cells tagged as external background.
	ExternalCells int `json:"externalCells"`
}

// withDefaults returns a copy of o with empty fields filled in.
func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeDominant
	}
	if o.Strategy == "" {
		o.Strategy = MergeGlobal
	}
	if o.BackgroundKeys == nil {
		o.BackgroundKeys = DefaultBackgroundKeys
	}
	if o.FallbackKey == "" {
		o.FallbackKey = DefaultFallbackKey
	}
	if o.Logger == nil {
		o.Logger = hclog.NewNullLogger()
	}
	return o
}

// Validate checks the options. Empty fields that have defaults are accepted.
func (o Options) Validate() error {
	o = o.withDefaults()

	if o.Palette.Len() == 0 {
		return ErrEmptyPalette
	}
	if o.Cols <= 0 {
		return fmt.Errorf("%w: %d columns", ErrInvalidDimensions, o.Cols)
	}
	if o.Threshold < 0 || math.IsNaN(o.Threshold) || math.IsInf(o.Threshold, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, o.Threshold)
	}
	if !o.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, o.Mode)
	}
	if !o.Strategy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStrategy, o.Strategy)
	}
	return nil
}

// Run converts r into a bead grid. Option and dimension errors are returned
// before any sampling starts. The context is checked between quantisation rows
// and between stages; a cancelled run returns the context error and no grid.
func Run(ctx context.Context, r *Raster, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	log := opts.Logger

	if r == nil {
		return nil, fmt.Errorf("%w: no raster", ErrInvalidDimensions)
	}
	cols, rows, err := GridSize(r.Width, r.Height, opts.Cols)
	if err != nil {
		return nil, err
	}

	fallback, err := opts.Palette.Fallback(opts.FallbackKey)
	if err != nil {
		return nil, err
	}

	log.Debug("starting pipeline",
		"image", fmt.Sprintf("%dx%d", r.Width, r.Height),
		"grid", fmt.Sprintf("%dx%d", cols, rows),
		"palette", opts.Palette.Len(),
		"mode", opts.Mode,
		"strategy", opts.Strategy,
		"threshold", opts.Threshold,
		"fallback", fallback.Key)

	start := time.Now()
	g, fallbacks, err := quantize(ctx, r, cols, rows, opts.Palette, opts.Mode, fallback, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to quantize image: %w", err)
	}
	log.Debug("quantized grid", "duration", time.Since(start), "fallback_cells", fallbacks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	merged, err := Merge(g, opts.Palette, opts.Threshold, opts.Strategy, KeySet(opts.BackgroundKeys), fallback, log)
	if err != nil {
		return nil, fmt.Errorf("failed to merge colours: %w", err)
	}
	log.Debug("merged colours", "duration", time.Since(start), "changed_cells", merged)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	external := TagExternal(g, KeySet(opts.BackgroundKeys))
	counts, total := Aggregate(g)
	log.Debug("tagged background", "external_cells", external, "beads", total, "colours", len(counts))

	return &Result{
		Grid:          g,
		Counts:        counts,
		Total:         total,
		Cols:          cols,
		Rows:          rows,
		Fallback:      fallback,
		FallbackCells: fallbacks,
		MergedCells:   merged,
		ExternalCells: external,
	}, nil
}
