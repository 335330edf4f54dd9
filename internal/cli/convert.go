package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/beadgrid/internal/config"
	"github.com/jmylchreest/beadgrid/internal/image"
	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
	"github.com/jmylchreest/beadgrid/internal/project"
	"github.com/jmylchreest/beadgrid/internal/render"
	httputil "github.com/jmylchreest/beadgrid/internal/util/http"
	"github.com/jmylchreest/beadgrid/internal/util/imagecache"
)

// Conversion defaults.
const (
	defaultCols      = 50
	defaultThreshold = 35
)

// convertOptions holds the convert command flags.
type convertOptions struct {
	cols          int
	threshold     float64
	mode          string
	strategy      string
	fallback      string
	exclude       []string
	useSelections bool
	format        string
	output        string
	statsOutput   string
	previewOutput string
	projectFile   string
	title         string
	cellSize      int
	gridInterval  int
	gridColour    string
	noGrid        bool
	coordinates   bool
	noStats       bool
	hideKeys      bool
	preview       bool
	cache         bool
	refreshCache  bool
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image into a bead pattern",
		Long: `Convert an image into a bead pattern.

The image is divided into a grid with the given number of columns; the
number of rows follows the image aspect ratio. Each cell is matched to the
closest bead colour, similar colours are merged, and background beads
connected to the border are left out of the count.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF. The image may
also be an http(s) URL.

Examples:
  # Print the bead counts for a 50 column pattern
  beadgrid convert -P mard.json heart.png

  # Export a printable pattern with coordinates, limited to the 72 colour box
  beadgrid convert -P mard.json --preset 72 --coordinates -o heart-pattern.png heart.png

  # Merge harder, average cells and preview in the terminal
  beadgrid convert -P mard.json -t 60 --mode average --preview photo.jpg

  # Remove a colour after conversion and save the project
  beadgrid convert -P mard.json --exclude H7 --project heart.json.xz heart.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args[0])
		},
	}

	fs := cmd.Flags()
	addPaletteFlags(fs)
	fs.StringSlice(config.FlagBackground, pixelate.DefaultBackgroundKeys, "background keys flood filled from the border, empty to disable (env: "+config.EnvBackground+")")
	fs.Int(config.FlagWorkers, 0, "quantisation workers, 0 for one per CPU (env: "+config.EnvWorkers+")")

	fs.IntVarP(&opts.cols, "cols", "n", defaultCols, "number of bead columns (10-300 recommended)")
	fs.Float64VarP(&opts.threshold, "threshold", "t", defaultThreshold, "colour merge threshold as an RGB distance, 0 disables merging (0-200 recommended)")
	fs.StringVar(&opts.mode, "mode", string(pixelate.ModeDominant), fmt.Sprintf("cell sampling mode %v", pixelate.Modes()))
	fs.StringVar(&opts.strategy, "strategy", string(pixelate.MergeGlobal), fmt.Sprintf("merge strategy %v", pixelate.MergeStrategies()))
	fs.StringVar(&opts.fallback, "fallback", pixelate.DefaultFallbackKey, "palette key for transparent cells")
	fs.StringSliceVar(&opts.exclude, "exclude", nil, "colour keys to remove after conversion, remapped to the closest remaining colour")
	fs.BoolVar(&opts.useSelections, "selections", false, "use the saved palette selections instead of --preset")

	fs.StringVarP(&opts.format, "format", "f", formatTable, "bead count output format (table, json)")
	fs.StringVarP(&opts.output, "output", "o", "", "write the pattern sheet PNG to this file")
	fs.StringVar(&opts.statsOutput, "stats-output", "", "write the bead count legend PNG to this file")
	fs.StringVar(&opts.previewOutput, "preview-output", "", "write a one pixel per bead preview PNG to this file")
	fs.StringVar(&opts.projectFile, "project", "", "save the pattern as a project file (.json or .json.xz)")

	fs.StringVar(&opts.title, "title", "", "title printed above the pattern sheet")
	fs.IntVar(&opts.cellSize, "cell-size", render.DefaultCellSize, "bead size in pixels on the pattern sheet")
	fs.IntVar(&opts.gridInterval, "grid-interval", render.DefaultGridInterval, "cells between thick grid lines")
	fs.StringVar(&opts.gridColour, "grid-colour", render.DefaultGridLineColour.Hex(), "colour of the thick grid lines")
	fs.BoolVar(&opts.noGrid, "no-grid", false, "do not draw thick grid lines")
	fs.BoolVar(&opts.coordinates, "coordinates", false, "draw row and column numbers")
	fs.BoolVar(&opts.noStats, "no-stats", false, "leave the bead count legend off the pattern sheet")
	fs.BoolVar(&opts.hideKeys, "hide-keys", false, "do not print colour keys on the beads")

	fs.BoolVar(&opts.preview, "preview", false, "show an ANSI preview when stdout is a terminal")
	fs.BoolVar(&opts.cache, "cache", true, "cache images downloaded from URLs")
	fs.BoolVar(&opts.refreshCache, "refresh-cache", false, "download URL images again even when cached")

	return cmd
}

func (o *convertOptions) validate() error {
	if o.cols < 1 {
		return fmt.Errorf("invalid --cols %d: must be at least 1", o.cols)
	}
	if o.threshold < 0 {
		return fmt.Errorf("invalid --threshold %g: must be >= 0", o.threshold)
	}
	if o.format != formatTable && o.format != formatJSON {
		return fmt.Errorf("unsupported format: %s (valid: %s, %s)", o.format, formatTable, formatJSON)
	}
	if o.cellSize < 1 {
		return fmt.Errorf("invalid --cell-size %d: must be at least 1", o.cellSize)
	}
	if o.gridInterval < 1 {
		return fmt.Errorf("invalid --grid-interval %d: must be at least 1", o.gridInterval)
	}
	return nil
}

// runConvert executes the convert command.
func runConvert(cmd *cobra.Command, opts *convertOptions, imagePath string) error {
	log := newLogger(cmd)

	if err := opts.validate(); err != nil {
		return err
	}
	mode, err := pixelate.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	strategy, err := pixelate.ParseMergeStrategy(opts.strategy)
	if err != nil {
		return err
	}
	gridColour, err := parseGridLineColour(opts.gridColour)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	full, pal, err := loadPalettes(cfg, log)
	if err != nil {
		return err
	}
	if opts.useSelections {
		pal, err = selectedPalette(cfg, full)
		if err != nil {
			return err
		}
	}

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}
	if !httputil.IsURL(imagePath) {
		if !image.IsImageFile(imagePath) {
			log.Warn("unrecognised image extension, detecting format from content", "path", imagePath)
		}
		if w, _, err := image.GetImageDimensions(imagePath); err == nil && opts.cols > w {
			log.Warn("more columns than image pixels, beads will repeat source pixels", "cols", opts.cols, "width", w)
		}
	}

	loader := image.NewSmartLoader()
	if opts.cache {
		loader.Cache = &imagecache.Options{Refresh: opts.refreshCache}
	}
	log.Debug("loading image", "path", imagePath)
	img, err := loader.Load(cmd.Context(), imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	log.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	raster, err := pixelate.RasterFromImage(img)
	if err != nil {
		return fmt.Errorf("failed to read image pixels: %w", err)
	}

	res, err := pixelate.Run(cmd.Context(), raster, pixelate.Options{
		Cols:           opts.cols,
		Threshold:      opts.threshold,
		Mode:           mode,
		Strategy:       strategy,
		Palette:        pal,
		BackgroundKeys: cfg.BackgroundKeys,
		FallbackKey:    opts.fallback,
		Workers:        cfg.Workers,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("failed to convert image: %w", err)
	}

	if len(opts.exclude) > 0 {
		res, err = excludeColours(res, pal, opts.exclude)
		if err != nil {
			return err
		}
	}

	if res.FallbackCells > 0 {
		log.Info("cells without a usable colour", "count", res.FallbackCells, "fallback", res.Fallback.Key)
	}

	if err := writeCounts(cmd.OutOrStdout(), res, opts.format); err != nil {
		return err
	}

	if opts.preview {
		if err := showPreview(cmd, res); err != nil {
			return err
		}
	}

	if opts.output != "" {
		sheet, err := render.GridImage(res, render.Options{
			CellSize:        opts.cellSize,
			HideKeys:        opts.hideKeys,
			ShowGrid:        !opts.noGrid,
			GridInterval:    opts.gridInterval,
			GridLineColour:  gridColour,
			ShowCoordinates: opts.coordinates,
			IncludeStats:    !opts.noStats,
			Title:           opts.title,
		})
		if err != nil {
			return fmt.Errorf("failed to render pattern: %w", err)
		}
		if err := savePNG(opts.output, sheet); err != nil {
			return err
		}
		log.Debug("wrote pattern sheet", "path", opts.output)
	}

	if opts.statsOutput != "" && len(res.Counts) > 0 {
		stats, err := render.StatsImage(res.Counts, 0)
		if err != nil {
			return fmt.Errorf("failed to render legend: %w", err)
		}
		if err := savePNG(opts.statsOutput, stats); err != nil {
			return err
		}
		log.Debug("wrote legend", "path", opts.statsOutput)
	}

	if opts.previewOutput != "" {
		prev, err := render.Preview(res, max(res.Cols*8, 400))
		if err != nil {
			return fmt.Errorf("failed to render preview: %w", err)
		}
		if err := savePNG(opts.previewOutput, prev); err != nil {
			return err
		}
		log.Debug("wrote preview", "path", opts.previewOutput)
	}

	if opts.projectFile != "" {
		p, err := project.FromResult(res, project.Settings{
			Source:    projectSource(imagePath),
			Preset:    cfg.Preset,
			Threshold: opts.threshold,
			Mode:      mode,
			Strategy:  strategy,
			Excluded:  opts.exclude,
		})
		if err != nil {
			return err
		}
		if err := project.Save(opts.projectFile, p); err != nil {
			return err
		}
		log.Debug("saved project", "path", opts.projectFile)
	}

	return nil
}

// selectedPalette narrows full to the saved selections.
func selectedPalette(cfg config.Config, full *palette.Palette) (*palette.Palette, error) {
	sel, err := palette.LoadSelections(cfg.SelectionsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load selections: %w", err)
	}
	if sel == nil {
		return nil, fmt.Errorf("no saved selections in %s: run 'beadgrid palette select' first", cfg.SelectionsFile)
	}
	pal := sel.Apply(full)
	if pal.Len() == 0 {
		return nil, fmt.Errorf("saved selections match no palette colours: %w", palette.ErrEmptyPalette)
	}
	return pal, nil
}

// excludeColours removes each key in turn, remapping its beads to the closest
// colour that the grid used before any exclusion.
func excludeColours(res *pixelate.Result, pal *palette.Palette, keys []string) (*pixelate.Result, error) {
	initial := internalKeys(res.Grid)
	excluded := make(map[string]bool, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" || excluded[key] {
			continue
		}
		if _, used := res.Counts[key]; !used {
			excluded[key] = true
			continue
		}
		next, err := pixelate.Exclude(res, key, pal, initial, excluded)
		if err != nil {
			return nil, fmt.Errorf("failed to exclude %s: %w", key, err)
		}
		excluded[key] = true
		res = next
	}
	return res, nil
}

// internalKeys returns the distinct keys of internal cells.
func internalKeys(g *pixelate.Grid) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range g.Cells {
		if c.External || seen[c.Key] {
			continue
		}
		seen[c.Key] = true
		keys = append(keys, c.Key)
	}
	return keys
}

// showPreview writes the terminal preview when stdout is a terminal.
func showPreview(cmd *cobra.Command, res *pixelate.Result) error {
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(out.Fd())) { // #nosec G115 - file descriptors fit in int
		newLogger(cmd).Debug("stdout is not a terminal, skipping preview")
		return nil
	}

	width := 80
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 { // #nosec G115 - file descriptors fit in int
		width = w
	}

	fmt.Fprintln(out)
	return render.Terminal(out, res, width)
}

// projectSource records where a project came from: URLs as given, files by
// base name.
func projectSource(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return filepath.Base(path)
}
