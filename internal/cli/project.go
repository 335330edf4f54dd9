package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/pixelate"
	"github.com/jmylchreest/beadgrid/internal/project"
	"github.com/jmylchreest/beadgrid/internal/render"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Work with saved bead patterns",
		Long: `Work with project files saved by 'beadgrid convert --project'.

Projects store bead keys only. Colours are looked up in the palette given
with --palette, so the palette used for conversion must be available.`,
	}

	cmd.AddCommand(newProjectShowCmd())
	cmd.AddCommand(newProjectRenderCmd())
	return cmd
}

// loadProjectResult loads a project file and rebuilds its result against the
// configured palette.
func loadProjectResult(cmd *cobra.Command, path string) (*project.Project, *pixelate.Result, error) {
	log := newLogger(cmd)
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	full, _, err := loadPalettes(cfg, log)
	if err != nil {
		return nil, nil, err
	}

	p, err := project.Load(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Result(full)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to restore project: %w", err)
	}
	log.Debug("loaded project", "path", path, "cols", p.Cols, "rows", p.Rows, "created", p.CreatedAt)
	return p, res, nil
}

func newProjectShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Print the bead counts of a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, res, err := loadProjectResult(cmd, args[0])
			if err != nil {
				return err
			}
			if format == formatTable && !isQuiet(cmd) {
				s := p.Settings
				fmt.Fprintf(cmd.OutOrStdout(), "%dx%d beads from %s (preset %s, threshold %g, %s, %s)\n",
					p.Cols, p.Rows, orUnknown(s.Source), orUnknown(s.Preset), s.Threshold, s.Mode, s.Strategy)
				if len(s.Excluded) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Excluded: %s\n", strings.Join(s.Excluded, " "))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Colours: %s\n\n", strings.Join(p.Keys(), " "))
			}
			return writeCounts(cmd.OutOrStdout(), res, format)
		},
	}

	addPaletteFlags(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format (table, json)")
	return cmd
}

func newProjectRenderCmd() *cobra.Command {
	var (
		output      string
		title       string
		cellSize    int
		interval    int
		gridColour  string
		noGrid      bool
		coordinates bool
		noStats     bool
		hideKeys    bool
	)

	cmd := &cobra.Command{
		Use:   "render <project>",
		Short: "Render a saved project as a pattern sheet PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--output is required")
			}
			lineColour, err := parseGridLineColour(gridColour)
			if err != nil {
				return err
			}

			_, res, err := loadProjectResult(cmd, args[0])
			if err != nil {
				return err
			}

			sheet, err := render.GridImage(res, render.Options{
				CellSize:        cellSize,
				HideKeys:        hideKeys,
				ShowGrid:        !noGrid,
				GridInterval:    interval,
				GridLineColour:  lineColour,
				ShowCoordinates: coordinates,
				IncludeStats:    !noStats,
				Title:           title,
			})
			if err != nil {
				return fmt.Errorf("failed to render pattern: %w", err)
			}
			return savePNG(output, sheet)
		},
	}

	fs := cmd.Flags()
	addPaletteFlags(fs)
	fs.StringVarP(&output, "output", "o", "", "PNG file to write")
	fs.StringVar(&title, "title", "", "title printed above the pattern sheet")
	fs.IntVar(&cellSize, "cell-size", render.DefaultCellSize, "bead size in pixels")
	fs.IntVar(&interval, "grid-interval", render.DefaultGridInterval, "cells between thick grid lines")
	fs.StringVar(&gridColour, "grid-colour", render.DefaultGridLineColour.Hex(), "colour of the thick grid lines")
	fs.BoolVar(&noGrid, "no-grid", false, "do not draw thick grid lines")
	fs.BoolVar(&coordinates, "coordinates", false, "draw row and column numbers")
	fs.BoolVar(&noStats, "no-stats", false, "leave the bead count legend off")
	fs.BoolVar(&hideKeys, "hide-keys", false, "do not print colour keys on the beads")
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
