package cli

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/palette"
)

func newPaletteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Inspect bead palettes and manage colour selections",
		Long: `Inspect bead palettes and manage colour selections.

A palette is a JSON object mapping bead keys to hex colours, for example
{"A1": "#FAF4C8", "A2": "#FFFFD5"}. Presets narrow a palette to the colours
of a commercial bead box. Selections are a saved set of enabled colours
used by 'beadgrid convert --selections'.`,
	}

	cmd.AddCommand(newPaletteListCmd())
	cmd.AddCommand(newPalettePresetsCmd())
	cmd.AddCommand(newPaletteSelectCmd())
	return cmd
}

func newPaletteListCmd() *cobra.Command {
	var grouped bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the colours of a palette",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			_, pal, err := loadPalettes(cfg, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !grouped {
				fmt.Fprint(out, paletteTable(pal.Colours()).Render())
				return nil
			}
			for _, g := range palette.GroupByPrefix(pal.Colours()) {
				fmt.Fprintf(out, "%s (%d)\n", g.Prefix, len(g.Colours))
				fmt.Fprint(out, paletteTable(g.Colours).Render())
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	addPaletteFlags(cmd.Flags())
	cmd.Flags().BoolVar(&grouped, "group", false, "group colours by key prefix")
	return cmd
}

// paletteTable lists colours in key order.
func paletteTable(colours []palette.Colour) *Table {
	sorted := slices.Clone(colours)
	slices.SortStableFunc(sorted, func(a, b palette.Colour) int {
		return palette.CompareKeys(a.Key, b.Key)
	})

	table := NewTable([]string{"", "Key", "Hex", "RGB"})
	for _, c := range sorted {
		table.AddRow([]string{
			colour.ColourPreviewWithText(c.RGB, c.Key, 4),
			c.Key,
			c.RGB.Hex(),
			fmt.Sprintf("%d,%d,%d", c.RGB.R, c.RGB.G, c.RGB.B),
		})
	}
	return table
}

func newPalettePresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the available palette presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := NewTable([]string{"Preset", "Colours"})
			table.AlignRight(1)
			for _, name := range palette.PresetNames() {
				keys, _ := palette.Preset(name)
				size := "palette"
				if keys != nil {
					size = strconv.Itoa(len(keys))
				}
				table.AddRow([]string{name, size})
			}
			fmt.Fprint(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newPaletteSelectCmd() *cobra.Command {
	var (
		add   []string
		del   []string
		reset bool
	)

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Save the set of colours used by convert --selections",
		Long: `Save the set of colours used by 'beadgrid convert --selections'.

Selections start from the --preset colours when no selections are saved yet
or when --reset is given, then --add and --remove are applied.

Examples:
  # Start from the 72 colour box
  beadgrid palette select -P mard.json --preset 72 --reset

  # Add two colours you own and remove one you ran out of
  beadgrid palette select -P mard.json --add A1,A2 --remove H7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(cmd)
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			full, pal, err := loadPalettes(cfg, log)
			if err != nil {
				return err
			}

			sel, err := palette.LoadSelections(cfg.SelectionsFile)
			if err != nil {
				log.Warn("discarding unreadable selections", "file", cfg.SelectionsFile, "error", err)
				sel = nil
			}
			if sel == nil || reset {
				sel = palette.PresetToSelections(full.Keys(), pal.Keys())
			}

			for _, key := range add {
				if !full.Contains(key) {
					return fmt.Errorf("cannot select %q: key is not in the palette", key)
				}
				sel[key] = true
			}
			for _, key := range del {
				if _, ok := sel[key]; ok {
					sel[key] = false
				}
			}

			if len(sel.Keys()) == 0 {
				return fmt.Errorf("refusing to save an empty selection: %w", palette.ErrEmptyPalette)
			}
			if err := palette.SaveSelections(cfg.SelectionsFile, sel); err != nil {
				return err
			}

			if !isQuiet(cmd) {
				fmt.Fprintf(cmd.OutOrStdout(), "Selected %d of %d colours (%s)\n", len(sel.Keys()), full.Len(), cfg.SelectionsFile)
			}
			return nil
		},
	}

	addPaletteFlags(cmd.Flags())
	cmd.Flags().StringSliceVar(&add, "add", nil, "keys to select")
	cmd.Flags().StringSliceVar(&del, "remove", nil, "keys to deselect")
	cmd.Flags().BoolVar(&reset, "reset", false, "start again from the --preset colours")
	return cmd
}
