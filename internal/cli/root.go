// Package cli provides the command-line interface for beadgrid.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/logging"
	"github.com/jmylchreest/beadgrid/internal/version"
)

// NewRootCmd builds the beadgrid command tree. Each call returns a fresh tree
// with its own flag state.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "beadgrid",
		Short: "Turn images into fuse bead patterns",
		Long: `beadgrid converts images into fuse bead (perler/hama style) patterns.

Each image is divided into a grid of cells, every cell is matched to the
closest bead colour of a palette, similar colours are merged to reduce the
number of bead colours needed, and the background connected to the border
is left out of the bead count.

The result can be printed as a bead count table, previewed in the terminal,
exported as a printable PNG pattern sheet, and saved as a project file.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress non-error output")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newPaletteCmd())
	rootCmd.AddCommand(newProjectCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the logger for a command from the global flags.
func newLogger(cmd *cobra.Command) hclog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	quiet, _ := cmd.Flags().GetBool("quiet")
	return logging.New(verbose, quiet, cmd.ErrOrStderr())
}

// isQuiet reports whether --quiet was given.
func isQuiet(cmd *cobra.Command) bool {
	quiet, _ := cmd.Flags().GetBool("quiet")
	return quiet
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
