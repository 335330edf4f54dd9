// Package config resolves beadgrid settings from flags, environment variables
// and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/pixelate"
)

// Environment variables read by WithEnvConfig.
const (
	EnvPalette    = "BEADGRID_PALETTE"
	EnvPreset     = "BEADGRID_PRESET"
	EnvBackground = "BEADGRID_BACKGROUND"
	EnvWorkers    = "BEADGRID_WORKERS"
	EnvSelections = "BEADGRID_SELECTIONS"
)

// Flag names read by WithFlags.
const (
	FlagPalette    = "palette"
	FlagPreset     = "preset"
	FlagBackground = "background"
	FlagWorkers    = "workers"
	FlagSelections = "selections-file"
)

// Config holds the settings shared by beadgrid commands.
type Config struct {
	// PaletteFile is the JSON palette to load.
	PaletteFile string

	// Preset narrows the palette to a bead box. Default: all.
	Preset string

	// BackgroundKeys are the keys flood filled from the grid border.
	BackgroundKeys []string

	// Workers is the number of quantisation goroutines. 0 uses one per CPU.
	Workers int

	// SelectionsFile stores the user's palette selections.
	SelectionsFile string
}

// Builder resolves a Config. Precedence is flags that were set explicitly,
// then environment variables, then defaults.
type Builder struct {
	config Config
	useEnv bool
	flags  *pflag.FlagSet
	getenv func(string) string
}

// NewBuilder creates a builder with default settings.
func NewBuilder() *Builder {
	return &Builder{
		config: Config{
			Preset:         palette.PresetAll,
			BackgroundKeys: append([]string(nil), pixelate.DefaultBackgroundKeys...),
			SelectionsFile: DefaultSelectionsFile(),
		},
		getenv: os.Getenv,
	}
}

// WithConfig replaces the defaults.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig loads configuration from BEADGRID_* environment variables.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// WithFlags applies flags from fs that were set on the command line.
func (b *Builder) WithFlags(fs *pflag.FlagSet) *Builder {
	b.flags = fs
	return b
}

// withGetenv replaces the environment lookup, for tests.
func (b *Builder) withGetenv(getenv func(string) string) *Builder {
	b.getenv = getenv
	return b
}

// Build resolves the configuration.
func (b *Builder) Build() (Config, error) {
	config := b.config

	if b.useEnv {
		if v := b.getenv(EnvPalette); v != "" {
			config.PaletteFile = v
		}
		if v := b.getenv(EnvPreset); v != "" {
			config.Preset = v
		}
		if v := b.getenv(EnvBackground); v != "" {
			config.BackgroundKeys = ParseKeyList(v)
		}
		if v := b.getenv(EnvWorkers); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 0 {
				return Config{}, fmt.Errorf("invalid %s value %q: must be a non-negative integer", EnvWorkers, v)
			}
			config.Workers = n
		}
		if v := b.getenv(EnvSelections); v != "" {
			config.SelectionsFile = v
		}
	}

	if b.flags != nil {
		if err := applyFlags(&config, b.flags); err != nil {
			return Config{}, err
		}
	}

	if config.Workers < 0 {
		return Config{}, fmt.Errorf("invalid workers value %d: must be >= 0", config.Workers)
	}
	if _, ok := palette.Preset(config.Preset); !ok {
		return Config{}, fmt.Errorf("unknown palette preset: %s (valid: %v)", config.Preset, palette.PresetNames())
	}

	return config, nil
}

// applyFlags copies explicitly set flags into config.
func applyFlags(config *Config, fs *pflag.FlagSet) error {
	var err error
	if fs.Changed(FlagPalette) {
		if config.PaletteFile, err = fs.GetString(FlagPalette); err != nil {
			return fmt.Errorf("failed to read --%s: %w", FlagPalette, err)
		}
	}
	if fs.Changed(FlagPreset) {
		if config.Preset, err = fs.GetString(FlagPreset); err != nil {
			return fmt.Errorf("failed to read --%s: %w", FlagPreset, err)
		}
	}
	if fs.Changed(FlagBackground) {
		keys, err := fs.GetStringSlice(FlagBackground)
		if err != nil {
			return fmt.Errorf("failed to read --%s: %w", FlagBackground, err)
		}
		config.BackgroundKeys = ParseKeyList(strings.Join(keys, ","))
	}
	if fs.Changed(FlagWorkers) {
		if config.Workers, err = fs.GetInt(FlagWorkers); err != nil {
			return fmt.Errorf("failed to read --%s: %w", FlagWorkers, err)
		}
	}
	if fs.Changed(FlagSelections) {
		if config.SelectionsFile, err = fs.GetString(FlagSelections); err != nil {
			return fmt.Errorf("failed to read --%s: %w", FlagSelections, err)
		}
	}
	return nil
}

// ParseKeyList splits a comma separated key list, trimming blanks. An empty
// result is returned as a non-nil slice so it can disable background tagging.
func ParseKeyList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// DefaultSelectionsFile returns the default path of the selections file.
func DefaultSelectionsFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".beadgrid", "selections.json")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "beadgrid", "selections.json")
}
