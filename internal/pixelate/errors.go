package pixelate

import (
	"errors"

	"github.com/jmylchreest/beadgrid/internal/palette"
)

var (
	// ErrEmptyPalette is returned when the effective palette has no colours.
	ErrEmptyPalette = palette.ErrEmptyPalette

	// ErrInvalidDimensions is returned for a non-positive grid or raster size.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrInvalidThreshold is returned for a negative merge threshold.
	ErrInvalidThreshold = errors.New("merge threshold must be >= 0")

	// ErrInvalidMode is returned for an unknown sampling mode.
	ErrInvalidMode = errors.New("invalid sampling mode")

	// ErrInvalidStrategy is returned for an unknown merge strategy.
	ErrInvalidStrategy = errors.New("invalid merge strategy")

	// ErrNoRemapTarget is returned when a colour is excluded but no other colour
	// from the original grid is left to replace it.
	ErrNoRemapTarget = errors.New("no colour left to replace the excluded colour")
)
