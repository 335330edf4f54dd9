package pixelate

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/beadgrid/internal/colour"
	"github.com/jmylchreest/beadgrid/internal/security"
)

// Mode selects how a cell's representative colour is computed.
type Mode string

const (
	// ModeDominant picks the most frequent exact colour in the cell.
	// Flat areas and hard edges survive, which suits cartoons and pixel art.
	ModeDominant Mode = "dominant"

	// ModeAverage takes the per-channel mean of the cell.
	// Gradients and noise are smoothed, which suits photographs.
	ModeAverage Mode = "average"
)

// AlphaThreshold is the minimum alpha for a pixel to take part in sampling.
const AlphaThreshold = 128

// Modes returns the valid sampling modes.
func Modes() []Mode {
	return []Mode{ModeDominant, ModeAverage}
}

// ParseMode parses a sampling mode name. An empty name selects ModeDominant.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDominant:
		return ModeDominant, nil
	case ModeAverage:
		return ModeAverage, nil
	default:
		return "", fmt.Errorf("%w: %q (valid: dominant, average)", ErrInvalidMode, s)
	}
}

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDominant || m == ModeAverage
}

// Sample computes the representative colour of the box [x0, x0+w) x [y0, y0+h).
// Pixels with alpha below AlphaThreshold are ignored. The boolean is false when
// the box is empty or every pixel in it was ignored; the caller substitutes a
// fallback colour. The box must lie within the raster.
func Sample(r *Raster, x0, y0, w, h int, mode Mode) (colour.RGB, bool) {
	if w <= 0 || h <= 0 {
		return colour.RGB{}, false
	}

	switch mode {
	case ModeAverage:
		return sampleAverage(r, x0, y0, w, h)
	default:
		return sampleDominant(r, x0, y0, w, h)
	}
}

// sampleDominant counts exact RGB triples. Ties go to the triple seen first in
// row-major order.
func sampleDominant(r *Raster, x0, y0, w, h int) (colour.RGB, bool) {
	counts := make(map[uint32]int)
	var order []uint32

	for y := y0; y < y0+h; y++ {
		i := r.offset(x0, y)
		for x := 0; x < w; x, i = x+1, i+4 {
			if r.Pix[i+3] < AlphaThreshold {
				continue
			}
			packed := uint32(r.Pix[i])<<16 | uint32(r.Pix[i+1])<<8 | uint32(r.Pix[i+2])
			if counts[packed] == 0 {
				order = append(order, packed)
			}
			counts[packed]++
		}
	}

	if len(order) == 0 {
		return colour.RGB{}, false
	}

	best, bestCount := order[0], counts[order[0]]
	for _, c := range order[1:] {
		if counts[c] > bestCount {
			best, bestCount = c, counts[c]
		}
	}

	return colour.RGB{
		R: uint8(best >> 16), // #nosec G115 - packed from 8-bit channels
		G: uint8(best >> 8),  // #nosec G115 - packed from 8-bit channels
		B: uint8(best),       // #nosec G115 - packed from 8-bit channels
	}, true
}

// sampleAverage returns the per-channel mean, rounded half up.
func sampleAverage(r *Raster, x0, y0, w, h int) (colour.RGB, bool) {
	var totalR, totalG, totalB, count uint64

	for y := y0; y < y0+h; y++ {
		i := r.offset(x0, y)
		for x := 0; x < w; x, i = x+1, i+4 {
			if r.Pix[i+3] < AlphaThreshold {
				continue
			}
			totalR += uint64(r.Pix[i])
			totalG += uint64(r.Pix[i+1])
			totalB += uint64(r.Pix[i+2])
			count++
		}
	}

	if count == 0 {
		return colour.RGB{}, false
	}

	half := count / 2
	return colour.RGB{
		R: security.SafeUint8FromUint64((totalR + half) / count),
		G: security.SafeUint8FromUint64((totalG + half) / count),
		B: security.SafeUint8FromUint64((totalB + half) / count),
	}, true
}
