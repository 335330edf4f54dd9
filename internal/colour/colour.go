// Package colour provides the RGB colour model used throughout beadgrid.
package colour

import (
	"fmt"
	"image/color"
	"math"
)

// MaxDistance is the largest possible Euclidean distance between two RGB colours
// (black to white).
var MaxDistance = math.Sqrt(3 * 255 * 255)

// RGB represents a colour in 8-bit RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// String returns the RGB color as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as an upper case hex string (e.g., "#1A2B3C").
// Bead manufacturers publish their palettes in upper case.
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

// RGBA returns the colour as a fully opaque color.RGBA.
func (rgb RGB) RGBA() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// ToRGB converts a color.Color to RGB, discarding alpha.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// Distance calculates the Euclidean distance between two colours in RGB space.
// The result lies in [0, MaxDistance].
func Distance(a, b RGB) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// ParseHex parses a six digit hex colour with an optional leading '#'.
// Parsing is case-insensitive. The boolean is false for malformed input.
func ParseHex(s string) (RGB, bool) {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return RGB{}, false
	}

	var v [3]uint8
	for i := range v {
		hi, ok := hexNibble(s[i*2])
		if !ok {
			return RGB{}, false
		}
		lo, ok := hexNibble(s[i*2+1])
		if !ok {
			return RGB{}, false
		}
		v[i] = hi<<4 | lo
	}

	return RGB{R: v[0], G: v[1], B: v[2]}, true
}

// MustParseHex is like ParseHex but panics on malformed input.
// It is intended for package-level tables of known-good colours.
func MustParseHex(s string) RGB {
	rgb, ok := ParseHex(s)
	if !ok {
		panic(fmt.Sprintf("colour: invalid hex colour %q", s))
	}
	return rgb
}

// hexNibble converts a single hex character to its value.
func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
