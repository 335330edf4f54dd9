package colour

import "math"

var (
	// Black is used for labels on light bead colours.
	Black = RGB{R: 0, G: 0, B: 0}

	// White is used for labels on dark bead colours and for external cells.
	White = RGB{R: 255, G: 255, B: 255}
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.0.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(rgb RGB) float64 {
	r := gammaCorrect(float64(rgb.R) / 255.0)
	g := gammaCorrect(float64(rgb.G) / 255.0)
	b := gammaCorrect(float64(rgb.B) / 255.0)

	return 0.2126*r + 0.7152*g + 0.0722*b
}

// gammaCorrect applies gamma correction to a colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Luma returns the un-linearised brightness of a colour in [0, 1].
func Luma(rgb RGB) float64 {
	return (0.2126*float64(rgb.R) + 0.7152*float64(rgb.G) + 0.0722*float64(rgb.B)) / 255
}

// ContrastText picks black or white for text drawn on top of bg using Luma,
// not WCAG luminance.
func ContrastText(bg RGB) RGB {
	if Luma(bg) > 0.5 {
		return Black
	}
	return White
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.0.
// Returns a value between 1 and 21.
func ContrastRatio(c1, c2 RGB) float64 {
	l1 := Luminance(c1)
	l2 := Luminance(c2)

	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}

	return (l1 + 0.05) / (l2 + 0.05)
}
