package colour

import (
	"fmt"
	"strings"
)

// ANSI escape codes for terminal colours.
const (
	ansiReset    = "\033[0m"
	ansiFgPrefix = "\033[38;2;"
	ansiBgPrefix = "\033[48;2;"
	ansiSuffix   = "m"
	defaultWidth = 8
)

// DisableColourOutput can be used to disable colour output.
var DisableColourOutput = false

// ColourPreview returns an ANSI-coloured preview string for a colour.
// Width specifies how many characters wide the colour block should be.
// Uses background colour with spaces for a solid block.
func ColourPreview(c RGB, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	block := strings.Repeat(" ", width)
	if DisableColourOutput {
		return block
	}

	return bgSequence(c) + block + ansiReset
}

// ColourPreviewWithText returns a colour preview with text overlay.
// The text colour is chosen with ContrastText.
func ColourPreviewWithText(c RGB, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	// Pad or truncate text to fit width.
	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	if DisableColourOutput {
		return displayText
	}

	return bgSequence(c) + fgSequence(ContrastText(c)) + displayText + ansiReset
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(rgb RGB, label string, width int) string {
	preview := ColourPreview(rgb, width)
	return fmt.Sprintf("%s  %-6s %s", preview, label, rgb.Hex())
}

func bgSequence(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, c.R, c.G, c.B, ansiSuffix)
}

func fgSequence(c RGB) string {
	return fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, c.R, c.G, c.B, ansiSuffix)
}
