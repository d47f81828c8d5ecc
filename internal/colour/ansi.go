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

// ColourPreview returns an ANSI-coloured block for a colour.
// Width specifies how many characters wide the block should be.
func ColourPreview(c Colour, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	rgb := c.RGB()
	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, rgb.R, rgb.G, rgb.B, ansiSuffix)

	return bgColour + strings.Repeat(" ", width) + ansiReset
}

// ColourPreviewWithText returns a colour block with centred text overlaid.
// The text colour is black or white, whichever has the higher WCAG contrast.
func ColourPreviewWithText(c Colour, text string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}

	fg := white
	if ContrastRatio(c, black) > ContrastRatio(c, white) {
		fg = black
	}

	rgb := c.RGB()
	fgRGB := fg.RGB()
	bgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiBgPrefix, rgb.R, rgb.G, rgb.B, ansiSuffix)
	fgColour := fmt.Sprintf("%s%d;%d;%d%s", ansiFgPrefix, fgRGB.R, fgRGB.G, fgRGB.B, ansiSuffix)

	displayText := text
	if len(text) > width {
		displayText = text[:width]
	} else if len(text) < width {
		padding := (width - len(text)) / 2
		displayText = strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
	}

	return bgColour + fgColour + displayText + ansiReset
}

// FormatColourWithLabel formats a colour with a label and preview.
func FormatColourWithLabel(c Colour, label string, width int) string {
	return fmt.Sprintf("%s  %-20s %s", ColourPreview(c, width), label, c.Hex())
}

// ScalePreview renders a scale as a single row of labelled blocks.
func ScalePreview(s Scale, width int) string {
	var sb strings.Builder
	for key, c := range s.All() {
		sb.WriteString(ColourPreviewWithText(c, key, width))
	}
	return sb.String()
}

// StripANSI removes the escape sequences produced by this package.
func StripANSI(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' {
			for i < len(s) && s[i] != 'm' {
				i++
			}
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

var (
	black = MustParseHex("#000000")
	white = MustParseHex("#ffffff")
)

// Black returns pure black.
func Black() Colour { return black }

// White returns pure white.
func White() Colour { return white }
