// Package colour provides utility functions for colour manipulation and analysis.
package colour

import (
	"math"
)

// WCAG contrast thresholds.
const (
	ContrastAALarge = 3.0 // Large text and UI components
	ContrastAA      = 4.5 // Normal text
	ContrastAAA     = 7.0 // Enhanced contrast
)

// Luminance calculates the relative luminance of a colour according to WCAG 2.x.
// Returns a value between 0 (darkest) and 1 (lightest).
// https://www.w3.org/TR/WCAG20/#relativeluminancedef.
func Luminance(c Colour) float64 {
	rgb := c.RGB()
	return LuminanceRGB(float64(rgb.R)/255.0, float64(rgb.G)/255.0, float64(rgb.B)/255.0)
}

// LuminanceRGB computes relative luminance from gamma-encoded channels in [0, 1].
func LuminanceRGB(r, g, b float64) float64 {
	return 0.2126*gammaCorrect(r) + 0.7152*gammaCorrect(g) + 0.0722*gammaCorrect(b)
}

// gammaCorrect linearises a gamma-encoded colour component.
func gammaCorrect(v float64) float64 {
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// ContrastRatio calculates the contrast ratio between two colours according to WCAG 2.x.
// Returns a value between 1 and 21, where 21 is maximum contrast (black vs white).
// https://www.w3.org/TR/WCAG20/#contrast-ratiodef.
func ContrastRatio(c1, c2 Colour) float64 {
	return ContrastRatioLuminance(Luminance(c1), Luminance(c2))
}

// ContrastRatioLuminance computes the WCAG ratio from two relative luminances.
func ContrastRatioLuminance(l1, l2 float64) float64 {
	// Ensure l1 is the lighter colour.
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

// HueDistance calculates the angular distance between two hues on the colour wheel.
// Returns a value between 0 and 180 degrees (shortest path around the wheel).
func HueDistance(h1, h2 float64) float64 {
	diff := math.Abs(NormaliseHue(h1) - NormaliseHue(h2))
	if diff > 180 {
		diff = 360 - diff // Handle wraparound
	}
	return diff
}

// IsAnalogous checks if two hues are within 30° on the colour wheel.
func IsAnalogous(h1, h2 float64) bool {
	return HueDistance(h1, h2) <= 30
}

// AdjustForContrast steps the OKLCH lightness of c away from bg until the WCAG
// ratio reaches minContrast or maxAttempts is exhausted. The direction is chosen
// from the background: darker on light backgrounds, lighter on dark ones.
// Returns the adjusted colour and whether the target was reached.
func AdjustForContrast(c, bg Colour, minContrast float64, maxAttempts int) (Colour, bool) {
	const stepSize = 0.02

	if ContrastRatio(c, bg) >= minContrast {
		return c, true
	}

	darken := Luminance(bg) > 0.18
	l := c.l
	current := c
	for range maxAttempts {
		if darken {
			l = math.Max(0, l-stepSize)
		} else {
			l = math.Min(1, l+stepSize)
		}
		current = FromOKLCH(l, c.c, c.h)
		if ContrastRatio(current, bg) >= minContrast {
			return current, true
		}
		if l == 0 || l == 1 {
			break
		}
	}

	return current, false
}
