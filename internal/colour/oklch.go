package colour

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// gamutEpsilon is the tolerance applied to linear channels when testing sRGB gamut membership.
	gamutEpsilon = 1e-5

	// gamutIterations bounds the chroma bisection used by gamut mapping.
	gamutIterations = 24

	// achromaticChroma is the chroma below which hue is considered undefined.
	achromaticChroma = 1e-6
)

// HexToUniform converts a hex colour to OKLCH lightness, chroma and hue (degrees).
func HexToUniform(hex string) (l, c, h float64, err error) {
	col, err := ParseHex(hex)
	if err != nil {
		return 0, 0, 0, err
	}
	return col.l, col.c, col.h, nil
}

// UniformToHex converts OKLCH coordinates to a hex colour.
// Out-of-gamut coordinates are projected into sRGB by reducing chroma at constant
// lightness and hue, so this never fails.
func UniformToHex(l, c, h float64) string {
	if math.IsNaN(l) {
		l = 0
	}
	if math.IsNaN(c) || c < 0 {
		c = 0
	}
	if math.IsNaN(h) || math.IsInf(h, 0) {
		h = 0
	}

	switch {
	case l >= 1:
		return "#ffffff"
	case l <= 0:
		return "#000000"
	}

	if math.IsInf(c, 1) {
		c = 1
	}

	col := oklchToColorful(l, c, h)
	if inGamut(col) {
		return col.Clamped().Hex()
	}

	lo, hi := 0.0, c
	for range gamutIterations {
		mid := (lo + hi) / 2
		if inGamut(oklchToColorful(l, mid, h)) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return oklchToColorful(l, lo, h).Clamped().Hex()
}

// InGamut reports whether the OKLCH coordinates are displayable in sRGB without clipping.
func InGamut(l, c, h float64) bool {
	return inGamut(oklchToColorful(l, c, h))
}

func inGamut(col colorful.Color) bool {
	return col.R >= -gamutEpsilon && col.R <= 1+gamutEpsilon &&
		col.G >= -gamutEpsilon && col.G <= 1+gamutEpsilon &&
		col.B >= -gamutEpsilon && col.B <= 1+gamutEpsilon
}

// toOKLCH converts an sRGB colour to OKLCH.
func toOKLCH(col colorful.Color) (l, c, h float64) {
	l, a, b := toOKLab(col)
	c = math.Hypot(a, b)
	if c < achromaticChroma {
		return l, 0, 0
	}

	h = math.Atan2(b, a) * 180 / math.Pi
	if h < 0 {
		h += 360
	}
	return l, c, h
}

func oklchToColorful(l, c, h float64) colorful.Color {
	rad := h * math.Pi / 180
	return fromOKLab(l, c*math.Cos(rad), c*math.Sin(rad))
}

// toOKLab converts sRGB to OKLab using the linear-light transform.
func toOKLab(col colorful.Color) (l, a, b float64) {
	r, g, bl := col.LinearRgb()

	lms1 := 0.4122214708*r + 0.5363325363*g + 0.0514459929*bl
	lms2 := 0.2119034982*r + 0.6806995451*g + 0.1073969566*bl
	lms3 := 0.0883024619*r + 0.2817188376*g + 0.6299787005*bl

	l1, l2, l3 := math.Cbrt(lms1), math.Cbrt(lms2), math.Cbrt(lms3)

	l = 0.2104542553*l1 + 0.7936177850*l2 - 0.0040720468*l3
	a = 1.9779984951*l1 - 2.4285922050*l2 + 0.4505937099*l3
	b = 0.0259040371*l1 + 0.7827717662*l2 - 0.8086757660*l3
	return l, a, b
}

// fromOKLab converts OKLab to sRGB. The result may be outside [0, 1].
func fromOKLab(l, a, b float64) colorful.Color {
	l1 := l + 0.3963377774*a + 0.2158037573*b
	l2 := l - 0.1055613458*a - 0.0638541728*b
	l3 := l - 0.0894841775*a - 1.2914855480*b

	l1, l2, l3 = l1*l1*l1, l2*l2*l2, l3*l3*l3

	r := 4.0767416621*l1 - 3.3077115913*l2 + 0.2309699292*l3
	g := -1.2684380046*l1 + 2.6097574011*l2 - 0.3413193965*l3
	bl := -0.0041960863*l1 - 0.7034186147*l2 + 1.7076147010*l3

	return colorful.LinearRgb(r, g, bl)
}

// DeltaOK returns the Euclidean distance between two colours in OKLab.
func DeltaOK(a, b Colour) float64 {
	l1, a1, b1 := toOKLab(a.Colorful())
	l2, a2, b2 := toOKLab(b.Colorful())
	return math.Sqrt((l1-l2)*(l1-l2) + (a1-a2)*(a1-a2) + (b1-b2)*(b1-b2))
}

// NormaliseHue wraps h into [0, 360).
func NormaliseHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
