package accessibility

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/tonal/internal/colour"
)

// JND is the CIEDE2000 distance (0-100 scale) below which two colours are
// treated as indistinguishable.
const JND = 2.3

// simulationMatrices are Machado, Oliveira and Fernandes (2009) transforms at
// full severity, applied to linear-light sRGB.
var simulationMatrices = map[Deficiency][3][3]float64{
	Protanopia: {
		{0.152286, 1.052583, -0.204868},
		{0.114503, 0.786281, 0.099216},
		{-0.003882, -0.048116, 1.051998},
	},
	Deuteranopia: {
		{0.367322, 0.860646, -0.227968},
		{0.280085, 0.672501, 0.047413},
		{-0.011820, 0.042940, 0.968881},
	},
	Tritanopia: {
		{1.255528, -0.076749, -0.178779},
		{-0.078411, 0.930809, 0.147602},
		{0.004733, 0.691367, 0.303900},
	},
}

// Simulate returns how c appears under the given deficiency.
func Simulate(c colour.Colour, d Deficiency) colour.Colour {
	m, ok := simulationMatrices[d]
	if !ok {
		return c
	}

	r, g, b := c.Colorful().LinearRgb()
	sr := clamp01(m[0][0]*r + m[0][1]*g + m[0][2]*b)
	sg := clamp01(m[1][0]*r + m[1][1]*g + m[1][2]*b)
	sb := clamp01(m[2][0]*r + m[2][1]*g + m[2][2]*b)

	return colour.MustParseHex(colorful.LinearRgb(sr, sg, sb).Clamped().Hex())
}

// Distance returns the CIEDE2000 difference between two colours on a 0-100 scale.
func Distance(a, b colour.Colour) float64 {
	return a.Colorful().DistanceCIEDE2000(b.Colorful()) * 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
