package colour

import (
	"math"
)

// SemanticRole names a status colour group.
type SemanticRole string

// Semantic roles in output order.
const (
	RoleSuccess SemanticRole = "success"
	RoleWarning SemanticRole = "warning"
	RoleError   SemanticRole = "error"
	RoleInfo    SemanticRole = "info"
)

// SemanticRoles lists the roles in the order they are emitted.
var SemanticRoles = []SemanticRole{RoleSuccess, RoleWarning, RoleError, RoleInfo}

// Semantic colour bounds in OKLCH.
const (
	MinSemanticChroma    = 0.10
	MaxSemanticChroma    = 0.20
	MinSemanticLightness = 0.55
	MaxSemanticLightness = 0.70

	// semanticHarmonyRange is how close the primary hue must be to a role's hue
	// before the role hue is pulled towards it.
	semanticHarmonyRange = 25.0
)

// SemanticHues are the OKLCH hues conventionally read as each status.
// Green = success, amber = warning, red = error, blue = info.
var SemanticHues = map[SemanticRole]float64{
	RoleSuccess: 145,
	RoleWarning: 70,
	RoleError:   27,
	RoleInfo:    245,
}

// SemanticBase derives the base colour for a semantic role from the primary colour.
// Chroma and lightness follow the primary within fixed bounds so status colours sit
// at the same visual weight; a primary hue close to the role hue pulls the role hue
// halfway towards it.
func SemanticBase(role SemanticRole, primary Colour) Colour {
	h := SemanticHues[role]
	if primary.c > 0.04 && HueDistance(primary.h, h) <= semanticHarmonyRange {
		h = NormaliseHue(h + signedHueDelta(h, primary.h)/2)
	}

	c := math.Max(MinSemanticChroma, math.Min(MaxSemanticChroma, primary.c))
	l := math.Max(MinSemanticLightness, math.Min(MaxSemanticLightness, primary.l))

	return FromOKLCH(l, c, h)
}

// signedHueDelta returns the shortest signed rotation from h1 to h2 in degrees.
func signedHueDelta(h1, h2 float64) float64 {
	d := NormaliseHue(h2 - h1)
	if d > 180 {
		d -= 360
	}
	return d
}

// RotateHueTowards moves h towards target by fraction of the shortest arc.
func RotateHueTowards(h, target, fraction float64) float64 {
	return NormaliseHue(h + signedHueDelta(h, target)*fraction)
}
