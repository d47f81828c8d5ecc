// Package heuristic provides a local palette provider that scores colour-harmony candidates.
package heuristic

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/jmylchreest/tonal/internal/accessibility"
	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
)

// minChroma is the base chroma below which hue harmonies are meaningless.
const minChroma = 0.03

// ErrAchromaticBase is returned when the base colour has too little chroma for harmony scoring.
var ErrAchromaticBase = errors.New("base colour is achromatic")

// Harmony names a hue relationship between primary and secondary.
type Harmony string

// Supported harmonies.
const (
	Analogous          Harmony = "analogous"
	Complementary      Harmony = "complementary"
	SplitComplementary Harmony = "split-complementary"
	Triadic            Harmony = "triadic"
	Tetradic           Harmony = "tetradic"
)

// candidate is one secondary hue proposal.
type candidate struct {
	harmony  Harmony
	rotation float64
}

var candidates = []candidate{
	{Analogous, 30},
	{Analogous, -30},
	{Complementary, 180},
	{SplitComplementary, 150},
	{SplitComplementary, -150},
	{Triadic, 120},
	{Triadic, -120},
	{Tetradic, 90},
}

// styleProfile sets candidate chroma and lightness and the harmonies a style favours.
type styleProfile struct {
	chroma      float64
	lightness   float64
	neutralTint float64
	preferred   []Harmony
}

var profiles = map[palette.Style]styleProfile{
	palette.StyleProfessional: {chroma: 0.85, neutralTint: 0.015, preferred: []Harmony{Analogous, SplitComplementary}},
	palette.StyleVibrant:      {chroma: 1.15, neutralTint: 0.025, preferred: []Harmony{Complementary, Triadic}},
	palette.StylePastel:       {chroma: 0.5, lightness: 0.12, neutralTint: 0.01, preferred: []Harmony{Analogous, Triadic}},
	palette.StyleMuted:        {chroma: 0.55, lightness: -0.05, neutralTint: 0.01, preferred: []Harmony{Analogous}},
	palette.StyleMonochrome:   {chroma: 0.4, lightness: -0.15, neutralTint: 0.005, preferred: []Harmony{Analogous}},
	palette.StylePlayful:      {chroma: 1.1, lightness: 0.05, neutralTint: 0.03, preferred: []Harmony{Triadic, Tetradic, Complementary}},
}

// Score is the evaluation of one candidate.
type Score struct {
	Harmony   Harmony
	Rotation  float64
	Colour    colour.Colour
	Contrast  float64
	MinCVD    float64
	Total     float64
	Collision colour.SemanticRole

	// Analogous reports whether the realised secondary hue sits within 30° of the primary.
	Analogous bool
}

// Provider chooses a secondary colour by scoring harmony candidates against the base.
type Provider struct{}

// New creates a new heuristic provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return provider.NameHeuristic
}

// Description returns a human-readable description.
func (p *Provider) Description() string {
	return "Score colour-harmony candidates for contrast and colour-blind safety"
}

// CheckAvailability succeeds unless ctx is done; the provider needs no I/O.
func (p *Provider) CheckAvailability(ctx context.Context) error {
	return ctx.Err()
}

// Generate scores every harmony candidate and builds the palette around the best one.
func (p *Provider) Generate(ctx context.Context, in provider.Input) (*palette.EnhancedPalette, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Base.C() < minChroma {
		return nil, fmt.Errorf("%w: chroma %.3f below %.2f", ErrAchromaticBase, in.Base.C(), minChroma)
	}

	profile := profileFor(in.Request.Style)
	best := Rank(in.Base, in.Request.Style)[0]

	return palette.Build(palette.Bases{
		Primary:   in.Base,
		Secondary: best.Colour,
		Neutral:   colour.NeutralBase(in.Base, profile.neutralTint),
	}, in.Request.Size, provider.Metadata(p, in, reasoning(in, best)))
}

func profileFor(style palette.Style) styleProfile {
	if profile, ok := profiles[style]; ok {
		return profile
	}
	return profiles[palette.StyleProfessional]
}

// Rank scores every candidate for base under a style and returns them best first.
// Ties keep candidate order.
func Rank(base colour.Colour, style palette.Style) []Score {
	profile := profileFor(style)
	scores := make([]Score, len(candidates))
	for i, cand := range candidates {
		scores[i] = score(base, profile, cand)
	}

	slices.SortStableFunc(scores, func(a, b Score) int {
		switch {
		case a.Total > b.Total:
			return -1
		case a.Total < b.Total:
			return 1
		}
		return 0
	})
	return scores
}

func score(base colour.Colour, profile styleProfile, cand candidate) Score {
	l := math.Max(0.2, math.Min(0.9, base.L()+profile.lightness))
	c := colour.FromOKLCH(l, base.C()*profile.chroma, colour.NormaliseHue(base.H()+cand.rotation))

	s := Score{
		Harmony:   cand.harmony,
		Rotation:  cand.rotation,
		Colour:    c,
		Analogous: colour.IsAnalogous(base.H(), c.H()),
	}

	// Factor 1: style preference, earlier preferences weigh more.
	if i := slices.Index(profile.preferred, cand.harmony); i >= 0 {
		s.Total += 3.0 - float64(i)*0.5
	}

	// Factor 2: perceptual separation from the primary.
	s.Total += math.Min(colour.DeltaOK(base, c)/0.15, 1) * 2.0

	// Factor 3: contrast with a white surface.
	s.Contrast = colour.ContrastRatio(c, colour.White())
	switch {
	case s.Contrast >= colour.ContrastAA:
		s.Total += 2.0
	case s.Contrast >= colour.ContrastAALarge:
		s.Total += 1.0
	}

	// Factor 4: distinguishable from the primary under every deficiency.
	s.MinCVD = math.Inf(1)
	for _, d := range accessibility.Deficiencies {
		dist := accessibility.Distance(accessibility.Simulate(base, d), accessibility.Simulate(c, d))
		s.MinCVD = math.Min(s.MinCVD, dist)
	}
	if s.MinCVD >= accessibility.JND*4 {
		s.Total += 1.5
	} else if s.MinCVD >= accessibility.JND {
		s.Total += 0.75
	}

	// Factor 5: avoid reading as a status colour.
	for _, role := range colour.SemanticRoles {
		if colour.HueDistance(c.H(), colour.SemanticHues[role]) <= 15 && c.C() > 0.08 {
			s.Collision = role
			s.Total -= 1.0
			break
		}
	}

	return s
}

func reasoning(in provider.Input, best Score) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s style: %s secondary (%+.0f°) scored %.2f; contrast %.2f:1 on white",
		in.Request.Style, best.Harmony, best.Rotation, best.Total, best.Contrast)
	if best.Analogous {
		sb.WriteString("; stays close to the primary hue")
	} else {
		sb.WriteString("; contrasts with the primary hue")
	}
	if best.MinCVD >= accessibility.JND {
		sb.WriteString("; distinguishable under simulated colour blindness")
	}
	if best.Collision != "" {
		fmt.Fprintf(&sb, "; close to %s hue", best.Collision)
	}
	return sb.String()
}
