// Package rulebased provides the last-resort palette provider driven by a fixed style table.
package rulebased

import (
	"context"
	"fmt"
	"math"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
)

// styleRule describes how a style derives the secondary and neutral bases.
type styleRule struct {
	// rotation is the secondary hue rotation in degrees.
	rotation float64

	// chroma multiplies the base chroma for the secondary colour.
	chroma float64

	// lightness is added to the base lightness for the secondary colour.
	lightness float64

	// neutralTint caps neutral chroma.
	neutralTint float64

	description string
}

var styles = map[palette.Style]styleRule{
	palette.StyleProfessional: {rotation: 30, chroma: 0.9, neutralTint: 0.015, description: "analogous secondary with restrained chroma"},
	palette.StyleVibrant:      {rotation: 180, chroma: 1.15, neutralTint: 0.025, description: "complementary secondary with boosted chroma"},
	palette.StylePastel:       {rotation: 150, chroma: 0.5, lightness: 0.12, neutralTint: 0.01, description: "split-complementary secondary, lightened and softened"},
	palette.StyleMuted:        {rotation: 30, chroma: 0.6, lightness: -0.05, neutralTint: 0.01, description: "analogous secondary with low chroma"},
	palette.StyleMonochrome:   {rotation: 0, chroma: 0.4, lightness: -0.15, neutralTint: 0.005, description: "same-hue secondary, darker and desaturated"},
	palette.StylePlayful:      {rotation: 120, chroma: 1.1, lightness: 0.05, neutralTint: 0.03, description: "triadic secondary with lifted lightness"},
}

// Provider generates palettes from a fixed style table. It is always available.
type Provider struct{}

// New creates a new rule-based provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return provider.NameRuleBased
}

// Description returns a human-readable description.
func (p *Provider) Description() string {
	return "Derive palettes from a fixed per-style harmony table"
}

// CheckAvailability always succeeds.
func (p *Provider) CheckAvailability(ctx context.Context) error {
	return ctx.Err()
}

// Generate builds a palette from the style table.
func (p *Provider) Generate(ctx context.Context, in provider.Input) (*palette.EnhancedPalette, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rule, ok := styles[in.Request.Style]
	if !ok {
		rule = styles[palette.StyleProfessional]
	}

	base := in.Base
	secondary := colour.FromOKLCH(
		math.Max(0.2, math.Min(0.9, base.L()+rule.lightness)),
		base.C()*rule.chroma,
		colour.NormaliseHue(base.H()+rule.rotation),
	)

	reasoning := fmt.Sprintf("%s style: %s (hue %+.0f°, chroma x%.2f) from base %s",
		in.Request.Style, rule.description, rule.rotation, rule.chroma, base.Hex())

	return palette.Build(palette.Bases{
		Primary:   base,
		Secondary: secondary,
		Neutral:   colour.NeutralBase(base, rule.neutralTint),
	}, in.Request.Size, provider.Metadata(p, in, reasoning))
}
