package palette

import (
	"time"

	"github.com/google/uuid"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
)

// Scale group names.
const (
	GroupPrimary   = "primary"
	GroupSecondary = "secondary"
	GroupNeutral   = "neutral"
	GroupSemantic  = "semantic"
)

// Metadata describes how a palette was produced.
type Metadata struct {
	ID          string                 `json:"id"`
	Provider    string                 `json:"provider"`
	Reasoning   string                 `json:"reasoning"`
	Adjustments []designctx.Adjustment `json:"adjustments,omitempty"`
	GeneratedAt time.Time              `json:"generatedAt"`
}

// EnhancedPalette is a complete palette produced by exactly one provider.
type EnhancedPalette struct {
	Primary   colour.Scale
	Secondary colour.Scale
	Neutral   colour.Scale
	Semantic  map[colour.SemanticRole]colour.Scale
	Metadata  Metadata
}

// NamedScale pairs a scale with its token path.
type NamedScale struct {
	Path  []string
	Scale colour.Scale
}

// Scales returns every scale with its token path in output order.
func (p *EnhancedPalette) Scales() []NamedScale {
	out := []NamedScale{
		{Path: []string{GroupPrimary}, Scale: p.Primary},
		{Path: []string{GroupSecondary}, Scale: p.Secondary},
		{Path: []string{GroupNeutral}, Scale: p.Neutral},
	}
	for _, role := range colour.SemanticRoles {
		if s, ok := p.Semantic[role]; ok {
			out = append(out, NamedScale{Path: []string{GroupSemantic, string(role)}, Scale: s})
		}
	}
	return out
}

// Bases are the base colours a provider chose for each group.
type Bases struct {
	Primary   colour.Colour
	Secondary colour.Colour
	Neutral   colour.Colour
	Semantic  map[colour.SemanticRole]colour.Colour
}

// Build expands base colours into scales of the given size. Missing semantic
// bases are derived from the primary colour.
func Build(bases Bases, size int, meta Metadata) (*EnhancedPalette, error) {
	primary, err := colour.GenerateScale(bases.Primary, size)
	if err != nil {
		return nil, err
	}
	secondary, err := colour.GenerateScale(bases.Secondary, size)
	if err != nil {
		return nil, err
	}
	neutral, err := colour.GenerateScale(bases.Neutral, size)
	if err != nil {
		return nil, err
	}

	semantic := make(map[colour.SemanticRole]colour.Scale, len(colour.SemanticRoles))
	for _, role := range colour.SemanticRoles {
		base, ok := bases.Semantic[role]
		if !ok || base.IsZero() {
			base = colour.SemanticBase(role, bases.Primary)
		}
		s, err := colour.GenerateScale(base, size)
		if err != nil {
			return nil, err
		}
		semantic[role] = s
	}

	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now().UTC()
	}

	return &EnhancedPalette{
		Primary:   primary,
		Secondary: secondary,
		Neutral:   neutral,
		Semantic:  semantic,
		Metadata:  meta,
	}, nil
}
