// Package provider defines the palette generation strategies tried by the orchestrator.
package provider

import (
	"context"
	"errors"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/palette"
)

// ErrUnavailable is returned by CheckAvailability when a provider cannot serve requests.
var ErrUnavailable = errors.New("provider unavailable")

// Built-in provider names in priority order.
const (
	NameExternal  = "external"
	NameHeuristic = "heuristic"
	NameRuleBased = "rule-based"
)

// Priority is the fixed order in which built-in providers are tried.
var Priority = []string{NameExternal, NameHeuristic, NameRuleBased}

// Input is what a provider receives for one request.
type Input struct {
	// Request is the validated request.
	Request palette.Request

	// Base is the base colour after contextual adjustment. Providers must use it
	// unchanged as step 500 of the primary scale.
	Base colour.Colour

	// Adjustments are the contextual adjustments applied to produce Base.
	Adjustments []designctx.Adjustment
}

// Provider generates a complete palette for a request.
type Provider interface {
	// Name returns the provider's name (e.g., "rule-based").
	Name() string

	// Description returns a human-readable description of the provider.
	Description() string

	// CheckAvailability reports whether the provider can serve requests.
	// Implementations must respect ctx cancellation; the returned error should wrap ErrUnavailable.
	CheckAvailability(ctx context.Context) error

	// Generate builds a palette. The returned palette's Metadata.Provider must be Name().
	Generate(ctx context.Context, in Input) (*palette.EnhancedPalette, error)
}

// Metadata returns palette metadata for a provider with the input's adjustments recorded.
func Metadata(p Provider, in Input, reasoning string) palette.Metadata {
	return palette.Metadata{
		Provider:    p.Name(),
		Reasoning:   reasoning,
		Adjustments: in.Adjustments,
	}
}
