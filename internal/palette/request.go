// Package palette defines palette requests and the enhanced palettes produced for them.
package palette

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
)

// Style is the overall character of the generated palette.
type Style string

// Supported styles.
const (
	StyleProfessional Style = "professional"
	StyleVibrant      Style = "vibrant"
	StylePastel       Style = "pastel"
	StyleMuted        Style = "muted"
	StyleMonochrome   Style = "monochrome"
	StylePlayful      Style = "playful"
)

// Styles lists the supported styles in display order.
var Styles = []Style{StyleProfessional, StyleVibrant, StylePastel, StyleMuted, StyleMonochrome, StylePlayful}

// ParseStyle returns the style for a case-insensitive name. Empty is professional.
func ParseStyle(s string) (Style, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return StyleProfessional, nil
	}
	if slices.Contains(Styles, Style(s)) {
		return Style(s), nil
	}
	return "", fmt.Errorf("unknown style %q (supported: %s)", s, joinStyles())
}

func joinStyles() string {
	names := make([]string, len(Styles))
	for i, s := range Styles {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Request describes one palette generation. It is built once and never mutated.
type Request struct {
	// BaseColor is the primary colour as a hex string.
	BaseColor string `json:"baseColor"`

	// Style selects harmony and saturation behaviour.
	Style Style `json:"style"`

	// Context biases the base colour and informs external providers.
	Context designctx.Context `json:"context"`

	// Size is the number of steps per scale.
	Size int `json:"size"`

	// Format is the requested token format name; empty means auto-detect.
	Format string `json:"format,omitempty"`

	// Namespace is inserted as the first path segment of every token.
	Namespace string `json:"namespace,omitempty"`

	// Accessibility requests an accessibility report alongside the palette.
	Accessibility bool `json:"accessibility"`
}

// Validate checks the request and returns it with defaults filled in.
// A malformed base colour wraps colour.ErrInvalidColorFormat and a base too close
// to white or black for a scale of the requested size wraps colour.ErrNoLightnessRoom.
func (r Request) Validate() (Request, error) {
	base, err := colour.ParseHex(r.BaseColor)
	if err != nil {
		return r, fmt.Errorf("base colour: %w", err)
	}

	style, err := ParseStyle(string(r.Style))
	if err != nil {
		return r, err
	}
	r.Style = style

	if r.Size == 0 {
		r.Size = colour.DefaultScaleSize
	}
	if r.Size < colour.MinScaleSize || r.Size > colour.MaxScaleSize {
		return r, fmt.Errorf("size %d out of range [%d, %d]", r.Size, colour.MinScaleSize, colour.MaxScaleSize)
	}

	if err := r.Context.Validate(); err != nil {
		return r, err
	}
	r.Context = r.Context.Normalised()

	if strings.ContainsAny(r.Namespace, "/.") {
		return r, fmt.Errorf("namespace %q must not contain '/' or '.'", r.Namespace)
	}

	if _, err := colour.GenerateScale(base, r.Size); err != nil {
		return r, fmt.Errorf("base colour: %w", err)
	}

	return r, nil
}
