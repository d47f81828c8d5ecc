// Package designctx describes the design context of a palette request and the
// rule table that biases a base colour towards it.
package designctx

import (
	"fmt"
	"strings"
)

// Industry is the sector the palette is designed for.
type Industry string

// Known industries. Any other value is accepted and simply matches no rule.
const (
	IndustryGeneral       Industry = "general"
	IndustryTechnology    Industry = "technology"
	IndustryFinance       Industry = "finance"
	IndustryHealthcare    Industry = "healthcare"
	IndustryEducation     Industry = "education"
	IndustryEntertainment Industry = "entertainment"
	IndustryRetail        Industry = "retail"
	IndustryFood          Industry = "food"
	IndustryEnvironment   Industry = "environment"
)

// Audience is the intended audience.
type Audience string

// Known audiences.
const (
	AudienceGeneral       Audience = "general"
	AudienceChildren      Audience = "children"
	AudienceTeens         Audience = "teens"
	AudienceProfessionals Audience = "professionals"
	AudienceSeniors       Audience = "seniors"
)

// Medium is where the palette will be displayed.
type Medium string

// Known media.
const (
	MediumWeb    Medium = "web"
	MediumMobile Medium = "mobile"
	MediumPrint  Medium = "print"
)

// AccessibilityLevel is the WCAG conformance target.
type AccessibilityLevel string

// Accessibility levels.
const (
	AccessibilityNone AccessibilityLevel = "none"
	AccessibilityAA   AccessibilityLevel = "aa"
	AccessibilityAAA  AccessibilityLevel = "aaa"
)

// Culture is the cultural context colours are read in.
type Culture string

// Known cultures.
const (
	CultureGlobal   Culture = "global"
	CultureWestern  Culture = "western"
	CultureEastAsia Culture = "east-asian"
)

// Tone is the emotional tone the palette should convey.
type Tone string

// Known tones.
const (
	ToneNeutral     Tone = "neutral"
	ToneCalm        Tone = "calm"
	ToneEnergetic   Tone = "energetic"
	ToneTrustworthy Tone = "trustworthy"
	TonePlayful     Tone = "playful"
	ToneLuxurious   Tone = "luxurious"
)

// Context is the immutable design context of a request.
type Context struct {
	Industry      Industry           `json:"industry,omitempty" yaml:"industry,omitempty"`
	Audience      Audience           `json:"audience,omitempty" yaml:"audience,omitempty"`
	Medium        Medium             `json:"medium,omitempty" yaml:"medium,omitempty"`
	Accessibility AccessibilityLevel `json:"accessibility,omitempty" yaml:"accessibility,omitempty"`
	Culture       Culture            `json:"culture,omitempty" yaml:"culture,omitempty"`
	Tone          Tone               `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// Default returns the context used when nothing is specified.
func Default() Context {
	return Context{
		Industry:      IndustryGeneral,
		Audience:      AudienceGeneral,
		Medium:        MediumWeb,
		Accessibility: AccessibilityAA,
		Culture:       CultureGlobal,
		Tone:          ToneNeutral,
	}
}

// Normalised returns a copy with lower-cased values and defaults for empty fields.
func (c Context) Normalised() Context {
	d := Default()
	out := Context{
		Industry:      Industry(orDefault(string(c.Industry), string(d.Industry))),
		Audience:      Audience(orDefault(string(c.Audience), string(d.Audience))),
		Medium:        Medium(orDefault(string(c.Medium), string(d.Medium))),
		Accessibility: AccessibilityLevel(orDefault(string(c.Accessibility), string(d.Accessibility))),
		Culture:       Culture(orDefault(string(c.Culture), string(d.Culture))),
		Tone:          Tone(orDefault(string(c.Tone), string(d.Tone))),
	}
	return out
}

// Validate checks fields with a closed set of values.
func (c Context) Validate() error {
	switch c.Normalised().Accessibility {
	case AccessibilityNone, AccessibilityAA, AccessibilityAAA:
		return nil
	default:
		return fmt.Errorf("invalid accessibility level %q (want none, aa or aaa)", c.Accessibility)
	}
}

// String returns a compact human-readable description, used in prompts and reasoning.
func (c Context) String() string {
	n := c.Normalised()
	return fmt.Sprintf("industry=%s audience=%s medium=%s accessibility=%s culture=%s tone=%s",
		n.Industry, n.Audience, n.Medium, n.Accessibility, n.Culture, n.Tone)
}

func orDefault(v, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return def
	}
	return v
}
