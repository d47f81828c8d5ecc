// Package accessibility scores colour sets for WCAG contrast and colour-blind
// distinguishability.
package accessibility

import "fmt"

// Compliance is the aggregate WCAG level of a contrast matrix.
type Compliance string

// Compliance levels, strongest first.
const (
	ComplianceAAA     Compliance = "aaa"
	ComplianceAA      Compliance = "aa"
	CompliancePartial Compliance = "partial"
	ComplianceNone    Compliance = "none"
)

// Deficiency is a simulated colour vision deficiency.
type Deficiency string

// Simulated deficiencies.
const (
	Protanopia   Deficiency = "protanopia"
	Deuteranopia Deficiency = "deuteranopia"
	Tritanopia   Deficiency = "tritanopia"
)

// Deficiencies lists the simulated deficiencies in report order.
var Deficiencies = []Deficiency{Protanopia, Deuteranopia, Tritanopia}

// Priority orders recommendations.
type Priority int

// Recommendation priorities.
const (
	PriorityHigh Priority = iota
	PriorityMedium
	PriorityLow
)

// String implements fmt.Stringer.
func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Priority) UnmarshalText(text []byte) error {
	switch string(text) {
	case "high":
		*p = PriorityHigh
	case "medium":
		*p = PriorityMedium
	case "low":
		*p = PriorityLow
	default:
		return fmt.Errorf("unknown priority %q", text)
	}
	return nil
}

// Swatch is a named colour value submitted for analysis.
type Swatch struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ContrastPair is one cell of the contrast matrix.
type ContrastPair struct {
	Foreground    string  `json:"foreground"`
	Background    string  `json:"background"`
	ForegroundHex string  `json:"foregroundHex"`
	BackgroundHex string  `json:"backgroundHex"`
	Ratio         float64 `json:"ratio"`
	PassesAALarge bool    `json:"passesAALarge"`
	PassesAA      bool    `json:"passesAA"`
	PassesAAA     bool    `json:"passesAAA"`
}

// ProblematicPair is a pair of colours that become indistinguishable under a deficiency.
type ProblematicPair struct {
	A          string     `json:"a"`
	B          string     `json:"b"`
	Deficiency Deficiency `json:"deficiency"`
	Distance   float64    `json:"distance"`
}

// ColourBlindness summarises distinguishability under simulated deficiencies.
type ColourBlindness struct {
	// Score is the percentage of (pair, deficiency) combinations that stay distinguishable.
	Score float64 `json:"score"`

	// ComparedPairs is the number of colour pairs distinguishable with normal vision.
	ComparedPairs int `json:"comparedPairs"`

	Problematic []ProblematicPair `json:"problematic,omitempty"`
}

// Recommendation is a suggested fix.
type Recommendation struct {
	Priority   Priority `json:"priority"`
	Message    string   `json:"message"`
	Foreground string   `json:"foreground,omitempty"`
	Background string   `json:"background,omitempty"`
	Suggested  string   `json:"suggested,omitempty"`
}

// Exclusion records a colour left out of the analysis.
type Exclusion struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Report is the result of one analysis. It is built once and not modified afterwards.
type Report struct {
	Score           float64          `json:"score"`
	Compliance      Compliance       `json:"wcagCompliance"`
	Pairs           []ContrastPair   `json:"pairs"`
	ColourBlindness ColourBlindness  `json:"colourBlindness"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	Degraded        bool             `json:"degraded"`
	Excluded        []Exclusion      `json:"excluded,omitempty"`
}

// PassRate returns the fraction of pairs meeting AA.
func (r *Report) PassRate() float64 {
	if len(r.Pairs) == 0 {
		return 0
	}
	passed := 0
	for _, p := range r.Pairs {
		if p.PassesAA {
			passed++
		}
	}
	return float64(passed) / float64(len(r.Pairs))
}
