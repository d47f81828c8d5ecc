package designctx

import (
	"fmt"
	"maps"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/tonal/internal/colour"
)

// Rule nudges a base colour. Zero values leave the colour untouched.
type Rule struct {
	// ChromaFactor multiplies OKLCH chroma. 0 is treated as 1.
	ChromaFactor float64 `yaml:"chroma_factor,omitempty"`

	// HueTarget is the hue (degrees) the base hue is pulled towards.
	HueTarget *float64 `yaml:"hue_target,omitempty"`

	// HuePull is the fraction (0-1) of the arc to HueTarget applied.
	HuePull float64 `yaml:"hue_pull,omitempty"`

	// LightnessShift is added to OKLCH lightness.
	LightnessShift float64 `yaml:"lightness_shift,omitempty"`

	// Note explains the rule in reasoning output.
	Note string `yaml:"note,omitempty"`
}

func (r Rule) isNoop() bool {
	return (r.ChromaFactor == 0 || r.ChromaFactor == 1) &&
		(r.HueTarget == nil || r.HuePull == 0) &&
		r.LightnessShift == 0
}

// RuleTable is a partially populated lookup from context values to rules.
// Values with no entry apply no adjustment.
type RuleTable struct {
	Industries map[Industry]Rule `yaml:"industries,omitempty"`
	Audiences  map[Audience]Rule `yaml:"audiences,omitempty"`
	Media      map[Medium]Rule   `yaml:"media,omitempty"`
	Cultures   map[Culture]Rule  `yaml:"cultures,omitempty"`
	Tones      map[Tone]Rule     `yaml:"tones,omitempty"`
}

// Adjustment records one rule that was applied.
type Adjustment struct {
	Dimension string `json:"dimension"`
	Value     string `json:"value"`
	Note      string `json:"note,omitempty"`
}

// String implements fmt.Stringer.
func (a Adjustment) String() string {
	if a.Note == "" {
		return fmt.Sprintf("%s=%s", a.Dimension, a.Value)
	}
	return fmt.Sprintf("%s=%s: %s", a.Dimension, a.Value, a.Note)
}

func hue(v float64) *float64 { return &v }

// DefaultRules returns the built-in table. Only dimensions with an evidenced
// convention are populated; cultures are left for user overrides.
func DefaultRules() *RuleTable {
	return &RuleTable{
		Industries: map[Industry]Rule{
			IndustryFinance:       {ChromaFactor: 0.85, HueTarget: hue(250), HuePull: 0.15, Note: "restrained, blue-leaning for trust"},
			IndustryHealthcare:    {ChromaFactor: 0.85, HueTarget: hue(200), HuePull: 0.15, Note: "calm, clinical hues"},
			IndustryTechnology:    {ChromaFactor: 1.05, Note: "slightly more vivid"},
			IndustryEntertainment: {ChromaFactor: 1.15, Note: "saturated for energy"},
			IndustryFood:          {HueTarget: hue(50), HuePull: 0.1, Note: "warmer hues"},
			IndustryEnvironment:   {HueTarget: hue(145), HuePull: 0.15, Note: "green-leaning"},
		},
		Audiences: map[Audience]Rule{
			AudienceChildren:      {ChromaFactor: 1.2, Note: "brighter, more saturated"},
			AudienceProfessionals: {ChromaFactor: 0.9, Note: "understated"},
			AudienceSeniors:       {ChromaFactor: 0.95, LightnessShift: -0.03, Note: "slightly darker for legibility"},
		},
		Media: map[Medium]Rule{
			MediumPrint: {ChromaFactor: 0.9, Note: "pulled in towards printable gamut"},
		},
		Cultures: map[Culture]Rule{},
		Tones: map[Tone]Rule{
			ToneCalm:        {ChromaFactor: 0.85, Note: "softer"},
			ToneEnergetic:   {ChromaFactor: 1.1, Note: "more vivid"},
			ToneTrustworthy: {HueTarget: hue(250), HuePull: 0.1, Note: "towards blue"},
			ToneLuxurious:   {ChromaFactor: 0.9, LightnessShift: -0.04, Note: "deeper and richer"},
		},
	}
}

// LoadRules reads a YAML rule file and merges it over the defaults.
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var overrides RuleTable
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	table := DefaultRules()
	table.Merge(&overrides)
	return table, nil
}

// Merge copies every entry of other into t, replacing existing entries.
func (t *RuleTable) Merge(other *RuleTable) {
	if other == nil {
		return
	}
	t.Industries = mergeMap(t.Industries, other.Industries)
	t.Audiences = mergeMap(t.Audiences, other.Audiences)
	t.Media = mergeMap(t.Media, other.Media)
	t.Cultures = mergeMap(t.Cultures, other.Cultures)
	t.Tones = mergeMap(t.Tones, other.Tones)
}

func mergeMap[K comparable](dst, src map[K]Rule) map[K]Rule {
	if dst == nil {
		dst = make(map[K]Rule, len(src))
	}
	maps.Copy(dst, src)
	return dst
}

// Adjust biases base according to ctx. If no rule applies base is returned unchanged.
func (t *RuleTable) Adjust(base colour.Colour, ctx Context) (colour.Colour, []Adjustment) {
	ctx = ctx.Normalised()

	lookups := []ruleMatch{
		lookup("industry", ctx.Industry, t.Industries),
		lookup("audience", ctx.Audience, t.Audiences),
		lookup("medium", ctx.Medium, t.Media),
		lookup("culture", ctx.Culture, t.Cultures),
		lookup("tone", ctx.Tone, t.Tones),
	}

	l, c, h := base.L(), base.C(), base.H()
	var applied []Adjustment
	for _, m := range lookups {
		if !m.ok || m.rule.isNoop() {
			continue
		}
		if m.rule.ChromaFactor > 0 {
			c *= m.rule.ChromaFactor
		}
		if m.rule.HueTarget != nil && m.rule.HuePull > 0 && c > 0 {
			h = colour.RotateHueTowards(h, *m.rule.HueTarget, m.rule.HuePull)
		}
		l += m.rule.LightnessShift
		applied = append(applied, Adjustment{Dimension: m.dimension, Value: m.value, Note: m.rule.Note})
	}

	if len(applied) == 0 {
		return base, nil
	}

	l = math.Max(0.05, math.Min(0.95, l))
	return colour.FromOKLCH(l, c, h), applied
}

type ruleMatch struct {
	dimension string
	value     string
	rule      Rule
	ok        bool
}

func lookup[K ~string](dimension string, key K, table map[K]Rule) ruleMatch {
	rule, ok := table[key]
	return ruleMatch{dimension: dimension, value: string(key), rule: rule, ok: ok}
}
