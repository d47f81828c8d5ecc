package accessibility

import (
	"fmt"
	"math"
	"sort"

	"github.com/jmylchreest/tonal/internal/colour"
)

// Score weights. They sum to 1.
const (
	ContrastWeight    = 0.7
	ColourBlindWeight = 0.3
)

const (
	maxAdjustAttempts = 50
	ratioPrecision    = 100
)

type parsed struct {
	name      string
	colour    colour.Colour
	luminance float64
}

// Analyze computes the contrast matrix of every colour against every background,
// the colour-blind distinguishability of the colours among themselves and a
// composite score. Values that are not hex colours are excluded and the report
// is marked degraded. It is pure and deterministic.
func Analyze(colours, backgrounds []Swatch) *Report {
	report := &Report{}

	fgs := parseAll(colours, report)
	bgs := parseAll(backgrounds, report)

	report.Pairs = contrastMatrix(fgs, bgs)
	report.Compliance = compliance(report.Pairs)
	report.ColourBlindness = colourBlindness(fgs)
	report.Score = compositeScore(report)
	report.Recommendations = recommendations(report)

	return report
}

func parseAll(swatches []Swatch, report *Report) []parsed {
	out := make([]parsed, 0, len(swatches))
	for _, s := range swatches {
		c, err := colour.ParseHex(s.Value)
		if err != nil {
			report.Degraded = true
			report.Excluded = append(report.Excluded, Exclusion{Name: s.Name, Value: s.Value, Reason: err.Error()})
			continue
		}
		name := s.Name
		if name == "" {
			name = c.Hex()
		}
		out = append(out, parsed{name: name, colour: c, luminance: colour.Luminance(c)})
	}
	return out
}

func contrastMatrix(fgs, bgs []parsed) []ContrastPair {
	pairs := make([]ContrastPair, 0, len(fgs)*len(bgs))
	for _, fg := range fgs {
		for _, bg := range bgs {
			ratio := reportedRatio(colour.ContrastRatioLuminance(fg.luminance, bg.luminance))
			pairs = append(pairs, ContrastPair{
				Foreground:    fg.name,
				Background:    bg.name,
				ForegroundHex: fg.colour.Hex(),
				BackgroundHex: bg.colour.Hex(),
				Ratio:         ratio,
				PassesAALarge: ratio >= colour.ContrastAALarge,
				PassesAA:      ratio >= colour.ContrastAA,
				PassesAAA:     ratio >= colour.ContrastAAA,
			})
		}
	}
	return pairs
}

// reportedRatio truncates a contrast ratio to two decimals. Pass flags are derived
// from the truncated value so a reported ratio never rounds up past a threshold.
// The epsilon absorbs float error on exact ratios such as 21:1.
func reportedRatio(ratio float64) float64 {
	return math.Floor(ratio*ratioPrecision+1e-9) / ratioPrecision
}

func compliance(pairs []ContrastPair) Compliance {
	if len(pairs) == 0 {
		return ComplianceNone
	}

	aa, aaa := 0, 0
	for _, p := range pairs {
		if p.PassesAA {
			aa++
		}
		if p.PassesAAA {
			aaa++
		}
	}

	switch {
	case aaa == len(pairs):
		return ComplianceAAA
	case aa == len(pairs):
		return ComplianceAA
	case aa > 0:
		return CompliancePartial
	default:
		return ComplianceNone
	}
}

// colourBlindness compares every pair of colours that is distinguishable with
// normal vision under each simulated deficiency.
func colourBlindness(colours []parsed) ColourBlindness {
	simulated := make(map[Deficiency][]colour.Colour, len(Deficiencies))
	for _, d := range Deficiencies {
		sims := make([]colour.Colour, len(colours))
		for i, c := range colours {
			sims[i] = Simulate(c.colour, d)
		}
		simulated[d] = sims
	}

	var result ColourBlindness
	compared := 0
	for i := 0; i < len(colours); i++ {
		for j := i + 1; j < len(colours); j++ {
			if Distance(colours[i].colour, colours[j].colour) < JND {
				continue
			}
			result.ComparedPairs++
			for _, d := range Deficiencies {
				compared++
				dist := Distance(simulated[d][i], simulated[d][j])
				if dist < JND {
					result.Problematic = append(result.Problematic, ProblematicPair{
						A:          colours[i].name,
						B:          colours[j].name,
						Deficiency: d,
						Distance:   math.Round(dist*ratioPrecision) / ratioPrecision,
					})
				}
			}
		}
	}

	if compared == 0 {
		result.Score = 100
		return result
	}
	result.Score = 100 * (1 - float64(len(result.Problematic))/float64(compared))
	return result
}

func compositeScore(r *Report) float64 {
	if len(r.Pairs) == 0 {
		return 0
	}
	score := ContrastWeight*r.PassRate()*100 + ColourBlindWeight*r.ColourBlindness.Score
	return math.Max(0, math.Min(100, math.Round(score*10)/10))
}

// recommendations derives advice from the report. Suggested colours are computed
// from each pair's own hex values since swatch names need not be unique.
func recommendations(r *Report) []Recommendation {
	var recs []Recommendation

	for _, p := range r.Pairs {
		switch {
		case !p.PassesAA:
			priority := PriorityHigh
			if p.PassesAALarge {
				priority = PriorityMedium
			}
			rec := Recommendation{
				Priority:   priority,
				Foreground: p.Foreground,
				Background: p.Background,
				Message:    fmt.Sprintf("%s on %s is %.2f:1, below AA (4.5:1)", p.Foreground, p.Background, p.Ratio),
			}
			fg, errFg := colour.ParseHex(p.ForegroundHex)
			bg, errBg := colour.ParseHex(p.BackgroundHex)
			if errFg == nil && errBg == nil {
				if adjusted, ok := colour.AdjustForContrast(fg, bg, colour.ContrastAA, maxAdjustAttempts); ok {
					rec.Suggested = adjusted.Hex()
					rec.Message += fmt.Sprintf("; use %s instead", adjusted.Hex())
				}
			}
			recs = append(recs, rec)
		case !p.PassesAAA:
			recs = append(recs, Recommendation{
				Priority:   PriorityLow,
				Foreground: p.Foreground,
				Background: p.Background,
				Message:    fmt.Sprintf("%s on %s is %.2f:1; meets AA but not AAA (7:1)", p.Foreground, p.Background, p.Ratio),
			})
		}
	}

	for _, pp := range r.ColourBlindness.Problematic {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Message: fmt.Sprintf("%s and %s are hard to tell apart with %s (ΔE %.1f); increase their lightness difference",
				pp.A, pp.B, pp.Deficiency, pp.Distance),
		})
	}

	if r.Degraded {
		recs = append(recs, Recommendation{
			Priority: PriorityMedium,
			Message:  fmt.Sprintf("%d colour(s) could not be analysed; use #rrggbb values", len(r.Excluded)),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority < recs[j].Priority
	})
	return recs
}
