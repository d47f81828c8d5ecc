package accessibility

import (
	"strconv"
	"strings"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
)

// White is the default page background.
const White = "#ffffff"

// PaletteSwatches returns the foreground and background swatches used to audit
// a palette. Foregrounds are the 500 step and darker of every scale. Backgrounds
// are white and the lightest neutral step.
func PaletteSwatches(p *palette.EnhancedPalette) (colours, backgrounds []Swatch) {
	for _, named := range p.Scales() {
		prefix := strings.Join(named.Path, ".")
		for key, c := range named.Scale.All() {
			if stepNumber(key) < stepNumber(colour.BaseStep) {
				continue
			}
			colours = append(colours, Swatch{Name: prefix + "." + key, Value: c.Hex()})
		}
	}

	backgrounds = []Swatch{{Name: "white", Value: White}}
	if steps := p.Neutral.Steps(); len(steps) > 0 {
		backgrounds = append(backgrounds, Swatch{
			Name:  palette.GroupNeutral + "." + steps[0].Key,
			Value: steps[0].Colour.Hex(),
		})
	}
	return colours, backgrounds
}

// AnalyzePalette audits the text-weight steps of a palette against its light backgrounds.
func AnalyzePalette(p *palette.EnhancedPalette) *Report {
	return Analyze(PaletteSwatches(p))
}

func stepNumber(key string) int {
	n, err := strconv.Atoi(key)
	if err != nil {
		return -1
	}
	return n
}
