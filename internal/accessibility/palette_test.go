package accessibility

import (
	"strings"
	"testing"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
)

func testPalette(t *testing.T, size int) *palette.EnhancedPalette {
	t.Helper()
	p, err := palette.Build(palette.Bases{
		Primary:   colour.MustParseHex("#3b82f6"),
		Secondary: colour.MustParseHex("#f59e0b"),
		Neutral:   colour.MustParseHex("#6b7280"),
	}, size, palette.Metadata{Provider: "test"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return p
}

func TestPaletteSwatches(t *testing.T) {
	p := testPalette(t, 9)
	colours, backgrounds := PaletteSwatches(p)

	// 7 scales, steps 500..900 of a 9-step scale.
	if len(colours) != 7*5 {
		t.Errorf("got %d foreground swatches, want 35", len(colours))
	}
	for _, s := range colours {
		if strings.HasSuffix(s.Name, ".100") || strings.HasSuffix(s.Name, ".400") {
			t.Errorf("light step %s used as foreground", s.Name)
		}
	}
	if colours[0].Name != "primary.500" || colours[0].Value != "#3b82f6" {
		t.Errorf("first swatch = %+v, want primary.500 #3b82f6", colours[0])
	}

	if len(backgrounds) != 2 || backgrounds[0].Value != White || backgrounds[1].Name != "neutral.100" {
		t.Errorf("backgrounds = %+v", backgrounds)
	}
}

func TestAnalyzePalette(t *testing.T) {
	report := AnalyzePalette(testPalette(t, 11))

	if report.Degraded {
		t.Errorf("generated palette should not degrade the report: %+v", report.Excluded)
	}
	if report.Score <= 0 || report.Score > 100 {
		t.Errorf("Score = %.1f, want (0, 100]", report.Score)
	}
	// 7 scales with 6 steps from 500 to 950, on two backgrounds.
	if len(report.Pairs) != 7*6*2 {
		t.Errorf("got %d pairs, want 84", len(report.Pairs))
	}
}
