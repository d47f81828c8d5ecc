package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/jmylchreest/tonal/internal/accessibility"
	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
)

const swatchWidth = 6

var (
	clrSuccess = color.New(color.FgGreen)
	clrWarning = color.New(color.FgYellow)
	clrError   = color.New(color.FgRed)
	clrHeading = color.New(color.Bold)
	clrMuted   = color.New(color.FgHiBlack)
)

func printWarning(w io.Writer, err error) {
	clrWarning.Fprintf(w, "⚠ %v\n", err)
}

// isTerminal reports whether w is a terminal that can show colour swatches.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printPalette lists every scale. On a terminal each step is shown as a swatch.
func printPalette(w io.Writer, p *palette.EnhancedPalette, swatches bool) {
	for _, named := range p.Scales() {
		name := strings.Join(named.Path, ".")
		if swatches {
			fmt.Fprintf(w, "%-18s %s\n", name, colour.ScalePreview(named.Scale, swatchWidth))
			continue
		}
		hexes := make([]string, 0, named.Scale.Len())
		for key, c := range named.Scale.All() {
			hexes = append(hexes, key+"="+c.Hex())
		}
		fmt.Fprintf(w, "%-18s %s\n", name, strings.Join(hexes, " "))
	}
}

// printReport summarises an accessibility report.
func printReport(w io.Writer, r *accessibility.Report, showPairs bool) {
	clrHeading.Fprintf(w, "Accessibility score %.1f (%s)\n", r.Score, r.Compliance)
	fmt.Fprintf(w, "  ├─ AA pass rate: %.0f%% of %d pairs\n", r.PassRate()*100, len(r.Pairs))
	fmt.Fprintf(w, "  └─ Colour-blind score: %.0f%% (%d problematic)\n",
		r.ColourBlindness.Score, len(r.ColourBlindness.Problematic))

	for _, e := range r.Excluded {
		printWarning(w, fmt.Errorf("excluded %s (%s): %s", e.Name, e.Value, e.Reason))
	}

	if showPairs && len(r.Pairs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, pairsTable(r.Pairs).Render())
	}

	if len(r.ColourBlindness.Problematic) > 0 {
		fmt.Fprintln(w)
		fmt.Fprint(w, problematicTable(r.ColourBlindness.Problematic).Render())
	}

	var high []accessibility.Recommendation
	for _, rec := range r.Recommendations {
		if rec.Priority == accessibility.PriorityHigh {
			high = append(high, rec)
		}
	}
	if len(high) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%d high-priority recommendation(s):\n", len(high))
		for _, rec := range high {
			clrError.Fprintf(w, "  ✗ %s\n", rec.Message)
		}
	}
}

func pairsTable(pairs []accessibility.ContrastPair) *Table {
	table := NewTable([]string{"Foreground", "Background", "Ratio", "AA", "AAA"})
	for _, p := range pairs {
		table.AddRow([]string{p.Foreground, p.Background, fmt.Sprintf("%.2f", p.Ratio), mark(p.PassesAA), mark(p.PassesAAA)})
	}
	return table
}

func problematicTable(pairs []accessibility.ProblematicPair) *Table {
	table := NewTable([]string{"Colour A", "Colour B", "Deficiency", "ΔE"})
	for _, p := range pairs {
		table.AddRow([]string{p.A, p.B, string(p.Deficiency), fmt.Sprintf("%.2f", p.Distance)})
	}
	return table
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// expandHome replaces a leading "~/" with the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// writeFile writes content to path, creating directories as needed.
// An existing file is kept as path.backup.
func writeFile(w io.Writer, path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		backupPath := path + ".backup"
		if err := os.Rename(path, backupPath); err != nil {
			printWarning(w, fmt.Errorf("could not create backup: %w", err))
		} else {
			clrMuted.Fprintf(w, "  ℹ Created backup: %s\n", backupPath)
		}
	}

	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
