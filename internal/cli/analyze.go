package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/accessibility"
	"github.com/jmylchreest/tonal/internal/tokens"
)

type analyzeOptions struct {
	backgrounds []string
	tokensFile  string
	namespace   string
	jsonOutput  bool
	showPairs   bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [name=]colour...",
		Short: "Check colours for WCAG contrast and colour-blind safety",
		Long: `Analyse a set of colours against one or more backgrounds.

Every colour is checked against every background for WCAG contrast (AA 4.5:1,
AAA 7:1, AA large text 3:1), and every pair of colours is checked for
distinguishability under simulated protanopia, deuteranopia and tritanopia.

Colours can be given as arguments or read from a token file in any supported
format. Values that are not hex colours are reported and skipped.

Examples:
  tonal analyze '#1e40af' 'danger=#dc2626' 'ok=#16a34a'
  tonal analyze --background '#0f172a' '#f8fafc' '#94a3b8'
  tonal analyze --tokens tokens/colors.json --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringSliceVarP(&opts.backgrounds, "background", "B", []string{accessibility.White}, "background colours")
	f.StringVar(&opts.tokensFile, "tokens", "", "read colours from a token file")
	f.StringVar(&opts.namespace, "namespace", "", "namespace of the token file")
	f.BoolVar(&opts.jsonOutput, "json", false, "print the report as JSON")
	f.BoolVar(&opts.showPairs, "pairs", true, "list every contrast pair")

	return cmd
}

func (a *app) runAnalyze(cmd *cobra.Command, opts *analyzeOptions, args []string) error {
	if err := a.setup(cmd); err != nil {
		return err
	}

	colours := parseSwatches(args)
	if opts.tokensFile != "" {
		fromFile, err := tokenSwatches(opts.tokensFile, opts.namespace)
		if err != nil {
			return err
		}
		colours = append(colours, fromFile...)
	}
	if len(colours) == 0 {
		return errors.New("no colours to analyse: pass colours as arguments or use --tokens")
	}

	report := accessibility.Analyze(colours, parseSwatches(opts.backgrounds))
	a.logger.Debug("analysed colours", "colours", len(colours), "score", report.Score)

	if opts.jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(cmd.OutOrStdout(), report, opts.showPairs)
	return nil
}

// parseSwatches reads "name=value" or bare "value" arguments.
func parseSwatches(args []string) []accessibility.Swatch {
	out := make([]accessibility.Swatch, 0, len(args))
	for _, arg := range args {
		if name, value, ok := strings.Cut(arg, "="); ok {
			out = append(out, accessibility.Swatch{Name: name, Value: value})
			continue
		}
		out = append(out, accessibility.Swatch{Value: arg})
	}
	return out
}

// tokenSwatches loads every token of a token file as a swatch named by its path.
func tokenSwatches(path, namespace string) ([]accessibility.Swatch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer file.Close()

	doc, err := tokens.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	format, ok := tokens.MatchSignature(doc)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, tokens.ErrFormatDetectionInconclusive)
	}
	tree, err := tokens.Parse(doc, format, namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s as %s: %w", path, format.Name, err)
	}

	var out []accessibility.Swatch
	err = tree.Walk(func(p []string, tok tokens.Token) error {
		out = append(out, accessibility.Swatch{Name: strings.Join(p, "."), Value: tok.Value})
		return nil
	})
	return out, err
}
