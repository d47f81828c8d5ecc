package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/observability"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
	"github.com/jmylchreest/tonal/internal/security"
)

// generateOptions holds the generate command flags.
type generateOptions struct {
	base          string
	style         string
	size          int
	format        string
	namespace     string
	output        string
	dryRun        bool
	preview       bool
	accessibility bool
	showPairs     bool
	metricsFile   string
	rulesFile     string
	disabled      []string

	industry string
	audience string
	medium   string
	level    string
	culture  string
	tone     string
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a design-token palette from a base colour",
		Long: `Generate a complete palette from a single base colour and write it as design tokens.

The base colour becomes step 500 of the primary scale. Secondary, neutral and
semantic (success, warning, error, info) scales are chosen by the first
provider that succeeds, in order: ` + fmt.Sprintf("%v", provider.Priority) + `.

The token format is taken from --format, or detected from existing token files
next to --output, or defaults to W3C.

Styles: ` + styleNames() + `

Examples:
  # Print W3C tokens for a blue brand colour
  tonal generate --base '#3b82f6'

  # Vibrant palette for a children's app, written as Style Dictionary tokens
  tonal generate --base '#e11d48' --style vibrant --audience children \
    --format style-dictionary --output tokens/colors.json

  # Check accessibility and preview the scales
  tonal generate --base '#0f766e' --accessibility --preview --dry-run

  # Skip the external model
  tonal generate --base '#3b82f6' --disable external`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.base, "base", "b", "", "base colour as hex (required, e.g. #3b82f6)")
	_ = cmd.MarkFlagRequired("base")
	f.VarP(styleFlag(&opts.style), "style", "s", "palette style ("+styleNames()+")")
	f.IntVar(&opts.size, "size", 0, "steps per scale, 3 to 11 (default 10: 50..900)")
	f.VarP(formatFlag(&opts.format), "format", "f", "token format (default: detect, else w3c)")
	f.StringVar(&opts.namespace, "namespace", "", "path segment prefixed to every token")
	f.StringVarP(&opts.output, "output", "o", "", "write tokens to this file instead of stdout")
	f.BoolVar(&opts.dryRun, "dry-run", false, "print tokens without writing files")
	f.BoolVar(&opts.preview, "preview", false, "show the generated scales")
	f.BoolVar(&opts.accessibility, "accessibility", false, "analyse WCAG contrast and colour-blind safety")
	f.BoolVar(&opts.showPairs, "pairs", false, "with --accessibility, list every contrast pair")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.rulesFile, "rules", "", "YAML file of contextual adjustment rules")
	f.StringSliceVar(&opts.disabled, "disable", nil, "providers to skip (external, heuristic, rule-based or all)")

	// Design context
	f.StringVar(&opts.industry, "industry", "", "industry, e.g. finance, healthcare, technology")
	f.StringVar(&opts.audience, "audience", "", "audience, e.g. children, professionals, seniors")
	f.StringVar(&opts.medium, "medium", "", "medium: web, mobile or print")
	f.Var(levelFlag(&opts.level), "a11y", "accessibility target: none, aa or aaa")
	f.StringVar(&opts.culture, "culture", "", "cultural context, e.g. western, east-asian")
	f.StringVar(&opts.tone, "tone", "", "tone, e.g. calm, energetic, trustworthy")

	return cmd
}

func (o *generateOptions) request() palette.Request {
	return palette.Request{
		BaseColor: o.base,
		Style:     palette.Style(o.style),
		Size:      o.size,
		Format:    o.format,
		Namespace: o.namespace,
		Context: designctx.Context{
			Industry:      designctx.Industry(o.industry),
			Audience:      designctx.Audience(o.audience),
			Medium:        designctx.Medium(o.medium),
			Accessibility: designctx.AccessibilityLevel(o.level),
			Culture:       designctx.Culture(o.culture),
			Tone:          designctx.Tone(o.tone),
		},
		Accessibility: o.accessibility,
	}
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	if err := a.setup(cmd); err != nil {
		return err
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	// Validation, detection and writing all see the same expanded path.
	output, err := expandHome(opts.output)
	if err != nil {
		return err
	}
	opts.output = output

	if opts.output != "" && !opts.dryRun {
		if err := security.ValidateOutputPath(opts.output); err != nil {
			return err
		}
	}

	metrics := observability.NewPrometheus()
	orch, err := a.orchestrator(opts.rulesFile, opts.disabled, metrics)
	if err != nil {
		return err
	}

	res, genErr := orch.GenerateFormattedPalette(cmd.Context(), opts.request(), opts.output)

	metricsFile := opts.metricsFile
	if metricsFile == "" {
		metricsFile = a.cfg.MetricsFile
	}
	if metricsFile != "" {
		if metricsFile, err = expandHome(metricsFile); err != nil {
			printWarning(stderr, err)
		} else if err := metrics.WriteTextfile(metricsFile); err != nil {
			printWarning(stderr, fmt.Errorf("failed to write metrics: %w", err))
		} else {
			a.logger.Debug("wrote metrics", "path", metricsFile)
		}
	}

	if genErr != nil {
		return fmt.Errorf("failed to generate palette: %w", genErr)
	}

	for _, w := range res.Warnings {
		printWarning(stderr, w)
	}

	if !a.quiet {
		clrSuccess.Fprintf(stderr, "✓ Provider: %s\n", res.Palette.Metadata.Provider)
		fmt.Fprintf(stderr, "  └─ %s\n", res.Reasoning)
		for _, adj := range res.Palette.Metadata.Adjustments {
			fmt.Fprintf(stderr, "  └─ adjusted for %s\n", adj)
		}
		fmt.Fprintf(stderr, "✓ Format: %s (%s)\n", res.Format.Name, res.FormatSource)
	}

	if opts.preview {
		fmt.Fprintln(stderr)
		printPalette(stderr, res.Palette, isTerminal(stderr))
		fmt.Fprintln(stderr)
	}

	if res.Report != nil {
		printReport(stderr, res.Report, opts.showPairs)
	}

	data, err := json.MarshalIndent(res.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode tokens: %w", err)
	}
	data = append(data, '\n')

	switch {
	case opts.output == "":
		_, err = stdout.Write(data)
		return err
	case opts.dryRun:
		_, err = stdout.Write(data)
		fmt.Fprintf(stderr, "  Would write: %s (%d bytes)\n", opts.output, len(data))
		return err
	default:
		if err := writeFile(stderr, opts.output, data); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
		if !a.quiet {
			clrSuccess.Fprintf(stderr, "✓ Wrote %s (%d bytes)\n", opts.output, len(data))
		}
		return nil
	}
}
