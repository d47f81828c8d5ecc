package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/tonal/internal/accessibility"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/tokens"
)

// Format resolution sources.
const (
	SourceExplicit = "explicit"
	SourceDetected = "detected"
	SourceDefault  = "default"
)

// Result is a generated palette rendered as a token document.
type Result struct {
	Palette *palette.EnhancedPalette

	// Format is the token format of Document and FormatSource how it was chosen.
	Format       tokens.Format
	FormatSource string

	Document *tokens.Object

	// Report is set when the request asked for accessibility analysis.
	Report *accessibility.Report

	// Reasoning explains the provider's choices.
	Reasoning string

	// Warnings are non-fatal problems, such as tokens.ErrFormatDetectionInconclusive.
	Warnings []error
}

// GenerateFormattedPalette generates a palette and converts it to a token document.
// An explicit request format wins. Otherwise the directory of outputPathHint is
// scanned for an existing token file, falling back to W3C with a warning.
func (o *Orchestrator) GenerateFormattedPalette(ctx context.Context, req palette.Request, outputPathHint string) (*Result, error) {
	req, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	resolved, err := o.resolveFormat(req.Format, outputPathHint)
	if err != nil {
		return nil, err
	}
	format := resolved.format
	o.collector.FormatResolved(format.Name, resolved.source)

	pal, err := o.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	tree, err := pal.Tokens()
	if err != nil {
		return nil, fmt.Errorf("build token tree: %w", err)
	}
	doc, err := tokens.Convert(tree, format, req.Namespace)
	if err != nil {
		return nil, fmt.Errorf("convert to %s: %w", format.Name, err)
	}

	res := &Result{
		Palette:      pal,
		Format:       format,
		FormatSource: resolved.source,
		Document:     doc,
		Reasoning:    pal.Metadata.Reasoning,
	}
	if resolved.warning != nil {
		res.Warnings = append(res.Warnings, resolved.warning)
	}

	if req.Accessibility {
		report := accessibility.AnalyzePalette(pal)
		o.collector.AccessibilityScored(report.Score, string(report.Compliance), report.Degraded)
		if report.Degraded {
			res.Warnings = append(res.Warnings, fmt.Errorf("accessibility analysis degraded: %d colours excluded", len(report.Excluded)))
		}
		res.Report = report
	}

	return res, nil
}

type resolvedFormat struct {
	format  tokens.Format
	source  string
	warning error
}

func (o *Orchestrator) resolveFormat(name, outputPathHint string) (resolvedFormat, error) {
	if name != "" {
		f, ok := tokens.Lookup(name)
		if !ok {
			return resolvedFormat{}, fmt.Errorf("unknown format %q (available: %s)", name, strings.Join(tokens.Names(), ", "))
		}
		return resolvedFormat{format: f, source: SourceExplicit}, nil
	}

	if outputPathHint == "" {
		return resolvedFormat{
			format:  tokens.W3C,
			source:  SourceDefault,
			warning: fmt.Errorf("%w: no output path to inspect, using %s", tokens.ErrFormatDetectionInconclusive, tokens.W3C.Name),
		}, nil
	}

	dir := filepath.Dir(outputPathHint)
	if f, file, ok := tokens.DetectFormatSource(dir); ok {
		o.logger.Debug("detected token format", "format", f.Name, "file", file)
		return resolvedFormat{format: f, source: SourceDetected}, nil
	}

	return resolvedFormat{
		format:  tokens.W3C,
		source:  SourceDefault,
		warning: fmt.Errorf("%w: no token files in %s, using %s", tokens.ErrFormatDetectionInconclusive, dir, tokens.W3C.Name),
	}, nil
}
