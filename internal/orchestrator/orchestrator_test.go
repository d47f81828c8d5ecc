package orchestrator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/observability"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
	"github.com/jmylchreest/tonal/internal/provider/heuristic"
	"github.com/jmylchreest/tonal/internal/provider/rulebased"
	"github.com/jmylchreest/tonal/internal/tokens"
)

// stubProvider is a scriptable provider that counts its calls.
type stubProvider struct {
	name         string
	unavailable  error
	generateErr  error
	panicOn      observability.Stage
	delay        time.Duration
	availability atomic.Int32
	generations  atomic.Int32
}

func (s *stubProvider) Name() string        { return s.name }
func (s *stubProvider) Description() string { return "stub" }

func (s *stubProvider) CheckAvailability(ctx context.Context) error {
	s.availability.Add(1)
	if s.panicOn == observability.StageAvailability {
		panic("availability exploded")
	}
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.unavailable
}

func (s *stubProvider) Generate(_ context.Context, in provider.Input) (*palette.EnhancedPalette, error) {
	s.generations.Add(1)
	if s.panicOn == observability.StageGenerate {
		panic("generate exploded")
	}
	if s.generateErr != nil {
		return nil, s.generateErr
	}
	return palette.Build(palette.Bases{
		Primary:   in.Base,
		Secondary: colour.HueShifted(in.Base, 180, 1),
		Neutral:   colour.NeutralBase(in.Base, 0.02),
	}, in.Request.Size, provider.Metadata(s, in, s.name+" reasoning"))
}

func request() palette.Request {
	return palette.Request{BaseColor: "#3b82f6", Style: palette.StyleProfessional, Size: 9}
}

func TestFirstSuccessStopsIteration(t *testing.T) {
	first := &stubProvider{name: "first"}
	second := &stubProvider{name: "second"}
	third := &stubProvider{name: "third"}
	rec := observability.NewRecorder()

	o := New([]provider.Provider{first, second, third}, WithCollector(rec))
	p, err := o.GeneratePalette(context.Background(), request())
	if err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}

	if p.Metadata.Provider != "first" {
		t.Errorf("Provider = %q, want first", p.Metadata.Provider)
	}
	if second.availability.Load() != 0 || third.availability.Load() != 0 {
		t.Error("later providers were consulted after a success")
	}
	if got := rec.Selected(); len(got) != 1 || got[0] != "first" {
		t.Errorf("Selected = %v", got)
	}
}

func TestFallbackAfterGenerateError(t *testing.T) {
	failing := &stubProvider{name: "failing", generateErr: errors.New("model refused")}
	backup := &stubProvider{name: "backup"}
	rec := observability.NewRecorder()

	o := New([]provider.Provider{failing, backup}, WithCollector(rec))
	p, err := o.GeneratePalette(context.Background(), request())
	if err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}

	if p.Metadata.Provider != "backup" {
		t.Errorf("Provider = %q, want backup", p.Metadata.Provider)
	}
	if got := backup.generations.Load(); got != 1 {
		t.Errorf("backup Generate called %d times, want 1", got)
	}
	if got := rec.Calls("failing", observability.StageGenerate); got != 1 {
		t.Errorf("recorded %d generate attempts for failing, want 1", got)
	}
}

func TestUnavailableProviderNotGenerated(t *testing.T) {
	offline := &stubProvider{name: "offline", unavailable: provider.ErrUnavailable}
	backup := &stubProvider{name: "backup"}

	o := New([]provider.Provider{offline, backup})
	if _, err := o.GeneratePalette(context.Background(), request()); err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}
	if got := offline.generations.Load(); got != 0 {
		t.Errorf("unavailable provider generated %d times", got)
	}
}

func TestPanicsAreRecovered(t *testing.T) {
	tests := []struct {
		name  string
		stage observability.Stage
	}{
		{"availability", observability.StageAvailability},
		{"generate", observability.StageGenerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := &stubProvider{name: "bad", panicOn: tt.stage}
			backup := &stubProvider{name: "backup"}
			rec := observability.NewRecorder()

			o := New([]provider.Provider{bad, backup}, WithCollector(rec))
			p, err := o.GeneratePalette(context.Background(), request())
			if err != nil {
				t.Fatalf("GeneratePalette() error = %v", err)
			}
			if p.Metadata.Provider != "backup" {
				t.Errorf("Provider = %q, want backup", p.Metadata.Provider)
			}

			var panicked bool
			for _, a := range rec.Attempts() {
				if a.Provider == "bad" && a.Stage == tt.stage && a.Outcome == observability.OutcomePanic {
					panicked = true
				}
			}
			if !panicked {
				t.Errorf("no panic attempt recorded: %+v", rec.Attempts())
			}
		})
	}
}

func TestAvailabilityTimeout(t *testing.T) {
	slow := &stubProvider{name: "slow", delay: time.Second}
	backup := &stubProvider{name: "backup"}

	o := New([]provider.Provider{slow, backup}, WithAvailabilityTimeout(20*time.Millisecond))

	start := time.Now()
	p, err := o.GeneratePalette(context.Background(), request())
	if err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
	if p.Metadata.Provider != "backup" {
		t.Errorf("Provider = %q, want backup", p.Metadata.Provider)
	}
	if slow.generations.Load() != 0 {
		t.Error("timed out provider was asked to generate")
	}
}

func TestAllProvidersFailed(t *testing.T) {
	modelErr := errors.New("model refused")
	a := &stubProvider{name: "a", unavailable: errors.New("offline")}
	b := &stubProvider{name: "b", generateErr: modelErr}
	rec := observability.NewRecorder()

	o := New([]provider.Provider{a, b}, WithCollector(rec))
	_, err := o.GeneratePalette(context.Background(), request())
	if err == nil {
		t.Fatal("expected error")
	}

	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("error %v does not match ErrAllProvidersFailed", err)
	}
	if !errors.Is(err, modelErr) {
		t.Errorf("error %v does not unwrap to the last provider error", err)
	}

	var failed *AllProvidersFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("error is %T, want *AllProvidersFailedError", err)
	}
	if len(failed.Attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(failed.Attempts))
	}
	if failed.Attempts[0].Stage != observability.StageAvailability || !errors.Is(failed.Attempts[0].Err, provider.ErrUnavailable) {
		t.Errorf("first attempt = %+v, want unavailable at availability", failed.Attempts[0])
	}
	if failed.Attempts[1].Stage != observability.StageGenerate {
		t.Errorf("second attempt stage = %s, want generate", failed.Attempts[1].Stage)
	}
	if rec.Failures() != 1 {
		t.Errorf("Failures = %d, want 1", rec.Failures())
	}
}

func TestNoProviders(t *testing.T) {
	_, err := New(nil).GeneratePalette(context.Background(), request())
	if !errors.Is(err, ErrAllProvidersFailed) {
		t.Errorf("error = %v, want ErrAllProvidersFailed", err)
	}
}

func TestInvalidColourIsFatal(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	o := New([]provider.Provider{stub})

	req := request()
	req.BaseColor = "not-a-colour"
	_, err := o.GeneratePalette(context.Background(), req)

	if !errors.Is(err, colour.ErrInvalidColorFormat) {
		t.Errorf("error = %v, want ErrInvalidColorFormat", err)
	}
	if errors.Is(err, ErrAllProvidersFailed) {
		t.Error("invalid colour must not be reported as provider failure")
	}
	if stub.availability.Load() != 0 {
		t.Error("providers were consulted for an invalid colour")
	}
}

func TestCancelledContext(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New([]provider.Provider{stub}).GeneratePalette(ctx, request())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestContextAdjustmentReachesProvider(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	req := request()
	req.Context = designctx.Context{Industry: designctx.IndustryFinance}

	p, err := New([]provider.Provider{stub}).GeneratePalette(context.Background(), req)
	if err != nil {
		t.Fatalf("GeneratePalette() error = %v", err)
	}
	if len(p.Metadata.Adjustments) != 1 || p.Metadata.Adjustments[0].Dimension != "industry" {
		t.Errorf("Adjustments = %v", p.Metadata.Adjustments)
	}
	if p.Primary.Base().Hex() == "#3b82f6" {
		t.Error("finance adjustment did not change the base colour")
	}
}

func TestGeneratePaletteEndToEnd(t *testing.T) {
	providers := provider.NewBuilder().
		WithConfig(provider.Config{DisabledProviders: []string{provider.NameHeuristic}}).
		Register(heuristic.New()).
		Register(rulebased.New()).
		Build()
	rec := observability.NewRecorder()

	o := New(providers, WithCollector(rec))
	req := request()
	req.Accessibility = true

	res, err := o.GenerateFormattedPalette(context.Background(), req, "")
	if err != nil {
		t.Fatalf("GenerateFormattedPalette() error = %v", err)
	}

	if res.Palette.Metadata.Provider != provider.NameRuleBased {
		t.Errorf("Provider = %q, want %q", res.Palette.Metadata.Provider, provider.NameRuleBased)
	}
	if got := res.Palette.Primary.Base().Hex(); got != "#3b82f6" {
		t.Errorf("primary 500 = %s, want #3b82f6", got)
	}
	if res.Palette.Primary.Len() != 9 {
		t.Errorf("primary has %d steps, want 9", res.Palette.Primary.Len())
	}
	if res.Reasoning == "" {
		t.Error("Reasoning is empty")
	}
	if res.Report == nil || res.Report.Score <= 0 {
		t.Fatalf("Report = %+v, want positive score", res.Report)
	}
	if got := rec.Scores(); len(got) != 1 {
		t.Errorf("recorded %d scores, want 1", len(got))
	}
	if rec.Calls(provider.NameHeuristic, observability.StageGenerate) != 0 {
		t.Error("disabled provider generated")
	}

	colors, ok := res.Document.Object("colors")
	if !ok {
		t.Fatalf("W3C document has no colors root: %v", res.Document.Keys())
	}
	if _, ok := colors.Object("primary"); !ok {
		t.Errorf("colors has no primary group: %v", colors.Keys())
	}
}

func TestFormatResolution(t *testing.T) {
	detectDir := t.TempDir()
	figma := `{"tokens": {"primary/500": {"value": "#3b82f6", "type": "color"}}}`
	if err := os.WriteFile(filepath.Join(detectDir, "existing.json"), []byte(figma), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	emptyDir := t.TempDir()

	tests := []struct {
		name        string
		format      string
		hint        string
		want        tokens.Format
		wantSource  string
		wantWarning bool
	}{
		{"explicit wins over detection", "style-dictionary", filepath.Join(detectDir, "out.json"), tokens.StyleDictionary, SourceExplicit, false},
		{"detected from output directory", "", filepath.Join(detectDir, "out.json"), tokens.Figma, SourceDetected, false},
		{"default when nothing matches", "", filepath.Join(emptyDir, "out.json"), tokens.W3C, SourceDefault, true},
		{"default without hint", "", "", tokens.W3C, SourceDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := observability.NewRecorder()
			o := New([]provider.Provider{rulebased.New()}, WithCollector(rec))

			req := request()
			req.Format = tt.format
			res, err := o.GenerateFormattedPalette(context.Background(), req, tt.hint)
			if err != nil {
				t.Fatalf("GenerateFormattedPalette() error = %v", err)
			}

			if res.Format.Name != tt.want.Name {
				t.Errorf("Format = %s, want %s", res.Format.Name, tt.want.Name)
			}
			if res.FormatSource != tt.wantSource {
				t.Errorf("FormatSource = %s, want %s", res.FormatSource, tt.wantSource)
			}

			var warned bool
			for _, w := range res.Warnings {
				if errors.Is(w, tokens.ErrFormatDetectionInconclusive) {
					warned = true
				}
			}
			if warned != tt.wantWarning {
				t.Errorf("inconclusive warning = %v, want %v (%v)", warned, tt.wantWarning, res.Warnings)
			}
			if got := rec.Formats(); len(got) != 1 || got[0] != tt.want.Name+"/"+tt.wantSource {
				t.Errorf("recorded formats = %v", got)
			}
		})
	}
}

func TestUnknownFormatFailsBeforeGeneration(t *testing.T) {
	stub := &stubProvider{name: "stub"}
	req := request()
	req.Format = "xml"

	_, err := New([]provider.Provider{stub}).GenerateFormattedPalette(context.Background(), req, "")
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("error = %v, want unknown format", err)
	}
	if stub.availability.Load() != 0 {
		t.Error("provider consulted for an unknown format")
	}
}

func TestNamespaceApplied(t *testing.T) {
	req := request()
	req.Format = "figma"
	req.Namespace = "brand"

	res, err := New([]provider.Provider{rulebased.New()}).GenerateFormattedPalette(context.Background(), req, "")
	if err != nil {
		t.Fatalf("GenerateFormattedPalette() error = %v", err)
	}

	root, ok := res.Document.Object("tokens")
	if !ok {
		t.Fatalf("figma document has no tokens root: %v", res.Document.Keys())
	}
	if _, ok := root.Get("brand/primary/500"); !ok {
		t.Errorf("namespaced key missing from %d keys", root.Len())
	}
}

func TestAllProvidersFailedErrorMessage(t *testing.T) {
	err := &AllProvidersFailedError{Attempts: []Attempt{
		{Provider: "external", Stage: observability.StageAvailability, Err: provider.ErrUnavailable},
	}}
	want := "all providers failed: external (availability): provider unavailable"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
