package observability

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// Compile-time interface checks.
var (
	_ Collector = Nop{}
	_ Collector = (*Recorder)(nil)
	_ Collector = (*Prometheus)(nil)
	_ Collector = Multi(nil)
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.ProviderAttempt("external", StageAvailability, OutcomeError, time.Millisecond)
	r.ProviderAttempt("heuristic", StageAvailability, OutcomeOK, time.Millisecond)
	r.ProviderAttempt("heuristic", StageGenerate, OutcomeOK, 2*time.Millisecond)
	r.ProviderSelected("heuristic")
	r.FormatResolved("w3c", "default")
	r.AccessibilityScored(87.5, "aa", false)

	if got := len(r.Attempts()); got != 3 {
		t.Errorf("Attempts = %d, want 3", got)
	}
	if got := r.Calls("heuristic", StageGenerate); got != 1 {
		t.Errorf("Calls(heuristic, generate) = %d, want 1", got)
	}
	if got := r.Calls("external", StageGenerate); got != 0 {
		t.Errorf("Calls(external, generate) = %d, want 0", got)
	}
	if got := r.Selected(); len(got) != 1 || got[0] != "heuristic" {
		t.Errorf("Selected = %v", got)
	}
	if got := r.Formats(); len(got) != 1 || got[0] != "w3c/default" {
		t.Errorf("Formats = %v", got)
	}
	if got := r.Scores(); len(got) != 1 || got[0] != 87.5 {
		t.Errorf("Scores = %v", got)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder()
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.ProviderAttempt("rule-based", StageGenerate, OutcomeOK, time.Microsecond)
			r.AllProvidersFailed()
		}()
	}
	wg.Wait()

	if got := r.Calls("rule-based", StageGenerate); got != 20 {
		t.Errorf("Calls = %d, want 20", got)
	}
	if got := r.Failures(); got != 20 {
		t.Errorf("Failures = %d, want 20", got)
	}
}

func TestMultiFansOut(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, b, Nop{}}
	m.ProviderSelected("external")
	m.AllProvidersFailed()

	for i, r := range []*Recorder{a, b} {
		if len(r.Selected()) != 1 || r.Failures() != 1 {
			t.Errorf("recorder %d did not receive events", i)
		}
	}
}

func TestPrometheusWriteTextfile(t *testing.T) {
	p := NewPrometheus()
	p.ProviderAttempt("external", StageAvailability, OutcomeError, 5*time.Millisecond)
	p.ProviderAttempt("rule-based", StageGenerate, OutcomeOK, time.Millisecond)
	p.ProviderSelected("rule-based")
	p.FormatResolved("figma", "explicit")
	p.AccessibilityScored(92, "aa", false)

	path := filepath.Join(t.TempDir(), "tonal.prom")
	if err := p.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`tonal_provider_attempts_total{outcome="error",provider="external",stage="availability"} 1`,
		`tonal_provider_selected_total{provider="rule-based"} 1`,
		`tonal_format_resolved_total{format="figma",source="explicit"} 1`,
		`tonal_accessibility_reports_total{compliance="aa",degraded="false"} 1`,
		`tonal_accessibility_score_count 1`,
		`tonal_provider_duration_seconds_count{provider="rule-based",stage="generate"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q", want)
		}
	}
}

func TestPrometheusRegistriesIndependent(t *testing.T) {
	a, b := NewPrometheus(), NewPrometheus()
	a.AllProvidersFailed()

	families, err := b.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == "tonal_all_providers_failed_total" && f.GetMetric()[0].GetCounter().GetValue() != 0 {
			t.Error("collectors share state")
		}
	}
}
