// Package observability provides the injectable collector that receives
// palette pipeline events.
package observability

import (
	"sync"
	"time"
)

// Stage names a provider call.
type Stage string

// Provider stages.
const (
	StageAvailability Stage = "availability"
	StageGenerate     Stage = "generate"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomePanic = "panic"
)

// Collector receives pipeline events. Implementations must be safe for concurrent use.
type Collector interface {
	// ProviderAttempt records one provider call and how it ended.
	ProviderAttempt(provider string, stage Stage, outcome string, elapsed time.Duration)

	// ProviderSelected records the provider whose palette was returned.
	ProviderSelected(provider string)

	// AllProvidersFailed records a request no provider could serve.
	AllProvidersFailed()

	// FormatResolved records the token format chosen and how ("explicit", "detected" or "default").
	FormatResolved(format, source string)

	// AccessibilityScored records a report score and compliance level.
	AccessibilityScored(score float64, compliance string, degraded bool)
}

// Nop discards every event.
type Nop struct{}

func (Nop) ProviderAttempt(string, Stage, string, time.Duration) {}
func (Nop) ProviderSelected(string)                              {}
func (Nop) AllProvidersFailed()                                  {}
func (Nop) FormatResolved(string, string)                        {}
func (Nop) AccessibilityScored(float64, string, bool)            {}

// Attempt is one recorded provider call.
type Attempt struct {
	Provider string
	Stage    Stage
	Outcome  string
	Elapsed  time.Duration
}

// Recorder keeps events in memory. It is useful in tests and for verbose summaries.
type Recorder struct {
	mu       sync.Mutex
	attempts []Attempt
	selected []string
	failures int
	formats  []string
	scores   []float64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// ProviderAttempt records one provider call.
func (r *Recorder) ProviderAttempt(provider string, stage Stage, outcome string, elapsed time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, Attempt{Provider: provider, Stage: stage, Outcome: outcome, Elapsed: elapsed})
}

// ProviderSelected records the selected provider.
func (r *Recorder) ProviderSelected(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selected = append(r.selected, provider)
}

// AllProvidersFailed counts a failed request.
func (r *Recorder) AllProvidersFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

// FormatResolved records the resolved format as "format/source".
func (r *Recorder) FormatResolved(format, source string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formats = append(r.formats, format+"/"+source)
}

// AccessibilityScored records a report score.
func (r *Recorder) AccessibilityScored(score float64, _ string, _ bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scores = append(r.scores, score)
}

// Attempts returns a copy of the recorded attempts.
func (r *Recorder) Attempts() []Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Attempt(nil), r.attempts...)
}

// Selected returns the selected providers in order.
func (r *Recorder) Selected() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.selected...)
}

// Failures returns the number of requests no provider could serve.
func (r *Recorder) Failures() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failures
}

// Formats returns the resolved formats as "format/source".
func (r *Recorder) Formats() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.formats...)
}

// Scores returns the recorded accessibility scores.
func (r *Recorder) Scores() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]float64(nil), r.scores...)
}

// Calls returns how many times stage was attempted for provider.
func (r *Recorder) Calls(provider string, stage Stage) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, a := range r.attempts {
		if a.Provider == provider && a.Stage == stage {
			n++
		}
	}
	return n
}

// Multi fans events out to several collectors.
type Multi []Collector

func (m Multi) ProviderAttempt(provider string, stage Stage, outcome string, elapsed time.Duration) {
	for _, c := range m {
		c.ProviderAttempt(provider, stage, outcome, elapsed)
	}
}

func (m Multi) ProviderSelected(provider string) {
	for _, c := range m {
		c.ProviderSelected(provider)
	}
}

func (m Multi) AllProvidersFailed() {
	for _, c := range m {
		c.AllProvidersFailed()
	}
}

func (m Multi) FormatResolved(format, source string) {
	for _, c := range m {
		c.FormatResolved(format, source)
	}
}

func (m Multi) AccessibilityScored(score float64, compliance string, degraded bool) {
	for _, c := range m {
		c.AccessibilityScored(score, compliance, degraded)
	}
}
