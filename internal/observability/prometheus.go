package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus records events as Prometheus metrics on its own registry.
type Prometheus struct {
	registry *prometheus.Registry

	attempts   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	selected   *prometheus.CounterVec
	failures   prometheus.Counter
	formats    *prometheus.CounterVec
	score      prometheus.Histogram
	compliance *prometheus.CounterVec
}

// NewPrometheus creates a collector backed by a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,

		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonal_provider_attempts_total",
			Help: "Provider calls by provider, stage and outcome",
		}, []string{"provider", "stage", "outcome"}),

		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tonal_provider_duration_seconds",
			Help:    "Provider call duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 3, 10, 30},
		}, []string{"provider", "stage"}),

		selected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonal_provider_selected_total",
			Help: "Palettes returned by provider",
		}, []string{"provider"}),

		failures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tonal_all_providers_failed_total",
			Help: "Requests no provider could serve",
		}),

		formats: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonal_format_resolved_total",
			Help: "Token formats chosen by format and resolution source",
		}, []string{"format", "source"}),

		score: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tonal_accessibility_score",
			Help:    "Composite accessibility score of generated palettes",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),

		compliance: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tonal_accessibility_reports_total",
			Help: "Accessibility reports by compliance level and degraded flag",
		}, []string{"compliance", "degraded"}),
	}
}

// Registry returns the registry holding the collector's metrics.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the current metrics in text exposition format for node_exporter.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

func (p *Prometheus) ProviderAttempt(provider string, stage Stage, outcome string, elapsed time.Duration) {
	p.attempts.WithLabelValues(provider, string(stage), outcome).Inc()
	p.duration.WithLabelValues(provider, string(stage)).Observe(elapsed.Seconds())
}

func (p *Prometheus) ProviderSelected(provider string) {
	p.selected.WithLabelValues(provider).Inc()
}

func (p *Prometheus) AllProvidersFailed() {
	p.failures.Inc()
}

func (p *Prometheus) FormatResolved(format, source string) {
	p.formats.WithLabelValues(format, source).Inc()
}

func (p *Prometheus) AccessibilityScored(score float64, compliance string, degraded bool) {
	p.score.Observe(score)
	p.compliance.WithLabelValues(compliance, strconv.FormatBool(degraded)).Inc()
}
