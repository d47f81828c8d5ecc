// Package orchestrator runs palette providers in priority order and turns the
// first successful palette into a token document.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/observability"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
)

// Default per-call timeouts.
const (
	DefaultAvailabilityTimeout = 3 * time.Second
	DefaultGenerateTimeout     = 30 * time.Second
)

var errNoPalette = errors.New("provider returned no palette")

// Orchestrator tries providers strictly in order and returns the first palette.
// It is safe for concurrent use once constructed.
type Orchestrator struct {
	providers           []provider.Provider
	rules               *designctx.RuleTable
	logger              hclog.Logger
	collector           observability.Collector
	availabilityTimeout time.Duration
	generateTimeout     time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(l hclog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCollector sets the event collector.
func WithCollector(c observability.Collector) Option {
	return func(o *Orchestrator) {
		if c != nil {
			o.collector = c
		}
	}
}

// WithRules replaces the default contextual adjustment rules.
func WithRules(rules *designctx.RuleTable) Option {
	return func(o *Orchestrator) {
		if rules != nil {
			o.rules = rules
		}
	}
}

// WithAvailabilityTimeout bounds each CheckAvailability call. Non-positive values are ignored.
func WithAvailabilityTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.availabilityTimeout = d
		}
	}
}

// WithGenerateTimeout bounds each Generate call. Non-positive values are ignored.
func WithGenerateTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.generateTimeout = d
		}
	}
}

// New creates an orchestrator over providers, which are tried in the given order.
func New(providers []provider.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		providers:           append([]provider.Provider(nil), providers...),
		rules:               designctx.DefaultRules(),
		logger:              hclog.NewNullLogger(),
		collector:           observability.Nop{},
		availabilityTimeout: DefaultAvailabilityTimeout,
		generateTimeout:     DefaultGenerateTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Providers returns the providers in the order they are tried.
func (o *Orchestrator) Providers() []provider.Provider {
	return append([]provider.Provider(nil), o.providers...)
}

// GeneratePalette validates req, applies contextual adjustment to the base colour
// and returns the palette of the first provider that is available and succeeds.
// A malformed base colour is returned immediately without trying any provider.
// When every provider fails the error is an *AllProvidersFailedError.
func (o *Orchestrator) GeneratePalette(ctx context.Context, req palette.Request) (*palette.EnhancedPalette, error) {
	req, err := req.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	return o.generate(ctx, req)
}

func (o *Orchestrator) generate(ctx context.Context, req palette.Request) (*palette.EnhancedPalette, error) {
	base, err := colour.ParseHex(req.BaseColor)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}

	adjusted, adjustments := o.rules.Adjust(base, req.Context)
	for _, a := range adjustments {
		o.logger.Debug("contextual adjustment", "adjustment", a.String())
	}
	in := provider.Input{Request: req, Base: adjusted, Adjustments: adjustments}

	var attempts []Attempt
	for _, p := range o.providers {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate palette: %w", err)
		}

		name := p.Name()
		log := o.logger.With("provider", name)

		_, err := call(ctx, o, name, observability.StageAvailability, o.availabilityTimeout,
			func(ctx context.Context) (struct{}, error) {
				return struct{}{}, p.CheckAvailability(ctx)
			})
		if err != nil {
			if !errors.Is(err, provider.ErrUnavailable) {
				err = fmt.Errorf("%w: %w", provider.ErrUnavailable, err)
			}
			log.Debug("provider unavailable", "error", err)
			attempts = append(attempts, Attempt{Provider: name, Stage: observability.StageAvailability, Err: err})
			continue
		}

		pal, err := call(ctx, o, name, observability.StageGenerate, o.generateTimeout,
			func(ctx context.Context) (*palette.EnhancedPalette, error) {
				return p.Generate(ctx, in)
			})
		if err == nil && pal == nil {
			err = errNoPalette
		}
		if err != nil {
			log.Warn("provider failed", "error", err)
			attempts = append(attempts, Attempt{Provider: name, Stage: observability.StageGenerate, Err: err})
			continue
		}

		log.Debug("provider selected", "reasoning", pal.Metadata.Reasoning)
		o.collector.ProviderSelected(name)
		return pal, nil
	}

	o.collector.AllProvidersFailed()
	return nil, &AllProvidersFailedError{Attempts: attempts}
}

// call runs fn under timeout with panic recovery and records the attempt.
// A call that overruns its timeout is abandoned and its result discarded.
func call[T any](ctx context.Context, o *Orchestrator, name string, stage observability.Stage, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value    T
		err      error
		panicked bool
	}
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- result{err: fmt.Errorf("panic in %s %s: %v", name, stage, rec), panicked: true}
			}
		}()
		v, err := fn(ctx)
		done <- result{value: v, err: err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		r.err = fmt.Errorf("%s %s: %w", name, stage, ctx.Err())
	}

	outcome := observability.OutcomeOK
	switch {
	case r.panicked:
		outcome = observability.OutcomePanic
	case r.err != nil:
		outcome = observability.OutcomeError
	}
	o.collector.ProviderAttempt(name, stage, outcome, time.Since(start))

	return r.value, r.err
}
