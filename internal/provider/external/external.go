// Package external provides a palette provider backed by a language-model service.
package external

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
)

// Backend names.
const (
	BackendNone   = "none"
	BackendOllama = "ollama"
	BackendGenAI  = "google-genai"
)

// maxNeutralChroma caps the chroma of a service-chosen neutral.
const maxNeutralChroma = 0.04

// Client is a palette service backend.
type Client interface {
	// Backend returns the backend name.
	Backend() string

	// Probe checks that the service is reachable and usable.
	Probe(ctx context.Context) error

	// Complete sends the prompts and returns the raw model reply.
	Complete(ctx context.Context, system, prompt string) ([]byte, error)
}

// Config selects and configures the backend.
type Config struct {
	Backend      string
	OllamaURL    string
	OllamaModel  string
	GenAIModel   string
	GenAIBackend string
	GenAIAPIKey  string
	Timeout      time.Duration
}

// NewClient builds the backend client named by cfg.Backend.
// BackendNone and the empty string return a nil client.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendOllama:
		return NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel, cfg.Timeout), nil
	case BackendGenAI:
		return NewGenAIClient(cfg.GenAIModel, cfg.GenAIBackend, cfg.GenAIAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown external backend %q (supported: %s, %s, %s)", cfg.Backend, BackendNone, BackendOllama, BackendGenAI)
	}
}

// Provider asks an external service for the supporting colours of a palette.
type Provider struct {
	client Client
	logger hclog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the provider logger.
func WithLogger(logger hclog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// New creates an external provider. A nil client makes the provider permanently unavailable.
func New(client Client, opts ...Option) *Provider {
	p := &Provider{client: client, logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return provider.NameExternal
}

// Description returns a human-readable description.
func (p *Provider) Description() string {
	if p.client == nil {
		return "Language-model palette service (not configured)"
	}
	return fmt.Sprintf("Language-model palette service (%s)", p.client.Backend())
}

// CheckAvailability probes the backend. Every failure wraps provider.ErrUnavailable.
func (p *Provider) CheckAvailability(ctx context.Context) error {
	if p.client == nil {
		return fmt.Errorf("%w: no external backend configured", provider.ErrUnavailable)
	}
	if err := p.client.Probe(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", provider.ErrUnavailable, p.client.Backend(), err)
	}
	return nil
}

// Generate requests secondary, neutral and semantic bases from the service.
// The primary scale is always built from the input base.
func (p *Provider) Generate(ctx context.Context, in provider.Input) (*palette.EnhancedPalette, error) {
	if p.client == nil {
		return nil, fmt.Errorf("%w: no external backend configured", provider.ErrUnavailable)
	}

	prompt := BuildPrompt(in)
	p.logger.Debug("requesting palette", "backend", p.client.Backend(), "prompt_bytes", len(prompt))

	raw, err := p.client.Complete(ctx, SystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", p.client.Backend(), err)
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		p.logger.Debug("rejected service reply", "backend", p.client.Backend(), "error", err)
		return nil, err
	}

	secondary, err := colour.ParseHex(resp.Secondary)
	if err != nil {
		return nil, fmt.Errorf("secondary: %w", err)
	}
	neutral, err := colour.ParseHex(resp.Neutral)
	if err != nil {
		return nil, fmt.Errorf("neutral: %w", err)
	}
	semantic, err := resp.Semantics()
	if err != nil {
		return nil, err
	}

	reasoning := fmt.Sprintf("%s: %s", p.client.Backend(), strings.TrimSpace(resp.Reasoning))
	if resp.Primary != "" {
		if suggested, err := colour.ParseHex(resp.Primary); err == nil && suggested.Hex() != in.Base.Hex() {
			p.logger.Debug("ignoring suggested primary", "suggested", suggested.Hex(), "base", in.Base.Hex())
		}
	}

	return palette.Build(palette.Bases{
		Primary:   in.Base,
		Secondary: secondary,
		Neutral:   colour.NeutralBase(neutral, maxNeutralChroma),
		Semantic:  semantic,
	}, in.Request.Size, provider.Metadata(p, in, reasoning))
}
