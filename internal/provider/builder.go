package provider

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/jmylchreest/tonal/internal/palette"
)

// Config holds provider selection configuration.
type Config struct {
	// DisabledProviders lists provider names that must never be used.
	// "all" disables every provider.
	DisabledProviders []string
}

// Builder provides a fluent interface for constructing the ordered provider list.
type Builder struct {
	config    Config
	providers []Provider
	useEnv    bool
}

// NewBuilder creates a new provider list builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithConfig sets the configuration for the builder.
func (b *Builder) WithConfig(config Config) *Builder {
	b.config = config
	return b
}

// WithEnvConfig loads configuration from environment variables.
// Reads TONAL_DISABLED_PROVIDERS and appends it to any configured list.
func (b *Builder) WithEnvConfig() *Builder {
	b.useEnv = true
	return b
}

// Register adds a provider. Registering a name twice replaces the earlier provider.
func (b *Builder) Register(p Provider) *Builder {
	for i, existing := range b.providers {
		if existing.Name() == p.Name() {
			b.providers[i] = p
			return b
		}
	}
	b.providers = append(b.providers, p)
	return b
}

// Build returns the providers in priority order. Built-in names follow Priority;
// any other names follow in registration order. Disabled providers stay in the
// list so their skip is recorded, but always report ErrUnavailable.
func (b *Builder) Build() []Provider {
	config := b.config
	if b.useEnv {
		if list := os.Getenv("TONAL_DISABLED_PROVIDERS"); list != "" {
			config.DisabledProviders = append(slices.Clone(config.DisabledProviders), ParseList(list)...)
		}
	}

	ordered := slices.Clone(b.providers)
	slices.SortStableFunc(ordered, func(x, y Provider) int {
		return rank(x.Name()) - rank(y.Name())
	})

	for i, p := range ordered {
		if isDisabled(config, p.Name()) {
			ordered[i] = disabled{Provider: p}
		}
	}
	return ordered
}

func rank(name string) int {
	if i := slices.Index(Priority, name); i >= 0 {
		return i
	}
	return len(Priority)
}

func isDisabled(config Config, name string) bool {
	for _, d := range config.DisabledProviders {
		if d == "all" || strings.EqualFold(d, name) {
			return true
		}
	}
	return false
}

// ParseList splits a comma separated list, dropping empty entries.
func ParseList(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// disabled wraps a provider switched off by configuration.
type disabled struct {
	Provider
}

func (d disabled) CheckAvailability(context.Context) error {
	return fmt.Errorf("%w: %s disabled by configuration", ErrUnavailable, d.Name())
}

func (d disabled) Generate(context.Context, Input) (*palette.EnhancedPalette, error) {
	return nil, fmt.Errorf("%w: %s disabled by configuration", ErrUnavailable, d.Name())
}
