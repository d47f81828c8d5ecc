// Package config loads tonal configuration from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"

	"github.com/jmylchreest/tonal/internal/provider/external"
	"github.com/jmylchreest/tonal/internal/security"
)

// Environment variable names.
const (
	EnvExternalBackend     = "TONAL_EXTERNAL_BACKEND"
	EnvOllamaURL           = "TONAL_OLLAMA_URL"
	EnvOllamaModel         = "TONAL_OLLAMA_MODEL"
	EnvGenAIModel          = "TONAL_GENAI_MODEL"
	EnvGenAIBackend        = "TONAL_GENAI_BACKEND"
	EnvGoogleAPIKey        = "GOOGLE_API_KEY"
	EnvAvailabilityTimeout = "TONAL_AVAILABILITY_TIMEOUT"
	EnvGenerateTimeout     = "TONAL_GENERATE_TIMEOUT"
	EnvRulesFile           = "TONAL_RULES_FILE"
	EnvLogLevel            = "TONAL_LOG_LEVEL"
	EnvMetricsFile         = "TONAL_METRICS_FILE"
)

// Defaults.
const (
	DefaultAvailabilityTimeout = 3 * time.Second
	DefaultGenerateTimeout     = 30 * time.Second
	DefaultLogLevel            = "warn"
)

// Config holds runtime configuration.
type Config struct {
	// External configures the external provider backend.
	External external.Config

	// AvailabilityTimeout bounds each provider availability probe.
	AvailabilityTimeout time.Duration

	// GenerateTimeout bounds each provider generation call.
	GenerateTimeout time.Duration

	// RulesFile is an optional YAML file of contextual adjustment rules.
	RulesFile string

	// LogLevel is an hclog level name.
	LogLevel string

	// MetricsFile is where Prometheus metrics are written after a run, if set.
	MetricsFile string
}

// Load reads the given .env files (default ".env") into the process environment
// without overriding variables already set, then builds the configuration.
// Missing .env files are ignored.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds the configuration from environment variables.
func FromEnv() (*Config, error) {
	var errs []error

	availability, err := duration(EnvAvailabilityTimeout, DefaultAvailabilityTimeout)
	if err != nil {
		errs = append(errs, err)
	}
	generate, err := duration(EnvGenerateTimeout, DefaultGenerateTimeout)
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		External: external.Config{
			Backend:      getEnvOrDefault(EnvExternalBackend, external.BackendNone),
			OllamaURL:    getEnvOrDefault(EnvOllamaURL, external.DefaultOllamaURL),
			OllamaModel:  getEnvOrDefault(EnvOllamaModel, external.DefaultOllamaModel),
			GenAIModel:   getEnvOrDefault(EnvGenAIModel, external.DefaultGenAIModel),
			GenAIBackend: getEnvOrDefault(EnvGenAIBackend, external.GenAIBackendGemini),
			GenAIAPIKey:  os.Getenv(EnvGoogleAPIKey),
			Timeout:      generate,
		},
		AvailabilityTimeout: availability,
		GenerateTimeout:     generate,
		RulesFile:           os.Getenv(EnvRulesFile),
		LogLevel:            getEnvOrDefault(EnvLogLevel, DefaultLogLevel),
		MetricsFile:         os.Getenv(EnvMetricsFile),
	}

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	switch strings.ToLower(c.External.Backend) {
	case external.BackendNone, external.BackendOllama, external.BackendGenAI:
	default:
		errs = append(errs, fmt.Sprintf("%s: unknown backend %q", EnvExternalBackend, c.External.Backend))
	}

	if strings.EqualFold(c.External.Backend, external.BackendOllama) {
		if err := security.ValidateServiceURL(c.External.OllamaURL); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", EnvOllamaURL, err))
		}
	}

	if c.AvailabilityTimeout <= 0 {
		errs = append(errs, "availability timeout must be positive")
	}
	if c.GenerateTimeout <= 0 {
		errs = append(errs, "generate timeout must be positive")
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		errs = append(errs, fmt.Sprintf("%s: unknown log level %q", EnvLogLevel, c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
