package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/tonal/internal/provider/external"
)

// clearEnv blanks every tonal variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvExternalBackend, EnvOllamaURL, EnvOllamaModel, EnvGenAIModel, EnvGenAIBackend,
		EnvGoogleAPIKey, EnvAvailabilityTimeout, EnvGenerateTimeout, EnvRulesFile,
		EnvLogLevel, EnvMetricsFile,
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.External.Backend != external.BackendNone {
		t.Errorf("Backend = %q, want %q", cfg.External.Backend, external.BackendNone)
	}
	if cfg.External.OllamaURL != external.DefaultOllamaURL {
		t.Errorf("OllamaURL = %q", cfg.External.OllamaURL)
	}
	if cfg.AvailabilityTimeout != DefaultAvailabilityTimeout {
		t.Errorf("AvailabilityTimeout = %v", cfg.AvailabilityTimeout)
	}
	if cfg.GenerateTimeout != DefaultGenerateTimeout || cfg.External.Timeout != DefaultGenerateTimeout {
		t.Errorf("GenerateTimeout = %v, external timeout = %v", cfg.GenerateTimeout, cfg.External.Timeout)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvExternalBackend, "ollama")
	t.Setenv(EnvOllamaModel, "mistral")
	t.Setenv(EnvAvailabilityTimeout, "750ms")
	t.Setenv(EnvGenerateTimeout, "1m")
	t.Setenv(EnvRulesFile, "rules.yaml")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}

	if cfg.External.Backend != "ollama" || cfg.External.OllamaModel != "mistral" {
		t.Errorf("External = %+v", cfg.External)
	}
	if cfg.AvailabilityTimeout != 750*time.Millisecond {
		t.Errorf("AvailabilityTimeout = %v", cfg.AvailabilityTimeout)
	}
	if cfg.GenerateTimeout != time.Minute {
		t.Errorf("GenerateTimeout = %v", cfg.GenerateTimeout)
	}
	if cfg.RulesFile != "rules.yaml" || cfg.LogLevel != "debug" {
		t.Errorf("RulesFile = %q, LogLevel = %q", cfg.RulesFile, cfg.LogLevel)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"bad duration", EnvAvailabilityTimeout, "soon", EnvAvailabilityTimeout},
		{"negative duration", EnvGenerateTimeout, "-1s", "generate timeout must be positive"},
		{"unknown backend", EnvExternalBackend, "openai", "unknown backend"},
		{"unknown log level", EnvLogLevel, "loud", "unknown log level"},
	}

	// The Ollama URL is only checked when that backend is selected.
	t.Run("bad ollama url", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvExternalBackend, "ollama")
		t.Setenv(EnvOllamaURL, "ftp://models")

		_, err := FromEnv()
		if err == nil || !strings.Contains(err.Error(), EnvOllamaURL) {
			t.Errorf("error = %v, want mention of %s", err, EnvOllamaURL)
		}
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := FromEnv()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// Variables set to "" count as present, so the file could not fill them.
	os.Unsetenv(EnvExternalBackend)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	content := "TONAL_EXTERNAL_BACKEND=google-genai\nTONAL_GENAI_MODEL=gemini-test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	// An already-set variable wins over the file.
	t.Setenv(EnvGenAIModel, "from-env")

	cfg, err := Load(path, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.External.Backend != external.BackendGenAI {
		t.Errorf("Backend = %q, want %q", cfg.External.Backend, external.BackendGenAI)
	}
	if cfg.External.GenAIModel != "from-env" {
		t.Errorf("GenAIModel = %q, want from-env", cfg.External.GenAIModel)
	}
}
