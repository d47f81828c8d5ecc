package external

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	tonalhttp "github.com/jmylchreest/tonal/internal/util/http"
)

const (
	// DefaultOllamaURL is the default local Ollama endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultOllamaModel is the model used when none is configured.
	DefaultOllamaModel = "llama3.2"

	ollamaTagsPath     = "/api/tags"
	ollamaGeneratePath = "/api/generate"
)

// OllamaClient talks to a local Ollama server over its native HTTP API.
type OllamaClient struct {
	baseURL string
	model   string
	timeout time.Duration
}

// NewOllamaClient creates an Ollama client. Empty values take defaults.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		timeout: timeout,
	}
}

// Backend returns the backend name.
func (c *OllamaClient) Backend() string {
	return BackendOllama
}

type ollamaTags struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// Probe checks that the server answers and has the configured model pulled.
func (c *OllamaClient) Probe(ctx context.Context) error {
	data, err := tonalhttp.Fetch(ctx, c.baseURL+ollamaTagsPath, tonalhttp.FetchOptions{Timeout: c.timeout})
	if err != nil {
		return err
	}

	var tags ollamaTags
	if err := json.Unmarshal(data, &tags); err != nil {
		return fmt.Errorf("decode tags: %w", err)
	}

	for _, m := range tags.Models {
		if m.Name == c.model || strings.TrimSuffix(m.Name, ":latest") == c.model {
			return nil
		}
	}
	return fmt.Errorf("model %q not available on %s", c.model, c.baseURL)
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Format string `json:"format"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends a non-streaming JSON-mode generation request.
func (c *OllamaClient) Complete(ctx context.Context, system, prompt string) ([]byte, error) {
	data, err := tonalhttp.PostJSON(ctx, c.baseURL+ollamaGeneratePath, ollamaGenerateRequest{
		Model:  c.model,
		System: system,
		Prompt: prompt,
		Format: "json",
		Stream: false,
	}, tonalhttp.FetchOptions{Timeout: c.timeout})
	if err != nil {
		return nil, err
	}

	var resp ollamaGenerateResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode generate response: %w", err)
	}
	if resp.Response == "" {
		return nil, fmt.Errorf("empty response from %s", c.model)
	}
	return []byte(resp.Response), nil
}
