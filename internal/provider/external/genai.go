package external

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const (
	// DefaultGenAIModel is the Gemini model used when none is configured.
	DefaultGenAIModel = "gemini-2.5-flash"

	// GenAIBackendGemini and GenAIBackendVertex select the Google Gen AI backend.
	GenAIBackendGemini = "gemini-api"
	GenAIBackendVertex = "vertex-ai"
)

// ErrMissingAPIKey is returned when the Gemini API backend has no key configured.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY environment variable is required")

// GenAIClient generates palettes with Google Gen AI text models.
type GenAIClient struct {
	model   string
	backend string
	apiKey  string

	once   sync.Once
	client *genai.Client
	err    error
}

// NewGenAIClient creates a Google Gen AI client. An empty apiKey falls back to GOOGLE_API_KEY.
func NewGenAIClient(model, backend, apiKey string) *GenAIClient {
	if model == "" {
		model = DefaultGenAIModel
	}
	if backend == "" {
		backend = GenAIBackendGemini
	}
	if apiKey == "" {
		apiKey = os.Getenv("GOOGLE_API_KEY")
	}
	return &GenAIClient{model: model, backend: backend, apiKey: apiKey}
}

// Backend returns the backend name.
func (c *GenAIClient) Backend() string {
	return BackendGenAI
}

// connect lazily creates the SDK client once.
func (c *GenAIClient) connect(ctx context.Context) (*genai.Client, error) {
	c.once.Do(func() {
		clientConfig := &genai.ClientConfig{Backend: genai.BackendGeminiAPI}
		if c.backend == GenAIBackendVertex {
			clientConfig.Backend = genai.BackendVertexAI
		}

		if clientConfig.Backend == genai.BackendGeminiAPI {
			if c.apiKey == "" {
				c.err = ErrMissingAPIKey
				return
			}
			clientConfig.APIKey = c.apiKey
		}

		c.client, c.err = genai.NewClient(ctx, clientConfig)
		if c.err != nil {
			c.err = fmt.Errorf("failed to create Gen AI client: %w", c.err)
		}
	})
	return c.client, c.err
}

// Probe checks credentials and that the configured model exists.
func (c *GenAIClient) Probe(ctx context.Context) error {
	client, err := c.connect(ctx)
	if err != nil {
		return err
	}
	if _, err := client.Models.Get(ctx, c.model, nil); err != nil {
		return fmt.Errorf("model %s: %w", c.model, err)
	}
	return nil
}

// Complete asks the model for a JSON reply.
func (c *GenAIClient) Complete(ctx context.Context, system, prompt string) ([]byte, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.2),
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("empty response from %s", c.model)
	}
	return []byte(text), nil
}
