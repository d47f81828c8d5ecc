package external

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jmylchreest/tonal/internal/colour"
	"github.com/jmylchreest/tonal/internal/designctx"
	"github.com/jmylchreest/tonal/internal/palette"
	"github.com/jmylchreest/tonal/internal/provider"
)

const validReply = `{
	"secondary": "#8b5cf6",
	"neutral": "#6b7280",
	"semantic": {"success": "#16a34a", "error": "#dc2626"},
	"reasoning": "Violet secondary complements the blue primary."
}`

// stubClient is a Client with canned results.
type stubClient struct {
	probeErr    error
	reply       string
	completeErr error
	prompts     []string
}

func (s *stubClient) Backend() string               { return "stub" }
func (s *stubClient) Probe(_ context.Context) error { return s.probeErr }
func (s *stubClient) Complete(_ context.Context, _, prompt string) ([]byte, error) {
	s.prompts = append(s.prompts, prompt)
	return []byte(s.reply), s.completeErr
}

func input(t *testing.T) provider.Input {
	t.Helper()
	req, err := palette.Request{
		BaseColor: "#3b82f6",
		Context:   designctx.Context{Industry: designctx.IndustryFinance, Tone: designctx.ToneCalm},
	}.Validate()
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return provider.Input{
		Request:     req,
		Base:        colour.MustParseHex("#3b82f6"),
		Adjustments: []designctx.Adjustment{{Dimension: "industry", Value: "finance", Note: "trust"}},
	}
}

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{name: "valid", raw: validReply},
		{name: "code fence", raw: "```json\n" + validReply + "\n```"},
		{name: "short hex", raw: `{"secondary":"#abc","neutral":"777","reasoning":"ok"}`},
		{name: "missing neutral", raw: `{"secondary":"#8b5cf6","reasoning":"ok"}`, wantErr: true},
		{name: "bad hex", raw: `{"secondary":"purple","neutral":"#6b7280","reasoning":"ok"}`, wantErr: true},
		{name: "empty reasoning", raw: `{"secondary":"#8b5cf6","neutral":"#6b7280","reasoning":""}`, wantErr: true},
		{name: "unknown semantic role", raw: `{"secondary":"#8b5cf6","neutral":"#6b7280","semantic":{"danger":"#f00"},"reasoning":"ok"}`, wantErr: true},
		{name: "no object", raw: "I cannot help with that.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ParseResponse([]byte(tt.raw))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResponse) {
					t.Errorf("err = %v, want ErrInvalidResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if resp.Secondary == "" || resp.Neutral == "" {
				t.Errorf("incomplete response: %+v", resp)
			}
		})
	}
}

func TestBuildPromptIncludesContext(t *testing.T) {
	prompt := BuildPrompt(input(t))
	for _, want := range []string{"#3b82f6", "Industry: finance", "Tone: calm", "Accessibility target: AA", "industry=finance"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestProviderUnconfigured(t *testing.T) {
	p := New(nil)
	if err := p.CheckAvailability(context.Background()); !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("CheckAvailability() = %v, want ErrUnavailable", err)
	}
	if _, err := p.Generate(context.Background(), input(t)); !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("Generate() = %v, want ErrUnavailable", err)
	}
}

func TestProviderProbeFailure(t *testing.T) {
	p := New(&stubClient{probeErr: errors.New("connection refused")})
	err := p.CheckAvailability(context.Background())
	if !errors.Is(err, provider.ErrUnavailable) {
		t.Fatalf("CheckAvailability() = %v, want ErrUnavailable", err)
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("error should carry the cause: %v", err)
	}
}

func TestProviderGenerate(t *testing.T) {
	stub := &stubClient{reply: validReply}
	p, err := New(stub).Generate(context.Background(), input(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(stub.prompts) != 1 {
		t.Fatalf("Complete called %d times, want 1", len(stub.prompts))
	}
	if p.Metadata.Provider != provider.NameExternal {
		t.Errorf("Provider = %q, want %q", p.Metadata.Provider, provider.NameExternal)
	}
	if p.Primary.Base().Hex() != "#3b82f6" {
		t.Errorf("primary 500 = %s, want #3b82f6", p.Primary.Base().Hex())
	}
	if p.Secondary.Base().Hex() != "#8b5cf6" {
		t.Errorf("secondary 500 = %s, want #8b5cf6", p.Secondary.Base().Hex())
	}
	if got := p.Semantic[colour.RoleSuccess].Base().Hex(); got != "#16a34a" {
		t.Errorf("success 500 = %s, want #16a34a", got)
	}
	if _, ok := p.Semantic[colour.RoleInfo]; !ok {
		t.Error("missing semantic roles should be derived")
	}
	if !strings.HasPrefix(p.Metadata.Reasoning, "stub: ") {
		t.Errorf("Reasoning = %q", p.Metadata.Reasoning)
	}
	if len(p.Metadata.Adjustments) != 1 {
		t.Errorf("Adjustments = %v, want 1 entry", p.Metadata.Adjustments)
	}
}

func TestProviderGenerateInvalidReply(t *testing.T) {
	p := New(&stubClient{reply: `{"secondary":"nope"}`})
	if _, err := p.Generate(context.Background(), input(t)); !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("Generate() = %v, want ErrInvalidResponse", err)
	}
}

// newOllamaServer serves /api/tags and /api/generate like a local Ollama.
func newOllamaServer(t *testing.T, models []string, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case ollamaTagsPath:
			var tags ollamaTags
			for _, m := range models {
				tags.Models = append(tags.Models, struct {
					Name string `json:"name"`
				}{Name: m})
			}
			json.NewEncoder(w).Encode(tags)
		case ollamaGeneratePath:
			var req ollamaGenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode request: %v", err)
			}
			if req.Format != "json" || req.Stream {
				t.Errorf("unexpected request options: %+v", req)
			}
			json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: reply, Done: true})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestOllamaClient(t *testing.T) {
	server := newOllamaServer(t, []string{"llama3.2:latest"}, validReply)
	defer server.Close()

	client := NewOllamaClient(server.URL+"/", "llama3.2", time.Second)
	if err := client.Probe(context.Background()); err != nil {
		t.Fatalf("Probe() error = %v", err)
	}

	p, err := New(client).Generate(context.Background(), input(t))
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if p.Secondary.Base().Hex() != "#8b5cf6" {
		t.Errorf("secondary 500 = %s, want #8b5cf6", p.Secondary.Base().Hex())
	}
}

func TestOllamaClientMissingModel(t *testing.T) {
	server := newOllamaServer(t, []string{"mistral:latest"}, validReply)
	defer server.Close()

	p := New(NewOllamaClient(server.URL, "llama3.2", time.Second))
	if err := p.CheckAvailability(context.Background()); !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("CheckAvailability() = %v, want ErrUnavailable", err)
	}
}

func TestOllamaClientUnreachable(t *testing.T) {
	server := newOllamaServer(t, nil, "")
	url := server.URL
	server.Close()

	p := New(NewOllamaClient(url, "", 200*time.Millisecond))
	if err := p.CheckAvailability(context.Background()); !errors.Is(err, provider.ErrUnavailable) {
		t.Errorf("CheckAvailability() = %v, want ErrUnavailable", err)
	}
}

func TestGenAIClientRequiresKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")

	client := NewGenAIClient("", "", "")
	if err := client.Probe(context.Background()); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Probe() = %v, want ErrMissingAPIKey", err)
	}
	if _, err := client.Complete(context.Background(), SystemPrompt, "x"); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("Complete() = %v, want ErrMissingAPIKey", err)
	}
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		backend string
		want    string
		wantErr bool
	}{
		{backend: "", want: ""},
		{backend: "none", want: ""},
		{backend: "Ollama", want: BackendOllama},
		{backend: "google-genai", want: BackendGenAI},
		{backend: "openai", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			client, err := NewClient(Config{Backend: tt.backend})
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			got := ""
			if client != nil {
				got = client.Backend()
			}
			if got != tt.want {
				t.Errorf("backend = %q, want %q", got, tt.want)
			}
		})
	}
}
