// Package ollamaprov provides the ollama_llm and ollama_embedder providers
// for locally hosted models. No API key is involved; the endpoint comes from
// the url config field or OLLAMA_HOST.
package ollamaprov

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/ollama/ollama/api"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

const defaultURL = "http://localhost:11434"

func newAPIClient(rawURL string) (*api.Client, error) {
	if rawURL == "" {
		rawURL = os.Getenv("OLLAMA_HOST")
	}
	if rawURL == "" {
		rawURL = defaultURL
	}
	u, err := url.Parse(strings.TrimSuffix(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama url %q: %w", rawURL, err)
	}
	return api.NewClient(u, http.DefaultClient), nil
}

// LLMConfig is the normalized llm configuration this provider accepts.
type LLMConfig struct {
	Provider string         `mapstructure:"provider"`
	Model    string         `mapstructure:"model"`
	URL      string         `mapstructure:"url"`
	Kwargs   map[string]any `mapstructure:"kwargs"`
}

// LLM wraps the Ollama generate API as an LLMProvider.
type LLM struct {
	client  *api.Client
	model   string
	options map[string]any
}

// NewLLM constructs the ollama_llm provider.
func NewLLM(config map[string]any) (provider.Provider, error) {
	cfg := LLMConfig{Model: "llama3.1"}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("ollama_llm: %w", err)
	}
	client, err := newAPIClient(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ollama_llm: %w", err)
	}
	return &LLM{client: client, model: cfg.Model, options: cfg.Kwargs}, nil
}

func (l *LLM) Name() string  { return "ollama_llm" }
func (l *LLM) Model() string { return l.model }

// Generate runs a non-streaming generate call and concatenates the response.
func (l *LLM) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:   l.model,
		Prompt:  prompt,
		Stream:  &stream,
		Options: l.options,
	}

	var sb strings.Builder
	err := l.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama_llm: %w", err)
	}
	return sb.String(), nil
}

// EmbedderConfig is the normalized embedder configuration this provider
// accepts.
type EmbedderConfig struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
	URL       string `mapstructure:"url"`
}

// Embedder wraps the Ollama embed API as an EmbedderProvider.
type Embedder struct {
	client    *api.Client
	model     string
	dimension int
}

// NewEmbedder constructs the ollama_embedder provider.
func NewEmbedder(config map[string]any) (provider.Provider, error) {
	cfg := EmbedderConfig{Model: "nomic-embed-text", Dimension: 768}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("ollama_embedder: %w", err)
	}
	client, err := newAPIClient(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ollama_embedder: %w", err)
	}
	return &Embedder{client: client, model: cfg.Model, dimension: cfg.Dimension}, nil
}

func (e *Embedder) Name() string   { return "ollama_embedder" }
func (e *Embedder) Model() string  { return e.model }
func (e *Embedder) Dimension() int { return e.dimension }

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := e.client.Embed(ctx, &api.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama_embedder: %w", err)
	}
	return resp.Embeddings, nil
}

func init() {
	provider.Register(provider.KindLLM, "ollama_llm", NewLLM)
	provider.Register(provider.KindEmbedder, "ollama_embedder", NewEmbedder)
}
