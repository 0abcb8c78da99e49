// Package googleai provides the google_ai_llm provider on top of the Gemini
// API. The key is sourced from GOOGLE_AI_API_KEY.
package googleai

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

const defaultModel = "gemini-2.0-flash"

// Config is the normalized llm configuration this provider accepts.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	Kwargs   Kwargs `mapstructure:"kwargs"`
}

type Kwargs struct {
	Temperature *float32 `mapstructure:"temperature"`
	MaxTokens   int32    `mapstructure:"max_tokens"`
}

// Client wraps the genai SDK as an LLMProvider.
type Client struct {
	client *genai.Client
	model  string
	kwargs Kwargs
}

// New constructs the google_ai_llm provider. Client construction performs no
// I/O, so the background context is fine here.
func New(config map[string]any) (provider.Provider, error) {
	cfg := Config{Model: defaultModel}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("google_ai_llm: %w", err)
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  os.Getenv("GOOGLE_AI_API_KEY"),
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("google_ai_llm: %w", err)
	}

	return &Client{client: client, model: cfg.Model, kwargs: cfg.Kwargs}, nil
}

func (c *Client) Name() string  { return "google_ai_llm" }
func (c *Client) Model() string { return c.model }

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature:     c.kwargs.Temperature,
		MaxOutputTokens: c.kwargs.MaxTokens,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("google_ai_llm: %w", err)
	}
	return resp.Text(), nil
}

func init() {
	provider.Register(provider.KindLLM, "google_ai_llm", New)
}
