// Package openaillm provides the openai_llm provider on top of the official
// OpenAI Go SDK. The API key is sourced from LLM_OPENAI_API_KEY, falling back
// to OPENAI_API_KEY; it is never part of the configuration mapping.
package openaillm

import (
	"context"
	"fmt"
	"os"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

const defaultModel = "gpt-4o-mini"

// Config is the normalized llm configuration this provider accepts.
type Config struct {
	Provider string `mapstructure:"provider"`
	Model    string `mapstructure:"model"`
	APIBase  string `mapstructure:"api_base"`
	Kwargs   Kwargs `mapstructure:"kwargs"`
}

// Kwargs carries the per-model generation parameters verbatim from the
// configuration entry.
type Kwargs struct {
	Temperature    *float64       `mapstructure:"temperature"`
	N              *int64         `mapstructure:"n"`
	MaxTokens      *int64         `mapstructure:"max_tokens"`
	ResponseFormat map[string]any `mapstructure:"response_format"`
}

// Client wraps the official OpenAI SDK as an LLMProvider.
type Client struct {
	client *openai.Client
	name   string
	model  string
	kwargs Kwargs
}

// New constructs the provider from its normalized configuration mapping.
func New(config map[string]any) (provider.Provider, error) {
	cfg := Config{Model: defaultModel}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("openai_llm: %w", err)
	}

	apiKey := os.Getenv("LLM_OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}
	client := openai.NewClient(opts...)

	return &Client{
		client: &client,
		name:   "openai_llm",
		model:  cfg.Model,
		kwargs: cfg.Kwargs,
	}, nil
}

func (c *Client) Name() string  { return c.name }
func (c *Client) Model() string { return c.model }

// Generate runs a single-turn chat completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}
	if c.kwargs.Temperature != nil {
		params.Temperature = openai.Float(*c.kwargs.Temperature)
	}
	if c.kwargs.N != nil {
		params.N = openai.Int(*c.kwargs.N)
	}
	if c.kwargs.MaxTokens != nil {
		params.MaxTokens = openai.Int(*c.kwargs.MaxTokens)
	}
	if format, _ := c.kwargs.ResponseFormat["type"].(string); format == "json_object" {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai_llm: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai_llm: empty completion for model %s", c.model)
	}
	return resp.Choices[0].Message.Content, nil
}

func init() {
	provider.Register(provider.KindLLM, "openai_llm", New)
}
