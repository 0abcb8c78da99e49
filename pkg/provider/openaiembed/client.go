// Package openaiembed provides the openai_embedder provider. The API key is
// sourced from EMBEDDER_OPENAI_API_KEY, falling back to OPENAI_API_KEY.
package openaiembed

import (
	"context"
	"fmt"
	"os"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

const (
	defaultModel     = "text-embedding-3-large"
	defaultDimension = 3072
)

// Config is the normalized embedder configuration this provider accepts.
type Config struct {
	Provider  string `mapstructure:"provider"`
	Model     string `mapstructure:"model"`
	Dimension int    `mapstructure:"dimension"`
	APIBase   string `mapstructure:"api_base"`
}

// Client wraps the OpenAI embeddings API as an EmbedderProvider.
type Client struct {
	client    *openai.Client
	name      string
	model     string
	dimension int
}

// New constructs the provider from its normalized configuration mapping.
func New(config map[string]any) (provider.Provider, error) {
	cfg := Config{Model: defaultModel, Dimension: defaultDimension}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("openai_embedder: %w", err)
	}

	apiKey := os.Getenv("EMBEDDER_OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.APIBase != "" {
		opts = append(opts, option.WithBaseURL(cfg.APIBase))
	}
	client := openai.NewClient(opts...)

	return &Client{
		client:    &client,
		name:      "openai_embedder",
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

func (c *Client) Name() string   { return c.name }
func (c *Client) Model() string  { return c.model }
func (c *Client) Dimension() int { return c.dimension }

// Embed embeds the texts in one request, preserving input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(c.model),
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
	}
	// Only third-generation models accept a dimensions override.
	if strings.HasPrefix(c.model, "text-embedding-3") && c.dimension > 0 {
		params.Dimensions = openai.Int(int64(c.dimension))
	}

	resp, err := c.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai_embedder: %w", err)
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float32(v)
		}
		vectors[i] = vec
	}
	return vectors, nil
}

func init() {
	provider.Register(provider.KindEmbedder, "openai_embedder", New)
}
