// Package provider turns the declarative component configuration into live,
// ready-to-use pipeline components. It normalizes raw configuration entries
// into per-kind tables, instantiates one provider per table entry through the
// constructor registry, and resolves each named pipeline's role references
// into a component bundle.
package provider

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Kind identifies one category of configurable component.
type Kind string

const (
	KindLLM           Kind = "llm"
	KindEmbedder      Kind = "embedder"
	KindDocumentStore Kind = "document_store"
	KindEngine        Kind = "engine"
	KindPipeline      Kind = "pipeline"
)

// Provider is the common surface of every instantiated component.
type Provider interface {
	// Name returns the registry name the provider was constructed under,
	// e.g. "openai_llm" or "qdrant".
	Name() string
}

// LLMProvider generates text completions.
type LLMProvider interface {
	Provider
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// EmbedderProvider turns texts into vectors of a fixed dimension.
type EmbedderProvider interface {
	Provider
	Model() string
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Point is one vector with its payload, as stored in a document store.
type Point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ScoredPoint is a search hit.
type ScoredPoint struct {
	Point
	Score float32 `json:"score"`
}

// DocumentStoreProvider manages vector collections.
type DocumentStoreProvider interface {
	Provider
	EnsureCollection(ctx context.Context, collection string, dimension int) error
	Upsert(ctx context.Context, collection string, points []Point) error
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]ScoredPoint, error)
}

// Engine executes SQL against the semantic layer. With dryRun set the SQL is
// validated without producing rows.
type Engine interface {
	Provider
	Execute(ctx context.Context, sql string, dryRun bool) ([]byte, error)
}

// DecodeConfig decodes a normalized configuration mapping into a provider's
// typed config struct. Decoding is weakly typed because YAML leaves numerics
// as int where providers expect float and vice versa.
func DecodeConfig(config map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(config); err != nil {
		return fmt.Errorf("invalid provider configuration: %w", err)
	}
	return nil
}
