// Package qdrant provides the qdrant document store over its REST API. The
// API key, when the deployment needs one, is sourced from QDRANT_API_KEY.
package qdrant

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Config is the normalized document_store configuration this provider
// accepts.
type Config struct {
	Provider          string `mapstructure:"provider"`
	Location          string `mapstructure:"location"`
	EmbeddingModelDim int    `mapstructure:"embedding_model_dim"`
	Timeout           int    `mapstructure:"timeout"`
	RecreateIndex     bool   `mapstructure:"recreate_index"`
}

// Store implements DocumentStoreProvider against a Qdrant server.
type Store struct {
	http     *resty.Client
	dim      int
	recreate bool
}

// New constructs the qdrant provider. No connection is opened until the
// first operation.
func New(config map[string]any) (provider.Provider, error) {
	cfg := Config{Location: "http://localhost:6333", Timeout: 120}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("qdrant: %w", err)
	}

	client := resty.New().
		SetBaseURL(cfg.Location).
		SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	if key := os.Getenv("QDRANT_API_KEY"); key != "" {
		client.SetHeader("api-key", key)
	}

	return &Store{http: client, dim: cfg.EmbeddingModelDim, recreate: cfg.RecreateIndex}, nil
}

func (s *Store) Name() string { return "qdrant" }

// EnsureCollection creates the collection when it does not exist. With
// recreate_index set, an existing collection is dropped first. A zero
// dimension falls back to the configured embedding_model_dim.
func (s *Store) EnsureCollection(ctx context.Context, collection string, dimension int) error {
	if dimension <= 0 {
		dimension = s.dim
	}

	if s.recreate {
		if _, err := s.http.R().SetContext(ctx).Delete("/collections/" + collection); err != nil {
			return fmt.Errorf("qdrant: delete collection %s: %w", collection, err)
		}
	} else {
		resp, err := s.http.R().SetContext(ctx).Get("/collections/" + collection)
		if err != nil {
			return fmt.Errorf("qdrant: check collection %s: %w", collection, err)
		}
		if resp.IsSuccess() {
			return nil
		}
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"vectors": map[string]any{"size": dimension, "distance": "Cosine"},
		}).
		Put("/collections/" + collection)
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("qdrant: create collection %s: %s", collection, resp.Status())
	}
	return nil
}

// Upsert writes points with wait semantics so a following search sees them.
func (s *Store) Upsert(ctx context.Context, collection string, points []provider.Point) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetQueryParam("wait", "true").
		SetBody(map[string]any{"points": points}).
		Put("/collections/" + collection + "/points")
	if err != nil {
		return fmt.Errorf("qdrant: upsert into %s: %w", collection, err)
	}
	if resp.IsError() {
		return fmt.Errorf("qdrant: upsert into %s: %s", collection, resp.Status())
	}
	return nil
}

type searchResponse struct {
	Result []struct {
		ID      any            `json:"id"`
		Score   float32        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search runs a cosine similarity search and returns hits best-first.
func (s *Store) Search(ctx context.Context, collection string, vector []float32, limit int) ([]provider.ScoredPoint, error) {
	var out searchResponse
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"vector":       vector,
			"limit":        limit,
			"with_payload": true,
		}).
		SetResult(&out).
		Post("/collections/" + collection + "/points/search")
	if err != nil {
		return nil, fmt.Errorf("qdrant: search %s: %w", collection, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("qdrant: search %s: %s", collection, resp.Status())
	}

	hits := make([]provider.ScoredPoint, 0, len(out.Result))
	for _, r := range out.Result {
		hits = append(hits, provider.ScoredPoint{
			Point: provider.Point{ID: fmt.Sprint(r.ID), Payload: r.Payload},
			Score: r.Score,
		})
	}
	return hits, nil
}

func init() {
	provider.Register(provider.KindDocumentStore, "qdrant", New)
}
