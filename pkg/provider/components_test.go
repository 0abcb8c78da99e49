package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct{ model string }

func (f *fakeLLM) Name() string  { return "fake_llm" }
func (f *fakeLLM) Model() string { return f.model }
func (f *fakeLLM) Generate(context.Context, string) (string, error) {
	return "", nil
}

type fakeEmbedder struct{ model string }

func (f *fakeEmbedder) Name() string   { return "fake_embedder" }
func (f *fakeEmbedder) Model() string  { return f.model }
func (f *fakeEmbedder) Dimension() int { return 8 }
func (f *fakeEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, nil
}

type fakeStore struct{}

func (f *fakeStore) Name() string { return "fake_store" }
func (f *fakeStore) EnsureCollection(context.Context, string, int) error {
	return nil
}
func (f *fakeStore) Upsert(context.Context, string, []Point) error { return nil }
func (f *fakeStore) Search(context.Context, string, []float32, int) ([]ScoredPoint, error) {
	return nil, nil
}

type fakeEngine struct{}

func (f *fakeEngine) Name() string { return "fake_engine" }
func (f *fakeEngine) Execute(context.Context, string, bool) ([]byte, error) {
	return nil, nil
}

func newFakeLLM(config map[string]any) (Provider, error) {
	model, _ := config["model"].(string)
	return &fakeLLM{model: model}, nil
}

func newFakeEmbedder(config map[string]any) (Provider, error) {
	model, _ := config["model"].(string)
	return &fakeEmbedder{model: model}, nil
}

func newFakeStore(map[string]any) (Provider, error)  { return &fakeStore{}, nil }
func newFakeEngine(map[string]any) (Provider, error) { return &fakeEngine{}, nil }

func fakeRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(KindLLM, "fake_llm", newFakeLLM)
	reg.Register(KindEmbedder, "fake_embedder", newFakeEmbedder)
	reg.Register(KindDocumentStore, "fake_store", newFakeStore)
	reg.Register(KindEngine, "fake_engine", newFakeEngine)
	return reg
}

func TestGenerateComponentsConcreteScenario(t *testing.T) {
	components, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "llm", "provider": "fake_llm", "models": []any{
			map[string]any{"model": "gpt-4o-mini", "kwargs": map[string]any{"temperature": 0}},
		}},
		{"type": "pipeline", "pipes": []any{
			map[string]any{"name": "indexing", "llm": "fake_llm.gpt-4o-mini"},
		}},
	})
	require.NoError(t, err)

	bundle := components.Get("indexing")
	require.NotNil(t, bundle)
	require.NotNil(t, bundle.LLM)
	assert.Equal(t, "gpt-4o-mini", bundle.LLM.Model())
	assert.Nil(t, bundle.Embedder)
	assert.Nil(t, bundle.DocumentStore)
	assert.Nil(t, bundle.Engine)
}

func TestGenerateComponentsSharesProviderAcrossPipelines(t *testing.T) {
	components, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "embedder", "provider": "fake_embedder", "models": []any{
			map[string]any{"model": "small", "dimension": 8},
		}},
		{"type": "pipeline", "pipes": []any{
			map[string]any{"name": "indexing", "embedder": "fake_embedder.small"},
			map[string]any{"name": "retrieval", "embedder": "fake_embedder.small"},
		}},
	})
	require.NoError(t, err)

	indexing := components.Get("indexing")
	retrieval := components.Get("retrieval")
	require.NotNil(t, indexing.Embedder)
	assert.Same(t, indexing.Embedder, retrieval.Embedder,
		"both pipelines reference the same instantiated provider")
}

func TestGenerateComponentsUnresolvedRoleIsNil(t *testing.T) {
	components, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "pipeline", "pipes": []any{
			map[string]any{"name": "indexing", "llm": "fake_llm.never-configured", "engine": "fake_engine"},
		}},
	})
	require.NoError(t, err, "a dangling role reference is lenient, not fatal")

	bundle := components.Get("indexing")
	require.NotNil(t, bundle)
	assert.Nil(t, bundle.LLM)
	assert.Nil(t, bundle.Engine)
}

func TestGenerateComponentsUnknownProviderAborts(t *testing.T) {
	components, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "engine", "provider": "not_registered"},
		{"type": "pipeline", "pipes": []any{
			map[string]any{"name": "indexing", "engine": "not_registered"},
		}},
	})

	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Nil(t, components)
}

func TestGenerateComponentsUnknownEntryKindAborts(t *testing.T) {
	_, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "bogus"},
	})

	var unknown *UnknownEntryKindError
	require.ErrorAs(t, err, &unknown)
}

func TestGenerateComponentsUnknownPipelineNameIsNil(t *testing.T) {
	components, err := GenerateComponents(fakeRegistry(), []map[string]any{
		{"type": "pipeline", "pipes": []any{map[string]any{"name": "indexing"}}},
	})
	require.NoError(t, err)

	assert.Nil(t, components.Get("never-declared"))
}

func TestLegacyFallbackSharesOneBundle(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "fake_llm")
	t.Setenv("EMBEDDER_PROVIDER", "fake_embedder")
	t.Setenv("DOCUMENT_STORE_PROVIDER", "fake_store")
	t.Setenv("ENGINE", "fake_engine")

	components, err := GenerateComponents(fakeRegistry(), nil)
	require.NoError(t, err)

	a := components.Get("indexing")
	b := components.Get("sql-generation")
	require.NotNil(t, a)
	assert.Same(t, a, b, "every pipeline name resolves to the same bundle")
	assert.NotNil(t, a.LLM)
	assert.NotNil(t, a.Embedder)
	assert.NotNil(t, a.DocumentStore)
	assert.NotNil(t, a.Engine)
}

func TestLegacyFallbackDefaultProviderNames(t *testing.T) {
	// Without env overrides the fallback asks for the stock provider set,
	// which this registry of fakes does not carry.
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("EMBEDDER_PROVIDER", "")
	t.Setenv("DOCUMENT_STORE_PROVIDER", "")
	t.Setenv("ENGINE", "")

	_, err := GenerateComponents(fakeRegistry(), nil)

	var unknown *UnknownProviderError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "openai_llm", unknown.Name)
}
