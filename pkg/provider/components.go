package provider

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/tedyyan/WrenAI/pkg/config"
)

// PipelineComponent bundles the providers one pipeline needs. A role the
// pipeline did not declare, or declared with a reference that resolved to
// nothing, is nil.
type PipelineComponent struct {
	Embedder      EmbedderProvider
	LLM           LLMProvider
	DocumentStore DocumentStoreProvider
	Engine        Engine
}

// Components resolves a pipeline name to its component bundle. Get returns
// nil for a pipeline the configuration never declared.
type Components interface {
	Get(pipeline string) *PipelineComponent
}

// componentTable is the per-pipeline mapping produced from declarative
// configuration.
type componentTable map[string]*PipelineComponent

func (t componentTable) Get(pipeline string) *PipelineComponent { return t[pipeline] }

// sharedComponents answers every pipeline name with the same bundle. It is
// the legacy environment-variable fallback's lookup shape: one provider of
// each kind exists process-wide, shared by all pipelines.
type sharedComponents struct {
	value *PipelineComponent
}

func (s *sharedComponents) Get(string) *PipelineComponent { return s.value }

// GenerateComponents runs the full normalize → instantiate → compose
// sequence over the raw configuration entries and returns the per-pipeline
// component lookup. An empty entry list falls back to legacy
// environment-variable configuration.
func GenerateComponents(reg *Registry, entries []map[string]any) (Components, error) {
	reg.Discover()

	// TODO: drop the env-var fallback once deployments have migrated to
	// declarative configuration.
	if len(entries) == 0 {
		return legacyComponents(reg)
	}

	cfg, err := Transform(entries)
	if err != nil {
		return nil, err
	}

	tables, err := instantiateAll(reg, cfg)
	if err != nil {
		return nil, err
	}

	table := make(componentTable, len(cfg.Pipelines))
	for name, refs := range cfg.Pipelines {
		table[name] = componentize(name, refs, tables)
	}
	return table, nil
}

// providerTables holds every instantiated provider, keyed by kind then
// normalized identifier. All instantiation completes before any composition
// starts; a single constructor failure aborts the whole generate.
type providerTables struct {
	llms      map[string]LLMProvider
	embedders map[string]EmbedderProvider
	stores    map[string]DocumentStoreProvider
	engines   map[string]Engine
}

func instantiateAll(reg *Registry, cfg *Configuration) (*providerTables, error) {
	tables := &providerTables{
		llms:      map[string]LLMProvider{},
		embedders: map[string]EmbedderProvider{},
		stores:    map[string]DocumentStoreProvider{},
		engines:   map[string]Engine{},
	}

	for kind, table := range cfg.Providers {
		for id, entry := range table {
			p, err := NewProvider(reg, kind, entry)
			if err != nil {
				return nil, err
			}
			if err := tables.put(kind, id, p); err != nil {
				return nil, err
			}
		}
	}
	return tables, nil
}

func (t *providerTables) put(kind Kind, id string, p Provider) error {
	switch kind {
	case KindLLM:
		llm, ok := p.(LLMProvider)
		if !ok {
			return fmt.Errorf("provider %q is registered as llm but does not implement LLMProvider", id)
		}
		t.llms[id] = llm
	case KindEmbedder:
		embedder, ok := p.(EmbedderProvider)
		if !ok {
			return fmt.Errorf("provider %q is registered as embedder but does not implement EmbedderProvider", id)
		}
		t.embedders[id] = embedder
	case KindDocumentStore:
		store, ok := p.(DocumentStoreProvider)
		if !ok {
			return fmt.Errorf("provider %q is registered as document_store but does not implement DocumentStoreProvider", id)
		}
		t.stores[id] = store
	case KindEngine:
		engine, ok := p.(Engine)
		if !ok {
			return fmt.Errorf("provider %q is registered as engine but does not implement Engine", id)
		}
		t.engines[id] = engine
	default:
		return fmt.Errorf("unexpected provider kind %q", kind)
	}
	return nil
}

// componentize resolves one pipeline's role references against the
// instantiated tables. A reference that resolves to nothing yields a nil
// role rather than an error: a pipeline may declare a role it never uses at
// runtime, so integrity checking is deferred to first use. The miss is still
// logged so misconfiguration stays visible.
func componentize(pipeline string, refs PipeRefs, tables *providerTables) *PipelineComponent {
	c := &PipelineComponent{}

	if refs.LLM != "" {
		if c.LLM = tables.llms[refs.LLM]; c.LLM == nil {
			warnMiss(pipeline, KindLLM, refs.LLM)
		}
	}
	if refs.Embedder != "" {
		if c.Embedder = tables.embedders[refs.Embedder]; c.Embedder == nil {
			warnMiss(pipeline, KindEmbedder, refs.Embedder)
		}
	}
	if refs.DocumentStore != "" {
		if c.DocumentStore = tables.stores[refs.DocumentStore]; c.DocumentStore == nil {
			warnMiss(pipeline, KindDocumentStore, refs.DocumentStore)
		}
	}
	if refs.Engine != "" {
		if c.Engine = tables.engines[refs.Engine]; c.Engine == nil {
			warnMiss(pipeline, KindEngine, refs.Engine)
		}
	}
	return c
}

func warnMiss(pipeline string, kind Kind, ref string) {
	slog.Warn("Pipeline references an unknown provider",
		"pipeline", pipeline, "kind", string(kind), "ref", ref)
}

// legacyComponents synthesizes a single shared bundle from environment
// variables. Exactly one provider of each kind is instantiated, and every
// pipeline name resolves to the same bundle.
func legacyComponents(reg *Registry) (Components, error) {
	slog.Warn("No component configuration provided; falling back to environment variables. " +
		"This is deprecated and will be removed — migrate to the declarative configuration format.")

	config.LoadEnv()

	value := &PipelineComponent{}
	fallbacks := []struct {
		kind     Kind
		env      string
		fallback string
	}{
		{KindLLM, "LLM_PROVIDER", "openai_llm"},
		{KindEmbedder, "EMBEDDER_PROVIDER", "openai_embedder"},
		{KindDocumentStore, "DOCUMENT_STORE_PROVIDER", "qdrant"},
		{KindEngine, "ENGINE", "wren_ui"},
	}
	tables := &providerTables{
		llms:      map[string]LLMProvider{},
		embedders: map[string]EmbedderProvider{},
		stores:    map[string]DocumentStoreProvider{},
		engines:   map[string]Engine{},
	}

	for _, f := range fallbacks {
		name := envOr(f.env, f.fallback)
		p, err := NewProvider(reg, f.kind, map[string]any{"provider": name})
		if err != nil {
			return nil, err
		}
		if err := tables.put(f.kind, name, p); err != nil {
			return nil, err
		}
		switch f.kind {
		case KindLLM:
			value.LLM = tables.llms[name]
		case KindEmbedder:
			value.Embedder = tables.embedders[name]
		case KindDocumentStore:
			value.DocumentStore = tables.stores[name]
		case KindEngine:
			value.Engine = tables.engines[name]
		}
	}

	return &sharedComponents{value: value}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
