package provider

import (
	"log/slog"
	"maps"
	"slices"
)

// Configuration is the transformer output: per-kind normalized provider
// tables and pipeline role references.
type Configuration struct {
	Providers map[Kind]map[string]map[string]any
	Pipelines map[string]PipeRefs
}

// PipeRefs holds one pipeline's role references. An empty string marks a role
// the pipeline did not declare.
type PipeRefs struct {
	LLM           string
	Embedder      string
	DocumentStore string
	Engine        string
}

// providerProcessors is the closed dispatch table for the four provider
// kinds. The pipeline kind has a different output shape and is dispatched
// separately in Transform.
var providerProcessors = map[Kind]func(map[string]any) (map[string]map[string]any, error){
	KindLLM:           llmProcessor,
	KindEmbedder:      embedderProcessor,
	KindDocumentStore: documentStoreProcessor,
	KindEngine:        engineProcessor,
}

// Transform normalizes the ordered raw entries into a Configuration. An
// entry with an unrecognized type aborts the whole transform. Within a kind,
// a later entry producing an identifier an earlier entry already produced
// fully replaces it.
func Transform(entries []map[string]any) (*Configuration, error) {
	cfg := &Configuration{
		Providers: map[Kind]map[string]map[string]any{
			KindLLM:           {},
			KindEmbedder:      {},
			KindDocumentStore: {},
			KindEngine:        {},
		},
		Pipelines: map[string]PipeRefs{},
	}

	for _, entry := range entries {
		kind, _ := entry["type"].(string)
		if proc, ok := providerProcessors[Kind(kind)]; ok {
			table, err := proc(entry)
			if err != nil {
				return nil, err
			}
			maps.Copy(cfg.Providers[Kind(kind)], table)
			continue
		}
		if Kind(kind) == KindPipeline {
			pipes, err := pipelineProcessor(entry)
			if err != nil {
				return nil, err
			}
			maps.Copy(cfg.Pipelines, pipes)
			continue
		}
		slog.Error("Unknown configuration entry type", "type", kind)
		return nil, &UnknownEntryKindError{Type: kind}
	}

	return cfg, nil
}

// llmProcessor fans one llm entry out into one normalized config per
// declared model, keyed "{provider}.{model}". Merge order, lowest to highest
// precedence: entry-level extras, reserved fields, model-level extras, the
// model's kwargs verbatim. API keys are never read here; the instantiated
// provider sources them from its own environment.
func llmProcessor(entry map[string]any) (map[string]map[string]any, error) {
	providerName, models, err := providerModels(KindLLM, entry)
	if err != nil {
		return nil, err
	}
	entryExtras := extras(entry, "type", "provider", "models")

	table := make(map[string]map[string]any, len(models))
	for _, m := range models {
		model, ok := m.(map[string]any)
		if !ok {
			return nil, &MalformedEntryError{Kind: KindLLM, Field: "models"}
		}
		modelName, _ := model["model"].(string)
		if modelName == "" {
			return nil, &MalformedEntryError{Kind: KindLLM, Field: "model"}
		}
		kwargs, ok := model["kwargs"]
		if !ok {
			return nil, &MalformedEntryError{Kind: KindLLM, Field: "kwargs"}
		}

		normalized := map[string]any{}
		maps.Copy(normalized, entryExtras)
		normalized["provider"] = providerName
		normalized["model"] = modelName
		maps.Copy(normalized, extras(model, "model", "kwargs"))
		normalized["kwargs"] = kwargs

		table[providerName+"."+modelName] = normalized
	}
	return table, nil
}

// embedderProcessor mirrors llmProcessor with dimension as the reserved
// model field instead of kwargs.
func embedderProcessor(entry map[string]any) (map[string]map[string]any, error) {
	providerName, models, err := providerModels(KindEmbedder, entry)
	if err != nil {
		return nil, err
	}
	entryExtras := extras(entry, "type", "provider", "models")

	table := make(map[string]map[string]any, len(models))
	for _, m := range models {
		model, ok := m.(map[string]any)
		if !ok {
			return nil, &MalformedEntryError{Kind: KindEmbedder, Field: "models"}
		}
		modelName, _ := model["model"].(string)
		if modelName == "" {
			return nil, &MalformedEntryError{Kind: KindEmbedder, Field: "model"}
		}
		dimension, ok := model["dimension"]
		if !ok {
			return nil, &MalformedEntryError{Kind: KindEmbedder, Field: "dimension"}
		}

		normalized := map[string]any{}
		maps.Copy(normalized, entryExtras)
		normalized["provider"] = providerName
		normalized["model"] = modelName
		normalized["dimension"] = dimension
		maps.Copy(normalized, extras(model, "model", "kwargs", "dimension"))

		table[providerName+"."+modelName] = normalized
	}
	return table, nil
}

// documentStoreProcessor is an identity transform keyed by the entry's own
// provider field, with type stripped. No fan-out.
func documentStoreProcessor(entry map[string]any) (map[string]map[string]any, error) {
	return identityProcessor(KindDocumentStore, entry)
}

// engineProcessor matches documentStoreProcessor.
func engineProcessor(entry map[string]any) (map[string]map[string]any, error) {
	return identityProcessor(KindEngine, entry)
}

func identityProcessor(kind Kind, entry map[string]any) (map[string]map[string]any, error) {
	providerName, _ := entry["provider"].(string)
	if providerName == "" {
		return nil, &MalformedEntryError{Kind: kind, Field: "provider"}
	}
	return map[string]map[string]any{providerName: extras(entry, "type")}, nil
}

// pipelineProcessor emits one PipeRefs per object in the entry's pipes list,
// keyed by pipe name. Missing roles become empty references, not errors — a
// pipeline may legitimately need only a subset of roles.
func pipelineProcessor(entry map[string]any) (map[string]PipeRefs, error) {
	pipes, ok := entry["pipes"].([]any)
	if !ok {
		return nil, &MalformedEntryError{Kind: KindPipeline, Field: "pipes"}
	}

	out := make(map[string]PipeRefs, len(pipes))
	for _, p := range pipes {
		pipe, ok := p.(map[string]any)
		if !ok {
			return nil, &MalformedEntryError{Kind: KindPipeline, Field: "pipes"}
		}
		name, _ := pipe["name"].(string)
		if name == "" {
			return nil, &MalformedEntryError{Kind: KindPipeline, Field: "name"}
		}
		out[name] = PipeRefs{
			LLM:           stringField(pipe, "llm"),
			Embedder:      stringField(pipe, "embedder"),
			DocumentStore: stringField(pipe, "document_store"),
			Engine:        stringField(pipe, "engine"),
		}
	}
	return out, nil
}

func providerModels(kind Kind, entry map[string]any) (string, []any, error) {
	providerName, _ := entry["provider"].(string)
	if providerName == "" {
		return "", nil, &MalformedEntryError{Kind: kind, Field: "provider"}
	}
	models, ok := entry["models"].([]any)
	if !ok {
		return "", nil, &MalformedEntryError{Kind: kind, Field: "models"}
	}
	return providerName, models, nil
}

func extras(m map[string]any, exclude ...string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if !slices.Contains(exclude, k) {
			out[k] = v
		}
	}
	return out
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}
