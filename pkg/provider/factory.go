package provider

import "log/slog"

// NewProvider instantiates the provider described by one normalized
// configuration mapping. The kind is implied by the table the mapping came
// from; the constructor call shape is uniform across all provider kinds. An
// unresolvable provider name propagates as UnknownProviderError.
func NewProvider(reg *Registry, kind Kind, config map[string]any) (Provider, error) {
	name, _ := config["provider"].(string)
	slog.Info("Initializing provider", "kind", string(kind), "provider", name)

	ctor, err := reg.Resolve(kind, name)
	if err != nil {
		return nil, err
	}
	return ctor(config)
}
