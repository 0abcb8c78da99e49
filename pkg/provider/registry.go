package provider

import (
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Constructor builds a live provider instance from its normalized
// configuration mapping. Constructors never receive API keys through the
// mapping; each provider sources its own secrets from the environment.
type Constructor func(config map[string]any) (Provider, error)

// Registry maps (kind, name) pairs to provider constructors. The zero value
// is not usable; call NewRegistry.
type Registry struct {
	mu           sync.RWMutex
	constructors map[Kind]map[string]Constructor
	discovered   sync.Once
}

func NewRegistry() *Registry {
	return &Registry{constructors: make(map[Kind]map[string]Constructor)}
}

// Register adds a constructor under the given kind and name. A later
// registration under the same pair replaces the earlier one.
func (r *Registry) Register(kind Kind, name string, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.constructors[kind] == nil {
		r.constructors[kind] = make(map[string]Constructor)
	}
	r.constructors[kind][name] = ctor
}

// Resolve returns the constructor registered under (kind, name), or an
// UnknownProviderError when there is none.
func (r *Registry) Resolve(kind Kind, name string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.constructors[kind][name]
	if !ok {
		return nil, &UnknownProviderError{Kind: kind, Name: name}
	}
	return ctor, nil
}

// Discover finalizes registration. It must run once before any Resolve call;
// repeated calls are no-ops. Built-in providers register themselves from
// init, so by the time anything can call Discover the table is complete —
// this logs the registered set once for startup diagnostics.
func (r *Registry) Discover() {
	r.discovered.Do(func() {
		r.mu.RLock()
		defer r.mu.RUnlock()
		for kind, byName := range r.constructors {
			names := make([]string, 0, len(byName))
			for name := range byName {
				names = append(names, name)
			}
			sort.Strings(names)
			slog.Debug("Discovered providers", "kind", string(kind), "providers", strings.Join(names, ", "))
		}
	})
}

// defaultRegistry is populated by the built-in provider packages' init
// functions, pulled in through the autoload package.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }

// Register adds a constructor to the default registry. Provider packages
// call this from init.
func Register(kind Kind, name string, ctor Constructor) {
	defaultRegistry.Register(kind, name, ctor)
}
