package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/llmscope/llmscope/pkg/models"
)

// Factory builds an adapter from provider settings.
type Factory func(settings models.ProviderSettings) Adapter

// UnknownProviderError reports a create request for an unregistered
// provider, enumerating the currently registered names.
type UnknownProviderError struct {
	Provider string
	Known    []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q (registered: %s)",
		e.Provider, strings.Join(e.Known, ", "))
}

// Registry maps lower-cased provider names to adapter factories. It is the
// single indirection point between the audit engine and concrete backends.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry pre-populated with the built-in backends.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(string(models.ProviderOpenAI), func(s models.ProviderSettings) Adapter { return NewOpenAI(s) })
	r.Register(string(models.ProviderAnthropic), func(s models.ProviderSettings) Adapter { return NewAnthropic(s) })
	r.Register(string(models.ProviderOllama), func(s models.ProviderSettings) Adapter { return NewOllama(s) })
	return r
}

// Register adds or replaces a factory under the given name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = f
}

// Create builds an adapter for the named provider.
func (r *Registry) Create(name string, settings models.ProviderSettings) (Adapter, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.ToLower(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownProviderError{Provider: name, Known: r.Providers()}
	}
	return f(settings), nil
}

// Providers returns the sorted list of registered provider names.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
