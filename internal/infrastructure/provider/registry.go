// Package provider tracks the configured analysis providers and retrieval
// engines and which one is active. The active name is resolved at call time
// so a runtime switch applies to the next operation immediately.
package provider

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kirillkom/docvault/internal/core/domain"
	"github.com/kirillkom/docvault/internal/core/ports"
)

// LocalName is always registered and is the fallback when an entry has no
// engine or provider of its own.
const LocalName = "local"

type Registry struct {
	mu             sync.RWMutex
	active         string
	engineOverride string
	providers      map[string]ports.AnalysisProvider
	engines        map[string]ports.RetrievalEngine
}

func NewRegistry(localProvider ports.AnalysisProvider, localEngine ports.RetrievalEngine) *Registry {
	return &Registry{
		active:    LocalName,
		providers: map[string]ports.AnalysisProvider{LocalName: localProvider},
		engines:   map[string]ports.RetrievalEngine{LocalName: localEngine},
	}
}

// Register adds a named provider/engine pair. Either half may be nil; calls
// for the missing half resolve to the local implementation.
func (r *Registry) Register(name string, provider ports.AnalysisProvider, engine ports.RetrievalEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if provider != nil {
		r.providers[name] = provider
	}
	if engine != nil {
		r.engines[name] = engine
	}
}

func (r *Registry) Provider() ports.AnalysisProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.providers[r.active]; ok {
		return p
	}
	return r.providers[LocalName]
}

func (r *Registry) Engine() ports.RetrievalEngine {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.engineOverride != "" {
		if e, ok := r.engines[r.engineOverride]; ok {
			return e
		}
	}
	if e, ok := r.engines[r.active]; ok {
		return e
	}
	return r.engines[LocalName]
}

// SetEngineOverride pins retrieval to one named engine regardless of the
// active provider. An empty name clears the pin.
func (r *Registry) SetEngineOverride(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if name != "" {
		if _, ok := r.engines[name]; !ok {
			return domain.WrapError(domain.ErrInvalidInput, "set search engine", fmt.Errorf("unknown engine %q", name))
		}
	}
	r.engineOverride = name
	return nil
}

func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active
}

func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, hasProvider := r.providers[name]
	_, hasEngine := r.engines[name]
	if !hasProvider && !hasEngine {
		return domain.WrapError(domain.ErrInvalidInput, "set active provider", fmt.Errorf("unknown provider %q", name))
	}
	r.active = name
	return nil
}

// Names lists every registered name, sorted, for the config API.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{}, len(r.providers)+len(r.engines))
	for name := range r.providers {
		seen[name] = struct{}{}
	}
	for name := range r.engines {
		seen[name] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
