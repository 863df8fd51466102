// Package llm — provider router.
// Router maps provider names to LLMProvider instances and resolves the one
// selected by configuration.
package llm

import (
	"context"
	"fmt"
	"sort"
)

// Router selects a LLMProvider for each request.
type Router struct {
	providers       map[string]LLMProvider
	defaultProvider string
}

// NewRouter creates a Router with an initial set of providers and a default key.
func NewRouter(providers map[string]LLMProvider, defaultProvider string) *Router {
	ps := make(map[string]LLMProvider, len(providers))
	for k, v := range providers {
		ps[k] = v
	}
	return &Router{providers: ps, defaultProvider: defaultProvider}
}

// Register adds (or replaces) a provider under the given key.
// Not safe for use once the router is shared between goroutines.
func (r *Router) Register(key string, p LLMProvider) {
	r.providers[key] = p
}

// Route returns the provider for the current request.
// Returns ErrProviderNotRegistered if the default provider is missing.
func (r *Router) Route(_ context.Context) (LLMProvider, error) {
	p, ok := r.providers[r.defaultProvider]
	if !ok {
		return nil, fmt.Errorf("llm router: %q (available: %v): %w", r.defaultProvider, r.keys(), ErrProviderNotRegistered)
	}
	return p, nil
}

// keys returns the registered provider names, sorted (for error messages).
func (r *Router) keys() []string {
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// NewProvider registers every known adapter for cfg and returns the one named by
// providerName ("ollama" or "langchain").
func NewProvider(ctx context.Context, providerName string, cfg OllamaConfig) (LLMProvider, error) {
	r := NewRouter(map[string]LLMProvider{
		providerOllama: NewOllamaProvider(cfg),
	}, providerName)

	if providerName == providerLangchain {
		lc, err := NewLangchainProvider(cfg)
		if err != nil {
			return nil, err
		}
		r.Register(providerLangchain, lc)
	}
	return r.Route(ctx)
}
