package token

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds every registered token, keyed by lowercased qualified
// name. Lookup is case-insensitive; registration order does not matter.
type Registry struct {
	mu     sync.Mutex
	byName map[string]*Token
}

// NewRegistry creates an empty token registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Token)}
}

// Add registers a token. It rejects duplicates of the same qualified name
// and providers that violate the requires-implies-allows input contract.
func (r *Registry) Add(tok *Token) error {
	if tok.RequiresInput() && !tok.AllowsInput() {
		return fmt.Errorf("token %q requires input but does not accept input", tok.QualifiedName())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(tok.QualifiedName())
	if _, exists := r.byName[key]; exists {
		return fmt.Errorf("token %q is already registered", tok.QualifiedName())
	}
	r.byName[key] = tok
	return nil
}

// Get resolves a (possibly scope-qualified) token name.
func (r *Registry) Get(name string) (*Token, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.byName[strings.ToLower(strings.TrimSpace(name))]
	return tok, ok
}

// All returns every token sorted by qualified name.
func (r *Registry) All() []*Token {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Token, 0, len(r.byName))
	for _, tok := range r.byName {
		out = append(out, tok)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].QualifiedName() < out[j].QualifiedName()
	})
	return out
}

// Names returns every qualified name, sorted.
func (r *Registry) Names() []string {
	all := r.All()
	names := make([]string, len(all))
	for i, tok := range all {
		names[i] = tok.QualifiedName()
	}
	return names
}

// Len returns the number of registered tokens.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byName)
}
