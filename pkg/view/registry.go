package view

import (
	"slices"
	"strings"
	"sync"
)

// Registry holds the table definitions the service fronts, keyed by entity
// name as it appears in the url path.
type Registry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

func (r *Registry) Add(def *Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Entity] = def
}

func (r *Registry) Get(entity string) (*Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[strings.ToLower(entity)]
	return def, ok
}

func (r *Registry) Entities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.defs))
	for name := range r.defs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
