package feature

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Ref provides minimal metadata about an available feature.
type Ref struct {
	ID    string
	Title string
	Path  string
}

// Registry holds feature descriptors keyed by ID. It is safe for concurrent
// reads after construction; registration is expected during setup only.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[string]Descriptor
}

// NewRegistry constructs an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[string]Descriptor)}
}

// Register validates and stores a descriptor. Registering an existing ID
// replaces the previous entry, which is how OpenAPI-derived descriptors
// override the embedded defaults.
func (r *Registry) Register(desc Descriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.descriptors == nil {
		r.descriptors = make(map[string]Descriptor)
	}
	r.descriptors[desc.ID] = desc
	return nil
}

// MustRegister registers a descriptor and panics on failure. Reserved for
// setup paths where a bad descriptor is a programming error.
func (r *Registry) MustRegister(desc Descriptor) {
	if err := r.Register(desc); err != nil {
		panic(err)
	}
}

// Get returns the descriptor registered under id.
func (r *Registry) Get(id string) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	desc, ok := r.descriptors[strings.TrimSpace(id)]
	if !ok {
		return Descriptor{}, fmt.Errorf("feature: descriptor %q not registered", id)
	}
	return desc, nil
}

// Refs returns a sorted list of registered feature references.
func (r *Registry) Refs() []Ref {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.descriptors) == 0 {
		return nil
	}
	ids := make([]string, 0, len(r.descriptors))
	for id := range r.descriptors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	refs := make([]Ref, 0, len(ids))
	for _, id := range ids {
		desc := r.descriptors[id]
		refs = append(refs, Ref{ID: desc.ID, Title: desc.Title, Path: desc.Path})
	}
	return refs
}

// Len reports the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descriptors)
}
