package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the descriptors a module offers. Each label is registered
// exactly once.
type Registry struct {
	mu      sync.RWMutex
	byLabel map[string]*Descriptor
	closed  bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byLabel: make(map[string]*Descriptor)}
}

// Register adds d.
func (r *Registry) Register(d *Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRegistryClosed
	}
	if _, exists := r.byLabel[d.Label]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, d.Label)
	}
	r.byLabel[d.Label] = d
	return nil
}

// Lookup returns the descriptor registered under label.
func (r *Registry) Lookup(label string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byLabel[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, label)
	}
	return d, nil
}

// All returns every descriptor sorted by label.
func (r *Registry) All() []*Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Descriptor, 0, len(r.byLabel))
	for _, d := range r.byLabel {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Len returns the number of registered plugins.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byLabel)
}

// Close drops every descriptor and refuses further registrations.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byLabel = map[string]*Descriptor{}
	r.closed = true
}
