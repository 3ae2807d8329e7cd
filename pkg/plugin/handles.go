package plugin

import (
	"sync"
)

// Handle identifies a live instance. Zero is never issued.
type Handle uint64

// Handles is an arena of live instances indexed by handle.
type Handles struct {
	mu        sync.RWMutex
	instances map[Handle]Instance
	next      Handle
}

// NewHandles creates an empty arena.
func NewHandles() *Handles {
	return &Handles{
		instances: make(map[Handle]Instance),
		next:      1,
	}
}

// Add stores inst and returns its handle.
func (h *Handles) Add(inst Instance) Handle {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	h.instances[id] = inst
	return id
}

// Get returns the instance behind id.
func (h *Handles) Get(id Handle) (Instance, bool) {
	if id == 0 {
		return nil, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	inst, ok := h.instances[id]
	return inst, ok
}

// Replace swaps the instance behind id, keeping the handle stable across a
// reinstantiation. It returns false if id is not live.
func (h *Handles) Replace(id Handle, inst Instance) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.instances[id]; !ok {
		return false
	}
	h.instances[id] = inst
	return true
}

// Remove forgets id and returns the instance it held.
func (h *Handles) Remove(id Handle) (Instance, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	inst, ok := h.instances[id]
	delete(h.instances, id)
	return inst, ok
}

// Len returns the number of live instances.
func (h *Handles) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.instances)
}
