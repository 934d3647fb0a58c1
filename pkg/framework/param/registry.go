package param

import "sync"

// Registry holds every engine parameter, addressable by ID or panel order.
type Registry struct {
	params map[uint32]*Parameter
	order  []uint32
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{params: make(map[uint32]*Parameter)}
}

// Add registers parameters in panel order. Duplicate IDs are ignored.
func (r *Registry) Add(params ...*Parameter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range params {
		if _, exists := r.params[p.ID]; exists {
			continue
		}
		r.params[p.ID] = p
		r.order = append(r.order, p.ID)
	}
}

// Get returns the parameter with the given ID, or nil.
func (r *Registry) Get(id uint32) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.params[id]
}

// ByIndex returns the parameter at the given panel position, or nil.
func (r *Registry) ByIndex(index int) *Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.order) {
		return nil
	}
	return r.params[r.order[index]]
}

// Count returns the number of registered parameters.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// All returns the parameters in panel order.
func (r *Registry) All() []*Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Parameter, len(r.order))
	for i, id := range r.order {
		out[i] = r.params[id]
	}
	return out
}

// ResetAll restores every parameter to its default.
func (r *Registry) ResetAll() {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.params {
		p.ResetToDefault()
	}
}
