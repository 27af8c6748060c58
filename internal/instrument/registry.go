package instrument

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrNotFound is returned when an instrument ID is not registered.
var ErrNotFound = errors.New("instrument not found")

// Registry holds validated instrument definitions in registration order.
type Registry struct {
	mu    sync.RWMutex
	items []Instrument
	byID  map[string]int
}

// NewRegistry creates a registry pre-loaded with the built-in instruments.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]int)}
	for _, in := range builtins() {
		if err := r.Register(in); err != nil {
			panic(fmt.Sprintf("built-in instrument %q: %v", in.ID, err))
		}
	}
	return r
}

// Register validates in and adds it. Duplicate IDs are rejected.
func (r *Registry) Register(in Instrument) error {
	if err := Validate(in); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[in.ID]; exists {
		return fmt.Errorf("%w: duplicate instrument ID %q", ErrInvalidDefinition, in.ID)
	}
	r.byID[in.ID] = len(r.items)
	r.items = append(r.items, in.Clone())
	return nil
}

// Get returns a copy of the instrument with the given ID.
func (r *Registry) Get(id string) (Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return Instrument{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return r.items[i].Clone(), nil
}

// All returns copies of every instrument in registration order.
func (r *Registry) All() []Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Instrument, len(r.items))
	for i, in := range r.items {
		out[i] = in.Clone()
	}
	return out
}

// IDs returns the registered instrument IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, len(r.items))
	for i, in := range r.items {
		ids[i] = in.ID
	}
	return ids
}

// Clone returns a deep copy so callers cannot mutate registered definitions.
func (in Instrument) Clone() Instrument {
	out := in
	out.Questions = make([]Question, len(in.Questions))
	for i, q := range in.Questions {
		q.Options = slices.Clone(q.Options)
		out.Questions[i] = q
	}
	out.Bands = slices.Clone(in.Bands)
	return out
}

// defaultRegistry holds the built-ins, set at package init.
var defaultRegistry = NewRegistry()

// Default returns the package-level registry of built-in instruments.
func Default() *Registry {
	return defaultRegistry
}

// Get returns a built-in instrument by ID.
func Get(id string) (Instrument, error) {
	return defaultRegistry.Get(id)
}

// All returns all instruments in the default registry.
func All() []Instrument {
	return defaultRegistry.All()
}

// IDs returns the IDs in the default registry.
func IDs() []string {
	return defaultRegistry.IDs()
}
