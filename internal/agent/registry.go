package agent

import (
	"regexp"
	"sync"

	"github.com/spf13/afero"

	"github.com/thoreinstein/mmcp/internal/errors"
	"github.com/thoreinstein/mmcp/internal/paths"
)

// Sentinel errors for registry operations.
var (
	// ErrAdapterAlreadyRegistered is returned when attempting to register
	// an adapter with an ID that is already in use.
	ErrAdapterAlreadyRegistered = errors.New("adapter already registered")

	// ErrInvalidAdapterID is returned when attempting to register
	// an adapter with an invalid ID.
	ErrInvalidAdapterID = errors.New("invalid adapter id")
)

var validID = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Registry manages adapter registration and lookup.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
	order    []string
}

// NewRegistry creates a new empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// DefaultRegistry returns a registry holding an adapter for every entry of
// Targets, bound to fs and r.
func DefaultRegistry(fs afero.Fs, r paths.Resolver) *Registry {
	reg := NewRegistry()
	for _, t := range Targets() {
		// Target IDs are constants; a failure here is a programming error.
		if err := reg.Register(NewAdapter(t, fs, r)); err != nil {
			panic(err)
		}
	}
	return reg
}

// Register adds an adapter to the registry.
// Returns an error if:
//   - The adapter ID is not lowercase kebab-case
//   - An adapter with the same ID is already registered
func (r *Registry) Register(a Adapter) error {
	id := a.ID()
	if !validID.MatchString(id) {
		return errors.Wrapf(ErrInvalidAdapterID, "%q", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.adapters[id]; exists {
		return errors.Wrapf(ErrAdapterAlreadyRegistered, "%q", id)
	}

	r.adapters[id] = a
	r.order = append(r.order, id)
	return nil
}

// Get returns the adapter registered under id, or nil.
func (r *Registry) Get(id string) Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.adapters[id]
}

// All returns the registered adapters in registration order.
func (r *Registry) All() []Adapter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	out := make([]Adapter, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.adapters[id])
	}
	return out
}

// IDs returns the registered adapter IDs in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.order) == 0 {
		return nil
	}
	return append([]string(nil), r.order...)
}
