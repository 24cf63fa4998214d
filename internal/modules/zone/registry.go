// README: Read-mostly registry of configured zones; capacity is validated at registration.
package zone

import (
	"math"
	"sync"

	"commute/internal/types"
)

// Registry holds the configured zones. Registration happens at startup;
// afterwards the registry is read-only and safe for concurrent readers.
type Registry struct {
	mu    sync.RWMutex
	zones map[types.ID]Zone
	order []types.ID
}

func NewRegistry() *Registry {
	return &Registry{zones: make(map[types.ID]Zone)}
}

// Register adds a zone. A non-positive capacity is a configuration error and
// is rejected here so it can never surface as a runtime division problem.
func (r *Registry) Register(z Zone) error {
	if z.ID == "" || z.Name == "" {
		return ErrInvalidZone
	}
	if math.IsNaN(z.Center.Lat) || math.IsNaN(z.Center.Lng) {
		return ErrInvalidZone
	}
	if z.Capacity <= 0 {
		return ErrZeroCapacity
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.zones[z.ID]; exists {
		return ErrDuplicate
	}
	r.zones[z.ID] = z
	r.order = append(r.order, z.ID)
	return nil
}

func (r *Registry) Get(id types.ID) (Zone, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	z, ok := r.zones[id]
	if !ok {
		return Zone{}, ErrNotFound
	}
	return z, nil
}

// All returns zones in registration order.
func (r *Registry) All() []Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.zones[id])
	}
	return out
}
