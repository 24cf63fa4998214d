// README: Driver-zone assignment manager; the only writer of zone occupancy.
package zone

import (
	"context"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"commute/internal/types"
)

const driverStripes = 64

// Archiver receives released assignments during the reconciliation pass.
type Archiver interface {
	ArchiveAssignment(ctx context.Context, a Assignment) error
}

// Manager owns the authoritative set of driver-zone assignments. Every
// mutation recomputes the zone's saturation snapshot inside the same
// critical section, so readers never observe a count and a classification
// from different commits.
//
// Locking: a per-driver stripe serializes one driver's lifecycle (no driver
// can hold two live assignments), and a per-zone mutex serializes that
// zone's occupancy and recompute. The index lock is never held while a zone
// lock is being acquired.
type Manager struct {
	registry *Registry
	monitor  *Monitor
	grace    time.Duration
	archive  Archiver
	log      *zap.Logger
	now      func() time.Time

	stripes [driverStripes]sync.Mutex

	idxMu   sync.RWMutex
	drivers map[types.ID]types.ID // driver -> zone of the live assignment

	zones map[types.ID]*zoneState // fixed at construction
}

type zoneState struct {
	mu          sync.Mutex
	zone        Zone
	assignments map[types.ID]*Assignment // live records keyed by driver
	active      int
	released    []Assignment // awaiting archive; stays empty without an archiver
}

func NewManager(registry *Registry, monitor *Monitor, grace time.Duration, archive Archiver, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		registry: registry,
		monitor:  monitor,
		grace:    grace,
		archive:  archive,
		log:      log,
		now:      time.Now,
		drivers:  make(map[types.ID]types.ID),
		zones:    make(map[types.ID]*zoneState),
	}
	for _, z := range registry.All() {
		m.zones[z.ID] = &zoneState{zone: z, assignments: make(map[types.ID]*Assignment)}
	}
	return m
}

// Request creates a pending assignment for the driver in the zone. It is
// idempotent: a repeat request for the same zone returns the existing live
// record; a request for a different zone while one is live is a conflict the
// caller must resolve by releasing first.
func (m *Manager) Request(driverID, zoneID types.ID) (Assignment, error) {
	if driverID == "" || zoneID == "" {
		return Assignment{}, ErrInvalidInput
	}
	zs, ok := m.zones[zoneID]
	if !ok {
		return Assignment{}, ErrNotFound
	}

	stripe := m.stripeFor(driverID)
	stripe.Lock()
	defer stripe.Unlock()

	if liveZone, ok := m.liveZone(driverID); ok {
		if liveZone != zoneID {
			return Assignment{}, ErrConflict
		}
		zs.mu.Lock()
		defer zs.mu.Unlock()
		if a := zs.assignments[driverID]; a != nil {
			return *a, nil
		}
		// Index said live but the reconciler just expired it; fall through
		// to create a fresh record under the zone lock we already hold.
		return m.createLocked(zs, driverID, zoneID), nil
	}

	zs.mu.Lock()
	defer zs.mu.Unlock()
	return m.createLocked(zs, driverID, zoneID), nil
}

func (m *Manager) createLocked(zs *zoneState, driverID, zoneID types.ID) Assignment {
	now := m.now()
	a := &Assignment{
		ID:         types.ID(uuid.NewString()),
		DriverID:   driverID,
		ZoneID:     zoneID,
		Status:     StatusPending,
		AssignedAt: now,
		UpdatedAt:  now,
	}
	zs.assignments[driverID] = a
	m.recomputeLocked(zs)

	m.idxMu.Lock()
	m.drivers[driverID] = zoneID
	m.idxMu.Unlock()

	return *a
}

// Confirm transitions the driver's pending assignment to active. Confirming
// an already-active assignment returns it unchanged, so retries after a
// caller-side timeout are safe.
func (m *Manager) Confirm(driverID types.ID) (Assignment, error) {
	stripe := m.stripeFor(driverID)
	stripe.Lock()
	defer stripe.Unlock()

	zoneID, ok := m.liveZone(driverID)
	if !ok {
		return Assignment{}, ErrNotFound
	}
	zs := m.zones[zoneID]

	zs.mu.Lock()
	defer zs.mu.Unlock()

	a := zs.assignments[driverID]
	if a == nil {
		return Assignment{}, ErrNotFound
	}
	if a.Status == StatusActive {
		return *a, nil
	}

	a.Status = StatusActive
	a.UpdatedAt = m.now()
	zs.active++
	m.recomputeLocked(zs)
	return *a, nil
}

// Release moves the driver's live assignment to inactive. Releasing a driver
// with no live assignment is a no-op.
func (m *Manager) Release(driverID types.ID, reason string) error {
	stripe := m.stripeFor(driverID)
	stripe.Lock()
	defer stripe.Unlock()

	zoneID, ok := m.liveZone(driverID)
	if !ok {
		return nil
	}
	zs := m.zones[zoneID]

	zs.mu.Lock()
	a := zs.assignments[driverID]
	if a != nil {
		if a.Status == StatusActive {
			zs.active--
		}
		a.Status = StatusInactive
		a.UpdatedAt = m.now()
		a.ReleaseReason = reason
		if m.archive != nil {
			zs.released = append(zs.released, *a)
		}
		delete(zs.assignments, driverID)
		m.recomputeLocked(zs)
	}
	zs.mu.Unlock()

	m.idxMu.Lock()
	delete(m.drivers, driverID)
	m.idxMu.Unlock()
	return nil
}

// ListActive returns copies of the zone's active assignments.
func (m *Manager) ListActive(zoneID types.ID) ([]Assignment, error) {
	zs, ok := m.zones[zoneID]
	if !ok {
		return nil, ErrNotFound
	}
	zs.mu.Lock()
	defer zs.mu.Unlock()

	out := make([]Assignment, 0, zs.active)
	for _, a := range zs.assignments {
		if a.Status == StatusActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

// RunReconciler is the consistency backstop: it expires assignments whose
// drivers went silent past the grace period and ships released records to
// the archive. Synchronous recompute on mutation remains the source of
// truth; this pass only heals drift from callers that never released.
func (m *Manager) RunReconciler(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reconcile(ctx)
		}
	}
}

func (m *Manager) reconcile(ctx context.Context) {
	now := m.now()
	expired := 0
	var toArchive []Assignment

	for _, zs := range m.zones {
		zs.mu.Lock()
		for driverID, a := range zs.assignments {
			if now.Sub(a.UpdatedAt) <= m.grace {
				continue
			}
			if a.Status == StatusActive {
				zs.active--
			}
			a.Status = StatusInactive
			a.UpdatedAt = now
			a.ReleaseReason = "disconnect_timeout"
			if m.archive != nil {
				zs.released = append(zs.released, *a)
			}
			delete(zs.assignments, driverID)
			expired++

			m.idxMu.Lock()
			delete(m.drivers, driverID)
			m.idxMu.Unlock()
		}
		m.recomputeLocked(zs)
		if m.archive != nil && len(zs.released) > 0 {
			toArchive = append(toArchive, zs.released...)
			zs.released = nil
		}
		zs.mu.Unlock()
	}

	if expired > 0 {
		m.log.Info("expired stale assignments", zap.Int("count", expired))
	}
	for _, a := range toArchive {
		if err := m.archive.ArchiveAssignment(ctx, a); err != nil {
			m.log.Warn("archive assignment failed",
				zap.String("assignment_id", string(a.ID)), zap.Error(err))
		}
	}
}

// recomputeLocked publishes the zone-occupancy-changed event: the monitor
// recomputes the snapshot before the zone lock is dropped.
func (m *Manager) recomputeLocked(zs *zoneState) {
	_ = m.monitor.Recompute(zs.zone.ID, zs.active)
}

func (m *Manager) liveZone(driverID types.ID) (types.ID, bool) {
	m.idxMu.RLock()
	defer m.idxMu.RUnlock()
	z, ok := m.drivers[driverID]
	return z, ok
}

func (m *Manager) stripeFor(driverID types.ID) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(driverID))
	return &m.stripes[h.Sum32()%driverStripes]
}
