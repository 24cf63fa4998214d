// README: Saturation monitor; recomputes zone snapshots synchronously with mutations.
package zone

import (
	"sync/atomic"

	"commute/internal/geo"
	"commute/internal/types"
)

// Monitor owns the derived saturation state. Writers call Recompute inside
// the zone's critical section; readers load the latest snapshot without
// taking any lock. Construct it after all zones are registered: the snapshot
// map is fixed at construction so concurrent reads need no synchronization.
type Monitor struct {
	registry   *Registry
	thresholds Thresholds
	snapshots  map[types.ID]*atomic.Pointer[SaturationStatus]
}

func NewMonitor(registry *Registry, thresholds Thresholds) *Monitor {
	m := &Monitor{
		registry:   registry,
		thresholds: thresholds,
		snapshots:  make(map[types.ID]*atomic.Pointer[SaturationStatus]),
	}
	for _, z := range registry.All() {
		p := &atomic.Pointer[SaturationStatus]{}
		m.snapshots[z.ID] = p
		m.store(z, 0)
	}
	return m
}

// Recompute derives a fresh snapshot for the zone from the current active
// driver count and swaps it in atomically. The caller is the assignment
// manager, holding the zone's mutation lock, so snapshot and count can never
// be observed out of step.
func (m *Monitor) Recompute(zoneID types.ID, activeDrivers int) error {
	z, err := m.registry.Get(zoneID)
	if err != nil {
		return err
	}
	m.store(z, activeDrivers)
	return nil
}

// Get returns the last computed snapshot. It never blocks and never triggers
// a recompute; staleness is bounded by the synchronous recompute on mutation.
func (m *Monitor) Get(zoneID types.ID) (SaturationStatus, error) {
	p, ok := m.snapshots[zoneID]
	if !ok {
		return SaturationStatus{}, ErrNotFound
	}
	return *p.Load(), nil
}

func (m *Monitor) store(z Zone, activeDrivers int) {
	level := float64(activeDrivers) / float64(z.Capacity)
	if level > 1 {
		level = 1
	}
	if level < 0 {
		level = 0
	}
	status := m.thresholds.classify(level)

	snap := &SaturationStatus{
		ZoneID:          z.ID,
		CurrentDrivers:  activeDrivers,
		MaxDrivers:      z.Capacity,
		Level:           level,
		Status:          status,
		Recommendations: m.recommend(z, status),
	}
	m.snapshots[z.ID].Store(snap)
}

func (m *Monitor) recommend(z Zone, status SaturationLevel) []Recommendation {
	switch status {
	case SaturationSaturated:
		if target, ok := m.nearestUndersupplied(z); ok {
			id := target.ID
			return []Recommendation{{
				Message:      "zone is saturated; nearest zone with open capacity is " + target.Name,
				TargetZoneID: &id,
			}}
		}
		return []Recommendation{{Message: "zone is saturated; no nearby zone has open capacity"}}
	case SaturationLow:
		return []Recommendation{{Message: "zone is undersupplied; incentive bonus active for trips starting here"}}
	}
	return nil
}

// nearestUndersupplied picks the closest other zone whose last snapshot is
// low or optimal, by centre distance.
func (m *Monitor) nearestUndersupplied(from Zone) (Zone, bool) {
	var best Zone
	bestDist := 0.0
	found := false

	for _, candidate := range m.registry.All() {
		if candidate.ID == from.ID {
			continue
		}
		p, ok := m.snapshots[candidate.ID]
		if !ok {
			continue
		}
		snap := p.Load()
		if snap.Status != SaturationLow && snap.Status != SaturationOptimal {
			continue
		}
		d, err := geo.Distance(from.Center, candidate.Center)
		if err != nil {
			continue
		}
		if !found || d < bestDist {
			best = candidate
			bestDist = d
			found = true
		}
	}
	return best, found
}
