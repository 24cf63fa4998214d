// README: Zone configuration, driver assignments, and saturation snapshot types.
package zone

import (
	"errors"
	"time"

	"commute/internal/types"
)

var (
	ErrInvalidInput = errors.New("invalid assignment input")
	ErrNotFound     = errors.New("zone or assignment not found")
	ErrConflict     = errors.New("driver already assigned to another zone")
	ErrZeroCapacity = errors.New("zone capacity must be positive")
	ErrInvalidZone  = errors.New("invalid zone configuration")
	ErrDuplicate    = errors.New("zone already registered")
)

// Zone is a configured geographic area with a driver-capacity target.
// Zones are created by administration and read-only to the engine.
type Zone struct {
	ID       types.ID       `json:"id"`
	Name     string         `json:"name"`
	Center   types.GeoPoint `json:"center"`
	RadiusKm float64        `json:"radius_km"`
	Capacity int            `json:"capacity"`
}

// AssignmentStatus is the lifecycle state of a driver-zone assignment.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusActive   AssignmentStatus = "active"
	StatusInactive AssignmentStatus = "inactive"
)

// Assignment binds a driver to a zone. A driver holds at most one live
// (pending or active) assignment at a time.
type Assignment struct {
	ID            types.ID         `json:"id"`
	DriverID      types.ID         `json:"driver_id"`
	ZoneID        types.ID         `json:"zone_id"`
	Status        AssignmentStatus `json:"status"`
	AssignedAt    time.Time        `json:"assigned_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	ReleaseReason string           `json:"release_reason,omitempty"`
}

// SaturationLevel is the classification derived from occupancy over capacity.
type SaturationLevel string

const (
	SaturationLow       SaturationLevel = "low"
	SaturationOptimal   SaturationLevel = "optimal"
	SaturationHigh      SaturationLevel = "high"
	SaturationSaturated SaturationLevel = "saturated"
)

// Recommendation is driver-facing rebalancing advice attached to a snapshot.
type Recommendation struct {
	Message      string    `json:"message"`
	TargetZoneID *types.ID `json:"target_zone_id,omitempty"`
}

// SaturationStatus is an immutable point-in-time snapshot. It is always
// recomputed as a whole from the active assignment count, never patched.
type SaturationStatus struct {
	ZoneID          types.ID         `json:"zone_id"`
	CurrentDrivers  int              `json:"current_drivers"`
	MaxDrivers      int              `json:"max_drivers"`
	Level           float64          `json:"saturation_level"`
	Status          SaturationLevel  `json:"status"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
}

// Thresholds are the saturation classification cut points, as upper bounds:
// level < Low is low, < Optimal is optimal, < High is high, else saturated.
type Thresholds struct {
	Low     float64
	Optimal float64
	High    float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{Low: 0.4, Optimal: 0.8, High: 1.0}
}

func (t Thresholds) classify(level float64) SaturationLevel {
	switch {
	case level >= t.High:
		return SaturationSaturated
	case level >= t.Optimal:
		return SaturationHigh
	case level >= t.Low:
		return SaturationOptimal
	default:
		return SaturationLow
	}
}

// Incentives maps each saturation level to a price bonus multiplier. Only
// undersupplied zones get a bump by default; every value must be >= 1.
type Incentives struct {
	Low       float64
	Optimal   float64
	High      float64
	Saturated float64
}

func DefaultIncentives() Incentives {
	return Incentives{Low: 1.5, Optimal: 1.0, High: 1.0, Saturated: 1.0}
}

func (i Incentives) forLevel(l SaturationLevel) float64 {
	switch l {
	case SaturationLow:
		return i.Low
	case SaturationOptimal:
		return i.Optimal
	case SaturationHigh:
		return i.High
	case SaturationSaturated:
		return i.Saturated
	}
	return 1.0
}
