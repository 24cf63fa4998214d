// README: Bounded demand/traffic signal levels and live telemetry samples.
package signal

// DemandLevel is a closed demand classification. Pricing applies a bounded
// multiplier per level, so an unbounded scalar never reaches the fare.
type DemandLevel string

const (
	DemandLow    DemandLevel = "low"
	DemandMedium DemandLevel = "medium"
	DemandHigh   DemandLevel = "high"
	DemandSurge  DemandLevel = "surge"
)

// TrafficLevel is a closed congestion classification.
type TrafficLevel string

const (
	TrafficLow    TrafficLevel = "low"
	TrafficMedium TrafficLevel = "medium"
	TrafficHigh   TrafficLevel = "high"
	TrafficSevere TrafficLevel = "severe"
)

// DemandSample is a live supply/demand reading sourced from telemetry.
type DemandSample struct {
	PendingTrips     int
	AvailableDrivers int
}

// TrafficSample is a live congestion reading. Index is in [0,1] where 0 is
// free flow and 1 is standstill.
type TrafficSample struct {
	CongestionIndex float64
}
