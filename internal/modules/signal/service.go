// README: Demand and traffic estimators; live samples dominate, time heuristics fall back.
package signal

import "time"

// Demand/supply ratio tiers for the live sample path.
const (
	demandRatioMedium = 1.0
	demandRatioHigh   = 1.5
	demandRatioSurge  = 2.0
)

// Congestion index tiers for the live sample path.
const (
	congestionMedium = 0.3
	congestionHigh   = 0.6
	congestionSevere = 0.8
)

// EstimateDemand classifies demand at the given time. When a live sample is
// supplied it dominates; otherwise a deterministic time-of-day heuristic is
// used. The function never reads the clock itself.
func EstimateDemand(now time.Time, sample *DemandSample) DemandLevel {
	if sample != nil {
		return demandFromSample(*sample)
	}
	return demandFromTime(now)
}

// EstimateTraffic classifies congestion at the given time, live sample first.
func EstimateTraffic(now time.Time, sample *TrafficSample) TrafficLevel {
	if sample != nil {
		return trafficFromSample(*sample)
	}
	return trafficFromTime(now)
}

func demandFromSample(s DemandSample) DemandLevel {
	if s.AvailableDrivers <= 0 {
		if s.PendingTrips > 0 {
			return DemandSurge
		}
		return DemandLow
	}
	ratio := float64(s.PendingTrips) / float64(s.AvailableDrivers)
	switch {
	case ratio >= demandRatioSurge:
		return DemandSurge
	case ratio >= demandRatioHigh:
		return DemandHigh
	case ratio >= demandRatioMedium:
		return DemandMedium
	default:
		return DemandLow
	}
}

func demandFromTime(now time.Time) DemandLevel {
	hour := now.Hour()
	weekday := now.Weekday()

	// Weekday commute windows.
	if weekday >= time.Monday && weekday <= time.Friday {
		if (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19) {
			return DemandHigh
		}
	}
	// Friday and Saturday nightlife.
	if (weekday == time.Friday || weekday == time.Saturday) && hour >= 22 {
		return DemandHigh
	}
	if hour >= 10 && hour < 17 {
		return DemandMedium
	}
	return DemandLow
}

func trafficFromSample(s TrafficSample) TrafficLevel {
	switch {
	case s.CongestionIndex >= congestionSevere:
		return TrafficSevere
	case s.CongestionIndex >= congestionHigh:
		return TrafficHigh
	case s.CongestionIndex >= congestionMedium:
		return TrafficMedium
	default:
		return TrafficLow
	}
}

func trafficFromTime(now time.Time) TrafficLevel {
	hour := now.Hour()
	weekday := now.Weekday()

	if weekday >= time.Monday && weekday <= time.Friday {
		if (hour >= 7 && hour < 9) || (hour >= 17 && hour < 19) {
			return TrafficHigh
		}
	}
	if hour >= 9 && hour < 20 {
		return TrafficMedium
	}
	return TrafficLow
}
