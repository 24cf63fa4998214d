// README: Deterministic fare computation with itemized, audit-ordered factors.
package pricing

import (
	"errors"
	"math"
)

var ErrInvalidInput = errors.New("invalid pricing input")

// ComputePrice turns geometry and a pricing context into a fare.
//
// The base fare is distance and time at the tariff rates, scaled by the
// vehicle-class cost factor, plus the flag drop. Multipliers are then applied
// in a fixed order: traffic, demand, weather, special event, zone bonus.
// Rounding to minor units happens exactly once, at the end (round half up),
// so per-step rounding error cannot compound.
func (s *Service) ComputePrice(distanceMeters, durationSeconds, costFactor float64, pctx Context) (Result, error) {
	if !finitePositive(distanceMeters) || !finitePositive(costFactor) {
		return Result{}, ErrInvalidInput
	}
	if durationSeconds < 0 || !finite(durationSeconds) {
		return Result{}, ErrInvalidInput
	}
	if pctx.ZoneBonus < 1.0 || !finite(pctx.ZoneBonus) {
		return Result{}, ErrInvalidInput
	}

	trafficMul, ok := s.tables.traffic(pctx.Traffic)
	if !ok {
		return Result{}, ErrInvalidInput
	}
	demandMul, ok := s.tables.demand(pctx.Demand)
	if !ok {
		return Result{}, ErrInvalidInput
	}
	weatherMul, ok := s.tables.weather(pctx.Weather)
	if !ok {
		return Result{}, ErrInvalidInput
	}

	distanceFare := distanceMeters / 1000 * s.rates.DistanceRatePerKm * costFactor
	timeFare := durationSeconds / 60 * s.rates.TimeRatePerMin * costFactor
	base := distanceFare + timeFare + s.rates.FlagDrop

	factors := []Factor{
		{Name: "distance", Kind: KindAddend, Value: distanceFare},
		{Name: "duration", Kind: KindAddend, Value: timeFare},
		{Name: "flag_drop", Kind: KindAddend, Value: s.rates.FlagDrop},
		{Name: "traffic", Kind: KindMultiplier, Value: trafficMul},
		{Name: "demand", Kind: KindMultiplier, Value: demandMul},
	}

	total := base * trafficMul * demandMul
	if pctx.Weather != WeatherNormal {
		total *= weatherMul
		factors = append(factors, Factor{Name: "weather", Kind: KindMultiplier, Value: weatherMul})
	}
	if pctx.IsSpecialEvent {
		total *= s.tables.SpecialEvent
		factors = append(factors, Factor{Name: "special_event", Kind: KindMultiplier, Value: s.tables.SpecialEvent})
	}
	total *= pctx.ZoneBonus
	factors = append(factors, Factor{Name: "zone_bonus", Kind: KindMultiplier, Value: pctx.ZoneBonus})

	return Result{
		Price:     s.money(roundHalfUp(total)),
		BasePrice: s.money(roundHalfUp(base)),
		Factors:   factors,
	}, nil
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePositive(v float64) bool {
	return finite(v) && v > 0
}
