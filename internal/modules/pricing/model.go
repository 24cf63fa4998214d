// README: Pricing context, itemized result, and rate/multiplier configuration.
package pricing

import (
	"time"

	"commute/internal/modules/signal"
	"commute/internal/types"
)

// Weather is a closed weather classification affecting price.
type Weather string

const (
	WeatherNormal Weather = "normal"
	WeatherRain   Weather = "rain"
	WeatherStorm  Weather = "storm"
)

// Context carries every signal a single price computation depends on. It is
// built fresh per request and never persisted; the timestamp is the only
// notion of "now" the engine sees.
type Context struct {
	Timestamp      time.Time
	Traffic        signal.TrafficLevel
	Demand         signal.DemandLevel
	Weather        Weather
	IsSpecialEvent bool
	// ZoneBonus is the incentive feedback term for the origin zone, always >= 1.
	ZoneBonus float64
}

// FactorKind says how a factor entered the price.
type FactorKind string

const (
	KindAddend     FactorKind = "addend"
	KindMultiplier FactorKind = "multiplier"
)

// Factor is one itemized pricing step, recorded for auditability.
type Factor struct {
	Name  string     `json:"name"`
	Kind  FactorKind `json:"kind"`
	Value float64    `json:"value"`
}

// Result is the outcome of a price computation. Price is BasePrice with the
// multiplier factors applied in their recorded order and rounded once.
type Result struct {
	Price     types.Money `json:"price"`
	BasePrice types.Money `json:"base_price"`
	Factors   []Factor    `json:"factors"`
}

// Rates are the base fare parameters. Amounts are in minor units per unit of
// distance or time before the vehicle-class cost factor is applied.
type Rates struct {
	DistanceRatePerKm float64
	TimeRatePerMin    float64
	FlagDrop          float64
	Currency          string
}

// DefaultRates returns the stock tariff.
func DefaultRates() Rates {
	return Rates{
		DistanceRatePerKm: 1200,
		TimeRatePerMin:    200,
		FlagDrop:          2500,
		Currency:          "TWD",
	}
}

// Multipliers holds one bounded multiplier per enum case, so a pricing run
// can never pick up an unbounded or missing value.
type Multipliers struct {
	TrafficLow    float64
	TrafficMedium float64
	TrafficHigh   float64
	TrafficSevere float64

	DemandLow    float64
	DemandMedium float64
	DemandHigh   float64
	DemandSurge  float64

	WeatherRain  float64
	WeatherStorm float64

	SpecialEvent float64
}

// DefaultMultipliers returns the stock tables. All values are >= 1 so the
// final price can never fall below the base fare.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		TrafficLow:    1.0,
		TrafficMedium: 1.1,
		TrafficHigh:   1.25,
		TrafficSevere: 1.45,

		DemandLow:    1.0,
		DemandMedium: 1.1,
		DemandHigh:   1.3,
		DemandSurge:  1.6,

		WeatherRain:  1.15,
		WeatherStorm: 1.3,

		SpecialEvent: 1.2,
	}
}

func (m Multipliers) traffic(l signal.TrafficLevel) (float64, bool) {
	switch l {
	case signal.TrafficLow:
		return m.TrafficLow, true
	case signal.TrafficMedium:
		return m.TrafficMedium, true
	case signal.TrafficHigh:
		return m.TrafficHigh, true
	case signal.TrafficSevere:
		return m.TrafficSevere, true
	}
	return 0, false
}

func (m Multipliers) demand(l signal.DemandLevel) (float64, bool) {
	switch l {
	case signal.DemandLow:
		return m.DemandLow, true
	case signal.DemandMedium:
		return m.DemandMedium, true
	case signal.DemandHigh:
		return m.DemandHigh, true
	case signal.DemandSurge:
		return m.DemandSurge, true
	}
	return 0, false
}

func (m Multipliers) weather(w Weather) (float64, bool) {
	switch w {
	case WeatherNormal:
		return 1.0, true
	case WeatherRain:
		return m.WeatherRain, true
	case WeatherStorm:
		return m.WeatherStorm, true
	}
	return 0, false
}
