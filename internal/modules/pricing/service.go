// README: Pricing service; turns a trip request into a quote through geometry, signals, and zone feedback.
package pricing

import (
	"fmt"
	"time"

	"commute/internal/geo"
	"commute/internal/modules/signal"
	"commute/internal/types"
)

// BonusSource reads the current incentive multiplier for a zone. It is a
// snapshot read and must never block; the zone package provides the real
// implementation so pricing never references zone state directly.
type BonusSource interface {
	BonusMultiplierFor(zoneID types.ID) float64
}

type Service struct {
	rates       Rates
	tables      Multipliers
	avgSpeedKmh float64
	bonus       BonusSource
}

func NewService(rates Rates, tables Multipliers, avgSpeedKmh float64, bonus BonusSource) *Service {
	return &Service{rates: rates, tables: tables, avgSpeedKmh: avgSpeedKmh, bonus: bonus}
}

// QuoteRequest is one trip-price request. Now must be supplied by the caller;
// the engine never reads the clock, which keeps quotes reproducible.
type QuoteRequest struct {
	Origin      types.GeoPoint
	Destination types.GeoPoint
	CostFactor  float64
	Now         time.Time

	// Optional live telemetry; estimator heuristics apply when nil.
	Demand  *signal.DemandSample
	Traffic *signal.TrafficSample

	Weather        Weather
	IsSpecialEvent bool

	// OriginZone, when set, pulls the zone bonus multiplier into the quote.
	OriginZone types.ID
}

// Quote prices a trip end to end: haversine distance, duration at the
// configured average speed, signal estimation, incentive lookup, fare.
func (s *Service) Quote(req QuoteRequest) (Result, error) {
	distanceMeters, err := geo.Distance(req.Origin, req.Destination)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	durationSeconds, err := geo.Duration(distanceMeters, s.avgSpeedKmh)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	weather := req.Weather
	if weather == "" {
		weather = WeatherNormal
	}

	bonus := 1.0
	if req.OriginZone != "" && s.bonus != nil {
		bonus = s.bonus.BonusMultiplierFor(req.OriginZone)
	}

	pctx := Context{
		Timestamp:      req.Now,
		Traffic:        signal.EstimateTraffic(req.Now, req.Traffic),
		Demand:         signal.EstimateDemand(req.Now, req.Demand),
		Weather:        weather,
		IsSpecialEvent: req.IsSpecialEvent,
		ZoneBonus:      bonus,
	}
	return s.ComputePrice(distanceMeters, durationSeconds, req.CostFactor, pctx)
}

func (s *Service) money(amount int64) types.Money {
	return types.Money{Amount: amount, Currency: s.rates.Currency}
}
