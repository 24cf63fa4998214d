package pricing

import (
	"errors"
	"testing"
	"time"

	"commute/internal/modules/signal"
	"commute/internal/types"
)

var quoteTime = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

func newTestService(bonus BonusSource) *Service {
	return NewService(DefaultRates(), DefaultMultipliers(), 30.0, bonus)
}

func calmContext() Context {
	return Context{
		Timestamp: quoteTime,
		Traffic:   signal.TrafficLow,
		Demand:    signal.DemandLow,
		Weather:   WeatherNormal,
		ZoneBonus: 1.0,
	}
}

func TestComputePrice_BaseFormula(t *testing.T) {
	s := newTestService(nil)

	// 5km at 1200/km and 10min at 200/min, cost factor 0.5, flag drop 2500:
	// 3000 + 1000 + 2500 = 6500 with no multiplier above 1.0.
	got, err := s.ComputePrice(5000, 600, 0.5, calmContext())
	if err != nil {
		t.Fatalf("ComputePrice() error = %v", err)
	}
	if got.Price.Amount != 6500 {
		t.Errorf("Price = %d, want 6500", got.Price.Amount)
	}
	if got.Price != got.BasePrice {
		t.Errorf("Price %v != BasePrice %v with all multipliers at 1.0", got.Price, got.BasePrice)
	}

	surgeCtx := calmContext()
	surgeCtx.Demand = signal.DemandSurge
	surged, err := s.ComputePrice(5000, 600, 0.5, surgeCtx)
	if err != nil {
		t.Fatalf("ComputePrice() error = %v", err)
	}
	if surged.Price.Amount <= got.Price.Amount {
		t.Errorf("surge price %d not greater than calm price %d", surged.Price.Amount, got.Price.Amount)
	}
}

func TestComputePrice_Deterministic(t *testing.T) {
	s := newTestService(nil)
	ctx := Context{
		Timestamp:      quoteTime,
		Traffic:        signal.TrafficHigh,
		Demand:         signal.DemandMedium,
		Weather:        WeatherRain,
		IsSpecialEvent: true,
		ZoneBonus:      1.5,
	}

	first, err := s.ComputePrice(8421, 1337, 1.2, ctx)
	if err != nil {
		t.Fatalf("ComputePrice() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := s.ComputePrice(8421, 1337, 1.2, ctx)
		if err != nil {
			t.Fatalf("ComputePrice() error = %v", err)
		}
		if again.Price != first.Price || again.BasePrice != first.BasePrice {
			t.Fatalf("run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestComputePrice_Monotonicity(t *testing.T) {
	s := newTestService(nil)
	ctx := calmContext()
	ctx.Traffic = signal.TrafficMedium
	ctx.Demand = signal.DemandHigh

	prev := int64(-1)
	for _, dist := range []float64{1000, 2000, 5000, 10000, 50000} {
		r, err := s.ComputePrice(dist, 600, 1.0, ctx)
		if err != nil {
			t.Fatalf("ComputePrice(dist=%f) error = %v", dist, err)
		}
		if r.Price.Amount < prev {
			t.Errorf("price decreased as distance grew: %d after %d", r.Price.Amount, prev)
		}
		prev = r.Price.Amount
	}

	prev = -1
	for _, dur := range []float64{0, 60, 300, 1200, 3600} {
		r, err := s.ComputePrice(4000, dur, 1.0, ctx)
		if err != nil {
			t.Fatalf("ComputePrice(dur=%f) error = %v", dur, err)
		}
		if r.Price.Amount < prev {
			t.Errorf("price decreased as duration grew: %d after %d", r.Price.Amount, prev)
		}
		prev = r.Price.Amount
	}
}

func TestComputePrice_PriceNeverBelowBase(t *testing.T) {
	s := newTestService(nil)

	traffics := []signal.TrafficLevel{signal.TrafficLow, signal.TrafficMedium, signal.TrafficHigh, signal.TrafficSevere}
	demands := []signal.DemandLevel{signal.DemandLow, signal.DemandMedium, signal.DemandHigh, signal.DemandSurge}
	weathers := []Weather{WeatherNormal, WeatherRain, WeatherStorm}

	for _, tr := range traffics {
		for _, dm := range demands {
			for _, w := range weathers {
				for _, event := range []bool{false, true} {
					ctx := Context{
						Timestamp:      quoteTime,
						Traffic:        tr,
						Demand:         dm,
						Weather:        w,
						IsSpecialEvent: event,
						ZoneBonus:      1.25,
					}
					r, err := s.ComputePrice(7500, 900, 1.0, ctx)
					if err != nil {
						t.Fatalf("ComputePrice(%v/%v/%v) error = %v", tr, dm, w, err)
					}
					if r.Price.Amount < r.BasePrice.Amount {
						t.Errorf("price %d below base %d for %v/%v/%v event=%v", r.Price.Amount, r.BasePrice.Amount, tr, dm, w, event)
					}
				}
			}
		}
	}
}

func TestComputePrice_FactorOrder(t *testing.T) {
	s := newTestService(nil)
	ctx := Context{
		Timestamp:      quoteTime,
		Traffic:        signal.TrafficHigh,
		Demand:         signal.DemandSurge,
		Weather:        WeatherStorm,
		IsSpecialEvent: true,
		ZoneBonus:      1.5,
	}
	r, err := s.ComputePrice(5000, 600, 1.0, ctx)
	if err != nil {
		t.Fatalf("ComputePrice() error = %v", err)
	}

	want := []string{"distance", "duration", "flag_drop", "traffic", "demand", "weather", "special_event", "zone_bonus"}
	if len(r.Factors) != len(want) {
		t.Fatalf("got %d factors, want %d: %v", len(r.Factors), len(want), r.Factors)
	}
	for i, name := range want {
		if r.Factors[i].Name != name {
			t.Errorf("factor[%d] = %q, want %q", i, r.Factors[i].Name, name)
		}
	}
}

func TestComputePrice_SkipsNeutralFactors(t *testing.T) {
	s := newTestService(nil)
	r, err := s.ComputePrice(5000, 600, 1.0, calmContext())
	if err != nil {
		t.Fatalf("ComputePrice() error = %v", err)
	}
	for _, f := range r.Factors {
		if f.Name == "weather" || f.Name == "special_event" {
			t.Errorf("neutral factor %q should not be recorded", f.Name)
		}
	}
}

func TestComputePrice_InvalidInput(t *testing.T) {
	s := newTestService(nil)

	tests := []struct {
		name     string
		distance float64
		duration float64
		cost     float64
		mutate   func(*Context)
	}{
		{"zero distance", 0, 600, 1.0, nil},
		{"negative distance", -100, 600, 1.0, nil},
		{"negative duration", 5000, -1, 1.0, nil},
		{"zero cost factor", 5000, 600, 0, nil},
		{"negative cost factor", 5000, 600, -0.5, nil},
		{"zone bonus below one", 5000, 600, 1.0, func(c *Context) { c.ZoneBonus = 0.9 }},
		{"unknown traffic level", 5000, 600, 1.0, func(c *Context) { c.Traffic = "gridlocked" }},
		{"unknown demand level", 5000, 600, 1.0, func(c *Context) { c.Demand = "insane" }},
		{"unknown weather", 5000, 600, 1.0, func(c *Context) { c.Weather = "hail" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := calmContext()
			if tt.mutate != nil {
				tt.mutate(&ctx)
			}
			if _, err := s.ComputePrice(tt.distance, tt.duration, tt.cost, ctx); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

// staticBonus is a test double for the zone incentive snapshot.
type staticBonus struct {
	multiplier float64
}

func (b staticBonus) BonusMultiplierFor(types.ID) float64 { return b.multiplier }

func TestQuote_ZoneBonusRaisesPrice(t *testing.T) {
	origin := types.GeoPoint{Lat: 25.0340, Lng: 121.5645}
	dest := types.GeoPoint{Lat: 25.0478, Lng: 121.5170}

	flat := newTestService(staticBonus{multiplier: 1.0})
	boosted := newTestService(staticBonus{multiplier: 1.5})

	req := QuoteRequest{
		Origin:      origin,
		Destination: dest,
		CostFactor:  1.0,
		Now:         quoteTime,
		OriginZone:  "z-downtown",
	}

	base, err := flat.Quote(req)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	bumped, err := boosted.Quote(req)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if bumped.Price.Amount <= base.Price.Amount {
		t.Errorf("boosted price %d not greater than flat price %d", bumped.Price.Amount, base.Price.Amount)
	}
}

func TestQuote_LiveSamplesDriveSurge(t *testing.T) {
	s := newTestService(nil)
	req := QuoteRequest{
		Origin:      types.GeoPoint{Lat: 25.0340, Lng: 121.5645},
		Destination: types.GeoPoint{Lat: 25.0478, Lng: 121.5170},
		CostFactor:  1.0,
		Now:         quoteTime,
	}

	calm, err := s.Quote(req)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	req.Demand = &signal.DemandSample{PendingTrips: 30, AvailableDrivers: 5}
	req.Traffic = &signal.TrafficSample{CongestionIndex: 0.9}
	stressed, err := s.Quote(req)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}
	if stressed.Price.Amount <= calm.Price.Amount {
		t.Errorf("stressed price %d not greater than calm price %d", stressed.Price.Amount, calm.Price.Amount)
	}
}

func TestQuote_InvalidGeometry(t *testing.T) {
	s := newTestService(nil)
	req := QuoteRequest{
		Origin:      types.GeoPoint{Lat: 95.0, Lng: 0},
		Destination: types.GeoPoint{Lat: 25.0, Lng: 121.5},
		CostFactor:  1.0,
		Now:         quoteTime,
	}
	if _, err := s.Quote(req); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}

func TestQuote_SamePointRejected(t *testing.T) {
	s := newTestService(nil)
	p := types.GeoPoint{Lat: 25.0, Lng: 121.5}
	req := QuoteRequest{Origin: p, Destination: p, CostFactor: 1.0, Now: quoteTime}
	if _, err := s.Quote(req); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("error = %v, want ErrInvalidInput", err)
	}
}
