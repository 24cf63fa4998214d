// README: Telemetry service; hands live samples to pricing, failing open on store errors.
package telemetry

import (
	"context"

	"go.uber.org/zap"

	"commute/internal/modules/signal"
	"commute/internal/types"
)

// SampleStore is what the service needs from the backing store.
type SampleStore interface {
	RecordPendingTrip(ctx context.Context, zoneID types.ID) error
	SetAvailableDrivers(ctx context.Context, zoneID types.ID, n int) error
	SetCongestion(ctx context.Context, zoneID types.ID, index float64) error
	DemandSample(ctx context.Context, zoneID types.ID) (*signal.DemandSample, error)
	TrafficSample(ctx context.Context, zoneID types.ID) (*signal.TrafficSample, error)
}

type Service struct {
	store SampleStore
	log   *zap.Logger
}

func NewService(store SampleStore, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Samples fetches the zone's live demand and traffic readings. A store
// failure returns nil samples instead of an error: pricing then runs on the
// time heuristics, which never produce surge, so an outage cannot inflate
// fares.
func (s *Service) Samples(ctx context.Context, zoneID types.ID) (*signal.DemandSample, *signal.TrafficSample) {
	if s.store == nil || zoneID == "" {
		return nil, nil
	}

	demand, err := s.store.DemandSample(ctx, zoneID)
	if err != nil {
		s.log.Warn("demand sample unavailable", zap.String("zone_id", string(zoneID)), zap.Error(err))
		demand = nil
	}
	traffic, err := s.store.TrafficSample(ctx, zoneID)
	if err != nil {
		s.log.Warn("traffic sample unavailable", zap.String("zone_id", string(zoneID)), zap.Error(err))
		traffic = nil
	}
	return demand, traffic
}

// Publish stores a collaborator-pushed reading for the zone. Negative or
// missing fields are skipped rather than clobbering good data.
func (s *Service) Publish(ctx context.Context, zoneID types.ID, availableDrivers *int, congestion *float64, pendingTrip bool) error {
	if s.store == nil {
		return nil
	}
	if pendingTrip {
		if err := s.store.RecordPendingTrip(ctx, zoneID); err != nil {
			return err
		}
	}
	if availableDrivers != nil && *availableDrivers >= 0 {
		if err := s.store.SetAvailableDrivers(ctx, zoneID, *availableDrivers); err != nil {
			return err
		}
	}
	if congestion != nil && *congestion >= 0 && *congestion <= 1 {
		if err := s.store.SetCongestion(ctx, zoneID, *congestion); err != nil {
			return err
		}
	}
	return nil
}
