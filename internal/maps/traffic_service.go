// README: Live traffic sampling via the Google Maps Distance Matrix API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"commute/internal/types"
)

// TrafficService probes real-world congestion around zone centres and feeds
// the result into telemetry. It is an optional collaborator: when no API key
// is configured the engine simply runs on heuristics and pushed samples.
type TrafficService struct {
	client *maps.Client
	log    *zap.Logger
}

func NewTrafficService(apiKey string, log *zap.Logger) (*TrafficService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TrafficService{client: client, log: log}, nil
}

// ZoneProbe names one zone centre to sample.
type ZoneProbe struct {
	ZoneID types.ID
	Center types.GeoPoint
}

// CongestionSink receives sampled congestion indexes (telemetry.Service).
type CongestionSink interface {
	Publish(ctx context.Context, zoneID types.ID, availableDrivers *int, congestion *float64, pendingTrip bool) error
}

// CongestionIndex measures congestion near the centre as
// 1 - freeFlowDuration/currentDuration over a short probe route, in [0,1].
func (s *TrafficService) CongestionIndex(ctx context.Context, center types.GeoPoint, probeKm float64) (float64, error) {
	// Probe a short hop due north of the centre; roughly 1 degree latitude
	// per 111km.
	probe := types.GeoPoint{Lat: center.Lat + probeKm/111.0, Lng: center.Lng}

	resp, err := s.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:       []string{fmt.Sprintf("%f,%f", center.Lat, center.Lng)},
		Destinations:  []string{fmt.Sprintf("%f,%f", probe.Lat, probe.Lng)},
		Mode:          maps.TravelModeDriving,
		DepartureTime: "now",
	})
	if err != nil {
		return 0, fmt.Errorf("distance matrix: %w", err)
	}
	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, errors.New("distance matrix returned no elements")
	}
	el := resp.Rows[0].Elements[0]
	if el.Status != "OK" || el.Duration <= 0 || el.DurationInTraffic <= 0 {
		return 0, fmt.Errorf("distance matrix element status %q", el.Status)
	}

	index := 1 - float64(el.Duration)/float64(el.DurationInTraffic)
	if index < 0 {
		index = 0
	}
	if index > 1 {
		index = 1
	}
	return index, nil
}

// RunSampler periodically samples every probe and publishes the indexes.
func (s *TrafficService) RunSampler(ctx context.Context, probes []ZoneProbe, sink CongestionSink, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, p := range probes {
				index, err := s.CongestionIndex(ctx, p.Center, 2.0)
				if err != nil {
					s.log.Warn("traffic probe failed", zap.String("zone_id", string(p.ZoneID)), zap.Error(err))
					continue
				}
				if err := sink.Publish(ctx, p.ZoneID, nil, &index, false); err != nil {
					s.log.Warn("publish congestion failed", zap.String("zone_id", string(p.ZoneID)), zap.Error(err))
				}
			}
		}
	}
}
