// README: Telemetry store backed by Redis counters per zone.
package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"commute/internal/modules/signal"
	"commute/internal/types"
)

const (
	pendingKeyPrefix    = "telemetry:zone:%s:pending_trips"
	driversKeyPrefix    = "telemetry:zone:%s:available_drivers"
	congestionKeyPrefix = "telemetry:zone:%s:congestion"
	// Samples go stale quickly; expired keys mean "no live reading" and the
	// estimators fall back to their heuristics.
	sampleTTL = 5 * time.Minute
)

type Store struct {
	redis *redis.Client
}

func NewStore(redis *redis.Client) *Store {
	return &Store{redis: redis}
}

// RecordPendingTrip bumps the zone's open-request counter.
func (s *Store) RecordPendingTrip(ctx context.Context, zoneID types.ID) error {
	key := pendingKey(zoneID)
	pipe := s.redis.Pipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, sampleTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// SetAvailableDrivers records the zone's current free-driver gauge.
func (s *Store) SetAvailableDrivers(ctx context.Context, zoneID types.ID, n int) error {
	return s.redis.Set(ctx, driversKey(zoneID), n, sampleTTL).Err()
}

// SetCongestion records the zone's congestion index in [0,1].
func (s *Store) SetCongestion(ctx context.Context, zoneID types.ID, index float64) error {
	return s.redis.Set(ctx, congestionKey(zoneID), index, sampleTTL).Err()
}

// DemandSample returns the live demand reading, or nil when either counter
// is missing or expired.
func (s *Store) DemandSample(ctx context.Context, zoneID types.ID) (*signal.DemandSample, error) {
	pipe := s.redis.Pipeline()
	pendingCmd := pipe.Get(ctx, pendingKey(zoneID))
	driversCmd := pipe.Get(ctx, driversKey(zoneID))
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	pending, err := intResult(pendingCmd)
	if err != nil {
		return nil, err
	}
	drivers, err := intResult(driversCmd)
	if err != nil {
		return nil, err
	}
	if pending == nil || drivers == nil {
		return nil, nil
	}
	return &signal.DemandSample{PendingTrips: *pending, AvailableDrivers: *drivers}, nil
}

// TrafficSample returns the live congestion reading, or nil when absent.
func (s *Store) TrafficSample(ctx context.Context, zoneID types.ID) (*signal.TrafficSample, error) {
	val, err := s.redis.Get(ctx, congestionKey(zoneID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	index, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, fmt.Errorf("parse congestion index: %w", err)
	}
	return &signal.TrafficSample{CongestionIndex: index}, nil
}

func intResult(cmd *redis.StringCmd) (*int, error) {
	val, err := cmd.Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return nil, fmt.Errorf("parse counter: %w", err)
	}
	return &n, nil
}

func pendingKey(zoneID types.ID) string {
	return fmt.Sprintf(pendingKeyPrefix, string(zoneID))
}

func driversKey(zoneID types.ID) string {
	return fmt.Sprintf(driversKeyPrefix, string(zoneID))
}

func congestionKey(zoneID types.ID) string {
	return fmt.Sprintf(congestionKeyPrefix, string(zoneID))
}
