// README: Zone config loading and assignment archival backed by PostgreSQL.
package zone

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the boundary to the administrative database. The engine itself
// never touches it on the request path: zones are loaded once at startup and
// released assignments are archived from the reconciler.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) LoadZones(ctx context.Context) ([]Zone, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id, name, center_lat, center_lng, radius_km, capacity
        FROM zones
        ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load zones: %w", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Center.Lat, &z.Center.Lng, &z.RadiusKm, &z.Capacity); err != nil {
			return nil, fmt.Errorf("scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

func (s *Store) ArchiveAssignment(ctx context.Context, a Assignment) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO zone_assignment_archive (
            id, driver_id, zone_id, status, assigned_at, updated_at, release_reason
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (id) DO NOTHING`,
		string(a.ID),
		string(a.DriverID),
		string(a.ZoneID),
		string(a.Status),
		a.AssignedAt,
		a.UpdatedAt,
		a.ReleaseReason,
	)
	return err
}
