package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// PostgresStore persists accepted telemetry and the current keep-out zones.
// It implements domain.HistoryStore.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: logger.ComponentLogger("postgres-store"),
	}, nil
}

func (s *PostgresStore) InsertTelemetry(ctx context.Context, rec domain.TelemetryRecord) error {
	query := `
		INSERT INTO vehicle_telemetry
			(vehicle_id, signal_strength, vehicle_status, battery_life,
			 latitude, longitude, pitch, yaw, roll, speed, altitude, recorded_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var lat, lon *float64
	if rec.Position != nil {
		lat = &rec.Position.Latitude
		lon = &rec.Position.Longitude
	}

	_, err := s.pool.Exec(
		ctx,
		query,
		string(rec.VehicleID),
		rec.SignalStrength,
		string(rec.VehicleStatus),
		rec.BatteryLife,
		lat,
		lon,
		rec.Pitch,
		rec.Yaw,
		rec.Roll,
		rec.Speed,
		rec.Altitude,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert telemetry for %s: %w", rec.VehicleID, err)
	}

	return nil
}

// ReplaceZones swaps the stored zone set atomically so a restart reloads the
// most recent update.
func (s *PostgresStore) ReplaceZones(ctx context.Context, zones []domain.ZonePolygon) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin zones transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM keep_out_zones`); err != nil {
		return fmt.Errorf("clear zones: %w", err)
	}

	for _, zone := range zones {
		polygon, err := json.Marshal(zone.Polygon)
		if err != nil {
			return fmt.Errorf("marshal polygon for %s: %w", zone.VehicleID, err)
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO keep_out_zones (vehicle_id, polygon) VALUES ($1, $2)`,
			string(zone.VehicleID), polygon)
		if err != nil {
			return fmt.Errorf("insert zone for %s: %w", zone.VehicleID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit zones transaction: %w", err)
	}

	return nil
}

func (s *PostgresStore) LoadZones(ctx context.Context) ([]domain.ZonePolygon, error) {
	rows, err := s.pool.Query(ctx, `SELECT vehicle_id, polygon FROM keep_out_zones`)
	if err != nil {
		return nil, fmt.Errorf("query zones: %w", err)
	}
	defer rows.Close()

	var zones []domain.ZonePolygon
	for rows.Next() {
		var vehicleID string
		var polygonJSON []byte
		if err := rows.Scan(&vehicleID, &polygonJSON); err != nil {
			return nil, fmt.Errorf("scan zone row: %w", err)
		}

		var polygon [][2]float64
		if err := json.Unmarshal(polygonJSON, &polygon); err != nil {
			s.logger.Warn().Str("vehicle", vehicleID).Err(err).Msg("skipping malformed stored polygon")
			continue
		}

		zones = append(zones, domain.ZonePolygon{
			VehicleID: domain.VehicleID(vehicleID),
			Polygon:   polygon,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate zone rows: %w", err)
	}

	return zones, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
