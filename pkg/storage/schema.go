package storage

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS vehicle_telemetry (
		id              BIGSERIAL PRIMARY KEY,
		vehicle_id      TEXT             NOT NULL,
		signal_strength DOUBLE PRECISION NOT NULL,
		vehicle_status  TEXT             NOT NULL,
		battery_life    DOUBLE PRECISION NOT NULL,
		latitude        DOUBLE PRECISION,
		longitude       DOUBLE PRECISION,
		pitch           DOUBLE PRECISION NOT NULL DEFAULT 0,
		yaw             DOUBLE PRECISION NOT NULL DEFAULT 0,
		roll            DOUBLE PRECISION NOT NULL DEFAULT 0,
		speed           DOUBLE PRECISION NOT NULL DEFAULT 0,
		altitude        DOUBLE PRECISION NOT NULL DEFAULT 0,
		recorded_at     TIMESTAMPTZ      NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_vehicle_telemetry_vehicle_time
		ON vehicle_telemetry (vehicle_id, recorded_at DESC)`,
	`CREATE TABLE IF NOT EXISTS keep_out_zones (
		id         BIGSERIAL PRIMARY KEY,
		vehicle_id TEXT  NOT NULL,
		polygon    JSONB NOT NULL
	)`,
}

// EnsureSchema creates the history tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
