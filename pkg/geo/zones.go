package geo

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// ZoneStore holds keep-out polygons per vehicle. Updates replace the entire
// set, mirroring the zone editor which always pushes the full list.
type ZoneStore struct {
	mu     sync.RWMutex
	zones  map[domain.VehicleID][][]domain.Position
	logger zerolog.Logger
}

func NewZoneStore() *ZoneStore {
	return &ZoneStore{
		zones:  make(map[domain.VehicleID][][]domain.Position),
		logger: logger.ComponentLogger("zone-store"),
	}
}

// Replace swaps in a new zone set. Polygons with fewer than three points are
// skipped.
func (z *ZoneStore) Replace(updates []domain.ZonePolygon) {
	z.mu.Lock()
	defer z.mu.Unlock()

	z.zones = make(map[domain.VehicleID][][]domain.Position)
	for _, dto := range updates {
		key := domain.VehicleID(strings.ToLower(string(dto.VehicleID)))
		if len(dto.Polygon) < domain.MinPolygonSize {
			z.logger.Warn().
				Str("vehicle", string(key)).
				Int("points", len(dto.Polygon)).
				Msg("skipping polygon with too few points")
			continue
		}

		polygon := make([]domain.Position, 0, len(dto.Polygon))
		for _, pt := range dto.Polygon {
			polygon = append(polygon, domain.Position{Latitude: pt[0], Longitude: pt[1]})
		}
		z.zones[key] = append(z.zones[key], polygon)
	}

	z.logger.Info().Int("vehicles", len(z.zones)).Msg("keep-out zones replaced")
}

// NearKeepOut reports whether the point is within radiusFeet of any vertex of
// the vehicle's keep-out polygons.
func (z *ZoneStore) NearKeepOut(vehicle domain.VehicleID, pos domain.Position, radiusFeet float64) bool {
	z.mu.RLock()
	defer z.mu.RUnlock()

	polygons, ok := z.zones[domain.VehicleID(strings.ToLower(string(vehicle)))]
	if !ok {
		return false
	}

	for _, polygon := range polygons {
		for _, vertex := range polygon {
			d := DistanceFeet(pos.Latitude, pos.Longitude, vertex.Latitude, vertex.Longitude)
			if d <= radiusFeet {
				return true
			}
		}
	}
	return false
}

// Snapshot returns the current zone set in update form, for persistence.
func (z *ZoneStore) Snapshot() []domain.ZonePolygon {
	z.mu.RLock()
	defer z.mu.RUnlock()

	var out []domain.ZonePolygon
	for vehicle, polygons := range z.zones {
		for _, polygon := range polygons {
			dto := domain.ZonePolygon{VehicleID: vehicle}
			for _, pos := range polygon {
				dto.Polygon = append(dto.Polygon, [2]float64{pos.Latitude, pos.Longitude})
			}
			out = append(out, dto)
		}
	}
	return out
}
