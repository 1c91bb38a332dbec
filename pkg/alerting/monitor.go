package alerting

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// Options configures one monitor instance. Zero values fall back to the
// defaults in pkg/domain.
type Options struct {
	SignalFloor    float64
	BatteryFloor   float64
	ProximityFeet  float64
	DebounceWindow time.Duration
	Clock          func() time.Time
}

// Monitor runs one evaluation pass over a telemetry snapshot and raises,
// updates or clears user-facing alerts. Passes are serialized: the telemetry
// tick and the heartbeat sweep may both trigger evaluation.
type Monitor struct {
	mu         sync.Mutex
	dispatcher *Dispatcher
	store      *DedupStore

	signalFloor   float64
	batteryFloor  float64
	proximityFeet float64

	logger zerolog.Logger
}

func NewMonitor(notifier domain.Notifier, metrics domain.MetricsCollector, opts Options) *Monitor {
	if opts.SignalFloor == 0 {
		opts.SignalFloor = domain.DefaultSignalFloorDBm
	}
	if opts.BatteryFloor == 0 {
		opts.BatteryFloor = domain.DefaultBatteryFloorPct
	}
	if opts.ProximityFeet == 0 {
		opts.ProximityFeet = domain.DefaultProximityFeet
	}

	store := NewDedupStore(opts.DebounceWindow, opts.Clock)

	return &Monitor{
		dispatcher:    NewDispatcher(store, notifier, metrics),
		store:         store,
		signalFloor:   opts.SignalFloor,
		batteryFloor:  opts.BatteryFloor,
		proximityFeet: opts.ProximityFeet,
		logger:        logger.ComponentLogger("alert-monitor"),
	}
}

// CheckAlerts evaluates one snapshot. A nil snapshot returns immediately and
// preserves prior alert state. Vehicles without a record are skipped; pairs
// missing a position on either side are skipped with no implicit clear.
func (m *Monitor) CheckAlerts(ctx context.Context, snapshot *domain.TelemetrySnapshot) {
	if snapshot == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range domain.MonitoredVehicles {
		rec := snapshot.Record(id)
		if rec == nil {
			continue
		}
		m.checkSignalStrength(ctx, id, rec)
		m.checkConnectionStatus(ctx, id, rec)
		m.checkBatteryLevel(ctx, id, rec)
		m.checkGeoFence(ctx, id, rec)
	}

	for _, pair := range domain.VehiclePairs {
		a := snapshot.Record(pair[0])
		b := snapshot.Record(pair[1])
		if a == nil || b == nil {
			continue
		}
		m.checkProximity(ctx, pair[0], pair[1], a, b)
	}
}

// ActiveAlerts returns the keys currently held in the dedup store.
func (m *Monitor) ActiveAlerts() []domain.AlertKey {
	return m.store.Keys()
}

// ClearAllAlerts dismisses every active notification and empties the store.
// Used on session reset.
func (m *Monitor) ClearAllAlerts(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.store.Len()
	m.dispatcher.ClearAll(ctx)
	m.logger.Info().Int("cleared", n).Msg("all alerts cleared")
}
