package alerting

import (
	"context"
	"fmt"
	"strings"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/geo"
)

// Condition checkers. Each owns a disjoint alert type, except the documented
// overlap: both the signal checker and the connection checker write
// signal_strength. They run in a fixed order, so within one pass the
// connection checker's verdict lands last.

func (m *Monitor) checkSignalStrength(ctx context.Context, id domain.VehicleID, rec *domain.TelemetryRecord) {
	if rec.SignalStrength < m.signalFloor {
		m.dispatcher.EmitAlert(ctx, id, domain.AlertSignalStrength, domain.SeverityWarning,
			fmt.Sprintf("%s: Low Signal Strength", displayName(id)),
			fmt.Sprintf("Signal strength is %.1f dBm (threshold %.0f dBm)", rec.SignalStrength, m.signalFloor))
		return
	}
	m.dispatcher.ClearAlert(ctx, id, domain.AlertSignalStrength)
}

func (m *Monitor) checkConnectionStatus(ctx context.Context, id domain.VehicleID, rec *domain.TelemetryRecord) {
	switch rec.VehicleStatus {
	case domain.StatusDisconnected:
		m.dispatcher.EmitAlert(ctx, id, domain.AlertHeartbeatTimeout, domain.SeverityError,
			fmt.Sprintf("%s: Disconnected", displayName(id)),
			"No telemetry heartbeat received, vehicle marked disconnected")
	case domain.StatusConnected:
		m.dispatcher.ClearAlert(ctx, id, domain.AlertHeartbeatTimeout)
	case domain.StatusBadConnection:
		// Writes the signal checker's alert type. No clear on other
		// statuses.
		m.dispatcher.EmitAlert(ctx, id, domain.AlertSignalStrength, domain.SeverityWarning,
			fmt.Sprintf("%s: Bad Connection", displayName(id)),
			"Vehicle reports an unstable connection")
	}
}

func (m *Monitor) checkBatteryLevel(ctx context.Context, id domain.VehicleID, rec *domain.TelemetryRecord) {
	if rec.BatteryLife < m.batteryFloor {
		m.dispatcher.EmitAlert(ctx, id, domain.AlertAbnormalStatus, domain.SeverityError,
			fmt.Sprintf("%s: Low Battery", displayName(id)),
			fmt.Sprintf("Battery life is %.1f%% (threshold %.0f%%)", rec.BatteryLife, m.batteryFloor))
		return
	}
	m.dispatcher.ClearAlert(ctx, id, domain.AlertAbnormalStatus)
}

func (m *Monitor) checkGeoFence(ctx context.Context, id domain.VehicleID, rec *domain.TelemetryRecord) {
	if rec.VehicleStatus == domain.StatusNearKeepOut {
		m.dispatcher.EmitAlert(ctx, id, domain.AlertGeoFence, domain.SeverityWarning,
			fmt.Sprintf("%s: Approaching Restricted Area", displayName(id)),
			"Vehicle is near a keep-out zone boundary")
		return
	}
	m.dispatcher.ClearAlert(ctx, id, domain.AlertGeoFence)
}

// checkProximity evaluates one ordered pair. The alert key always lives on
// the first vehicle; the reverse key is never populated.
func (m *Monitor) checkProximity(ctx context.Context, first, second domain.VehicleID, a, b *domain.TelemetryRecord) {
	if a.Position == nil || b.Position == nil {
		// Insufficient data: skip entirely, no implicit clear.
		return
	}

	dist := geo.DistanceFeet(
		a.Position.Latitude, a.Position.Longitude,
		b.Position.Latitude, b.Position.Longitude,
	)

	alertType := domain.ProximityAlert(second)
	if dist < m.proximityFeet {
		m.dispatcher.EmitAlert(ctx, first, alertType, domain.SeverityWarning,
			fmt.Sprintf("%s: Proximity Warning", displayName(first)),
			fmt.Sprintf("%s is %.0f ft from %s (threshold %.0f ft)",
				displayName(first), dist, displayName(second), m.proximityFeet))
		return
	}
	m.dispatcher.ClearAlert(ctx, first, alertType)
}

func displayName(id domain.VehicleID) string {
	return strings.ToUpper(string(id))
}
