package infrastructure

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

func TestPrometheusCollector_CollectTelemetry(t *testing.T) {
	collector := NewPrometheusCollector("standalone")

	rec := domain.TelemetryRecord{
		VehicleID:      domain.VehicleERU,
		SignalStrength: -55.5,
		BatteryLife:    85.0,
		VehicleStatus:  domain.StatusConnected,
		Timestamp:      time.Now(),
	}

	collector.CollectTelemetry(rec)
	collector.CollectTelemetry(rec)

	count := testutil.ToFloat64(collector.telemetryTotal.WithLabelValues("eru"))
	assert.Equal(t, 2.0, count)

	battery := testutil.ToFloat64(collector.batteryLife.WithLabelValues("eru"))
	assert.Equal(t, 85.0, battery)

	signal := testutil.ToFloat64(collector.signalStrength.WithLabelValues("eru"))
	assert.Equal(t, -55.5, signal)
}

func TestPrometheusCollector_AlertCounters(t *testing.T) {
	collector := NewPrometheusCollector("standalone")

	collector.AlertEmitted(domain.VehicleMEA, domain.AlertSignalStrength, domain.SeverityWarning)
	collector.AlertSuppressed(domain.VehicleMEA, domain.AlertSignalStrength)
	collector.AlertCleared(domain.VehicleMEA, domain.AlertSignalStrength)

	emitted := testutil.ToFloat64(collector.alertsEmitted.WithLabelValues("mea", "signal_strength", "warning"))
	assert.Equal(t, 1.0, emitted)

	suppressed := testutil.ToFloat64(collector.alertsSuppressed.WithLabelValues("mea", "signal_strength"))
	assert.Equal(t, 1.0, suppressed)

	cleared := testutil.ToFloat64(collector.alertsCleared.WithLabelValues("mea", "signal_strength"))
	assert.Equal(t, 1.0, cleared)
}

func TestPrometheusCollector_Gauges(t *testing.T) {
	collector := NewPrometheusCollector("standalone")

	collector.SetActiveAlerts(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.activeAlerts))

	collector.SetVehicleConnected(domain.VehicleMRA, true)
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.vehicleConnected.WithLabelValues("mra")))

	collector.SetVehicleConnected(domain.VehicleMRA, false)
	assert.Equal(t, 0.0, testutil.ToFloat64(collector.vehicleConnected.WithLabelValues("mra")))
}

func TestPrometheusCollector_GetRegistry(t *testing.T) {
	collector := NewPrometheusCollector("embedded")

	registry := collector.GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}
