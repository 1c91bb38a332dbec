package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/version"
)

// PrometheusCollector implements domain.MetricsCollector on a private
// registry, one instance per process.
type PrometheusCollector struct {
	registry *prometheus.Registry

	telemetryTotal   *prometheus.CounterVec
	alertsEmitted    *prometheus.CounterVec
	alertsSuppressed *prometheus.CounterVec
	alertsCleared    *prometheus.CounterVec
	activeAlerts     prometheus.Gauge
	vehicleConnected *prometheus.GaugeVec
	batteryLife      *prometheus.GaugeVec
	signalStrength   *prometheus.GaugeVec
	serviceInfo      *prometheus.GaugeVec
}

func NewPrometheusCollector(mode string) *PrometheusCollector {
	c := &PrometheusCollector{registry: prometheus.NewRegistry()}
	c.setupMetrics()
	c.serviceInfo.WithLabelValues(version.GetVersion(), mode).Set(1)
	return c
}

func (c *PrometheusCollector) setupMetrics() {
	c.telemetryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: domain.MetricTelemetryTotal, Help: "Accepted telemetry records"},
		[]string{"vehicle"})

	c.alertsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: domain.MetricAlertsEmitted, Help: "Alert notifications published"},
		[]string{"vehicle", "type", "severity"})

	c.alertsSuppressed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: domain.MetricAlertsSuppressed, Help: "Alert emits suppressed by debounce"},
		[]string{"vehicle", "type"})

	c.alertsCleared = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: domain.MetricAlertsCleared, Help: "Alerts cleared and dismissed"},
		[]string{"vehicle", "type"})

	c.activeAlerts = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: domain.MetricActiveAlerts, Help: "Currently active alerts"})

	c.vehicleConnected = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricVehicleConnected, Help: "Vehicle heartbeat state (1=connected)"},
		[]string{"vehicle"})

	c.batteryLife = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricBatteryLife, Help: "Battery life percent"},
		[]string{"vehicle"})

	c.signalStrength = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricSignalStrength, Help: "Signal strength dBm"},
		[]string{"vehicle"})

	c.serviceInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: domain.MetricServiceInfo, Help: "Service info"},
		[]string{"version", "mode"})

	c.registry.MustRegister(
		c.telemetryTotal,
		c.alertsEmitted,
		c.alertsSuppressed,
		c.alertsCleared,
		c.activeAlerts,
		c.vehicleConnected,
		c.batteryLife,
		c.signalStrength,
		c.serviceInfo,
	)
}

func (c *PrometheusCollector) CollectTelemetry(rec domain.TelemetryRecord) {
	vehicle := string(rec.VehicleID)
	c.telemetryTotal.WithLabelValues(vehicle).Inc()
	c.batteryLife.WithLabelValues(vehicle).Set(rec.BatteryLife)
	c.signalStrength.WithLabelValues(vehicle).Set(rec.SignalStrength)
}

func (c *PrometheusCollector) AlertEmitted(vehicle domain.VehicleID, alertType domain.AlertType, severity domain.Severity) {
	c.alertsEmitted.WithLabelValues(string(vehicle), string(alertType), string(severity)).Inc()
}

func (c *PrometheusCollector) AlertSuppressed(vehicle domain.VehicleID, alertType domain.AlertType) {
	c.alertsSuppressed.WithLabelValues(string(vehicle), string(alertType)).Inc()
}

func (c *PrometheusCollector) AlertCleared(vehicle domain.VehicleID, alertType domain.AlertType) {
	c.alertsCleared.WithLabelValues(string(vehicle), string(alertType)).Inc()
}

func (c *PrometheusCollector) SetActiveAlerts(n int) {
	c.activeAlerts.Set(float64(n))
}

func (c *PrometheusCollector) SetVehicleConnected(vehicle domain.VehicleID, connected bool) {
	v := 0.0
	if connected {
		v = 1.0
	}
	c.vehicleConnected.WithLabelValues(string(vehicle)).Set(v)
}

func (c *PrometheusCollector) GetRegistry() *prometheus.Registry {
	return c.registry
}
