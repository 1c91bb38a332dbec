package domain

import "time"

const (
	// Alerting thresholds. Comparisons are strict: a value exactly at the
	// threshold does not trigger.
	DefaultSignalFloorDBm    = -70.0
	DefaultBatteryFloorPct   = 20.0
	DefaultProximityFeet     = 100.0
	DefaultZoneRadiusFeet    = 3281.0 // ~1000 m around a keep-out vertex
	DefaultDebounceWindow    = 3000 * time.Millisecond
	DefaultHeartbeatTimeout  = 10 * time.Second
	DefaultHeartbeatInterval = 1 * time.Second

	TopicTelemetryPrefix = "gcs/telemetry/"
	TopicZonesUpdate     = "gcs/zones/update"
	TopicState           = "gcs/state"
	TopicAlertEvents     = "gcs/alerts/events"
	TopicAlertDismiss    = "gcs/alerts/dismiss"
	TopicAlertDismissAll = "gcs/alerts/dismiss_all"

	MetricTelemetryTotal   = "gcs_telemetry_messages_total"
	MetricAlertsEmitted    = "gcs_alerts_emitted_total"
	MetricAlertsSuppressed = "gcs_alerts_suppressed_total"
	MetricAlertsCleared    = "gcs_alerts_cleared_total"
	MetricActiveAlerts     = "gcs_active_alerts"
	MetricVehicleConnected = "gcs_vehicle_connected"
	MetricBatteryLife      = "gcs_battery_life_percent"
	MetricSignalStrength   = "gcs_signal_strength_dbm"
	MetricServiceInfo      = "gcs_monitor_info"

	DefaultTimeout       = 30 * time.Second
	DefaultReadTimeout   = 15 * time.Second
	DefaultWriteTimeout  = 15 * time.Second
	DefaultIdleTimeout   = 60 * time.Second
	DefaultHeaderTimeout = 5 * time.Second

	DefaultHealthPath  = "/health"
	DefaultMetricsPath = "/metrics"
	DefaultAlertsPath  = "/alerts"
	DefaultStreamPath  = "/ws"

	DefaultListenAddr = "localhost:8100"
	DefaultMQTTHost   = "localhost"
	DefaultMQTTPort   = 1883

	DefaultMQTTKeepAlive    = 60 * time.Second
	DefaultMQTTPingTimeout  = 10 * time.Second
	DefaultMQTTConnTimeout  = 30 * time.Second
	DefaultMQTTReconnectInt = 30 * time.Second
	DefaultMQTTDisconnectMs = 250

	MaxPayloadSize  = 64 * 1024
	MaxTopicLength  = 256
	MinPolygonSize  = 3
	DBInsertTimeout = 5 * time.Second

	ShutdownTimeoutDivider = 3
)
