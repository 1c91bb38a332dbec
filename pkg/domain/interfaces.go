package domain

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Notifier is the outbound alert channel. Publishes are fire-and-forget from
// the monitoring core's point of view: a failed publish is logged by the
// implementation and never retried here.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
	Dismiss(ctx context.Context, id string) error
	DismissAll(ctx context.Context) error
}

// MetricsCollector records operational metrics for the monitor.
type MetricsCollector interface {
	CollectTelemetry(rec TelemetryRecord)
	AlertEmitted(vehicle VehicleID, alertType AlertType, severity Severity)
	AlertSuppressed(vehicle VehicleID, alertType AlertType)
	AlertCleared(vehicle VehicleID, alertType AlertType)
	SetActiveAlerts(n int)
	SetVehicleConnected(vehicle VehicleID, connected bool)
	GetRegistry() *prometheus.Registry
}

type MessageProcessor interface {
	ProcessMessage(ctx context.Context, topic string, payload []byte) error
}

// StatePublisher republishes the live snapshot after each accepted update so
// display collaborators can render current vehicle state.
type StatePublisher interface {
	PublishState(ctx context.Context, snap *TelemetrySnapshot) error
}

// HistoryStore persists accepted telemetry and keep-out zones. Optional: a
// nil store disables history without affecting alerting.
type HistoryStore interface {
	InsertTelemetry(ctx context.Context, rec TelemetryRecord) error
	ReplaceZones(ctx context.Context, zones []ZonePolygon) error
	LoadZones(ctx context.Context) ([]ZonePolygon, error)
	Close()
}

type Config interface {
	GetMQTTConfig() MQTTConfig
	GetMonitorConfig() MonitorConfig
	GetServerConfig() ServerConfig
	GetStorageConfig() StorageConfig
	Validate() error
}

type MQTTConfig interface {
	GetHost() string
	GetPort() int
	GetTLS() bool
	GetUsers() []UserAuth
	GetKeepAlive() time.Duration
	GetAllowAnonymous() bool
}

type MonitorConfig interface {
	GetSignalFloor() float64
	GetBatteryFloor() float64
	GetProximityFeet() float64
	GetZoneRadiusFeet() float64
	GetDebounceWindow() time.Duration
	GetHeartbeatTimeout() time.Duration
	GetHeartbeatInterval() time.Duration
}

type ServerConfig interface {
	GetListen() string
	GetMetricsPath() string
	GetEnableHealth() bool
}

type StorageConfig interface {
	GetEnabled() bool
	GetDSN() string
}

type UserAuth interface {
	GetUsername() string
	GetPassword() string
}
