package factory

import (
	"context"
	"time"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/alerting"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/application"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/geo"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/heartbeat"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/infrastructure"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/state"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/storage"
)

// Factory wires the monitoring pipeline. Shared pieces are created once and
// reused so the hook, the HTTP surface and the heartbeat loop all observe the
// same state.
type Factory struct {
	config domain.Config

	collector  domain.MetricsCollector
	hub        *infrastructure.StreamHub
	states     *state.Store
	zones      *geo.ZoneStore
	heartbeats *heartbeat.Tracker
	monitor    *alerting.Monitor
	processor  *application.TelemetryProcessor
	history    domain.HistoryStore
}

func NewFactory(config domain.Config) *Factory {
	return &Factory{config: config}
}

// NewDefaultFactory creates factory with empty config for tests.
func NewDefaultFactory() *Factory {
	return &Factory{config: nil}
}

func (f *Factory) CreateMetricsCollector() domain.MetricsCollector {
	return f.CreateMetricsCollectorWithMode("embedded")
}

func (f *Factory) CreateMetricsCollectorWithMode(mode string) domain.MetricsCollector {
	if f.collector == nil {
		f.collector = infrastructure.NewPrometheusCollector(mode)
	}
	return f.collector
}

func (f *Factory) CreateStreamHub() *infrastructure.StreamHub {
	if f.hub == nil {
		f.hub = infrastructure.NewStreamHub()
	}
	return f.hub
}

func (f *Factory) CreateStateStore() *state.Store {
	if f.states == nil {
		f.states = state.NewStore()
	}
	return f.states
}

func (f *Factory) CreateZoneStore() *geo.ZoneStore {
	if f.zones == nil {
		f.zones = geo.NewZoneStore()
	}
	return f.zones
}

func (f *Factory) CreateHeartbeatTracker() *heartbeat.Tracker {
	if f.heartbeats == nil {
		timeout := domain.DefaultHeartbeatTimeout
		interval := domain.DefaultHeartbeatInterval
		if f.config != nil {
			monitorConfig := f.config.GetMonitorConfig()
			timeout = monitorConfig.GetHeartbeatTimeout()
			interval = monitorConfig.GetHeartbeatInterval()
		}
		f.heartbeats = heartbeat.NewTracker(timeout, interval, time.Now)
	}
	return f.heartbeats
}

// CreateMonitor builds the alert monitor on top of the given transport
// notifier, fanned out together with the websocket hub.
func (f *Factory) CreateMonitor(notifier domain.Notifier) *alerting.Monitor {
	if f.monitor == nil {
		opts := alerting.Options{}
		if f.config != nil {
			monitorConfig := f.config.GetMonitorConfig()
			opts.SignalFloor = monitorConfig.GetSignalFloor()
			opts.BatteryFloor = monitorConfig.GetBatteryFloor()
			opts.ProximityFeet = monitorConfig.GetProximityFeet()
			opts.DebounceWindow = monitorConfig.GetDebounceWindow()
		}

		fanout := infrastructure.NewFanoutNotifier(notifier, f.CreateStreamHub())
		f.monitor = alerting.NewMonitor(fanout, f.CreateMetricsCollector(), opts)
	}
	return f.monitor
}

// CreateMessageProcessor assembles the processing pipeline. The notifier
// carries alert events, the publisher carries state snapshots.
func (f *Factory) CreateMessageProcessor(notifier domain.Notifier, publisher domain.StatePublisher) *application.TelemetryProcessor {
	if f.processor == nil {
		signalFloor := 0.0
		zoneRadiusFeet := 0.0
		if f.config != nil {
			monitorConfig := f.config.GetMonitorConfig()
			signalFloor = monitorConfig.GetSignalFloor()
			zoneRadiusFeet = monitorConfig.GetZoneRadiusFeet()
		}

		deps := application.ProcessorDeps{
			States:     f.CreateStateStore(),
			Zones:      f.CreateZoneStore(),
			Heartbeats: f.CreateHeartbeatTracker(),
			Monitor:    f.CreateMonitor(notifier),
			Metrics:    f.CreateMetricsCollector(),
			History:    f.history,
			Publisher:  infrastructure.NewFanoutStatePublisher(publisher, f.CreateStreamHub()),
		}

		f.processor = application.NewTelemetryProcessor(deps, signalFloor, zoneRadiusFeet)
	}
	return f.processor
}

// CreateHistoryStore connects the optional Postgres store and reloads
// persisted keep-out zones. Must run before CreateMessageProcessor.
func (f *Factory) CreateHistoryStore(ctx context.Context) (domain.HistoryStore, error) {
	if f.config == nil {
		return nil, nil
	}
	storageConfig := f.config.GetStorageConfig()
	if !storageConfig.GetEnabled() {
		return nil, nil
	}

	store, err := storage.NewPostgresStore(ctx, storageConfig.GetDSN())
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}

	if zones, err := store.LoadZones(ctx); err == nil && len(zones) > 0 {
		f.CreateZoneStore().Replace(zones)
	}

	f.history = store
	return store, nil
}

func (f *Factory) CreateMQTTClient(processor domain.MessageProcessor) *infrastructure.MQTTClient {
	return infrastructure.NewMQTTClient(f.config.GetMQTTConfig(), processor)
}

func (f *Factory) CreateUnifiedServer() *infrastructure.UnifiedServer {
	addr := domain.DefaultListenAddr
	enableHealth := true
	if f.config != nil {
		serverConfig := f.config.GetServerConfig()
		addr = serverConfig.GetListen()
		enableHealth = serverConfig.GetEnableHealth()
	}
	return f.CreateUnifiedServerAt(addr, enableHealth)
}

func (f *Factory) CreateUnifiedServerAt(addr string, enableHealth bool) *infrastructure.UnifiedServer {
	serverConfig := infrastructure.UnifiedServerConfig{
		Addr:         addr,
		EnableHealth: enableHealth,
	}

	var alerts infrastructure.AlertService
	if f.monitor != nil {
		alerts = f.monitor
	}
	return infrastructure.NewUnifiedServer(serverConfig, f.CreateMetricsCollector(), alerts, f.CreateStreamHub())
}

func (f *Factory) GetMonitorConfig() domain.MonitorConfig {
	if f.config == nil {
		return nil
	}
	return f.config.GetMonitorConfig()
}

func (f *Factory) GetServerConfig() domain.ServerConfig {
	if f.config == nil {
		return nil
	}
	return f.config.GetServerConfig()
}

func (f *Factory) GetMQTTConfig() domain.MQTTConfig {
	if f.config == nil {
		return nil
	}
	return f.config.GetMQTTConfig()
}
