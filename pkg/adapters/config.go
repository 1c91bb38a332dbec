package adapters

import (
	"fmt"
	"time"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
)

type ConfigAdapter struct {
	mqtt    MQTTConfigAdapter
	monitor MonitorConfigAdapter
	server  ServerConfigAdapter
	storage StorageConfigAdapter
}

type MQTTConfigAdapter struct {
	Host           string
	Port           int
	TLS            bool
	AllowAnonymous bool
	Users          []UserAuthAdapter
	KeepAlive      time.Duration
}

type UserAuthAdapter struct {
	Username string
	Password string
}

type MonitorConfigAdapter struct {
	SignalFloor       float64
	BatteryFloor      float64
	ProximityFeet     float64
	ZoneRadiusFeet    float64
	DebounceWindow    time.Duration
	HeartbeatTimeout  time.Duration
	HeartbeatInterval time.Duration
}

type ServerConfigAdapter struct {
	Listen       string
	MetricsPath  string
	EnableHealth bool
}

type StorageConfigAdapter struct {
	Enabled bool
	DSN     string
}

func NewConfigAdapter(mqtt MQTTConfigAdapter, monitor MonitorConfigAdapter, server ServerConfigAdapter, storage StorageConfigAdapter) *ConfigAdapter {
	return &ConfigAdapter{
		mqtt:    mqtt,
		monitor: monitor,
		server:  server,
		storage: storage,
	}
}

func (c *ConfigAdapter) GetMQTTConfig() domain.MQTTConfig       { return &c.mqtt }
func (c *ConfigAdapter) GetMonitorConfig() domain.MonitorConfig { return &c.monitor }
func (c *ConfigAdapter) GetServerConfig() domain.ServerConfig   { return &c.server }
func (c *ConfigAdapter) GetStorageConfig() domain.StorageConfig { return &c.storage }

func (c *ConfigAdapter) Validate() error {
	if c.mqtt.Host == "" {
		return fmt.Errorf("MQTT host cannot be empty")
	}
	if c.mqtt.Port <= 0 || c.mqtt.Port > 65535 {
		return fmt.Errorf("invalid MQTT port: %d", c.mqtt.Port)
	}
	if c.server.Listen == "" {
		return fmt.Errorf("server listen address cannot be empty")
	}
	if c.monitor.DebounceWindow < 0 {
		return fmt.Errorf("debounce window cannot be negative")
	}
	if c.storage.Enabled && c.storage.DSN == "" {
		return fmt.Errorf("storage enabled but dsn is empty")
	}
	return nil
}

func (m *MQTTConfigAdapter) GetHost() string             { return m.Host }
func (m *MQTTConfigAdapter) GetPort() int                { return m.Port }
func (m *MQTTConfigAdapter) GetTLS() bool                { return m.TLS }
func (m *MQTTConfigAdapter) GetAllowAnonymous() bool     { return m.AllowAnonymous }
func (m *MQTTConfigAdapter) GetKeepAlive() time.Duration { return m.KeepAlive }

func (m *MQTTConfigAdapter) GetUsers() []domain.UserAuth {
	users := make([]domain.UserAuth, len(m.Users))
	for i, u := range m.Users {
		u := u
		users[i] = &u
	}
	return users
}

func (u *UserAuthAdapter) GetUsername() string { return u.Username }
func (u *UserAuthAdapter) GetPassword() string { return u.Password }

func (m *MonitorConfigAdapter) GetSignalFloor() float64            { return m.SignalFloor }
func (m *MonitorConfigAdapter) GetBatteryFloor() float64           { return m.BatteryFloor }
func (m *MonitorConfigAdapter) GetProximityFeet() float64          { return m.ProximityFeet }
func (m *MonitorConfigAdapter) GetZoneRadiusFeet() float64         { return m.ZoneRadiusFeet }
func (m *MonitorConfigAdapter) GetDebounceWindow() time.Duration   { return m.DebounceWindow }
func (m *MonitorConfigAdapter) GetHeartbeatTimeout() time.Duration { return m.HeartbeatTimeout }
func (m *MonitorConfigAdapter) GetHeartbeatInterval() time.Duration {
	return m.HeartbeatInterval
}

func (s *ServerConfigAdapter) GetListen() string      { return s.Listen }
func (s *ServerConfigAdapter) GetMetricsPath() string { return s.MetricsPath }
func (s *ServerConfigAdapter) GetEnableHealth() bool  { return s.EnableHealth }

func (s *StorageConfigAdapter) GetEnabled() bool { return s.Enabled }
func (s *StorageConfigAdapter) GetDSN() string   { return s.DSN }
