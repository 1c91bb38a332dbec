package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/adapters"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/errors"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

type UnifiedConfig struct {
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`

	MQTT struct {
		Host           string `yaml:"host"`
		Port           int    `yaml:"port"`
		TLS            bool   `yaml:"tls"`
		AllowAnonymous bool   `yaml:"allow_anonymous"`
		Username       string `yaml:"username"`
		Password       string `yaml:"password"`
		Users          []struct {
			Username string `yaml:"username"`
			Password string `yaml:"password"`
		} `yaml:"users"`
	} `yaml:"mqtt"`

	Monitor struct {
		SignalFloorDBm    float64 `yaml:"signal_floor_dbm"`
		BatteryFloorPct   float64 `yaml:"battery_floor_pct"`
		ProximityFeet     float64 `yaml:"proximity_feet"`
		ZoneRadiusFeet    float64 `yaml:"zone_radius_feet"`
		DebounceWindow    string  `yaml:"debounce_window"`
		HeartbeatTimeout  string  `yaml:"heartbeat_timeout"`
		HeartbeatInterval string  `yaml:"heartbeat_interval"`
	} `yaml:"monitor"`

	Server struct {
		Listen       string `yaml:"listen"`
		MetricsPath  string `yaml:"metrics_path"`
		EnableHealth bool   `yaml:"enable_health"`
	} `yaml:"server"`

	Storage struct {
		Enabled bool   `yaml:"enabled"`
		DSN     string `yaml:"dsn"`
	} `yaml:"storage"`
}

// LoadUnifiedConfig reads the yaml file, applies environment overrides and
// returns the validated adapter. A missing file falls back to defaults so the
// monitor can start with nothing but environment variables.
func LoadUnifiedConfig(filename string) (domain.Config, error) {
	_ = godotenv.Load()

	config := &UnifiedConfig{}
	setDefaults(config)

	if data, err := os.ReadFile(filename); err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.NewConfigError("failed to parse yaml", err)
		}
	}

	applyEnvOverrides(config)

	return convertToAdapter(config)
}

func setDefaults(config *UnifiedConfig) {
	config.Logging.Level = "info"
	config.MQTT.Host = domain.DefaultMQTTHost
	config.MQTT.Port = domain.DefaultMQTTPort
	config.MQTT.AllowAnonymous = true
	config.Monitor.SignalFloorDBm = domain.DefaultSignalFloorDBm
	config.Monitor.BatteryFloorPct = domain.DefaultBatteryFloorPct
	config.Monitor.ProximityFeet = domain.DefaultProximityFeet
	config.Monitor.ZoneRadiusFeet = domain.DefaultZoneRadiusFeet
	config.Monitor.DebounceWindow = domain.DefaultDebounceWindow.String()
	config.Monitor.HeartbeatTimeout = domain.DefaultHeartbeatTimeout.String()
	config.Monitor.HeartbeatInterval = domain.DefaultHeartbeatInterval.String()
	config.Server.Listen = domain.DefaultListenAddr
	config.Server.MetricsPath = domain.DefaultMetricsPath
	config.Server.EnableHealth = true
}

func applyEnvOverrides(config *UnifiedConfig) {
	if v := os.Getenv("GCS_MQTT_HOST"); v != "" {
		config.MQTT.Host = v
	}
	if v := os.Getenv("GCS_MQTT_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.MQTT.Port = port
		}
	}
	if v := os.Getenv("GCS_MQTT_USERNAME"); v != "" {
		config.MQTT.Username = v
	}
	if v := os.Getenv("GCS_MQTT_PASSWORD"); v != "" {
		config.MQTT.Password = v
	}
	if v := os.Getenv("GCS_SERVER_LISTEN"); v != "" {
		config.Server.Listen = v
	}
	if v := os.Getenv("GCS_DB_DSN"); v != "" {
		config.Storage.Enabled = true
		config.Storage.DSN = v
	}
	if v := os.Getenv("GCS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func convertToAdapter(config *UnifiedConfig) (domain.Config, error) {
	logger.SetLogLevel(config.Logging.Level)

	var users []adapters.UserAuthAdapter
	for _, u := range config.MQTT.Users {
		users = append(users, adapters.UserAuthAdapter{
			Username: u.Username,
			Password: u.Password,
		})
	}

	if config.MQTT.Username != "" {
		users = append(users, adapters.UserAuthAdapter{
			Username: config.MQTT.Username,
			Password: config.MQTT.Password,
		})
	}

	mqttConfig := adapters.MQTTConfigAdapter{
		Host:           config.MQTT.Host,
		Port:           config.MQTT.Port,
		TLS:            config.MQTT.TLS,
		AllowAnonymous: config.MQTT.AllowAnonymous,
		Users:          users,
		KeepAlive:      domain.DefaultMQTTKeepAlive,
	}

	monitorConfig := adapters.MonitorConfigAdapter{
		SignalFloor:       config.Monitor.SignalFloorDBm,
		BatteryFloor:      config.Monitor.BatteryFloorPct,
		ProximityFeet:     config.Monitor.ProximityFeet,
		ZoneRadiusFeet:    config.Monitor.ZoneRadiusFeet,
		DebounceWindow:    parseDurationOr(config.Monitor.DebounceWindow, domain.DefaultDebounceWindow),
		HeartbeatTimeout:  parseDurationOr(config.Monitor.HeartbeatTimeout, domain.DefaultHeartbeatTimeout),
		HeartbeatInterval: parseDurationOr(config.Monitor.HeartbeatInterval, domain.DefaultHeartbeatInterval),
	}

	serverConfig := adapters.ServerConfigAdapter{
		Listen:       config.Server.Listen,
		MetricsPath:  config.Server.MetricsPath,
		EnableHealth: config.Server.EnableHealth,
	}

	storageConfig := adapters.StorageConfigAdapter{
		Enabled: config.Storage.Enabled,
		DSN:     config.Storage.DSN,
	}

	adapter := adapters.NewConfigAdapter(mqttConfig, monitorConfig, serverConfig, storageConfig)
	if err := adapter.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}

	return adapter, nil
}
