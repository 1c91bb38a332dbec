package hooks

import (
	"context"
	"strings"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/packets"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/application"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	apperrors "github.com/ngcp-project/gcs-telemetry-monitor/pkg/errors"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/factory"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/infrastructure"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

type TelemetryHookConfig struct {
	ServerAddr   string
	EnableHealth bool
}

// TelemetryHook intercepts publishes on the embedded broker and runs them
// through the monitoring pipeline. It also owns the HTTP surface and the
// heartbeat sweep loop for embedded mode.
type TelemetryHook struct {
	mqtt.HookBase

	processor *application.TelemetryProcessor
	factory   *factory.Factory

	config  TelemetryHookConfig
	logger  zerolog.Logger
	server  *infrastructure.UnifiedServer
	cancel  context.CancelFunc
	stopped bool
}

// NewTelemetryHook wires the hook against the given broker so alert events
// and state snapshots go back out through it.
func NewTelemetryHook(cfg TelemetryHookConfig, f *factory.Factory, mqttServer *mqtt.Server) *TelemetryHook {
	if f == nil {
		return nil
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = domain.DefaultListenAddr
	}

	notifier := infrastructure.NewMQTTNotifier(mqttServer)
	processor := f.CreateMessageProcessor(notifier, notifier)

	return &TelemetryHook{
		processor: processor,
		factory:   f,
		config:    cfg,
		logger:    logger.ComponentLogger("telemetry-hook"),
	}
}

func (h *TelemetryHook) ID() string {
	return "gcs-telemetry"
}

func (h *TelemetryHook) Provides(b byte) bool {
	return b == mqtt.OnPublish || b == mqtt.OnConnect || b == mqtt.OnDisconnect || b == mqtt.OnStopped
}

func (h *TelemetryHook) Init(_ any) error {
	if h.config.ServerAddr != "" {
		h.startUnifiedServer()
	}
	h.startHeartbeatLoop()
	return nil
}

func (h *TelemetryHook) OnConnect(cl *mqtt.Client, pk packets.Packet) error {
	h.logger.Debug().
		Str("client_id", cl.ID).
		Str("remote_addr", cl.Net.Remote).
		Uint8("packet_type", pk.FixedHeader.Type).
		Msg("client connected")
	return nil
}

func (h *TelemetryHook) OnDisconnect(cl *mqtt.Client, err error, expire bool) {
	logEvent := h.logger.Debug().
		Str("client_id", cl.ID).
		Str("remote_addr", cl.Net.Remote).
		Bool("expire", expire)

	if err != nil {
		logEvent = logEvent.Err(err)
	}

	logEvent.Msg("client disconnected")
}

func (h *TelemetryHook) OnPublish(_ *mqtt.Client, pk packets.Packet) (packets.Packet, error) {
	if !h.matchesTopic(pk.TopicName) {
		return pk, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout)
	defer cancel()

	if err := h.processor.ProcessMessage(ctx, pk.TopicName, pk.Payload); err != nil {
		appErr := apperrors.NewProcessingError("message processing failed", err)
		h.logger.Error().Err(appErr).Str("topic", pk.TopicName).Msg("message processing failed")
	}

	return pk, nil
}

func (h *TelemetryHook) matchesTopic(topic string) bool {
	return strings.HasPrefix(topic, domain.TopicTelemetryPrefix) || topic == domain.TopicZonesUpdate
}

func (h *TelemetryHook) startUnifiedServer() {
	h.server = h.factory.CreateUnifiedServerAt(h.config.ServerAddr, h.config.EnableHealth)
	if err := h.server.Start(context.Background()); err != nil {
		h.logger.Error().Err(err).Msg("failed to start unified server")
	}
}

func (h *TelemetryHook) startHeartbeatLoop() {
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	tracker := h.factory.CreateHeartbeatTracker()
	go tracker.Run(ctx, h.processor.OnHeartbeatTimeout)
}

func (h *TelemetryHook) OnStopped() {
	if h.stopped {
		return
	}
	h.stopped = true

	if h.cancel != nil {
		h.cancel()
	}

	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			h.logger.Error().Err(err).Msg("unified server shutdown error")
		}
	}
}
