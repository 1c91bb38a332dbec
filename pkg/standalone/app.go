package standalone

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/application"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/errors"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/factory"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/infrastructure"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
)

// App runs the monitor against an external MQTT broker.
type App struct {
	config     domain.Config
	factory    *factory.Factory
	processor  *application.TelemetryProcessor
	mqttClient *infrastructure.MQTTClient
	httpServer *infrastructure.UnifiedServer
	history    domain.HistoryStore
	logger     zerolog.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewApp(config domain.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())

	return &App{
		config:  config,
		factory: factory.NewFactory(config),
		logger:  logger.ComponentLogger("standalone-app"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (a *App) Run() error {
	if err := a.config.Validate(); err != nil {
		return errors.NewConfigError("invalid configuration", err)
	}

	a.factory.CreateMetricsCollectorWithMode("standalone")

	history, err := a.factory.CreateHistoryStore(a.ctx)
	if err != nil {
		return errors.NewStorageError("failed to connect history store", err)
	}
	a.history = history

	// The subscriber and the outbound notifier share one broker connection.
	mqttConfig := a.config.GetMQTTConfig()
	a.mqttClient = infrastructure.NewMQTTClient(mqttConfig, nil)

	notifier := infrastructure.NewStandaloneMQTTNotifier(a.mqttClient)
	a.processor = a.factory.CreateMessageProcessor(notifier, notifier)
	a.mqttClient.SetProcessor(a.processor)

	if err := a.mqttClient.Connect(); err != nil {
		return errors.NewNetworkError("failed to connect to mqtt", err)
	}

	tracker := a.factory.CreateHeartbeatTracker()
	go tracker.Run(a.ctx, a.processor.OnHeartbeatTimeout)

	a.httpServer = a.factory.CreateUnifiedServer()
	if err := a.httpServer.Start(a.ctx); err != nil {
		return errors.NewNetworkError("failed to start http server", err)
	}

	a.logger.Info().Str("address", a.config.GetServerConfig().GetListen()).Msg("http server started")
	a.logger.Info().Msg("standalone monitor started")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	return a.Shutdown()
}

func (a *App) Shutdown() error {
	a.logger.Info().Msg("shutting down")

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout/domain.ShutdownTimeoutDivider)
	defer cancel()

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			a.logger.Error().Err(err).Msg("http server shutdown error")
		}
	}

	if a.mqttClient != nil {
		a.mqttClient.Disconnect()
	}

	if a.history != nil {
		a.history.Close()
	}

	a.logger.Info().Msg("shutdown completed")
	return nil
}
