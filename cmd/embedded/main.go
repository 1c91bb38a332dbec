package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mqtt "github.com/mochi-mqtt/server/v2"
	"github.com/mochi-mqtt/server/v2/hooks/auth"
	"github.com/mochi-mqtt/server/v2/listeners"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/config"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/factory"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/hooks"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339

	appLogger := logger.ComponentLogger("embedded")

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg, err := config.LoadUnifiedConfig(*configFile)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	server := mqtt.New(&mqtt.Options{
		InlineClient: false,
	})

	f := factory.NewFactory(cfg)
	f.CreateMetricsCollectorWithMode("embedded")

	if _, err := f.CreateHistoryStore(context.Background()); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to connect history store")
	}

	serverCfg := cfg.GetServerConfig()
	hook := hooks.NewTelemetryHook(hooks.TelemetryHookConfig{
		ServerAddr:   serverCfg.GetListen(),
		EnableHealth: serverCfg.GetEnableHealth(),
	}, f, server)
	if err := server.AddHook(hook, nil); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to add telemetry hook")
	}

	mqttCfg := cfg.GetMQTTConfig()
	if !mqttCfg.GetAllowAnonymous() {
		var authRules auth.AuthRules
		for _, user := range mqttCfg.GetUsers() {
			authRules = append(authRules, auth.AuthRule{
				Username: auth.RString(user.GetUsername()),
				Password: auth.RString(user.GetPassword()),
				Allow:    true,
			})
		}
		if len(authRules) > 0 {
			err := server.AddHook(new(auth.AllowHook), &auth.Options{
				Ledger: &auth.Ledger{Auth: authRules},
			})
			if err != nil {
				appLogger.Fatal().Err(err).Msg("failed to add auth")
			}
		}
	} else {
		err := server.AddHook(new(auth.AllowHook), &auth.Options{
			Ledger: &auth.Ledger{
				Auth: auth.AuthRules{{
					Allow: true,
				}},
			},
		})
		if err != nil {
			appLogger.Fatal().Err(err).Msg("failed to add anonymous auth")
		}
	}

	var addr string
	if mqttCfg.GetHost() == "::" {
		addr = "[::]:" + strconv.Itoa(mqttCfg.GetPort())
	} else {
		addr = mqttCfg.GetHost() + ":" + strconv.Itoa(mqttCfg.GetPort())
	}
	tcp := listeners.NewTCP(listeners.Config{ID: "tcp", Address: addr})
	if err := server.AddListener(tcp); err != nil {
		appLogger.Fatal().Err(err).Msg("failed to add listener")
	}

	go func() {
		if err := server.Serve(); err != nil {
			appLogger.Error().Err(err).Msg("mqtt server error")
		}
	}()

	ver, commit, date := version.GetBuildInfo()
	appLogger.Info().
		Str("version", ver).
		Str("commit", commit).
		Str("build_date", date).
		Str("address", addr).
		Msg("mqtt broker started")
	appLogger.Info().Str("listen", serverCfg.GetListen()).Msg("metrics and alert api available")

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	appLogger.Info().Msg("shutting down")
	_ = server.Close()
}
