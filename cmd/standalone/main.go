package main

import (
	"flag"
	"time"

	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/config"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/standalone"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/version"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	appLogger := logger.ComponentLogger("standalone")

	configFile := flag.String("config", "config.yaml", "Configuration file path")
	flag.Parse()

	cfg, err := config.LoadUnifiedConfig(*configFile)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	app := standalone.NewApp(cfg)

	ver, commit, date := version.GetBuildInfo()
	appLogger.Info().
		Str("version", ver).
		Str("commit", commit).
		Str("build_date", date).
		Msg("starting gcs telemetry monitor (standalone)")
	if err := app.Run(); err != nil {
		appLogger.Fatal().Err(err).Msg("application error")
	}
}
