package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/domain"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/logger"
	"github.com/ngcp-project/gcs-telemetry-monitor/pkg/middleware"
)

// AlertService is the slice of the monitor the HTTP surface needs.
type AlertService interface {
	ActiveAlerts() []domain.AlertKey
	ClearAllAlerts(ctx context.Context)
}

type UnifiedServerConfig struct {
	Addr         string
	EnableHealth bool
	AlertsPath   string
	StreamPath   string
}

type UnifiedServer struct {
	config    UnifiedServerConfig
	collector domain.MetricsCollector
	alerts    AlertService
	hub       *StreamHub
	server    *http.Server
	logger    zerolog.Logger
	mu        sync.RWMutex
}

type activeAlertItem struct {
	ID      string `json:"id"`
	Vehicle string `json:"vehicle"`
	Type    string `json:"type"`
}

func NewUnifiedServer(config UnifiedServerConfig, collector domain.MetricsCollector, alerts AlertService, hub *StreamHub) *UnifiedServer {
	if config.AlertsPath == "" {
		config.AlertsPath = domain.DefaultAlertsPath
	}
	if config.StreamPath == "" {
		config.StreamPath = domain.DefaultStreamPath
	}

	return &UnifiedServer{
		config:    config,
		collector: collector,
		alerts:    alerts,
		hub:       hub,
		logger:    logger.ComponentLogger("unified-server"),
	}
}

func (s *UnifiedServer) Start(ctx context.Context) error {
	mux := http.NewServeMux()

	if s.collector != nil {
		mux.Handle(domain.DefaultMetricsPath, promhttp.HandlerFor(s.collector.GetRegistry(), promhttp.HandlerOpts{}))
	}

	if s.config.EnableHealth {
		mux.HandleFunc(domain.DefaultHealthPath, s.healthHandler)
	}

	if s.alerts != nil {
		mux.HandleFunc(s.config.AlertsPath, s.alertsHandler)
	}

	handler := middleware.ChainMiddleware(
		middleware.RecoveryMiddleware(s.logger),
		middleware.TimeoutMiddleware(domain.DefaultTimeout),
	)(mux)

	// The websocket route stays outside the timeout handler: TimeoutHandler
	// does not support hijacking, which the upgrade needs.
	root := http.NewServeMux()
	if s.hub != nil {
		root.Handle(s.config.StreamPath, middleware.RecoveryMiddleware(s.logger)(s.hub.Handler()))
	}
	root.Handle("/", handler)

	server := &http.Server{
		Addr:              s.config.Addr,
		Handler:           root,
		ReadTimeout:       domain.DefaultReadTimeout,
		WriteTimeout:      domain.DefaultWriteTimeout,
		ReadHeaderTimeout: domain.DefaultHeaderTimeout,
		IdleTimeout:       domain.DefaultIdleTimeout,
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	go func() {
		s.logger.Info().Str("address", s.config.Addr).Msg("unified server starting")

		listener, err := net.Listen("tcp", s.config.Addr)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to create listener")
			return
		}

		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("unified server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), domain.DefaultTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("server shutdown error")
		}
	}()

	return nil
}

func (s *UnifiedServer) healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"service":"gcs-telemetry-monitor","status":"ok","timestamp":%d}`, time.Now().Unix())
}

// alertsHandler lists active alerts on GET and clears them all on DELETE.
func (s *UnifiedServer) alertsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		keys := s.alerts.ActiveAlerts()
		items := make([]activeAlertItem, 0, len(keys))
		for _, k := range keys {
			items = append(items, activeAlertItem{
				ID:      k.String(),
				Vehicle: string(k.Vehicle),
				Type:    string(k.Type),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(items); err != nil {
			s.logger.Error().Err(err).Msg("failed to encode alerts")
		}
	case http.MethodDelete:
		s.alerts.ClearAllAlerts(r.Context())
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *UnifiedServer) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	server := s.server
	s.mu.RUnlock()

	if server != nil {
		return server.Shutdown(ctx)
	}
	return nil
}
