package infrastructure

import (
	"context"
)

// HTTPServer is a convenience wrapper with health enabled and default paths.
type HTTPServer struct {
	unified *UnifiedServer
}

func NewHTTPServer(addr string, collector *PrometheusCollector, alerts AlertService, hub *StreamHub) *HTTPServer {
	config := UnifiedServerConfig{
		Addr:         addr,
		EnableHealth: true,
	}

	return &HTTPServer{
		unified: NewUnifiedServer(config, collector, alerts, hub),
	}
}

func (s *HTTPServer) Start(ctx context.Context) error {
	return s.unified.Start(ctx)
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.unified.Shutdown(ctx)
}
