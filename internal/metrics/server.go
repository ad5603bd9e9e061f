package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Host    string `envconfig:"METRICS_HOST" default:"0.0.0.0"`
	Port    string `envconfig:"METRICS_PORT" default:"9090"`
}

// Server exposes /metrics on its own port
type Server struct {
	srv    *http.Server
	logger logrus.FieldLogger
}

// StartMetricsServer registers metrics for services and serves them in the
// background. It returns nil when metrics are disabled.
func StartMetricsServer(cfg Config, services []string, logger logrus.FieldLogger) *Server {
	if !cfg.Enabled {
		logger.Info("metrics server disabled")
		return nil
	}

	RegisterMetrics(prometheus.DefaultRegisterer, services, logger)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s := &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}

	go func() {
		logger.Infof("metrics server listening on %s", s.srv.Addr)
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("metrics server failed: %v", err)
		}
	}()

	return s
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
