package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/platform"
)

type Config struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Broadcaster submits signed transactions; *gateway.Client implements it.
type Broadcaster interface {
	BroadcastTransaction(ctx context.Context, chain, signedTx string) (json.RawMessage, error)
}

// Server exposes the platform registry over HTTP.
type Server struct {
	cfg         Config
	registry    *platform.Registry
	broadcaster Broadcaster
	echo        *echo.Echo
	logger      logrus.FieldLogger
}

// NewServer builds the HTTP service. broadcaster may be nil, in which case
// signed transactions can only be returned, not broadcast.
func NewServer(
	cfg Config,
	registry *platform.Registry,
	broadcaster Broadcaster,
	middlewares []echo.MiddlewareFunc,
	logger logrus.FieldLogger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middlewares...)

	s := &Server{
		cfg:         cfg,
		registry:    registry,
		broadcaster: broadcaster,
		echo:        e,
		logger:      logger.WithField("component", "api"),
	}
	s.routes()

	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.health)

	v1 := s.echo.Group("/v1")
	v1.GET("/chains", s.chains)
	v1.POST("/:chain/plan", s.buildPlan)
	v1.POST("/:chain/sign", s.sign)
	v1.POST("/:chain/send", s.send)
	v1.GET("/:chain/balance/:address", s.balance)
	v1.GET("/:chain/address/:address/valid", s.checkAddress)
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("api server listening on %s", addr)
		err := s.echo.Start(addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := s.echo.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("failed to shutdown api server: %w", err)
	}
	s.logger.Info("api server stopped")
	return nil
}
