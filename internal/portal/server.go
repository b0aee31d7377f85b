package portal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/gray-logic-node/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-node/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-node/internal/params"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// HTTP server timeouts. The portal serves a single small form on the
// local network; generous values are unnecessary.
const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 60 * time.Second
)

// Deps holds the dependencies required by the portal server.
type Deps struct {
	Config   config.PortalConfig
	Logger   *logging.Logger
	Store    *params.Store
	DeviceID string
	Version  string
}

// Server is the provisioning portal: a small HTTP server that renders
// the registered parameters as a form and writes submitted values back
// through the parameter store's batched sync.
//
// It follows the same lifecycle as the other components: created with
// New, started with Start, stopped with Close.
type Server struct {
	cfg      config.PortalConfig
	logger   *logging.Logger
	store    *params.Store
	deviceID string
	version  string
	server   *http.Server
}

// New creates a portal server with the given dependencies.
// The server does not listen until Start is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("parameter store is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		store:    deps.Store,
		deviceID: deps.DeviceID,
		version:  deps.Version,
	}, nil
}

// Start launches the HTTP listener in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	go func() {
		s.logger.Info("provisioning portal listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("portal server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the portal, waiting for in-flight
// requests up to the shutdown timeout.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("provisioning portal shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down portal: %w", err)
	}
	return nil
}

// HealthCheck verifies the portal has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("portal health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("portal server not started")
	}
	return nil
}
