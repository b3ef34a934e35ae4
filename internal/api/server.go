package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	mw "github.com/rcrdcsnv/LifelistTracker-sub001/internal/api/middleware"
	v1 "github.com/rcrdcsnv/LifelistTracker-sub001/internal/api/v1"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/buildinfo"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/catalog"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/datastore"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/logger"
	"github.com/rcrdcsnv/LifelistTracker-sub001/internal/observability"
)

// Server is the HTTP server. It serves the v1 API, /health and, when metrics are enabled,
// /metrics.
type Server struct {
	echo    *echo.Echo
	config  *Config
	catalog *catalog.Catalog
	metrics *observability.Metrics
	build   *buildinfo.Context
	log     logger.Logger

	apiController *v1.Controller
	startTime     time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(log logger.Logger) ServerOption {
	return func(s *Server) {
		s.log = log
	}
}

// WithConfig overrides the configuration derived from the catalog settings.
func WithConfig(cfg *Config) ServerOption {
	return func(s *Server) {
		s.config = cfg
	}
}

// WithBuildInfo sets the version metadata reported by /health.
func WithBuildInfo(b *buildinfo.Context) ServerOption {
	return func(s *Server) {
		s.build = b
	}
}

// New creates a server over an opened catalog. Metrics are taken from the catalog.
func New(cat *catalog.Catalog, opts ...ServerOption) (*Server, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	s := &Server{
		config:    ConfigFromSettings(cat.Settings),
		catalog:   cat,
		metrics:   cat.Metrics,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	s.log = logger.OrDiscard(s.log).Module("http")

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Server.ReadTimeout = s.config.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.WriteTimeout
	s.echo.Server.IdleTimeout = s.config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	s.log.Info("HTTP server initialized",
		logger.String("address", s.config.Listen),
		logger.Bool("metrics", s.metrics != nil))
	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	// Recovery middleware - should be first
	s.echo.Use(echomw.Recover())

	if s.metrics != nil {
		s.echo.Use(mw.NewMetrics(s.metrics.HTTP))
	}
	s.echo.Use(mw.NewRequestLogger(s.log))

	securityConfig := mw.SecurityConfig{
		AllowedOrigins: s.config.AllowedOrigins,
	}
	s.echo.Use(mw.NewCORS(securityConfig))
	s.echo.Use(mw.NewBodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewGzip())
	s.echo.Use(mw.NewSecureHeaders(securityConfig))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	s.apiController = v1.New(s.echo, v1.Services{
		Lifelists:       s.catalog.Lifelists,
		Tiers:           s.catalog.Tiers,
		Observations:    s.catalog.Observations,
		Classifications: s.catalog.Classifications,
	}, s.log)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status        string   `json:"status"`
	Version       string   `json:"version"`
	BuildDate     string   `json:"build_date"`
	Uptime        string   `json:"uptime"`
	UptimeSeconds float64  `json:"uptime_seconds"`
	Database      string   `json:"database"`
	DiskFreeBytes *uint64  `json:"disk_free_bytes,omitempty"`
	InFlight      *float64 `json:"in_flight_requests,omitempty"`
	Timestamp     string   `json:"timestamp"`
}

// healthCheck reports liveness and database reachability. An unreachable database answers
// 503.
func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)
	resp := HealthResponse{
		Status:        "healthy",
		Version:       s.build.GetVersion(),
		BuildDate:     s.build.GetBuildDate(),
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: uptime.Seconds(),
		Database:      "ok",
		Timestamp:     time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if err := s.pingDatabase(c.Request().Context()); err != nil {
		s.log.Warn("health check database ping failed", logger.Error(err))
		resp.Status = "unhealthy"
		resp.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	if !s.catalog.Manager.IsMySQL() {
		if free, err := datastore.DiskFree(filepath.Dir(s.catalog.Manager.Path())); err == nil {
			resp.DiskFreeBytes = &free
		}
	}
	if s.metrics != nil {
		inFlight := s.metrics.HTTP.InFlight()
		resp.InFlight = &inFlight
	}
	return c.JSON(status, resp)
}

func (s *Server) pingDatabase(ctx context.Context) error {
	sqlDB, err := s.catalog.Manager.DB().DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Run serves until ctx is canceled, then shuts down gracefully within the configured
// shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.config.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.echo.Listener = ln

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", logger.String("address", ln.Addr().String()))
		if err := s.echo.Start(""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutdown signal received, initiating graceful shutdown")
	if err := s.Shutdown(); err != nil {
		return err
	}
	return <-errCh
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.log.Info("server shutdown complete")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
