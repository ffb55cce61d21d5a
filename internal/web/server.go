package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pfrederiksen/daycount/internal/config"
	"github.com/pfrederiksen/daycount/internal/countdown"
	"github.com/pfrederiksen/daycount/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// Server provides the countdown page and JSON API
type Server struct {
	cfg     *config.Config
	engine  *countdown.Engine
	log     *logger.Logger
	metrics *logger.Metrics
	echo    *echo.Echo
}

// NewServer constructs a Server. A nil log uses the package default logger and
// a nil metrics uses the default tracker.
func NewServer(cfg *config.Config, engine *countdown.Engine, log *logger.Logger, metrics *logger.Metrics) *Server {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.DefaultMetrics()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		cfg:     cfg,
		engine:  engine,
		log:     log,
		metrics: metrics,
		echo:    e,
	}

	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	s.registerRoutes()
	return s
}

// Handler returns the server's http.Handler
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/api/countdown", s.handleCountdown)
	s.echo.GET("/api/metrics", s.handleMetrics)
	s.echo.GET("/countdown.ics", s.handleICS)
	s.echo.GET("/", s.handlePage)
	s.echo.POST("/", s.handleCalculate)
	s.echo.POST("/theme", s.handleTheme)
}

// Start serves on cfg.Listen until ctx is canceled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Starting HTTP server", logger.Fields{
			"listen":    s.cfg.Listen,
			"templates": s.engine.Templates().Name,
			"timezone":  s.engine.Location().String(),
		})
		errCh <- s.echo.Start(s.cfg.Listen)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down HTTP server", nil)
	// Sync fails on a terminal stderr
	defer func() { _ = s.log.Sync() }()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// requestLogger records request timings and logs each request at debug level
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		elapsed := time.Since(start)

		s.metrics.RecordTiming("http.request", elapsed)
		if !s.log.Enabled(logger.LevelDebug) {
			return nil
		}
		s.log.Debug("HTTP request", logger.Fields{
			"method":   c.Request().Method,
			"path":     c.Request().URL.Path,
			"status":   c.Response().Status,
			"duration": elapsed.String(),
		})
		return nil
	}
}
