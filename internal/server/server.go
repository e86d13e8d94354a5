// Package server exposes the storefront agent over HTTP. It owns routing,
// request decoding and the mapping from loop outcomes to status codes; all
// agent behavior lives in the engine packages.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	logx "github.com/storefront-agent-poc/server/pkg/logger"

	"github.com/storefront-agent-poc/server/internal/agent/react"
	"github.com/storefront-agent-poc/server/internal/agent/seo"
	"github.com/storefront-agent-poc/server/internal/catalog"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr            string `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout string `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// Server wires the catalog and the two agent engines behind an Echo router.
type Server struct {
	echo    *echo.Echo
	addr    string
	catalog *catalog.Catalog
	query   *react.Engine
	seo     *seo.Engine
}

func New(cfg Config, cat *catalog.Catalog, query *react.Engine, seoEngine *seo.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())

	s := &Server{
		echo:    e,
		addr:    cfg.Addr,
		catalog: cat,
		query:   query,
		seo:     seoEngine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/healthz", s.handleHealth)
	api := s.echo.Group("/api")
	api.GET("/products", s.handleListProducts)
	api.POST("/query", s.handleQuery)
	api.POST("/seo", s.handleSEO)
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logx.Info().Str("addr", s.addr).Msg("HTTP server listening")
	if err := s.echo.Start(s.addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			evt := logx.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = logx.Error()
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// ParseShutdownTimeout returns the configured graceful-shutdown window,
// falling back to ten seconds on a malformed value.
func (c Config) ParseShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
