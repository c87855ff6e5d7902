// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	handler "github.com/newthinker/btview/internal/api/handler/api"
	"github.com/newthinker/btview/internal/api/response"
	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/chart"
	"github.com/newthinker/btview/internal/core"
	"github.com/newthinker/btview/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server represents the btview HTTP server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	MetricsPath string // empty disables the metrics endpoint
}

// Dependencies are the collaborators the routes are wired to.
// Metrics may be nil. A nil Renderer is created on demand and reports to Metrics.
type Dependencies struct {
	Engine   backtest.Engine
	Renderer *chart.Renderer
	Metrics  *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Engine == nil {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("engine is required"))
	}
	if deps.Renderer == nil {
		var rec chart.Recorder
		if deps.Metrics != nil {
			rec = deps.Metrics
		}
		deps.Renderer = chart.NewRenderer(nil, rec, logger)
	}

	mux := http.NewServeMux()

	var h http.Handler = mux
	if deps.Metrics != nil {
		h = metrics.HTTPMiddleware(deps.Metrics)(h)
	}
	h = metrics.LoggingMiddleware(logger)(h)

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      h,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 5 * time.Minute, // backtests run synchronously
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, deps)

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Dependencies) {
	var m handler.Metrics
	if deps.Metrics != nil {
		m = deps.Metrics
	}

	charts := handler.NewChartsHandler(deps.Renderer, s.logger)
	bt := handler.NewBacktestHandler(deps.Engine, charts, m)

	s.mux.HandleFunc("POST /api/v1/charts", charts.Create)
	s.mux.HandleFunc("GET /api/v1/charts/latest", charts.Latest)
	s.mux.HandleFunc("POST /api/v1/backtest", bt.Create)
	s.mux.HandleFunc("GET /api/v1/strategies", bt.Strategies)
	s.mux.HandleFunc("GET /api/v1/stocks/search", bt.SearchStocks)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if cfg.MetricsPath != "" && deps.Metrics != nil {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}
}

// Handler returns the root handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
