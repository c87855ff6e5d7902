package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newthinker/btview/internal/api"
	"github.com/newthinker/btview/internal/backtest"
	"github.com/newthinker/btview/internal/chart"
	"github.com/newthinker/btview/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the btview server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("starting btview server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
		zap.String("engine", cfg.Engine.BaseURL),
	)

	deps := api.Dependencies{
		Engine: backtest.NewClient(cfg.Engine.BaseURL, cfg.Engine.Timeout, log.Named("engine")),
	}
	apiCfg := api.Config{
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewRegistry()
		deps.Renderer = chart.NewRenderer(nil, deps.Metrics, log.Named("chart"))
		apiCfg.MetricsPath = cfg.Metrics.Path
	} else {
		deps.Renderer = chart.NewRenderer(nil, nil, log.Named("chart"))
	}

	server, err := api.NewServer(apiCfg, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down btview server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
