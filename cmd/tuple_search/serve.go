package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-tuple-search/api"
	"github.com/gcbaptista/go-tuple-search/config"
	"github.com/gcbaptista/go-tuple-search/internal/logger"
	"github.com/gcbaptista/go-tuple-search/internal/metrics"
)

func newServeCommand(rootOpts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP search server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.loadConfig()
			if err != nil {
				return err
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides server.port)")
	return cmd
}

func runServe(ctx context.Context, cfg *config.AppConfig) error {
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	log := logger.WithComponent("server")

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	eng, err := openEngine(cfg, m)
	if err != nil {
		return err
	}
	log.Info("engine ready", "data_dir", cfg.Storage.DataDir, "codec", cfg.Storage.Codec, "indexes", len(eng.ListIndexes()))

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	routerCfg := api.RouterConfig{MaxRequestBytes: cfg.Server.MaxRequestBytes}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsPath = cfg.Metrics.Path
	}
	api.SetupRoutes(router, eng, routerCfg, api.WithMetrics(m), api.WithLogger(logger.WithComponent("http")))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", srv.Addr)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = eng.Close()
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", slog.Any("error", err))
	}
	if err := eng.Close(); err != nil {
		return fmt.Errorf("flushing indexes: %w", err)
	}
	log.Info("stopped")
	return nil
}
