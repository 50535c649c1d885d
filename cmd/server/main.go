package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amakane-hakari/numavg/internal/aggregator"
	apphttp "github.com/amakane-hakari/numavg/internal/api/http"
	"github.com/amakane-hakari/numavg/internal/config"
	ilog "github.com/amakane-hakari/numavg/internal/log"
	"github.com/amakane-hakari/numavg/internal/metrics"
	"github.com/amakane-hakari/numavg/internal/upstream"
	"github.com/amakane-hakari/numavg/internal/window"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := ilog.NewWithWriter(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	var (
		mx             metrics.Interface = metrics.Noop{}
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		mx = metrics.NewProm(cfg.Metrics.Namespace, reg)
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	windows := window.New(
		window.WithCapacity(cfg.Window.Capacity),
		window.WithLogger(logger),
		window.WithMetrics(mx),
	)

	client, err := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Paths:   cfg.Upstream.Paths,
		Timeout: cfg.Upstream.Timeout,
		Token:   cfg.Upstream.Token,
	})
	if err != nil {
		return fmt.Errorf("init upstream client: %w", err)
	}

	agg := aggregator.New(client, windows,
		aggregator.WithLogger(logger),
		aggregator.WithMetrics(mx),
	)

	router := apphttp.NewRouter(apphttp.Options{
		Aggregator:     agg,
		Logger:         logger,
		MetricsHandler: metricsHandler,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	logger.Info("server.start",
		"addr", cfg.Server.Addr,
		"window_size", cfg.Window.Capacity,
		"upstream", cfg.Upstream.BaseURL,
		"upstream_timeout", cfg.Upstream.Timeout.String(),
		"metrics", cfg.Metrics.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("server.shutdown.signal")
	case err := <-errCh:
		logger.Error("server.error", "err", err)
	}

	apphttp.SetDraining(true)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server.stopped")
	return nil
}
