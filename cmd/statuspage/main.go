package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/config"
	"github.com/hamed0406/maintwindow/internal/httpapi"
	"github.com/hamed0406/maintwindow/internal/logging"
	"github.com/hamed0406/maintwindow/internal/metrics"
	"github.com/hamed0406/maintwindow/internal/page"
	"github.com/hamed0406/maintwindow/internal/render"
	"github.com/hamed0406/maintwindow/internal/snapshot"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, "statuspage", logging.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	metrics.Init()

	var src snapshot.Source
	if cfg.SnapshotURL != "" {
		src = snapshot.NewHTTPSource(cfg.SnapshotURL, cfg.HTTPTimeout)
		logger.Info("snapshot_source", zap.String("url", cfg.SnapshotURL))
	} else {
		src = snapshot.NewFileSource(cfg.SnapshotPath)
		logger.Info("snapshot_source", zap.String("path", cfg.SnapshotPath))
	}
	chart := render.NewChart(cfg.ChartWidth, cfg.ChartHeight, render.ParseFormat(cfg.ChartFormat))
	loader := page.NewLoader(src, chart, logger)
	api := httpapi.NewServer(logger, loader)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("api_shutdown_error", zap.Error(err))
		}
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("api_listen_failed", zap.Error(err))
		log.Fatal(err)
	}
	logger.Info("api_stopped")
}
