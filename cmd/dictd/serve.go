package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/harriteja/dict-go-sdk/pkg/cache"
	"github.com/harriteja/dict-go-sdk/pkg/config"
	"github.com/harriteja/dict-go-sdk/pkg/metrics"
	"github.com/harriteja/dict-go-sdk/pkg/service"
	"github.com/harriteja/dict-go-sdk/pkg/service/middleware"
	"github.com/harriteja/dict-go-sdk/pkg/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve dictionary validation over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(); err != nil {
			log.Fatalf("Failed to run service: %v", err)
		}
	},
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer func() { _ = zlog.Sync() }()

	st, err := sqlite.New(sqlite.Options{
		Path:          cfg.Store.Path,
		BusyTimeout:   cfg.Store.BusyTimeout,
		KeyField:      cfg.Fields.Key,
		CodeSection:   cfg.Fields.Code,
		EnumPredicate: cfg.Dictionary.EnumPredicate,
		Logger:        zlog,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	c, err := cache.New(cache.Options{
		Store:   st,
		Config:  cfg,
		Logger:  zlog,
		Metrics: metrics.NewDefaultCollector(),
	})
	if err != nil {
		return err
	}

	svc, err := service.New(service.Options{
		Cache:  c,
		Config: cfg,
		Logger: zlog,
	})
	if err != nil {
		return err
	}

	svc.Use(
		middleware.MetricsMiddleware(middleware.MetricsConfig{
			Registry:     metrics.DefaultRegistry(),
			Subsystem:    "dictd",
			ExcludePaths: []string{"/metrics", "/health"},
		}),
		middleware.RateLimitMiddleware(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimit,
		}),
		middleware.AuthMiddleware(middleware.AuthConfig{
			Secret:    cfg.Server.JWTSecret,
			SkipPaths: []string{"/health", "/metrics"},
		}),
		middleware.LoggingMiddleware(middleware.LoggingConfig{
			Logger:    zlog,
			SkipPaths: []string{"/health"},
		}),
		middleware.RequestIDMiddleware(),
		middleware.RecoveryMiddleware(middleware.RecoveryConfig{
			Logger:     zlog,
			StackTrace: true,
		}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if configPath != "" {
		go func() {
			// The term cache projects with the field tags loaded at
			// startup; a tag change invalidates everything cached.
			err := config.Watch(ctx, configPath, zlog, func(next *config.Config) {
				c.Reset()
			})
			if err != nil && ctx.Err() == nil {
				zlog.Warn("Configuration watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		if err := svc.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return svc.Stop(shutdownCtx)
}
