package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/lasertag/internal/api"
	"github.com/mcoot/lasertag/internal/config"
	"github.com/mcoot/lasertag/internal/factory"
	redisstorage "github.com/mcoot/lasertag/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.Logger(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging configuration: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	// Build factory config
	factoryCfg := factory.Config{
		Logger:         logger,
		StorageType:    cfg.StorageType,
		SQLitePath:     cfg.SQLitePath,
		MaxStreamSlots: cfg.MaxStreamSlots,
	}
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}

	app, err := factory.New(factoryCfg)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	defer func() {
		if err := app.Storage.Close(); err != nil {
			logger.Error("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	if cfg.WipeOnStartup {
		if err := app.Storage.Reset(context.Background()); err != nil {
			return fmt.Errorf("wipe storage: %w", err)
		}
		logger.Info("storage wiped", slog.String("storage_type", cfg.StorageType))
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		Registry:           app.Registry,
		Ledger:             app.Ledger,
		Scoring:            app.Scoring,
		Streams:            app.Streams,
		Leaderboard:        app.Leaderboard,
		WipeOnStartup:      cfg.WipeOnStartup,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitRPS:       cfg.RateLimitRPS,
		RateLimitBurst:     cfg.RateLimitBurst,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	serverConfig.ShutdownTimeout = cfg.ShutdownTimeout
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage_type", cfg.StorageType),
		slog.Int("max_stream_slots", cfg.MaxStreamSlots),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			return err
		}
	}

	logger.Info("server stopped")
	return nil
}
