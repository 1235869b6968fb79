package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/heimdex/storyreel/internal/api"
	"github.com/heimdex/storyreel/internal/config"
	"github.com/heimdex/storyreel/internal/db"
	"github.com/heimdex/storyreel/internal/history"
	"github.com/heimdex/storyreel/internal/logging"
	"github.com/heimdex/storyreel/internal/story"
	"github.com/heimdex/storyreel/internal/telemetry"
	"github.com/heimdex/storyreel/internal/watcher"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.New(os.Stdout, logging.Options{Level: cfg.LogLevel(), Format: cfg.LogFormat()})
	logger.Info("starting storyreel", "version", config.Version, "data_dir", cfg.DataDir())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "storyreel", cfg.OTelEndpoint(), config.Version)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	} else if cfg.OTelEndpoint() != "" {
		logger.Info("tracing enabled", "endpoint", cfg.OTelEndpoint())
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	historySvc := history.NewService(history.NewRepository(database.Conn()), logging.WithComponent(logger, "history"))

	instanceID, err := historySvc.EnsureInstanceID(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure instance ID: %w", err)
	}

	authToken, err := historySvc.EnsureAuthToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to ensure auth token: %w", err)
	}

	generator := story.NewGenerator(nil)

	if path := cfg.CatalogPath(); path != "" {
		reloader := watcher.NewCatalogReloader(generator, logging.WithComponent(logger, "catalog"))
		if err := reloader.Load(path); err != nil {
			return fmt.Errorf("failed to load genre catalog: %w", err)
		}

		catalogWatcher := watcher.NewPollingWatcher(cfg.CatalogPoll(), logging.WithComponent(logger, "watcher"))
		catalogWatcher.OnChange(reloader.Handle)
		if err := catalogWatcher.Watch(ctx, path); err != nil {
			return fmt.Errorf("failed to watch genre catalog: %w", err)
		}
		defer catalogWatcher.Stop()
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                   STORYREEL v%-28s ║\n", config.Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  API URL:     http://127.0.0.1:%-26d ║\n", cfg.Port())
	fmt.Printf("║  Stats Token: %-44s ║\n", logging.SanitizeToken(authToken))
	fmt.Printf("║  Instance ID: %-44s ║\n", instanceID[:16]+"...")
	fmt.Printf("║  Genres:      %-44d ║\n", len(generator.Catalog().Genres()))
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	tokenPath := filepath.Join(cfg.DataDir(), "stats_token")
	if err := os.WriteFile(tokenPath, []byte(authToken+"\n"), 0600); err != nil {
		logger.Warn("failed to write stats token file", "error", err)
	} else {
		logger.Info("stats token written", "path", tokenPath)
	}

	var recorder history.Recorder
	var stats api.StatsProvider
	var asyncRecorder *history.AsyncRecorder
	// The recorder outlives the signal context: it is stopped only after the
	// HTTP server has finished its in-flight requests.
	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	defer stopRecorder()
	if cfg.HistoryEnabled() {
		asyncRecorder = history.NewAsyncRecorder(historySvc, 0, logging.WithComponent(logger, "history"))
		recorder = asyncRecorder
		stats = historySvc
		go asyncRecorder.Start(recorderCtx)
	} else {
		logger.Info("usage log disabled")
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:        cfg.Port(),
		Generator:   generator,
		History:     recorder,
		Stats:       stats,
		Database:    database,
		Tokens:      historySvc,
		Logger:      logger,
		StartTime:   startTime,
		InstanceID:  instanceID,
		MaxFieldLen: cfg.MaxFieldLen(),
		Version:     config.Version,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("received shutdown signal")
	case err := <-serverErr:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
		}
		cancel()
	}

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	stopRecorder()
	if asyncRecorder != nil {
		select {
		case <-asyncRecorder.Done():
		case <-shutdownCtx.Done():
			logger.Warn("usage log did not drain before timeout")
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("failed to flush traces", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
