package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/authority"
	"github.com/osse101/SpinWheel_Go/internal/bootstrap"
	"github.com/osse101/SpinWheel_Go/internal/config"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/scheduler"
	"github.com/osse101/SpinWheel_Go/internal/server"
	"github.com/osse101/SpinWheel_Go/internal/validation"
	"github.com/osse101/SpinWheel_Go/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	switch {
	case err != nil && cfg.UsesPostgres():
		logger.Error("Environment validation failed", "error", err)
		os.Exit(1)
	case err != nil:
		// the memory store needs no database settings
		logger.Warn("Environment incomplete", "error", err)
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	ctx := context.Background()
	clock := clockwork.NewRealClock()

	storage, err := bootstrap.InitializeStorage(ctx, cfg, clock)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		logger.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	handlers := bootstrap.RegisterEventHandlers(publisher)

	svc := authority.NewService(storage.Wheel, authority.Options{
		Clock:     clock,
		Cooldowns: storage.Cooldowns,
		Bus:       publisher,
		CacheTTL:  cfg.ConfigCacheTTL,
	})

	if err := bootstrap.SeedWheelConfig(ctx, svc, validation.NewSchemaValidator(), cfg.SeedConfigPath); err != nil {
		// the authority still serves; an admin can save a config over the API
		logger.Error("Wheel config seed failed", "error", err)
	}

	pool := worker.NewPool(cfg.WorkerCount, bootstrap.WorkerQueueSize)
	pool.Start()
	sched := scheduler.New(clock, pool)
	if cfg.UnclaimedReportInterval > 0 {
		sched.Schedule(cfg.UnclaimedReportInterval, svc.UnclaimedReportJob())
		logger.Info(bootstrap.LogMsgJobsScheduled, "unclaimed_report_interval", cfg.UnclaimedReportInterval)
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, storage.HealthPool(), svc)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         pool,
		EventHandlers:      handlers,
		ResilientPublisher: publisher,
		Storage:            storage,
	})
}
