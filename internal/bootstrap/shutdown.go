package bootstrap

import (
	"context"

	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/scheduler"
	"github.com/osse101/SpinWheel_Go/internal/server"
	"github.com/osse101/SpinWheel_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	EventHandlers      *EventHandlers
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown stops the authority in order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (no new background jobs, running ones finish)
// 3. Event publisher (flush pending retries to the bus or the dead-letter file)
// 4. Subscribers and storage
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	logger.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			logger.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Scheduler != nil {
		components.Scheduler.Stop()
	}
	if components.WorkerPool != nil {
		components.WorkerPool.Stop()
	}

	if components.ResilientPublisher != nil {
		logger.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			logger.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.EventHandlers != nil {
		components.EventHandlers.Unregister()
	}
	if components.Storage != nil {
		components.Storage.Close()
	}

	logger.Info(LogMsgServerStopped)
}
