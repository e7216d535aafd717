package bootstrap

import (
	"context"
	"log/slog"

	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/server"
	"github.com/casevault/backend/internal/sse"
	"github.com/casevault/backend/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	BattleWorker       *worker.BattleWorker
	RecoveryWorker     *worker.RecoveryWorker
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
}

// GracefulShutdown stops the application in dependency order:
//  1. HTTP server (stop accepting new requests)
//  2. Workers (cancel pending timers, finish in-flight passes)
//  3. SSE hub (drop live feed connections)
//  4. Event publisher last, so events produced by draining work still
//     get flushed or dead-lettered instead of lost
//
// Errors during shutdown are logged but do not stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if err := components.Server.Stop(ctx); err != nil {
		slog.Error(LogMsgServerForcedShutdown, "error", err)
	}

	if components.BattleWorker != nil {
		if err := components.BattleWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgBattleWorkerFailed, "error", err)
		}
	}

	if components.RecoveryWorker != nil {
		if err := components.RecoveryWorker.Shutdown(ctx); err != nil {
			slog.Error(LogMsgRecoveryWorkerFailed, "error", err)
		}
	}

	if components.Hub != nil {
		components.Hub.Stop()
	}

	slog.Info(LogMsgShuttingDownEventPublisher)
	if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
		slog.Error(LogMsgResilientPublisherFailed, "error", err)
	}

	slog.Info(LogMsgServerStopped)
}
