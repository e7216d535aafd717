package worker

import (
	"context"
	"sync"
	"time"

	"github.com/casevault/backend/internal/battle"
	"github.com/casevault/backend/internal/draw"
	"github.com/casevault/backend/internal/logger"
)

// RecoveryWorker periodically finishes draws stuck in the committed
// state, then battles stranded in resolving. Draws go first on each
// pass so a battle's outcome is rebuilt from settled rows. The grace
// period keeps it from racing requests that are still resolving
// normally.
type RecoveryWorker struct {
	drawSvc     draw.Service
	battleSvc   battle.Service
	interval    time.Duration
	gracePeriod time.Duration

	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewRecoveryWorker creates a new RecoveryWorker
func NewRecoveryWorker(drawSvc draw.Service, battleSvc battle.Service, interval, gracePeriod time.Duration) *RecoveryWorker {
	return &RecoveryWorker{
		drawSvc:     drawSvc,
		battleSvc:   battleSvc,
		interval:    interval,
		gracePeriod: gracePeriod,
		shutdown:    make(chan struct{}),
	}
}

// Start runs one immediate pass for draws orphaned by a previous
// process, then ticks on the configured interval.
func (w *RecoveryWorker) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.runPass()

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.shutdown:
				return
			case <-ticker.C:
				w.runPass()
			}
		}
	}()
}

func (w *RecoveryWorker) runPass() {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	cutoff := time.Now().Add(-w.gracePeriod)
	log.Debug(LogMsgRecoveryPassStarting, "cutoff", cutoff)

	n, err := w.drawSvc.RecoverStalled(ctx, cutoff)
	if err != nil {
		log.Error(LogMsgRecoveryPassFailed, "error", err)
	} else if n > 0 {
		log.Info(LogMsgRecoveryPassComplete, "recovered", n)
	}

	bn, err := w.battleSvc.RecoverStalled(ctx, cutoff)
	if err != nil {
		log.Error(LogMsgBattleRecoveryFailed, "error", err)
	} else if bn > 0 {
		log.Info(LogMsgBattleRecoveryComplete, "recovered", bn)
	}
}

// Shutdown stops the ticker loop and waits for an in-flight pass
func (w *RecoveryWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down recovery worker")

	close(w.shutdown)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Recovery worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Recovery worker shutdown timeout")
		return ctx.Err()
	}
}
