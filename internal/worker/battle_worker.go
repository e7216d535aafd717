package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/battle"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/logger"
)

// BattleWorker executes battles whose join deadline expires. New
// battles schedule a timer via the battle.started event; battles left
// over from a previous process are swept on startup.
type BattleWorker struct {
	service  battle.Service
	mu       sync.Mutex
	timers   map[uuid.UUID]*time.Timer // battleID -> timer
	shutdown chan struct{}
	wg       sync.WaitGroup
}

// NewBattleWorker creates a new BattleWorker
func NewBattleWorker(service battle.Service) *BattleWorker {
	return &BattleWorker{
		service:  service,
		timers:   make(map[uuid.UUID]*time.Timer),
		shutdown: make(chan struct{}),
	}
}

// Start sweeps battles whose deadline already passed while no process
// was watching them.
func (w *BattleWorker) Start() {
	ctx := context.Background()
	log := logger.FromContext(ctx)

	n, err := w.service.SweepExpired(ctx, time.Now())
	if err != nil {
		log.Error(LogMsgFailedToSweepBattles, "error", err)
		return
	}
	if n > 0 {
		log.Info("Swept expired battles on startup", "count", n)
	}
}

// Subscribe subscribes the worker to relevant events
func (w *BattleWorker) Subscribe(bus event.Bus) {
	bus.Subscribe(event.BattleStarted, w.handleBattleStarted)
}

func (w *BattleWorker) handleBattleStarted(ctx context.Context, e event.Event) error {
	payload, ok := e.Payload.(map[string]interface{})
	if !ok {
		return nil
	}

	idStr, _ := payload["battle_id"].(string)
	battleID, err := uuid.Parse(idStr)
	if err != nil {
		return nil
	}

	deadlineUnix, ok := payload["join_deadline"].(int64)
	if !ok {
		return nil
	}

	w.scheduleExecution(battleID, time.Unix(deadlineUnix, 0))
	return nil
}

func (w *BattleWorker) scheduleExecution(battleID uuid.UUID, deadline time.Time) {
	duration := time.Until(deadline)

	log := logger.FromContext(context.Background())
	log.Info(LogMsgSchedulingBattleExecution, "battleID", battleID, "duration", duration)

	// If deadline has already passed, execute immediately in a goroutine
	if duration <= 0 {
		w.executeBattle(battleID)
		return
	}

	w.mu.Lock()
	if existingTimer, ok := w.timers[battleID]; ok {
		existingTimer.Stop()
		delete(w.timers, battleID)
	}

	timer := time.AfterFunc(duration, func() {
		select {
		case <-w.shutdown:
			return
		default:
		}

		w.executeBattle(battleID)

		w.mu.Lock()
		delete(w.timers, battleID)
		w.mu.Unlock()
	})

	w.timers[battleID] = timer
	w.mu.Unlock()
}

// executeBattle executes a battle in a tracked goroutine
func (w *BattleWorker) executeBattle(battleID uuid.UUID) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		ctx := context.Background()
		log := logger.FromContext(ctx)
		log.Info(LogMsgExecutingScheduledBattle, "battleID", battleID)

		if _, err := w.service.Execute(ctx, battleID); err != nil {
			// A full lobby executes itself on the last join, so losing
			// the state race here is routine, as is cancellation of an
			// under-filled battle.
			log.Info(LogMsgFailedToExecuteBattle, "battleID", battleID, "reason", err)
		}
	}()
}

// Shutdown cancels pending timers and waits for in-flight executions
func (w *BattleWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("Shutting down battle worker")

	close(w.shutdown)

	w.mu.Lock()
	for battleID, timer := range w.timers {
		timer.Stop()
		log.Info("Cancelled pending battle execution", "battleID", battleID)
	}
	w.timers = make(map[uuid.UUID]*time.Timer)
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info("Battle worker shutdown complete")
		return nil
	case <-ctx.Done():
		log.Warn("Battle worker shutdown timeout, some executions may still be running")
		return ctx.Err()
	}
}
