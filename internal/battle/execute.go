package battle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/logger"
)

func (s *service) Execute(ctx context.Context, battleID uuid.UUID) (*domain.BattleResult, error) {
	log := logger.FromContext(ctx)

	// Conditional transition: whichever caller (auto-start, worker, or
	// a retried request) wins this update runs the battle; the rest
	// back off.
	won, err := s.repo.TransitionState(ctx, battleID, domain.BattleStateJoining, domain.BattleStateResolving)
	if err != nil {
		return nil, fmt.Errorf("failed to transition battle %s: %w", battleID, err)
	}
	if !won {
		return nil, fmt.Errorf("%w: battle %s", domain.ErrNotInJoiningState, battleID)
	}

	b, err := s.repo.GetBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}

	if len(b.Participants) < MinPlayers {
		return nil, s.cancel(ctx, b)
	}

	// Participants already paid; resolution must survive the caller's
	// context. Each draw is prepaid and fans out concurrently.
	execCtx := context.Background()

	results, failures := s.fanOut(execCtx, b)

	if len(failures) > 0 {
		s.compensate(execCtx, b, failures)
		// The battle stays in resolving. Once the pending draws settle
		// the recovery sweep finishes it from the persisted rows, or
		// cancels it when no draw landed at all.
		log.Error("Battle fan-out incomplete, left for recovery",
			"battle_id", battleID, "failed_draws", len(failures))
		return nil, fmt.Errorf("failed to execute battle %s: %d of %d draws failed",
			battleID, len(failures), len(b.Participants))
	}

	return s.finalize(execCtx, b, results)
}

// fanOut opens one prepaid draw per participant. Each draw runs on the
// detached execution context so one participant's failure never cancels
// a sibling's draw mid-flight. Returns the successful results and the
// per-participant failures.
func (s *service) fanOut(ctx context.Context, b *domain.Battle) (map[string]*domain.DrawResult, map[string]error) {
	var mu sync.Mutex
	results := make(map[string]*domain.DrawResult, len(b.Participants))
	failures := make(map[string]error)

	var g errgroup.Group
	for _, p := range b.Participants {
		p := p
		g.Go(func() error {
			result, err := s.drawSvc.OpenPrepaid(ctx, b.CaseID, p.ActorID, "", b.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[p.ActorID] = err
				return fmt.Errorf("draw for actor %s: %w", p.ActorID, err)
			}
			results[p.ActorID] = result
			return nil
		})
	}
	// Errors are collected per participant above; Wait only reports the
	// first one for the log line.
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("Battle draw failed",
			"battle_id", b.ID, "error", err)
	}

	return results, failures
}

// compensate refunds the buy-in of each participant whose draw never
// reached a durable state. A draw that committed before failing is not
// refunded; the recovery worker finishes it and pays the outcome.
func (s *service) compensate(ctx context.Context, b *domain.Battle, failures map[string]error) {
	log := logger.FromContext(ctx)

	c, err := s.catalogSvc.GetCase(ctx, b.CaseID)
	if err != nil {
		log.Error("Cannot compensate failed battle draws, case lookup failed",
			"battle_id", b.ID, "case_id", b.CaseID, "error", err)
		return
	}

	ref := fmt.Sprintf("battle:%s", b.ID)
	for actorID, ferr := range failures {
		if errors.Is(ferr, domain.ErrResolutionPending) {
			continue
		}
		key := refundKey(b.ID, actorID)
		cerr := s.ledgerSvc.Credit(ctx, actorID, c.Price, ref, key)
		switch {
		case errors.Is(cerr, domain.ErrCreditAlreadyApplied):
			// An earlier pass already gave this buy-in back.
		case cerr != nil:
			log.Error("Failed to refund buy-in after draw failure",
				"battle_id", b.ID, "actor_id", actorID, "error", cerr)
		default:
			log.Info("Refunded buy-in after draw failure",
				"battle_id", b.ID, "actor_id", actorID, "error", ferr)
		}
	}
}

// finalize picks the winner from the resolved draws, records the
// outcome, and completes the battle. Participants absent from results
// had their buy-in refunded and do not contend.
func (s *service) finalize(ctx context.Context, b *domain.Battle, results map[string]*domain.DrawResult) (*domain.BattleResult, error) {
	winnerID := s.determineWinner(results)

	draws := make([]domain.DrawResult, 0, len(results))
	var total int64
	for _, p := range b.Participants {
		r, ok := results[p.ActorID]
		if !ok {
			continue
		}
		draws = append(draws, *r)
		total += r.Payout
	}

	if err := s.repo.SetWinner(ctx, b.ID, winnerID, total); err != nil {
		return nil, fmt.Errorf("failed to record battle winner: %w", err)
	}
	if _, err := s.repo.TransitionState(ctx, b.ID, domain.BattleStateResolving, domain.BattleStateCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete battle %s: %w", b.ID, err)
	}

	result := &domain.BattleResult{
		BattleID:    b.ID,
		WinnerID:    winnerID,
		TotalPayout: total,
		Draws:       draws,
	}

	logger.FromContext(ctx).Info("Battle completed",
		"battle_id", b.ID,
		"winner_id", winnerID,
		"participants", len(draws),
		"total_payout_cents", total)

	s.publisher.PublishWithRetry(ctx, event.NewBattleCompletedEvent(result, b.CaseID))

	return result, nil
}

// determineWinner picks the actor with the highest payout. Exact ties
// are sorted for determinism and settled by a uniform random pick.
func (s *service) determineWinner(results map[string]*domain.DrawResult) string {
	var tied []string
	var highest int64 = -1

	for actorID, r := range results {
		switch {
		case r.Payout > highest:
			highest = r.Payout
			tied = []string{actorID}
		case r.Payout == highest:
			tied = append(tied, actorID)
		}
	}

	if len(tied) == 1 {
		return tied[0]
	}

	sort.Strings(tied)
	return tied[s.rng(len(tied))]
}

// cancel refunds every participant's buy-in and closes the battle.
func (s *service) cancel(ctx context.Context, b *domain.Battle) error {
	log := logger.FromContext(ctx)

	c, err := s.catalogSvc.GetCase(ctx, b.CaseID)
	if err != nil {
		return err
	}

	ref := fmt.Sprintf("battle:%s", b.ID)
	for _, p := range b.Participants {
		err := s.ledgerSvc.Credit(ctx, p.ActorID, c.Price, ref, refundKey(b.ID, p.ActorID))
		if err != nil && !errors.Is(err, domain.ErrCreditAlreadyApplied) {
			log.Error("Failed to refund cancelled battle buy-in",
				"battle_id", b.ID, "actor_id", p.ActorID, "error", err)
		}
	}

	if _, err := s.repo.TransitionState(ctx, b.ID, domain.BattleStateResolving, domain.BattleStateCancelled); err != nil {
		return fmt.Errorf("failed to cancel battle %s: %w", b.ID, err)
	}

	log.Info("Battle cancelled, buy-ins refunded",
		"battle_id", b.ID, "participants", len(b.Participants))

	return fmt.Errorf("%w: battle %s cancelled", domain.ErrNotEnoughOpponents, b.ID)
}

func (s *service) SweepExpired(ctx context.Context, cutoff time.Time) (int, error) {
	expired, err := s.repo.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list expired battles: %w", err)
	}

	handled := 0
	for _, b := range expired {
		if _, err := s.Execute(ctx, b.ID); err != nil {
			// Cancellation of an under-filled battle also lands here;
			// both outcomes count as handled.
			logger.FromContext(ctx).Info("Expired battle swept",
				"battle_id", b.ID, "outcome", err)
		}
		handled++
	}

	return handled, nil
}

// RecoverStalled finishes battles left in the resolving state since
// before the cutoff. The outcome is rebuilt from the draws that
// persisted; a battle whose draws are all still committed is skipped
// until draw recovery settles them.
func (s *service) RecoverStalled(ctx context.Context, cutoff time.Time) (int, error) {
	log := logger.FromContext(ctx)

	stalled, err := s.repo.ListStalledResolving(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stalled battles: %w", err)
	}

	recovered := 0
	for i := range stalled {
		b, err := s.repo.GetBattle(ctx, stalled[i].ID)
		if err != nil {
			log.Error("Cannot recover battle, lookup failed",
				"battle_id", stalled[i].ID, "error", err)
			continue
		}

		if err := s.recoverBattle(ctx, b); err != nil {
			log.Error("Battle recovery failed", "battle_id", b.ID, "error", err)
			continue
		}
		recovered++
	}

	return recovered, nil
}

func (s *service) recoverBattle(ctx context.Context, b *domain.Battle) error {
	log := logger.FromContext(ctx)

	draws, err := s.drawSvc.ListByBattle(ctx, b.ID)
	if err != nil {
		return err
	}
	for i := range draws {
		if draws[i].State == domain.DrawStateCommitted {
			return fmt.Errorf("%w: draw %s still committed", domain.ErrResolutionPending, draws[i].ID)
		}
	}

	c, err := s.catalogSvc.GetCase(ctx, b.CaseID)
	if err != nil {
		return err
	}

	results := make(map[string]*domain.DrawResult, len(draws))
	for i := range draws {
		d := &draws[i]
		if d.State != domain.DrawStateResolved && d.State != domain.DrawStateRevealed {
			continue
		}
		entry, ok := c.Entry(d.EntryID)
		if !ok {
			return fmt.Errorf("%w: entry %s not in case %s", domain.ErrCaseNotFound, d.EntryID, b.CaseID)
		}
		results[d.ActorID] = &domain.DrawResult{
			DrawID:      d.ID,
			CaseID:      d.CaseID,
			ActorID:     d.ActorID,
			Entry:       entry,
			RandomValue: d.RandomValue,
			Payout:      d.Payout,
			Verification: domain.VerificationRecord{
				Commitment: d.Commitment,
				ServerSeed: d.ServerSeed,
				ClientSeed: d.ClientSeed,
				Nonce:      d.Nonce,
			},
		}
	}

	// No draw survived: every buy-in was (or is now) refunded, so the
	// battle has nothing to award. cancel reports the closure as an
	// error; here it is the intended outcome.
	if len(results) == 0 {
		if err := s.cancel(ctx, b); err != nil && !errors.Is(err, domain.ErrNotEnoughOpponents) {
			return err
		}
		log.Info("Recovered stalled battle by cancellation", "battle_id", b.ID)
		return nil
	}

	result, err := s.finalize(ctx, b, results)
	if err != nil {
		return err
	}

	log.Info("Recovered stalled battle",
		"battle_id", b.ID,
		"winner_id", result.WinnerID,
		"draws", len(result.Draws))

	return nil
}

// refundKey is the idempotency key for returning an actor's buy-in.
// One key per battle and actor keeps every refund path, join failure,
// draw failure, cancellation, and recovery, from paying twice.
func refundKey(battleID uuid.UUID, actorID string) string {
	return fmt.Sprintf("battle-refund:%s:%s", battleID, actorID)
}
