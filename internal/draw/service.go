package draw

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/catalog"
	"github.com/casevault/backend/internal/concurrency"
	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/fairness"
	"github.com/casevault/backend/internal/logger"
	"github.com/casevault/backend/internal/metrics"
	"github.com/casevault/backend/internal/repository"
)

// VerifyResult is the replay of a revealed draw: the recomputed random
// value and the entry it selects.
type VerifyResult struct {
	RandomValue float64          `json:"random_value"`
	Entry       domain.OddsEntry `json:"entry"`
	Payout      int64            `json:"payout_cents"`
}

// Service provides case opening operations
type Service interface {
	// Open runs the full draw lifecycle for a single case opening:
	// commit, debit, resolve, credit, reveal, broadcast.
	Open(ctx context.Context, caseID, actorID, clientSeed string) (*domain.DrawResult, error)
	// OpenPrepaid opens a case whose price was already collected, used
	// for battle participants who paid their buy-in at join time.
	OpenPrepaid(ctx context.Context, caseID, actorID, clientSeed string, battleID uuid.UUID) (*domain.DrawResult, error)
	GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error)
	// History returns an actor's most recent draws, newest first.
	History(ctx context.Context, actorID string, limit int) ([]domain.Draw, error)
	// ListByBattle returns every draw recorded for a battle, in any
	// state. Battle recovery rebuilds results from these rows.
	ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error)
	// GetCommitment returns the fairness material available before the
	// reveal: commitment hash, client seed, and nonce.
	GetCommitment(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error)
	// GetRevealedSeed returns the full verification record including
	// the server seed. Only draws in the revealed state qualify.
	GetRevealedSeed(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error)
	// Verify replays a verification record against a case table.
	Verify(ctx context.Context, caseID string, rec domain.VerificationRecord) (*VerifyResult, error)
	// RecoverStalled finishes draws stuck in the committed state since
	// before the cutoff. Returns the number of draws completed.
	RecoverStalled(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo        repository.Draw
	catalogSvc  catalog.Service
	fairnessSvc fairness.Service
	publisher   event.Broadcaster
	locks       *concurrency.LockManager

	maxClientSeedLen int
}

// NewService creates a new draw service
func NewService(repo repository.Draw, catalogSvc catalog.Service, fairnessSvc fairness.Service, publisher event.Broadcaster, locks *concurrency.LockManager, maxClientSeedLen int) Service {
	return &service{
		repo:             repo,
		catalogSvc:       catalogSvc,
		fairnessSvc:      fairnessSvc,
		publisher:        publisher,
		locks:            locks,
		maxClientSeedLen: maxClientSeedLen,
	}
}

func (s *service) Open(ctx context.Context, caseID, actorID, clientSeed string) (*domain.DrawResult, error) {
	return s.open(ctx, caseID, actorID, clientSeed, nil)
}

func (s *service) OpenPrepaid(ctx context.Context, caseID, actorID, clientSeed string, battleID uuid.UUID) (*domain.DrawResult, error) {
	return s.open(ctx, caseID, actorID, clientSeed, &battleID)
}

func (s *service) open(ctx context.Context, caseID, actorID, clientSeed string, battleID *uuid.UUID) (*domain.DrawResult, error) {
	log := logger.FromContext(ctx)

	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", domain.ErrInvalidInput)
	}
	if len(clientSeed) > s.maxClientSeedLen {
		return nil, fmt.Errorf("%w: client seed exceeds %d characters", domain.ErrInvalidInput, s.maxClientSeedLen)
	}

	c, err := s.catalogSvc.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	if clientSeed == "" {
		clientSeed, err = fairness.GenerateClientSeed()
		if err != nil {
			return nil, err
		}
	}

	// One draw at a time per actor within this process. The nonce
	// sequence is guarded by the database either way; the lock keeps
	// concurrent requests from burning nonces racing each other.
	lock := s.locks.GetLock(actorID)
	lock.Lock()
	defer lock.Unlock()

	// Seed and nonce are produced before any funds move. An entropy
	// failure aborts here with the actor's balance untouched; a nonce
	// sealed for a draw that fails to debit stays burned.
	commit, err := s.fairnessSvc.NewCommit(ctx, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Draw{
		ID:         uuid.New(),
		CaseID:     caseID,
		ActorID:    actorID,
		BattleID:   battleID,
		ClientSeed: clientSeed,
		ServerSeed: commit.ServerSeed,
		Commitment: commit.Commitment,
		Nonce:      commit.Nonce,
		State:      domain.DrawStateCommitted,
		CreatedAt:  now,
	}

	if err := s.persistCommitted(ctx, d, c.Price); err != nil {
		return nil, err
	}

	result, err := s.resolveCommitted(ctx, d, c)
	if err != nil {
		// The committed record survives; the recovery worker will
		// finish this draw from the persisted seeds.
		log.Error("Draw resolution interrupted, leaving committed record for recovery",
			"draw_id", d.ID, "actor_id", actorID, "error", err)
		return nil, fmt.Errorf("%w: draw %s: %v", domain.ErrResolutionPending, d.ID, err)
	}

	metrics.DrawsResolved.WithLabelValues(caseID, string(result.Entry.Rarity)).Inc()
	log.Info("Draw resolved",
		"draw_id", d.ID,
		"case_id", caseID,
		"actor_id", actorID,
		"entry_id", result.Entry.ID,
		"payout_cents", result.Payout)

	s.publisher.PublishWithRetry(ctx, event.NewDrawResolvedEvent(result, result.Entry.Rarity))

	return result, nil
}

// persistCommitted writes the pending draw and, for draws that are not
// prepaid, the price debit in one transaction. After this commit the
// draw is recoverable even if the process dies.
func (s *service) persistCommitted(ctx context.Context, d *domain.Draw, price int64) error {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin draw transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if d.BattleID == nil {
		ref := fmt.Sprintf("case:%s", d.CaseID)
		if err := tx.Debit(ctx, d.ActorID, price, ref, debitKey(d.ID)); err != nil {
			return err
		}
	}

	if err := tx.CreateDraw(ctx, d); err != nil {
		return fmt.Errorf("failed to persist draw %s: %w", d.ID, err)
	}

	return tx.Commit(ctx)
}

// resolveCommitted derives the outcome from the draw's sealed material,
// persists it with the payout credit, and reveals the seed.
func (s *service) resolveCommitted(ctx context.Context, d *domain.Draw, c *domain.Case) (*domain.DrawResult, error) {
	rv := fairness.DeriveRandom(d.ServerSeed, d.ClientSeed, d.Nonce)

	entry, err := Resolve(c, rv)
	if err != nil {
		return nil, err
	}
	payout := c.Payout(entry)

	now := time.Now().UTC()
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin resolution transaction: %w", err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.CompleteDraw(ctx, d.ID, entry.ID, rv, payout, now); err != nil {
		return nil, fmt.Errorf("failed to complete draw %s: %w", d.ID, err)
	}

	if payout > 0 {
		ref := fmt.Sprintf("case:%s", d.CaseID)
		err := tx.Credit(ctx, d.ActorID, payout, ref, creditKey(d.ID))
		if err != nil && !errors.Is(err, domain.ErrCreditAlreadyApplied) {
			return nil, err
		}
		if errors.Is(err, domain.ErrCreditAlreadyApplied) {
			// A concurrent recovery pass already paid this draw out.
			logger.FromContext(ctx).Warn("Duplicate credit suppressed",
				"draw_id", d.ID, "actor_id", d.ActorID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit resolution for draw %s: %w", d.ID, err)
	}

	if err := s.repo.MarkRevealed(ctx, d.ID, time.Now().UTC()); err != nil {
		// The outcome and credit are durable; the seed becomes
		// available on the next recovery pass.
		logger.FromContext(ctx).Warn("Failed to mark draw revealed",
			"draw_id", d.ID, "error", err)
	}

	return &domain.DrawResult{
		DrawID:      d.ID,
		CaseID:      d.CaseID,
		ActorID:     d.ActorID,
		Entry:       entry,
		RandomValue: rv,
		Payout:      payout,
		Verification: domain.VerificationRecord{
			Commitment: d.Commitment,
			ServerSeed: d.ServerSeed,
			ClientSeed: d.ClientSeed,
			Nonce:      d.Nonce,
		},
	}, nil
}

func (s *service) GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error) {
	return s.repo.GetDraw(ctx, drawID)
}

func (s *service) History(ctx context.Context, actorID string, limit int) ([]domain.Draw, error) {
	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", domain.ErrInvalidInput)
	}
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.repo.ListByActor(ctx, actorID, limit)
}

func (s *service) ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error) {
	return s.repo.ListByBattle(ctx, battleID)
}

func (s *service) GetCommitment(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error) {
	d, err := s.repo.GetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	return &domain.VerificationRecord{
		Commitment: d.Commitment,
		ClientSeed: d.ClientSeed,
		Nonce:      d.Nonce,
	}, nil
}

func (s *service) GetRevealedSeed(ctx context.Context, drawID uuid.UUID) (*domain.VerificationRecord, error) {
	d, err := s.repo.GetDraw(ctx, drawID)
	if err != nil {
		return nil, err
	}
	if d.State != domain.DrawStateRevealed {
		return nil, fmt.Errorf("%w: draw %s is %s", domain.ErrSeedNotRevealed, drawID, d.State)
	}
	return &domain.VerificationRecord{
		Commitment: d.Commitment,
		ServerSeed: d.ServerSeed,
		ClientSeed: d.ClientSeed,
		Nonce:      d.Nonce,
	}, nil
}

func (s *service) Verify(ctx context.Context, caseID string, rec domain.VerificationRecord) (*VerifyResult, error) {
	c, err := s.catalogSvc.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	rv, err := fairness.Verify(rec)
	if err != nil {
		return nil, err
	}

	entry, err := Resolve(c, rv)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{
		RandomValue: rv,
		Entry:       entry,
		Payout:      c.Payout(entry),
	}, nil
}

func (s *service) RecoverStalled(ctx context.Context, cutoff time.Time) (int, error) {
	log := logger.FromContext(ctx)

	stalled, err := s.repo.ListStalled(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list stalled draws: %w", err)
	}

	recovered := 0
	for i := range stalled {
		d := &stalled[i]

		c, err := s.catalogSvc.GetCase(ctx, d.CaseID)
		if err != nil {
			log.Error("Cannot recover draw, case lookup failed",
				"draw_id", d.ID, "case_id", d.CaseID, "error", err)
			continue
		}

		result, err := s.resolveCommitted(ctx, d, c)
		if err != nil {
			log.Error("Draw recovery failed", "draw_id", d.ID, "error", err)
			continue
		}

		metrics.DrawsRecovered.Inc()
		log.Info("Recovered stalled draw",
			"draw_id", d.ID,
			"actor_id", d.ActorID,
			"payout_cents", result.Payout)

		s.publisher.PublishWithRetry(ctx, event.Event{
			Version: event.EventSchemaVersion,
			Type:    event.DrawRecovered,
			Payload: domain.DrawResolvedPayload{
				DrawID:        result.DrawID.String(),
				CaseID:        result.CaseID,
				ActorID:       result.ActorID,
				EntryID:       result.Entry.ID,
				Rarity:        result.Entry.Rarity,
				Payout:        result.Payout,
				PayoutDisplay: event.FormatPayout(result.Payout),
				Timestamp:     time.Now().Unix(),
			},
		})
		recovered++
	}

	return recovered, nil
}

func debitKey(drawID uuid.UUID) string {
	return "draw-debit:" + drawID.String()
}

func creditKey(drawID uuid.UUID) string {
	return "draw-credit:" + drawID.String()
}
