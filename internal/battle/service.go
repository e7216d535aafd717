package battle

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/catalog"
	"github.com/casevault/backend/internal/concurrency"
	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/draw"
	"github.com/casevault/backend/internal/event"
	"github.com/casevault/backend/internal/ledger"
	"github.com/casevault/backend/internal/logger"
	"github.com/casevault/backend/internal/repository"
)

// Service provides multiplayer battle operations
type Service interface {
	// Create opens a new battle on a case and joins the creator,
	// debiting their buy-in.
	Create(ctx context.Context, caseID, creatorID string, maxPlayers int) (*domain.Battle, error)
	// Join adds an actor to a joining battle, debiting their buy-in.
	Join(ctx context.Context, battleID uuid.UUID, actorID string) (*domain.Battle, error)
	GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	// Execute resolves the battle: one draw per participant, winner by
	// highest payout. Runs when the battle fills or its deadline hits.
	Execute(ctx context.Context, battleID uuid.UUID) (*domain.BattleResult, error)
	// SweepExpired executes or cancels battles whose join deadline
	// passed before the cutoff. Returns the number handled.
	SweepExpired(ctx context.Context, cutoff time.Time) (int, error)
	// RecoverStalled completes or cancels battles stuck in the
	// resolving state since before the cutoff, rebuilding the outcome
	// from persisted draws. Returns the number recovered.
	RecoverStalled(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo         repository.Battle
	catalogSvc   catalog.Service
	ledgerSvc    ledger.Service
	drawSvc      draw.Service
	publisher    event.Broadcaster
	locks        *concurrency.LockManager
	joinDuration time.Duration

	// rng picks among tie candidates; injectable for tests.
	rng func(n int) int
}

// NewService creates a new battle service
func NewService(repo repository.Battle, catalogSvc catalog.Service, ledgerSvc ledger.Service, drawSvc draw.Service, publisher event.Broadcaster, locks *concurrency.LockManager, joinDuration time.Duration) Service {
	return &service{
		repo:         repo,
		catalogSvc:   catalogSvc,
		ledgerSvc:    ledgerSvc,
		drawSvc:      drawSvc,
		publisher:    publisher,
		locks:        locks,
		joinDuration: joinDuration,
		rng:          cryptoIntn,
	}
}

// cryptoIntn returns a uniform int in [0, n) from crypto/rand. A tie
// settled by a predictable source would undercut the fairness story.
func cryptoIntn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand read failure at tie-break time; the draws
		// themselves are already resolved, so fall back to the first
		// candidate in sorted order rather than aborting payouts.
		logger.Error("Tie-break entropy read failed", "error", err)
		return 0
	}
	return int(v.Int64())
}

func (s *service) Create(ctx context.Context, caseID, creatorID string, maxPlayers int) (*domain.Battle, error) {
	log := logger.FromContext(ctx)

	if creatorID == "" {
		return nil, fmt.Errorf("%w: creator id is required", domain.ErrInvalidInput)
	}
	if maxPlayers < MinPlayers || maxPlayers > MaxPlayers {
		return nil, fmt.Errorf("%w: max players must be between %d and %d", domain.ErrInvalidInput, MinPlayers, MaxPlayers)
	}

	c, err := s.catalogSvc.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	b := &domain.Battle{
		ID:           uuid.New(),
		CaseID:       c.ID,
		CreatorID:    creatorID,
		State:        domain.BattleStateJoining,
		MaxPlayers:   maxPlayers,
		JoinDeadline: now.Add(s.joinDuration),
		CreatedAt:    now,
	}

	if err := s.repo.CreateBattle(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create battle: %w", err)
	}

	if _, err := s.Join(ctx, b.ID, creatorID); err != nil {
		return nil, err
	}

	log.Info("Battle created",
		"battle_id", b.ID,
		"case_id", c.ID,
		"creator_id", creatorID,
		"max_players", maxPlayers,
		"join_deadline", b.JoinDeadline)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.BattleStarted,
		Payload: map[string]interface{}{
			"battle_id":     b.ID.String(),
			"case_id":       c.ID,
			"creator_id":    creatorID,
			"max_players":   maxPlayers,
			"join_deadline": b.JoinDeadline.Unix(),
		},
	})

	return s.repo.GetBattle(ctx, b.ID)
}

func (s *service) Join(ctx context.Context, battleID uuid.UUID, actorID string) (*domain.Battle, error) {
	log := logger.FromContext(ctx)

	if actorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", domain.ErrInvalidInput)
	}

	// Seat checks below read then write; serializing joins per battle
	// keeps two requests in this process from both passing the capacity
	// or duplicate check. The participants table unique constraint
	// still backstops other processes.
	lock := s.locks.GetLock("battle:" + battleID.String())
	lock.Lock()
	defer lock.Unlock()

	b, err := s.repo.GetBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}

	if b.State != domain.BattleStateJoining {
		return nil, fmt.Errorf("%w: battle %s is %s", domain.ErrBattleNotJoinable, battleID, b.State)
	}
	if time.Now().After(b.JoinDeadline) {
		return nil, fmt.Errorf("%w: battle %s closed at %s", domain.ErrJoinDeadlinePassed, battleID, b.JoinDeadline)
	}
	if len(b.Participants) >= b.MaxPlayers {
		return nil, fmt.Errorf("%w: battle %s has %d players", domain.ErrBattleFull, battleID, len(b.Participants))
	}
	for _, p := range b.Participants {
		if p.ActorID == actorID {
			return nil, fmt.Errorf("%w: actor %s in battle %s", domain.ErrAlreadyJoined, actorID, battleID)
		}
	}

	c, err := s.catalogSvc.GetCase(ctx, b.CaseID)
	if err != nil {
		return nil, err
	}

	// Buy-in is collected at join time; the participant's draw at
	// execution is prepaid.
	ref := fmt.Sprintf("battle:%s", battleID)
	if err := s.ledgerSvc.Debit(ctx, actorID, c.Price, ref); err != nil {
		return nil, err
	}

	p := &domain.BattleParticipant{
		BattleID: battleID,
		ActorID:  actorID,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.repo.AddParticipant(ctx, p); err != nil {
		// The debit landed but the seat did not; give the buy-in back.
		if cerr := s.ledgerSvc.Credit(ctx, actorID, c.Price, ref, refundKey(battleID, actorID)); cerr != nil {
			log.Error("Failed to refund buy-in after join failure",
				"battle_id", battleID, "actor_id", actorID, "error", cerr)
		}
		return nil, fmt.Errorf("failed to join battle %s: %w", battleID, err)
	}

	log.Info("Battle joined", "battle_id", battleID, "actor_id", actorID)

	s.publisher.PublishWithRetry(ctx, event.Event{
		Version: event.EventSchemaVersion,
		Type:    event.BattleJoined,
		Payload: map[string]interface{}{
			"battle_id": battleID.String(),
			"actor_id":  actorID,
		},
	})

	b, err = s.repo.GetBattle(ctx, battleID)
	if err != nil {
		return nil, err
	}

	// A full lobby starts immediately instead of waiting out the
	// deadline. Run on a detached context: the joiner's request context
	// ending must not abandon everyone's prepaid draws.
	if len(b.Participants) >= b.MaxPlayers {
		go func() {
			if _, err := s.Execute(context.Background(), battleID); err != nil {
				logger.Error("Auto-execution of full battle failed",
					"battle_id", battleID, "error", err)
			}
		}()
	}

	return b, nil
}

func (s *service) GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error) {
	return s.repo.GetBattle(ctx, battleID)
}
