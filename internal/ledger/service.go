package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/logger"
	"github.com/casevault/backend/internal/metrics"
	"github.com/casevault/backend/internal/repository"
)

// Service provides balance and ledger operations
type Service interface {
	GetBalance(ctx context.Context, actorID string) (int64, error)
	// Debit removes funds atomically. ErrInsufficientFunds when the
	// balance cannot cover the amount; the balance never goes negative.
	Debit(ctx context.Context, actorID string, amount int64, reference string) error
	// Credit adds funds under an idempotency key. Replays are absorbed:
	// a duplicate key logs and returns nil so retrying callers see
	// success without a second payout.
	Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error
	// Deposit tops up an actor's balance from an external source.
	Deposit(ctx context.Context, actorID string, amount int64, reference string) error
	History(ctx context.Context, actorID string, limit int) ([]domain.LedgerEntry, error)
}

type service struct {
	repo repository.Ledger
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{repo: repo}
}

func (s *service) GetBalance(ctx context.Context, actorID string) (int64, error) {
	if actorID == "" {
		return 0, fmt.Errorf("%w: actor id is required", domain.ErrInvalidInput)
	}
	return s.repo.GetBalance(ctx, actorID)
}

func (s *service) Debit(ctx context.Context, actorID string, amount int64, reference string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive", domain.ErrInvalidInput)
	}

	err := s.repo.Debit(ctx, actorID, amount, reference, uuid.NewString())
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			metrics.InsufficientFunds.Inc()
		}
		return err
	}

	metrics.LedgerDebits.Inc()
	return nil
}

func (s *service) Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive", domain.ErrInvalidInput)
	}
	if idempotencyKey == "" {
		return fmt.Errorf("%w: idempotency key is required", domain.ErrInvalidInput)
	}

	err := s.repo.Credit(ctx, actorID, amount, reference, idempotencyKey)
	if errors.Is(err, domain.ErrCreditAlreadyApplied) {
		metrics.DuplicateCredits.Inc()
		logger.FromContext(ctx).Warn("Duplicate credit suppressed",
			"actor_id", actorID,
			"idempotency_key", idempotencyKey)
		return nil
	}
	if err != nil {
		return err
	}

	metrics.LedgerCredits.Inc()
	return nil
}

func (s *service) Deposit(ctx context.Context, actorID string, amount int64, reference string) error {
	return s.Credit(ctx, actorID, amount, reference, "deposit:"+uuid.NewString())
}

func (s *service) History(ctx context.Context, actorID string, limit int) ([]domain.LedgerEntry, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = defaultHistoryLimit
	}
	return s.repo.ListEntries(ctx, actorID, limit)
}
