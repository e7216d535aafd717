package repository

import (
	"context"

	"github.com/casevault/backend/internal/domain"
)

// Ledger defines the interface for balance and ledger persistence
type Ledger interface {
	GetBalance(ctx context.Context, actorID string) (int64, error)
	// Debit atomically checks and reduces the balance. Returns
	// domain.ErrInsufficientFunds without writing when the balance
	// cannot cover the amount.
	Debit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error
	// Credit adds to the balance. A repeated idempotency key returns
	// domain.ErrCreditAlreadyApplied and leaves the balance unchanged.
	Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error
	ListEntries(ctx context.Context, actorID string, limit int) ([]domain.LedgerEntry, error)
}
