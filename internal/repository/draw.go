package repository

import (
	"context"
	"time"

	"github.com/casevault/backend/internal/domain"
	"github.com/google/uuid"
)

// Draw defines the interface for draw persistence
type Draw interface {
	GetDraw(ctx context.Context, drawID uuid.UUID) (*domain.Draw, error)
	ListByActor(ctx context.Context, actorID string, limit int) ([]domain.Draw, error)
	// ListStalled returns draws still in the committed state whose
	// creation time is older than the cutoff. The recovery worker
	// replays these.
	ListStalled(ctx context.Context, cutoff time.Time) ([]domain.Draw, error)
	// ListByBattle returns every draw recorded for a battle.
	ListByBattle(ctx context.Context, battleID uuid.UUID) ([]domain.Draw, error)
	MarkRevealed(ctx context.Context, drawID uuid.UUID, revealedAt time.Time) error
	BeginTx(ctx context.Context) (DrawTx, error)
}

// DrawTx defines the interface for draw transactions. The commit of a
// draw and the ledger movement it pays for always share one transaction.
type DrawTx interface {
	Tx
	CreateDraw(ctx context.Context, draw *domain.Draw) error
	CompleteDraw(ctx context.Context, drawID uuid.UUID, entryID string, randomValue float64, payout int64, resolvedAt time.Time) error
	Debit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error
	Credit(ctx context.Context, actorID string, amount int64, reference, idempotencyKey string) error
}
