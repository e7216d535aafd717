package repository

import (
	"context"
	"time"

	"github.com/casevault/backend/internal/domain"
	"github.com/google/uuid"
)

// Battle defines the interface for battle persistence
type Battle interface {
	GetBattle(ctx context.Context, battleID uuid.UUID) (*domain.Battle, error)
	CreateBattle(ctx context.Context, battle *domain.Battle) error
	AddParticipant(ctx context.Context, p *domain.BattleParticipant) error
	// TransitionState moves the battle between states only when it is
	// currently in the expected state. Returns false when another
	// process won the transition.
	TransitionState(ctx context.Context, battleID uuid.UUID, from, to domain.BattleState) (bool, error)
	SetWinner(ctx context.Context, battleID uuid.UUID, winnerID string, totalPayout int64) error
	// ListExpired returns battles still joining whose deadline passed
	// before the cutoff.
	ListExpired(ctx context.Context, cutoff time.Time) ([]domain.Battle, error)
	// ListStalledResolving returns battles stuck in the resolving state
	// whose deadline passed before the cutoff, usually left behind by a
	// crash or a failed participant draw mid-execution.
	ListStalledResolving(ctx context.Context, cutoff time.Time) ([]domain.Battle, error)
}
