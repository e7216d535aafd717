package fairness

import (
	"context"
	"fmt"

	"github.com/casevault/backend/internal/repository"
)

// Commit holds the per-draw fairness material produced before any
// funds move. The server seed stays private until the draw persists.
type Commit struct {
	ServerSeed string
	Commitment string
	Nonce      int64
}

// Service produces and seals fairness commitments
type Service interface {
	// NewCommit generates a server seed and burns the actor's next
	// nonce. A sealed nonce is consumed even if the draw it was minted
	// for later fails, keeping the sequence strictly increasing.
	NewCommit(ctx context.Context, actorID string) (*Commit, error)
	CurrentNonce(ctx context.Context, actorID string) (int64, error)
}

type service struct {
	nonces repository.Nonce
}

// NewService creates a new fairness service
func NewService(nonces repository.Nonce) Service {
	return &service{nonces: nonces}
}

func (s *service) NewCommit(ctx context.Context, actorID string) (*Commit, error) {
	seed, err := GenerateServerSeed()
	if err != nil {
		return nil, err
	}

	nonce, err := s.nonces.NextNonce(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to seal nonce for actor %s: %w", actorID, err)
	}

	return &Commit{
		ServerSeed: seed,
		Commitment: Commitment(seed),
		Nonce:      nonce,
	}, nil
}

func (s *service) CurrentNonce(ctx context.Context, actorID string) (int64, error) {
	return s.nonces.CurrentNonce(ctx, actorID)
}
