package repository

import "context"

// Nonce defines the interface for per-actor draw counters
type Nonce interface {
	// NextNonce atomically increments and returns the actor's counter.
	// The first call for an actor returns 1. Concurrent callers never
	// observe the same value.
	NextNonce(ctx context.Context, actorID string) (int64, error)
	CurrentNonce(ctx context.Context, actorID string) (int64, error)
}
