package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NonceRepository implements the nonce repository for PostgreSQL
type NonceRepository struct {
	db *pgxpool.Pool
}

// NewNonceRepository creates a new NonceRepository
func NewNonceRepository(db *pgxpool.Pool) *NonceRepository {
	return &NonceRepository{db: db}
}

// NextNonce atomically increments and returns the actor's counter.
// The upsert serializes concurrent callers on the actor row, so every
// caller sees a distinct value and values never move backwards.
func (r *NonceRepository) NextNonce(ctx context.Context, actorID string) (int64, error) {
	var nonce int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO actor_nonces (actor_id, nonce)
		 VALUES ($1, 1)
		 ON CONFLICT (actor_id) DO UPDATE SET nonce = actor_nonces.nonce + 1
		 RETURNING nonce`,
		actorID,
	).Scan(&nonce)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToAdvanceNonce, err)
	}
	return nonce, nil
}

// CurrentNonce returns the actor's counter without advancing it.
// Actors that have never drawn are at zero.
func (r *NonceRepository) CurrentNonce(ctx context.Context, actorID string) (int64, error) {
	var nonce int64
	err := r.db.QueryRow(ctx,
		`SELECT nonce FROM actor_nonces WHERE actor_id = $1`, actorID,
	).Scan(&nonce)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetNonce, err)
	}
	return nonce, nil
}
