package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// DrawState tracks a draw through the commit/resolve/reveal lifecycle.
type DrawState string

const (
	// DrawStateCommitted: server seed generated, commitment hash persisted,
	// price debited. The outcome is not yet determined.
	DrawStateCommitted DrawState = "committed"
	// DrawStateResolved: outcome determined and payout credited, but the
	// server seed is not yet disclosed.
	DrawStateResolved DrawState = "resolved"
	// DrawStateRevealed: terminal state, server seed disclosed to the actor.
	DrawStateRevealed DrawState = "revealed"
	// DrawStateFailed: the attempt was aborted and compensated.
	DrawStateFailed DrawState = "failed"
)

// Draw is the persisted record of one case opening. A draw that stays
// in the committed state past the recovery grace period is picked up by
// the recovery worker and replayed from the stored seeds.
type Draw struct {
	ID          uuid.UUID  `json:"id"`
	CaseID      string     `json:"case_id"`
	ActorID     string     `json:"actor_id"`
	BattleID    *uuid.UUID `json:"battle_id,omitempty"`
	ClientSeed  string     `json:"client_seed"`
	ServerSeed  string     `json:"-"` // disclosed only via the reveal query
	Commitment  string     `json:"commitment"`
	Nonce       int64      `json:"nonce"`
	State       DrawState  `json:"state"`
	RandomValue float64    `json:"random_value"`
	EntryID     string     `json:"entry_id,omitempty"`
	Payout      int64      `json:"payout_cents"`
	CreatedAt   time.Time  `json:"created_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	RevealedAt  *time.Time `json:"revealed_at,omitempty"`
}

// VerificationRecord holds everything an actor needs to recompute a
// draw's random value and check it against the published commitment.
// ServerSeed is empty until the draw reaches the revealed state.
type VerificationRecord struct {
	Commitment string `json:"commitment"`
	ServerSeed string `json:"server_seed,omitempty"`
	ClientSeed string `json:"client_seed"`
	Nonce      int64  `json:"nonce"`
}

// DrawResult is the outcome returned to the caller of a completed draw.
type DrawResult struct {
	DrawID       uuid.UUID          `json:"draw_id"`
	CaseID       string             `json:"case_id"`
	ActorID      string             `json:"actor_id"`
	Entry        OddsEntry          `json:"entry"`
	RandomValue  float64            `json:"random_value"`
	Payout       int64              `json:"payout_cents"`
	Verification VerificationRecord `json:"verification"`
}

// MultiplyPrice applies a payout multiplier to a price in cents,
// rounding to the nearest cent.
func MultiplyPrice(price int64, multiplier float64) int64 {
	return int64(math.Round(float64(price) * multiplier))
}
