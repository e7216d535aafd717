package domain

import (
	"time"

	"github.com/google/uuid"
)

// LedgerDirection is the sign of a ledger entry.
type LedgerDirection string

const (
	LedgerDebit  LedgerDirection = "debit"
	LedgerCredit LedgerDirection = "credit"
)

// LedgerEntry is one immutable balance movement. Amounts are cents;
// integer arithmetic avoids the float rounding issues that matter here.
// The idempotency key makes credits replay-safe: a second insert with
// the same key is rejected instead of paying out twice.
type LedgerEntry struct {
	ID             uuid.UUID       `json:"id"`
	ActorID        string          `json:"actor_id"`
	Amount         int64           `json:"amount_cents"`
	Direction      LedgerDirection `json:"direction"`
	Reference      string          `json:"reference"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
