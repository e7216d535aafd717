package domain

import (
	"time"

	"github.com/google/uuid"
)

// BattleState tracks a battle through its lifecycle.
type BattleState string

const (
	BattleStateJoining   BattleState = "joining"
	BattleStateResolving BattleState = "resolving"
	BattleStateCompleted BattleState = "completed"
	// BattleStateCancelled: the join deadline passed without enough
	// participants; buy-ins are refunded.
	BattleStateCancelled BattleState = "cancelled"
)

// Battle is a multiplayer opening: every participant draws from the
// same case and the highest payout wins the comparison. Buy-ins are
// debited at join time, so an accepted participant's draw must resolve
// even if the battle request context is cancelled.
type Battle struct {
	ID           uuid.UUID           `json:"id"`
	CaseID       string              `json:"case_id"`
	CreatorID    string              `json:"creator_id"`
	State        BattleState         `json:"state"`
	MaxPlayers   int                 `json:"max_players"`
	JoinDeadline time.Time           `json:"join_deadline"`
	CreatedAt    time.Time           `json:"created_at"`
	Participants []BattleParticipant `json:"participants,omitempty"`
}

// BattleParticipant is one actor's entry in a battle.
type BattleParticipant struct {
	BattleID uuid.UUID `json:"battle_id"`
	ActorID  string    `json:"actor_id"`
	JoinedAt time.Time `json:"joined_at"`
}

// BattleResult is the joined outcome of all participants' draws.
type BattleResult struct {
	BattleID    uuid.UUID    `json:"battle_id"`
	WinnerID    string       `json:"winner_id"`
	TotalPayout int64        `json:"total_payout_cents"`
	Draws       []DrawResult `json:"draws"`
}
