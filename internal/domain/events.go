package domain

// Event type constants for the draw lifecycle. Handlers subscribe to
// these on the in-process bus; the SSE hub relays them to live-feed
// consumers.
const (
	EventDrawCommitted   = "draw.committed"
	EventDrawResolved    = "draw.resolved"
	EventDrawRecovered   = "draw.recovered"
	EventBattleStarted   = "battle.started"
	EventBattleJoined    = "battle.joined"
	EventBattleCompleted = "battle.completed"
)

// DrawResolvedPayload is broadcast after a draw completes. It carries
// only display data; verification material is served by the draw API.
type DrawResolvedPayload struct {
	DrawID        string     `json:"draw_id"`
	CaseID        string     `json:"case_id"`
	ActorID       string     `json:"actor_id"`
	EntryID       string     `json:"entry_id"`
	Rarity        RarityTier `json:"rarity"`
	Payout        int64      `json:"payout_cents"`
	PayoutDisplay string     `json:"payout_display"`
	Timestamp     int64      `json:"timestamp"`
}

// BattleCompletedPayload is broadcast once every participant's draw has
// resolved and the winner comparison is done.
type BattleCompletedPayload struct {
	BattleID      string                     `json:"battle_id"`
	CaseID        string                     `json:"case_id"`
	WinnerID      string                     `json:"winner_id"`
	TotalPayout   int64                      `json:"total_payout_cents"`
	PayoutDisplay string                     `json:"payout_display"`
	Participants  []BattleParticipantOutcome `json:"participants"`
	Timestamp     int64                      `json:"timestamp"`
}

// BattleParticipantOutcome is one actor's line in a completed battle.
type BattleParticipantOutcome struct {
	ActorID  string `json:"actor_id"`
	DrawID   string `json:"draw_id"`
	Payout   int64  `json:"payout_cents"`
	IsWinner bool   `json:"is_winner"`
}
