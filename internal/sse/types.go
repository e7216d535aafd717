package sse

// DrawFeedPayload is the live-feed line for a resolved draw. The feed
// shows outcomes only; verification material stays behind the draw API.
type DrawFeedPayload struct {
	DrawID        string `json:"draw_id"`
	CaseID        string `json:"case_id"`
	ActorID       string `json:"actor_id"`
	EntryID       string `json:"entry_id"`
	Rarity        string `json:"rarity"`
	PayoutDisplay string `json:"payout_display"`
}

// BattleFeedPayload is the live-feed line for battle lifecycle events.
type BattleFeedPayload struct {
	BattleID      string `json:"battle_id"`
	CaseID        string `json:"case_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
	WinnerID      string `json:"winner_id,omitempty"`
	PayoutDisplay string `json:"payout_display,omitempty"`
	Participants  int    `json:"participants,omitempty"`
}
