package sse

import (
	"context"
	"log/slog"

	"github.com/casevault/backend/internal/domain"
	"github.com/casevault/backend/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{
		hub: hub,
		bus: bus,
	}
}

// Subscribe registers handlers for all relevant event types
func (s *Subscriber) Subscribe() {
	s.bus.Subscribe(event.DrawResolved, s.handleDrawResolved)
	s.bus.Subscribe(event.DrawRecovered, s.handleDrawResolved)
	s.bus.Subscribe(event.BattleStarted, s.handleBattleLifecycle)
	s.bus.Subscribe(event.BattleJoined, s.handleBattleLifecycle)
	s.bus.Subscribe(event.BattleCompleted, s.handleBattleCompleted)

	slog.Info("SSE subscriber registered for event types",
		"types", []string{
			string(event.DrawResolved),
			string(event.DrawRecovered),
			string(event.BattleStarted),
			string(event.BattleJoined),
			string(event.BattleCompleted),
		})
}

// handleDrawResolved broadcasts resolved and recovered draws to the feed
func (s *Subscriber) handleDrawResolved(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.DrawResolvedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid draw resolved event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeDrawResolved, DrawFeedPayload{
		DrawID:        payload.DrawID,
		CaseID:        payload.CaseID,
		ActorID:       payload.ActorID,
		EntryID:       payload.EntryID,
		Rarity:        string(payload.Rarity),
		PayoutDisplay: payload.PayoutDisplay,
	})

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeDrawResolved,
		"draw_id", payload.DrawID,
		"rarity", payload.Rarity)

	return nil
}

// handleBattleLifecycle broadcasts started/joined battle events
func (s *Subscriber) handleBattleLifecycle(_ context.Context, evt event.Event) error {
	payload, ok := evt.Payload.(map[string]interface{})
	if !ok {
		slog.Warn("Invalid battle lifecycle event payload type")
		return nil
	}

	feed := BattleFeedPayload{
		BattleID: getStringFromMap(payload, "battle_id"),
		CaseID:   getStringFromMap(payload, "case_id"),
		ActorID:  getStringFromMap(payload, "actor_id"),
	}

	eventType := EventTypeBattleStarted
	if evt.Type == event.BattleJoined {
		eventType = EventTypeBattleJoined
	}
	s.hub.Broadcast(eventType, feed)

	slog.Debug(LogMsgEventBroadcast,
		"event_type", eventType,
		"battle_id", feed.BattleID)

	return nil
}

// handleBattleCompleted broadcasts the winner declaration
func (s *Subscriber) handleBattleCompleted(_ context.Context, evt event.Event) error {
	payload, err := event.DecodePayload[domain.BattleCompletedPayload](evt.Payload)
	if err != nil {
		slog.Warn("Invalid battle completed event payload", "error", err)
		return nil
	}

	s.hub.Broadcast(EventTypeBattleCompleted, BattleFeedPayload{
		BattleID:      payload.BattleID,
		CaseID:        payload.CaseID,
		WinnerID:      payload.WinnerID,
		PayoutDisplay: payload.PayoutDisplay,
		Participants:  len(payload.Participants),
	})

	slog.Debug(LogMsgEventBroadcast,
		"event_type", EventTypeBattleCompleted,
		"battle_id", payload.BattleID,
		"winner_id", payload.WinnerID)

	return nil
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
