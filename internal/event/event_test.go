package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casevault/backend/internal/domain"
)

func TestMemoryBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewMemoryBus()
	var got []Event

	bus.Subscribe(DrawResolved, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: DrawResolved, Version: EventSchemaVersion})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, DrawResolved, got[0].Type)
}

func TestMemoryBus_NoSubscribersIsNotAnError(t *testing.T) {
	bus := NewMemoryBus()
	assert.NoError(t, bus.Publish(context.Background(), Event{Type: BattleCompleted}))
}

func TestMemoryBus_HandlerErrorsAggregate(t *testing.T) {
	bus := NewMemoryBus()
	bus.Subscribe(DrawResolved, func(context.Context, Event) error {
		return errors.New("sink offline")
	})
	bus.Subscribe(DrawResolved, func(context.Context, Event) error {
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: DrawResolved})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 errors")
}

func TestFormatPayout(t *testing.T) {
	assert.Equal(t, "$0.00", FormatPayout(0))
	assert.Equal(t, "$5.00", FormatPayout(500))
	assert.Equal(t, "$12.34", FormatPayout(1234))
	assert.Equal(t, "$20,000.00", FormatPayout(2000000))
}

func TestNewDrawResolvedEvent(t *testing.T) {
	result := &domain.DrawResult{
		DrawID:  uuid.New(),
		CaseID:  "starter-crate",
		ActorID: "actor-1",
		Entry:   domain.OddsEntry{ID: "relic", Rarity: domain.RarityRare},
		Payout:  1250,
	}

	e := NewDrawResolvedEvent(result, domain.RarityRare)
	assert.Equal(t, DrawResolved, e.Type)
	assert.Equal(t, EventSchemaVersion, e.Version)

	payload, err := DecodePayload[domain.DrawResolvedPayload](e.Payload)
	require.NoError(t, err)
	assert.Equal(t, result.DrawID.String(), payload.DrawID)
	assert.Equal(t, "relic", payload.EntryID)
	assert.Equal(t, "$12.50", payload.PayoutDisplay)
}

func TestNewBattleCompletedEvent_MarksWinner(t *testing.T) {
	winner := domain.DrawResult{DrawID: uuid.New(), ActorID: "actor-2", Payout: 4000}
	loser := domain.DrawResult{DrawID: uuid.New(), ActorID: "actor-1", Payout: 100}
	result := &domain.BattleResult{
		BattleID:    uuid.New(),
		WinnerID:    "actor-2",
		TotalPayout: 4100,
		Draws:       []domain.DrawResult{loser, winner},
	}

	e := NewBattleCompletedEvent(result, "starter-crate")
	payload, err := DecodePayload[domain.BattleCompletedPayload](e.Payload)
	require.NoError(t, err)

	require.Len(t, payload.Participants, 2)
	assert.False(t, payload.Participants[0].IsWinner)
	assert.True(t, payload.Participants[1].IsWinner)
	assert.Equal(t, "$41.00", payload.PayoutDisplay)
}

func TestDecodePayload_JSONFallback(t *testing.T) {
	raw := map[string]interface{}{"draw_id": "d-1", "actor_id": "actor-1"}
	payload, err := DecodePayload[domain.DrawResolvedPayload](raw)
	require.NoError(t, err)
	assert.Equal(t, "d-1", payload.DrawID)
}

func TestCalculateRetryDelay(t *testing.T) {
	base := 2 * time.Second
	assert.Equal(t, 2*time.Second, CalculateRetryDelay(base, 1))
	assert.Equal(t, 4*time.Second, CalculateRetryDelay(base, 2))
	assert.Equal(t, 32*time.Second, CalculateRetryDelay(base, 5))
}
