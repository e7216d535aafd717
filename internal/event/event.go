package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/casevault/backend/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata defines the type for event metadata
type Metadata interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata"`
}

// Draw lifecycle event types
const (
	DrawCommitted Type = domain.EventDrawCommitted
	DrawResolved  Type = domain.EventDrawResolved
	DrawRecovered Type = domain.EventDrawRecovered

	BattleStarted   Type = domain.EventBattleStarted
	BattleJoined    Type = domain.EventBattleJoined
	BattleCompleted Type = domain.EventBattleCompleted
)

var payoutPrinter = message.NewPrinter(language.English)

// FormatPayout renders a cent amount for live-feed display, with digit
// grouping for the large multiplier wins.
func FormatPayout(cents int64) string {
	return payoutPrinter.Sprintf("$%.2f", float64(cents)/100)
}

// NewDrawResolvedEvent builds the event broadcast when a draw completes.
func NewDrawResolvedEvent(result *domain.DrawResult, rarity domain.RarityTier) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    DrawResolved,
		Payload: domain.DrawResolvedPayload{
			DrawID:        result.DrawID.String(),
			CaseID:        result.CaseID,
			ActorID:       result.ActorID,
			EntryID:       result.Entry.ID,
			Rarity:        rarity,
			Payout:        result.Payout,
			PayoutDisplay: FormatPayout(result.Payout),
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewBattleCompletedEvent builds the event broadcast when every
// participant's draw has resolved and a winner is declared.
func NewBattleCompletedEvent(result *domain.BattleResult, caseID string) Event {
	outcomes := make([]domain.BattleParticipantOutcome, 0, len(result.Draws))
	for _, d := range result.Draws {
		outcomes = append(outcomes, domain.BattleParticipantOutcome{
			ActorID:  d.ActorID,
			DrawID:   d.DrawID.String(),
			Payout:   d.Payout,
			IsWinner: d.ActorID == result.WinnerID,
		})
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    BattleCompleted,
		Payload: domain.BattleCompletedPayload{
			BattleID:      result.BattleID.String(),
			CaseID:        caseID,
			WinnerID:      result.WinnerID,
			TotalPayout:   result.TotalPayout,
			PayoutDisplay: FormatPayout(result.TotalPayout),
			Participants:  outcomes,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// Broadcaster is the fire-and-forget publishing surface services use.
// Delivery problems are absorbed by the publisher, never returned to
// the caller.
type Broadcaster interface {
	PublishWithRetry(ctx context.Context, event Event)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	// Handlers run synchronously. Callers that must not block on
	// delivery go through the ResilientPublisher instead.
	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
