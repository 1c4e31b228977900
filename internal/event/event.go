package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/SpinWheel_Go/internal/domain"
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

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if m, ok := e.Metadata.(map[string]interface{}); ok {
		return m[key]
	}
	return nil
}

// Wheel event types
const (
	SpinIssued    Type = domain.EventTypeSpinIssued
	SpinRevealed  Type = domain.EventTypeSpinRevealed
	SpinSettled   Type = domain.EventTypeSpinSettled
	SpinClaimed   Type = domain.EventTypeSpinClaimed
	ClaimFailed   Type = domain.EventTypeClaimFailed
	SpinsUpdated  Type = domain.EventTypeSpinsUpdated
	ConfigUpdated Type = domain.EventTypeConfigUpdated
	SpendRecorded Type = domain.EventTypeSpendRecorded
)

// Type-safe event constructors

// NewSpinIssuedEvent creates the event the authority publishes for every issued outcome
func NewSpinIssuedEvent(outcome domain.SpinOutcome) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinIssued,
		Payload: domain.SpinIssuedPayload{
			SpinID:    outcome.SpinID,
			UserID:    outcome.UserID,
			RewardID:  outcome.RewardID,
			Trigger:   outcome.Trigger,
			Timestamp: outcome.IssuedAt.Unix(),
		},
		Metadata: map[string]interface{}{"spin_id": outcome.SpinID},
	}
}

// NewSpinRevealedEvent creates the reveal event; its payload is the resolved option
func NewSpinRevealedEvent(opt domain.ResolvedOption) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinRevealed,
		Payload: opt,
	}
}

// NewSpinSettledEvent creates the settle event
func NewSpinSettledEvent(opt domain.ResolvedOption, forced bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinSettled,
		Payload: domain.SpinSettledPayload{Option: opt, Forced: forced},
	}
}

// NewSpinClaimedEvent creates the event published after a successful claim
func NewSpinClaimedEvent(outcome domain.SpinOutcome, ack domain.ClaimAck) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinClaimed,
		Payload: domain.SpinClaimedPayload{
			SpinID:         outcome.SpinID,
			Type:           outcome.Type,
			Amount:         outcome.Amount,
			AlreadyClaimed: ack.AlreadyClaimed,
			ClaimedAt:      ack.ClaimedAt,
		},
	}
}

// NewClaimFailedEvent creates the event published when a claim gives up
func NewClaimFailedEvent(spinID string, err error) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ClaimFailed,
		Payload: domain.ClaimFailedPayload{SpinID: spinID, Error: err.Error()},
	}
}

// NewSpinsUpdatedEvent creates the event carrying a new remaining spin count
func NewSpinsUpdatedEvent(remaining int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpinsUpdated,
		Payload: domain.SpinsUpdatedPayload{SpinsRemaining: remaining},
	}
}

// NewConfigUpdatedEvent creates the event published after a config save
func NewConfigUpdatedEvent(version int64, valid bool) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    ConfigUpdated,
		Payload: domain.ConfigUpdatedPayload{Version: version, Valid: valid},
		Metadata: map[string]interface{}{
			"timestamp": time.Now().Unix(),
		},
	}
}

// NewSpendRecordedEvent creates the event published after spend accrual
func NewSpendRecordedEvent(userID, amount string, awarded int) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SpendRecorded,
		Payload: domain.SpendRecordedPayload{UserID: userID, Amount: amount, SpinsAwarded: awarded},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Subscription is the handle returned by Subscribe
type Subscription interface {
	Unsubscribe()
}

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler) Subscription
}

type registration struct {
	id      uint64
	handler Handler
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]registration
	nextID   uint64
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]registration),
	}
}

// Publish publishes an event to all subscribers.
// Handlers run synchronously in subscription order.
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	regs := append([]registration(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, reg := range regs {
		if err := reg.handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], registration{id: id, handler: handler})
	return &memorySubscription{bus: b, eventType: eventType, id: id}
}

// HandlerCount returns how many handlers are subscribed to an event type
func (b *MemoryBus) HandlerCount(eventType Type) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

func (b *MemoryBus) unsubscribe(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	regs := b.handlers[eventType]
	for i, reg := range regs {
		if reg.id == id {
			b.handlers[eventType] = append(regs[:i:i], regs[i+1:]...)
			break
		}
	}
	if len(b.handlers[eventType]) == 0 {
		delete(b.handlers, eventType)
	}
}

type memorySubscription struct {
	bus       *MemoryBus
	eventType Type
	id        uint64
	once      sync.Once
}

func (s *memorySubscription) Unsubscribe() {
	s.once.Do(func() { s.bus.unsubscribe(s.eventType, s.id) })
}
