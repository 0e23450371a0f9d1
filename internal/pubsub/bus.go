// Package pubsub fans draft events out to connected clients. The HTTP layer
// publishes after every state change; the SSE endpoint subscribes so browser
// views stay live without polling. An optional upstream (NATS) bridges
// events across instances when the assistant runs replicated.
package pubsub

import (
	"sync"

	"github.com/gridironhq/draft-assistant/internal/logger"
)

// Event types published by the draft session.
const (
	EventDraftPick       = "draft:pick"
	EventPickAssigned    = "draft:pick_assigned"
	EventPickUndone      = "draft:pick_undone"
	EventStateImported   = "draft:state_imported"
	EventDraftReset      = "draft:reset"
	EventRankingsLoaded  = "catalog:rankings_loaded"
	EventProjectionsSync = "catalog:projections_synced"
)

// Event is one message on the bus.
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Upstream is an external broker the bus can bridge through. Events
// published locally go to the upstream; events arriving from the upstream
// (from any instance, this one included) are delivered to local subscribers.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// Bus is the in-process event hub.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
	upstream    Upstream
}

// New creates a standalone bus with no upstream.
func New() *Bus {
	return &Bus{
		subscribers: make(map[chan Event]struct{}),
	}
}

// NewWithUpstream creates a bus bridged through an upstream broker. Local
// publishes are routed to the upstream only; delivery to local subscribers
// happens when the upstream broadcasts the event back, so every instance
// sees the same stream in the same way.
func NewWithUpstream(upstream Upstream) *Bus {
	b := &Bus{
		subscribers: make(map[chan Event]struct{}),
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			b.deliver(event)
		}
		logger.Debug("upstream event channel closed")
	}()

	return b
}

// Subscribe registers a new listener. The returned channel is buffered;
// events are dropped for listeners that fall behind rather than blocking
// the publisher.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 10)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	total := len(b.subscribers)
	b.mu.Unlock()

	logger.Debug("event subscriber added", "total_subscribers", total)
	return ch
}

// Unsubscribe removes a listener and closes its channel. Unknown channels
// are ignored.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Publish sends an event to every subscriber, through the upstream when one
// is configured.
func (b *Bus) Publish(event Event) {
	if b.upstream != nil {
		b.upstream.Publish(event)
		return
	}
	b.deliver(event)
}

// SubscriberCount reports how many listeners are connected.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// deliver holds the read lock across the sends so Unsubscribe cannot close a
// channel mid-broadcast. Sends never block, so the lock is held briefly.
func (b *Bus) deliver(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			logger.Warn("dropping event for slow subscriber", "event_type", event.Type)
		}
	}
}
