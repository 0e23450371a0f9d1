package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/gridironhq/draft-assistant/internal/logger"
)

// NATSUpstream bridges the bus through an external NATS JetStream server,
// for running the assistant replicated behind a load balancer during big
// league events.
type NATSUpstream struct {
	nc          *nats.Conn
	js          nats.JetStreamContext
	subject     string
	mu          sync.RWMutex
	subscribers []chan Event
}

// NewNATSUpstream connects to NATS at natsURL and ensures the event stream
// exists. Published events are persisted by JetStream and delivered back to
// every instance's subscribers, including this one.
func NewNATSUpstream(natsURL, subject string) (*NATSUpstream, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamName := "DRAFT_EVENTS"
	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
			MaxAge:   0, // Keep events indefinitely for replay
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	u := &NATSUpstream{
		nc:      nc,
		js:      js,
		subject: subject,
	}

	if err := u.startSubscription(); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to subscribe to stream: %w", err)
	}
	return u, nil
}

// startSubscription consumes new events from JetStream and fans them out to
// local subscriber channels.
func (u *NATSUpstream) startSubscription() error {
	_, err := u.js.Subscribe(u.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}

		// Hold the read lock across the sends so Unsubscribe and Close
		// cannot close a channel mid-delivery. Sends never block.
		u.mu.RLock()
		for _, sub := range u.subscribers {
			select {
			case sub <- event:
			default:
				logger.Warn("NATS upstream: skipping slow subscriber", "event_type", event.Type)
			}
		}
		u.mu.RUnlock()

		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())
	return err
}

// Publish persists an event in JetStream. Delivery back to subscribers
// rides the stream subscription, so a publish failure means nobody sees the
// event, on any instance.
func (u *NATSUpstream) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := u.js.Publish(u.subject, data); err != nil {
		logger.Error("failed to publish to NATS", "error", err, "subject", u.subject, "event_type", event.Type)
	}
}

// Subscribe creates a channel fed by the JetStream subscription.
func (u *NATSUpstream) Subscribe() chan Event {
	ch := make(chan Event, 100)

	u.mu.Lock()
	u.subscribers = append(u.subscribers, ch)
	u.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel.
func (u *NATSUpstream) Unsubscribe(ch chan Event) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for i, sub := range u.subscribers {
		if sub == ch {
			u.subscribers = append(u.subscribers[:i], u.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Close closes all subscriber channels and the NATS connection.
func (u *NATSUpstream) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, sub := range u.subscribers {
		close(sub)
	}
	u.subscribers = nil

	if u.nc != nil {
		u.nc.Close()
	}
}
