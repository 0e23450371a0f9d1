package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/gridironhq/draft-assistant/internal/logger"
)

func init() {
	// Initialize logger for tests
	logger.Init()
}

func TestNewEmbeddedNATS(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	if e.server == nil {
		t.Error("server should not be nil")
	}
	if e.nc == nil {
		t.Error("NATS connection should not be nil")
	}
	if e.js == nil {
		t.Error("JetStream context should not be nil")
	}
}

func TestEmbeddedNATSServerURL(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	url := e.ServerURL()
	if url == "" {
		t.Error("server URL should not be empty")
	}
	t.Logf("Embedded NATS URL: %s", url)
}

func TestEmbeddedNATSSubscribeUnsubscribe(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	ch := e.Subscribe()
	if ch == nil {
		t.Fatal("Subscribe() returned nil channel")
	}
	if e.SubscriberCount() != 1 {
		t.Errorf("expected 1 subscriber, got %d", e.SubscriberCount())
	}

	e.Unsubscribe(ch)

	if e.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after unsubscribe, got %d", e.SubscriberCount())
	}

	// Verify channel is closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestEmbeddedNATSPublishAndReceive(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	// Give the subscription goroutine time to start
	time.Sleep(100 * time.Millisecond)

	ch := e.Subscribe()

	event := Event{
		Type:    EventDraftPick,
		Payload: map[string]interface{}{"player_id": "wr_1", "pick_number": 3.0},
	}

	e.Publish(event)

	select {
	case received := <-ch:
		if received.Type != event.Type {
			t.Errorf("expected type %s, got %s", event.Type, received.Type)
		}
		if received.Payload["player_id"] != "wr_1" {
			t.Error("payload mismatch")
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for event")
	}
}

func TestEmbeddedNATSMultipleSubscribers(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	time.Sleep(100 * time.Millisecond)

	ch1 := e.Subscribe()
	ch2 := e.Subscribe()
	ch3 := e.Subscribe()

	if e.SubscriberCount() != 3 {
		t.Errorf("expected 3 subscribers, got %d", e.SubscriberCount())
	}

	e.Publish(Event{Type: EventStateImported})

	for i, ch := range []chan Event{ch1, ch2, ch3} {
		select {
		case received := <-ch:
			if received.Type != EventStateImported {
				t.Errorf("subscriber %d: expected type %s, got %s", i, EventStateImported, received.Type)
			}
		case <-time.After(2 * time.Second):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestEmbeddedNATSConcurrentPublish(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	time.Sleep(100 * time.Millisecond)

	ch := e.Subscribe()

	var wg sync.WaitGroup
	numPublishers := 5
	eventsPerPublisher := 10

	for i := 0; i < numPublishers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < eventsPerPublisher; j++ {
				e.Publish(Event{
					Type:    EventDraftPick,
					Payload: map[string]interface{}{"publisher": id, "seq": j},
				})
			}
		}(i)
	}

	received := 0
	expectedTotal := numPublishers * eventsPerPublisher
	timeout := time.After(5 * time.Second)

	for received < expectedTotal {
		select {
		case <-ch:
			received++
		case <-timeout:
			t.Logf("Received %d/%d events before timeout", received, expectedTotal)
			goto done
		}
	}
done:

	wg.Wait()

	// JetStream persists every publish, so nothing should be lost
	if received != expectedTotal {
		t.Errorf("expected %d events, received %d", expectedTotal, received)
	}
}

func TestEmbeddedNATSClose(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}

	ch := e.Subscribe()

	e.Close()

	// Verify channel is closed
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("channel should be closed after Close()")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestEmbeddedNATSCustomOptions(t *testing.T) {
	opts := EmbeddedOptions{
		Port:       0, // Treated as random
		Subject:    "custom.events",
		StreamName: "CUSTOM_STREAM",
		StoreDir:   "",
	}

	e, err := NewEmbeddedNATS(opts)
	if err != nil {
		t.Fatalf("Failed to create embedded NATS with custom options: %v", err)
	}
	defer e.Close()

	if e.subject != "custom.events" {
		t.Errorf("expected subject custom.events, got %s", e.subject)
	}
}

func TestDefaultEmbeddedOptions(t *testing.T) {
	opts := DefaultEmbeddedOptions()

	if opts.Port != -1 {
		t.Errorf("expected port -1 (random), got %d", opts.Port)
	}
	if opts.Subject != "draft.events" {
		t.Errorf("expected subject draft.events, got %s", opts.Subject)
	}
	if opts.StreamName != "DRAFT_EVENTS" {
		t.Errorf("expected stream name DRAFT_EVENTS, got %s", opts.StreamName)
	}
	if opts.StoreDir != "" {
		t.Errorf("expected empty store dir, got %s", opts.StoreDir)
	}
}

func TestBusWithEmbeddedUpstream(t *testing.T) {
	e, err := NewEmbeddedNATS(DefaultEmbeddedOptions())
	if err != nil {
		t.Fatalf("Failed to create embedded NATS: %v", err)
	}
	defer e.Close()

	time.Sleep(100 * time.Millisecond)

	bus := NewWithUpstream(e)
	ch := bus.Subscribe()

	bus.Publish(Event{
		Type:    EventPickAssigned,
		Payload: map[string]interface{}{"pick_number": 12.0},
	})

	// The event round-trips through the stream back to the bus
	select {
	case received := <-ch:
		if received.Type != EventPickAssigned {
			t.Errorf("expected type %s, got %s", EventPickAssigned, received.Type)
		}
		if received.Payload["pick_number"] != 12.0 {
			t.Error("payload mismatch")
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for event")
	}
}
