package pubsub

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"

	"github.com/gridironhq/draft-assistant/internal/logger"
)

// EmbeddedNATS runs a NATS server inside the process and implements
// Upstream against it. It gives a single-binary deployment the same event
// semantics as the external-broker setup, with nothing extra to operate on
// draft night.
type EmbeddedNATS struct {
	server      *server.Server
	nc          *nats.Conn
	js          nats.JetStreamContext
	subject     string
	mu          sync.RWMutex
	subscribers []chan Event
}

// EmbeddedOptions configures the embedded server.
type EmbeddedOptions struct {
	Port       int    // Port to listen on (-1 = random available port)
	Subject    string // Subject to publish/subscribe to
	StreamName string // JetStream stream name
	StoreDir   string // Directory for JetStream storage (empty = in-memory)
}

// DefaultEmbeddedOptions returns the single-binary defaults: a random port,
// in-memory storage, and the standard event subject.
func DefaultEmbeddedOptions() EmbeddedOptions {
	return EmbeddedOptions{
		Port:       -1,
		Subject:    "draft.events",
		StreamName: "DRAFT_EVENTS",
		StoreDir:   "",
	}
}

// NewEmbeddedNATS starts the in-process server, connects to it, and creates
// the event stream.
func NewEmbeddedNATS(opts EmbeddedOptions) (*EmbeddedNATS, error) {
	port := opts.Port
	if port == 0 {
		port = -1 // 0 would mean the NATS default port; -1 picks a free one
	}

	serverOpts := &server.Options{
		Port:      port,
		JetStream: true,
		NoLog:     false,
		NoSigs:    true, // The main process owns signal handling
	}
	if opts.StoreDir != "" {
		serverOpts.StoreDir = opts.StoreDir
	}

	ns, err := server.NewServer(serverOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedded NATS server: %w", err)
	}
	ns.SetLogger(&natsLogger{}, false, false)

	go ns.Start()

	if !ns.ReadyForConnections(10 * time.Second) {
		ns.Shutdown()
		return nil, fmt.Errorf("embedded NATS server failed to start within timeout")
	}

	clientURL := ns.ClientURL()
	logger.Info("embedded NATS server started", "url", clientURL)

	nc, err := nats.Connect(clientURL)
	if err != nil {
		ns.Shutdown()
		return nil, fmt.Errorf("failed to connect to embedded NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamName := opts.StreamName
	if streamName == "" {
		streamName = "DRAFT_EVENTS"
	}
	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{opts.Subject},
		Storage:  nats.MemoryStorage,
		MaxAge:   time.Hour,
	})
	if err != nil {
		nc.Close()
		ns.Shutdown()
		return nil, fmt.Errorf("failed to create JetStream stream: %w", err)
	}

	e := &EmbeddedNATS{
		server:  ns,
		nc:      nc,
		js:      js,
		subject: opts.Subject,
	}

	go e.startSubscription()

	return e, nil
}

// startSubscription consumes new events from the stream and fans them out
// to local subscriber channels.
func (e *EmbeddedNATS) startSubscription() {
	_, err := e.js.Subscribe(e.subject, func(msg *nats.Msg) {
		var event Event
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("failed to unmarshal event from JetStream", "error", err)
			msg.Nak()
			return
		}

		// Hold the read lock across the sends so Unsubscribe and Close
		// cannot close a channel mid-delivery. Sends never block.
		e.mu.RLock()
		for _, sub := range e.subscribers {
			select {
			case sub <- event:
			default:
				logger.Warn("embedded NATS: skipping slow subscriber", "event_type", event.Type)
			}
		}
		e.mu.RUnlock()

		msg.Ack()
	}, nats.ManualAck(), nats.DeliverNew())

	if err != nil {
		logger.Error("failed to subscribe to JetStream", "error", err, "subject", e.subject)
	}
}

// Publish persists an event in the stream; the subscription loop delivers
// it back to subscribers.
func (e *EmbeddedNATS) Publish(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("failed to marshal event", "error", err, "event_type", event.Type)
		return
	}

	if _, err := e.js.Publish(e.subject, data); err != nil {
		logger.Error("failed to publish to embedded NATS", "error", err, "subject", e.subject, "event_type", event.Type)
	}
}

// Subscribe creates a channel fed by the stream subscription.
func (e *EmbeddedNATS) Subscribe() chan Event {
	ch := make(chan Event, 100)

	e.mu.Lock()
	e.subscribers = append(e.subscribers, ch)
	e.mu.Unlock()

	return ch
}

// Unsubscribe removes a subscription channel.
func (e *EmbeddedNATS) Unsubscribe(ch chan Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, sub := range e.subscribers {
		if sub == ch {
			e.subscribers = append(e.subscribers[:i], e.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// ServerURL returns the client URL of the embedded server, useful for
// attaching a NATS CLI while debugging.
func (e *EmbeddedNATS) ServerURL() string {
	return e.server.ClientURL()
}

// SubscriberCount reports how many local channels are attached.
func (e *EmbeddedNATS) SubscriberCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.subscribers)
}

// Close shuts down the subscriber channels, the client connection, and the
// server itself.
func (e *EmbeddedNATS) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, sub := range e.subscribers {
		close(sub)
	}
	e.subscribers = nil

	if e.nc != nil {
		e.nc.Close()
	}
	if e.server != nil {
		e.server.Shutdown()
		e.server.WaitForShutdown()
	}

	logger.Info("embedded NATS server shut down")
}

// natsLogger adapts the process logger to the NATS server logger interface.
type natsLogger struct{}

func (l *natsLogger) Noticef(format string, v ...interface{}) {
	logger.Info(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Warnf(format string, v ...interface{}) {
	logger.Warn(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Fatalf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Errorf(format string, v ...interface{}) {
	logger.Error(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Debugf(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS] "+format, v...))
}

func (l *natsLogger) Tracef(format string, v ...interface{}) {
	logger.Debug(fmt.Sprintf("[NATS TRACE] "+format, v...))
}
