// Package events publishes change events after successful mutations.
//
// Every event is a JSON object published on "<prefix>.<entity>.created":
//
//	{"type":"user.created","id":"65f1...","at":1718000000000,"data":{...}}
//
// "at" is epoch milliseconds, matching the GraphQL Date scalar. Publishing is
// best-effort: callers log and drop errors. Password fields never appear in
// payloads because the model types exclude them from JSON.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ayush9goyal/graphql-k8s-demo/errors"
	"github.com/ayush9goyal/graphql-k8s-demo/metric"
	"github.com/ayush9goyal/graphql-k8s-demo/pkg/timestamp"
)

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "storefront"

// Entity names used in event types and subjects
const (
	EntityUser     = "user"
	EntityCategory = "category"
	EntityProduct  = "product"
	EntityOrder    = "order"
	EntityReview   = "review"
)

// Event describes one created document
type Event struct {
	Type string    `json:"type"`
	ID   string    `json:"id"`
	At   time.Time `json:"-"`
	Data any       `json:"data,omitempty"`
}

// Created builds the event for a newly created document
func Created(entity, id string, data any) Event {
	return Event{
		Type: entity + ".created",
		ID:   id,
		At:   timestamp.Now(),
		Data: data,
	}
}

// MarshalJSON encodes At as epoch milliseconds
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	return json.Marshal(struct {
		alias
		At int64 `json:"at"`
	}{alias: alias(e), At: timestamp.ToUnixMs(e.At)})
}

// Publisher publishes change events
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Conn is the transport a NATSPublisher writes to; *natsclient.Client satisfies it
type Conn interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSPublisher publishes events as JSON on NATS subjects
type NATSPublisher struct {
	conn    Conn
	prefix  string
	metrics *metric.Metrics
	logger  *slog.Logger
}

// NewNATSPublisher creates a publisher. metrics may be nil.
func NewNATSPublisher(conn Conn, prefix string, metrics *metric.Metrics, logger *slog.Logger) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NATSPublisher{
		conn:    conn,
		prefix:  prefix,
		metrics: metrics,
		logger:  logger.With("component", "events"),
	}
}

// Subject returns the subject an event type is published on
func (p *NATSPublisher) Subject(eventType string) string {
	return p.prefix + "." + eventType
}

// Publish encodes and publishes event
func (p *NATSPublisher) Publish(ctx context.Context, event Event) error {
	subject := p.Subject(event.Type)

	data, err := json.Marshal(event)
	if err != nil {
		err = errors.WrapInvalid(err, "NATSPublisher", "Publish", "encode event")
	} else if err = p.conn.Publish(ctx, subject, data); err != nil {
		err = errors.WrapTransient(err, "NATSPublisher", "Publish", "publish "+subject)
	}

	if p.metrics != nil {
		p.metrics.RecordEventPublished(subject, err)
	}
	if err == nil {
		p.logger.Debug("Event published", "subject", subject, "id", event.ID)
	}
	return err
}

// Nop discards events. It is used when no NATS URL is configured.
type Nop struct{}

// Publish does nothing
func (Nop) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish records event
func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = Nop{}
	_ Publisher = (*Recorder)(nil)
)
