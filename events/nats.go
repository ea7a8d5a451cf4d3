package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsPublisher publishes events to a JetStream stream, one subject per
// event type under the configured prefix.
type NatsPublisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	prefix string
}

// NewNatsPublisher connects to NATS and ensures the stream exists.
func NewNatsPublisher(url, stream, prefix string) (*NatsPublisher, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{prefix + ".>"},
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    time.Hour * 24 * 7,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		nc.Close()
		return nil, err
	}

	return &NatsPublisher{conn: nc, js: js, prefix: prefix}, nil
}

func (p *NatsPublisher) Close() {
	p.conn.Close()
}

// Subject returns the subject an event type is published on.
func (p *NatsPublisher) Subject(t Type) string {
	return fmt.Sprintf("%s.%s", p.prefix, t)
}

func (p *NatsPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.PublishAsync(p.Subject(event.Type), payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	return nil
}
