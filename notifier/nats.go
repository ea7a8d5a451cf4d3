package main

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

type Client struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

func NewNats(url string) (*Client, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, err
	}

	return &Client{conn: nc, js: js}, nil
}

func (c *Client) Close() {
	c.conn.Close()
}

// Subscribe pulls messages for the subject and feeds them to the pool until
// the context is cancelled.
func (c *Client) Subscribe(ctx context.Context, subject string, pool *WorkerPool) error {
	durable := strings.ReplaceAll(subject+".notifier", ".", "-")
	durable = strings.ReplaceAll(durable, ">", "all")
	durable = strings.ReplaceAll(durable, "*", "any")

	subscription, err := c.js.PullSubscribe(subject, durable, nats.ManualAck())
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			if err := subscription.Unsubscribe(); err != nil {
				slog.Warn("failed to unsubscribe from subject", "subject", subject, "error", err)
			}

			return nil
		default:
			msgs, err := subscription.Fetch(4, nats.MaxWait(200*time.Millisecond))
			if err != nil && !errors.Is(err, nats.ErrTimeout) {
				return err
			}
			if len(msgs) == 0 {
				continue
			}

			for _, msg := range msgs {
				pool.Submit(ctx, msg)
			}
		}
	}
}
