// Package events publishes domain events to NATS.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// SubjectOrderPlaced carries one message per committed order.
const SubjectOrderPlaced = "shop.orders.placed"

const flushTimeout = 5 * time.Second

// Publisher sends an event payload to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSPublisher publishes over a core NATS connection and waits for the
// server to acknowledge the flush before returning.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Connect dials the NATS server at url.
func Connect(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("stshop"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("connected to nats", "url", conn.ConnectedUrl())
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	// FlushWithContext rejects contexts without a deadline.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	if err := p.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush %s: %w", subject, err)
	}
	p.logger.Debug("event published", "subject", subject, "bytes", len(data))
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
