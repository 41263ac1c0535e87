package events

import (
	"context"

	"github.com/dukerupert/stshop/internal/telemetry"
)

// Instrumented counts successful publishes per subject.
type Instrumented struct {
	Publisher
}

func (p Instrumented) Publish(ctx context.Context, subject string, data []byte) error {
	if err := p.Publisher.Publish(ctx, subject, data); err != nil {
		return err
	}
	if telemetry.Business != nil {
		telemetry.Business.EventsPublished.WithLabelValues(subject).Inc()
	}
	return nil
}
