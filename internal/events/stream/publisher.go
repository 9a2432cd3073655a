package stream

import (
	"context"
	"time"

	"hitcounter/pkg/kafka"
	"hitcounter/pkg/middleware"
	"hitcounter/pkg/model"
)

const (
	EventTypePageView = "page_view.logged"
	SchemaVersion     = "1"
	Source            = "hitcounter"
)

// Publisher sends stored events to the event stream, keyed by project so a
// project's events stay on one partition. Only the normalized event is sent.
type Publisher struct {
	producer kafka.MessagePublisher
}

func NewPublisher(producer kafka.MessagePublisher) *Publisher {
	return &Publisher{producer: producer}
}

func (p *Publisher) Publish(ctx context.Context, ev *model.Event) error {
	builder := kafka.NewMessage().
		WithKey(ev.Project).
		WithValue(ev).
		WithEventID(ev.ID).
		WithEventType(EventTypePageView).
		WithCorrelationID(middleware.RequestIDFrom(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source)

	// The record time is the receive time, not the publish time.
	if ts, err := time.Parse(model.TimestampLayout, ev.Timestamp); err == nil {
		builder = builder.WithTimestamp(ts)
	}

	msg, err := builder.Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}
