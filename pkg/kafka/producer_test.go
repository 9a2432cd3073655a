package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu       sync.Mutex
	written  []kafka.Message
	err      error
	closed   int
	deadline bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func buildMessage(t *testing.T) Message {
	t.Helper()
	msg, err := NewMessage().
		WithKey("test-website").
		WithValue(map[string]string{"project": "test-website"}).
		WithEventType("page_view.logged").
		WithSource("hitcounter").
		Build()
	require.NoError(t, err)
	return msg
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "hitcounter.page-views", time.Second)

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))

	require.Len(t, w.written, 1)
	got := w.written[0]
	assert.Equal(t, "test-website", string(got.Key))
	assert.JSONEq(t, `{"project":"test-website"}`, string(got.Value))
	assert.True(t, w.deadline, "publish should carry the write timeout")

	headers := map[string]string{}
	for _, h := range got.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "page_view.logged", headers[HeaderEventType])
	assert.Equal(t, "hitcounter", headers[HeaderSource])
	assert.NotEmpty(t, headers[HeaderEventID])
}

func TestProducer_RejectsInvalidMessages(t *testing.T) {
	p := newProducer(&fakeWriter{}, "topic", 0)

	assert.ErrorIs(t, p.Publish(context.Background(), Message{Value: []byte("{}")}), ErrEmptyKey)
	assert.ErrorIs(t, p.Publish(context.Background(), Message{Key: "k"}), ErrEmptyValue)
}

func TestProducer_WriterError(t *testing.T) {
	boom := errors.New("broker down")
	p := newProducer(&fakeWriter{err: boom}, "topic", 0)

	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), boom)
}

func TestProducer_MiddlewareOrder(t *testing.T) {
	p := newProducer(&fakeWriter{}, "topic", 0)

	var calls []string
	for _, name := range []string{"outer", "inner"} {
		name := name
		p.Use(func(ctx context.Context, msg Message, next func(context.Context, Message) error) error {
			calls = append(calls, name+":before")
			err := next(ctx, msg)
			calls = append(calls, name+":after")
			return err
		})
	}

	require.NoError(t, p.Publish(context.Background(), buildMessage(t)))
	assert.Equal(t, []string{"outer:before", "inner:before", "inner:after", "outer:after"}, calls)
}

func TestProducer_Close(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "topic", 0)

	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	assert.Equal(t, 1, w.closed)
	assert.ErrorIs(t, p.Publish(context.Background(), buildMessage(t)), ErrProducerClosed)
}

func TestMessageBuilder_InvalidValue(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	assert.ErrorIs(t, err, ErrInvalidMessage)
}

func TestMessageBuilder_Defaults(t *testing.T) {
	ts := time.Date(2025, 9, 25, 10, 0, 0, 0, time.UTC)
	msg, err := NewMessage().WithKey("k").WithValue("v").WithTimestamp(ts).WithEventID("fixed").Build()
	require.NoError(t, err)

	assert.Equal(t, "fixed", msg.GetEventID())
	assert.Equal(t, "2025-09-25T10:00:00Z", msg.Headers[HeaderTimestamp])
	assert.Empty(t, msg.GetCorrelationID())
}
