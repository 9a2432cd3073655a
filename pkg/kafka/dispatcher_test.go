package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hitcounter/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTopicPublisher struct {
	mu          sync.Mutex
	publishFunc func(ctx context.Context, msg Message) error
	published   []Message
	closed      int
}

func (m *mockTopicPublisher) Publish(ctx context.Context, msg Message) error {
	if m.publishFunc != nil {
		if err := m.publishFunc(ctx, msg); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, msg)
	return nil
}

func (m *mockTopicPublisher) Topic() string {
	return "page-views"
}

func (m *mockTopicPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

func (m *mockTopicPublisher) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.published)
}

func testMessage(t *testing.T, id string) Message {
	t.Helper()
	msg, err := NewMessage().WithKey("site").WithValue("v").WithEventID(id).Build()
	require.NoError(t, err)
	return msg
}

func TestDispatcher_PublishDoesNotWaitForBroker(t *testing.T) {
	release := make(chan struct{})
	next := &mockTopicPublisher{publishFunc: func(context.Context, Message) error {
		<-release
		return nil
	}}
	d := NewDispatcher(next, 4, 1, logger.Discard())

	require.NoError(t, d.Publish(context.Background(), testMessage(t, "a")))
	assert.Equal(t, 0, next.count())

	close(release)
	require.NoError(t, d.Close())
	assert.Equal(t, 1, next.count())
	assert.Equal(t, 1, next.closed)
}

func TestDispatcher_QueueFull(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	next := &mockTopicPublisher{publishFunc: func(context.Context, Message) error {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}}
	d := NewDispatcher(next, 1, 1, logger.Discard())

	// The worker holds the first message, the queue holds the second.
	require.NoError(t, d.Publish(context.Background(), testMessage(t, "a")))
	<-started
	require.NoError(t, d.Publish(context.Background(), testMessage(t, "b")))

	err := d.Publish(context.Background(), testMessage(t, "c"))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(release)
	require.NoError(t, d.Close())
	assert.Equal(t, 2, next.count())
}

func TestDispatcher_DrainsOnClose(t *testing.T) {
	next := &mockTopicPublisher{}
	d := NewDispatcher(next, 16, 2, logger.Discard())

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		require.NoError(t, d.Publish(context.Background(), testMessage(t, id)))
	}

	require.NoError(t, d.Close())
	assert.Equal(t, 5, next.count())
}

func TestDispatcher_PublishAfterClose(t *testing.T) {
	next := &mockTopicPublisher{}
	d := NewDispatcher(next, 1, 1, logger.Discard())

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	err := d.Publish(context.Background(), testMessage(t, "a"))
	assert.ErrorIs(t, err, ErrProducerClosed)
	assert.Equal(t, 1, next.closed)
}

func TestDispatcher_ShutdownDeadline(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	next := &mockTopicPublisher{publishFunc: func(context.Context, Message) error {
		<-release
		return nil
	}}
	d := NewDispatcher(next, 4, 1, logger.Discard())
	require.NoError(t, d.Publish(context.Background(), testMessage(t, "a")))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := d.Shutdown(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 1, next.closed)
}

func TestDispatcher_WorkerErrorsAreLogged(t *testing.T) {
	next := &mockTopicPublisher{publishFunc: func(context.Context, Message) error {
		return errors.New("broker down")
	}}
	d := NewDispatcher(next, 4, 1, logger.Discard())

	require.NoError(t, d.Publish(context.Background(), testMessage(t, "a")))
	require.NoError(t, d.Close())
	assert.Equal(t, 0, next.count())
}

func TestDispatcher_WrapsProducer(t *testing.T) {
	writer := &fakeWriter{}
	p := &Producer{writer: writer, topic: "page-views", writeTimeout: time.Second}
	d := NewDispatcher(p, 4, 1, logger.Discard())

	assert.Equal(t, "page-views", d.Topic())
	require.NoError(t, d.Publish(context.Background(), testMessage(t, "a")))
	require.NoError(t, d.Close())

	require.Len(t, writer.written, 1)
	assert.Equal(t, 1, writer.closed)
}
