package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"hitcounter/pkg/logger"
	"hitcounter/pkg/metrics"
)

const statusDropped = "dropped"

// MessagePublisher is the publishing side of a producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg Message) error
}

// TopicPublisher is a closable publisher bound to one topic. *Producer
// satisfies it.
type TopicPublisher interface {
	MessagePublisher
	Topic() string
	Close() error
}

// Dispatcher hands messages to a fixed pool of workers through a bounded
// queue, so Publish never waits on the broker. Messages that do not fit in
// the queue are dropped and counted.
type Dispatcher struct {
	next   TopicPublisher
	queue  chan Message
	log    *logger.Logger
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewDispatcher(next TopicPublisher, queueSize, workers int, log *logger.Logger) *Dispatcher {
	if queueSize < 1 {
		queueSize = 1
	}
	if workers < 1 {
		workers = 1
	}

	d := &Dispatcher{
		next:  next,
		queue: make(chan Message, queueSize),
		log:   log,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.run()
	}

	return d
}

func (d *Dispatcher) Topic() string {
	return d.next.Topic()
}

// Publish enqueues msg and returns immediately. ctx is not carried to the
// worker: the message outlives the request that produced it.
func (d *Dispatcher) Publish(_ context.Context, msg Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrProducerClosed
	}

	select {
	case d.queue <- msg:
		return nil
	default:
		metrics.StreamPublished.WithLabelValues(d.next.Topic(), statusDropped).Inc()
		return ErrQueueFull
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for msg := range d.queue {
		if err := d.next.Publish(context.Background(), msg); err != nil {
			d.log.Warn("Failed to publish queued message",
				"topic", d.next.Topic(),
				"event_id", msg.GetEventID(),
				"correlation_id", msg.GetCorrelationID(),
				"error", err,
			)
		}
	}
}

// Shutdown stops accepting messages and drains the queue until ctx is done,
// then closes the wrapped publisher. It is safe to call more than once.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(drained)
	}()

	var drainErr error
	select {
	case <-drained:
	case <-ctx.Done():
		drainErr = fmt.Errorf("draining %d queued messages: %w", len(d.queue), ctx.Err())
	}

	return errors.Join(drainErr, d.next.Close())
}

func (d *Dispatcher) Close() error {
	return d.Shutdown(context.Background())
}
