package kafka_middleware

import (
	"context"
	"time"

	"hitcounter/pkg/kafka"
	"hitcounter/pkg/metrics"
)

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// MetricsProducerMiddleware records publish counts and latency per topic.
func MetricsProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		metrics.StreamPublishDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())
		status := statusSuccess
		if err != nil {
			status = statusFailure
		}
		metrics.StreamPublished.WithLabelValues(msg.Topic, status).Inc()

		return err
	}
}
