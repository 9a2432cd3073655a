package kafka_config

import "time"

const (
	// Empty brokers disable event streaming.
	DefaultKafkaBrokers     = ""
	DefaultKafkaEventsTopic = "hitcounter.page-views"

	DefaultProducerMaxAttempts  = 3
	DefaultProducerBatchTimeout = 10 * time.Millisecond
	DefaultProducerWriteTimeout = 5 * time.Second
	DefaultProducerRequireAcks  = 1 // leader only, page views are best effort
	DefaultProducerCompression  = "snappy"
	DefaultProducerAsync        = false

	// Pings are queued for the stream so a slow broker never holds a request.
	DefaultProducerQueueSize = 1024
	DefaultProducerWorkers   = 2

	DefaultEnableMiddleware = true
)
