package main

import (
	"hitcounter/internal/events/handler"
	"hitcounter/internal/events/repository"
	"hitcounter/internal/events/service"
	"hitcounter/internal/events/stream"
	"hitcounter/internal/events/validator"
	"hitcounter/pkg/app"
	"hitcounter/pkg/client"
	"hitcounter/pkg/config"
	"hitcounter/pkg/kafka"
	kafka_config "hitcounter/pkg/kafka/config"
	kafka_middleware "hitcounter/pkg/kafka/middleware"
)

const ServiceName = "hitcounter"

func main() {
	cfg := config.Load(ServiceName)

	clients := client.NewClient()
	clients.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	publisher := initEventStream(cfg, clients)

	eventService := service.NewEventService(
		repository.NewMongoEventRepository(cfg, clients.Mongo),
		validator.NewEventValidator(cfg.Log),
		publisher,
		cfg,
	)
	eventHandler := handler.NewEventHandler(eventService, cfg.Log)

	application := app.NewApplication(cfg, clients)
	application.SetApp(eventHandler, handler.IndexPath, handler.PingPath, handler.LogPath)
	application.Run()
}

// initEventStream returns nil when no brokers are configured, which leaves
// the service storing events without publishing them.
func initEventStream(cfg *config.Config, clients *client.Client) service.EventPublisher {
	streamCfg := kafka_config.Load()
	if !streamCfg.Enabled() {
		cfg.Log.Info("Event stream disabled, no brokers configured")
		return nil
	}
	streamCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(streamCfg, cfg.Log)
	if err != nil {
		clients.DisconnectWithin(cfg.ShutdownTimeout, cfg.Log)
		cfg.Log.Fatal("Failed to create event producer", "error", err)
	}
	if streamCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	dispatcher := kafka.NewDispatcher(producer, streamCfg.ProducerQueueSize, streamCfg.ProducerWorkers, cfg.Log)
	clients.SetEventStream(dispatcher)
	cfg.Log.Info("Event stream enabled", "topic", dispatcher.Topic())

	return stream.NewPublisher(dispatcher)
}
