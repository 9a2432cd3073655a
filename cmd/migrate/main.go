package main

import (
	"context"
	"time"

	mongoMigration "hitcounter/internal/migrations/mongo"
	"hitcounter/pkg/client"
	"hitcounter/pkg/config"
)

const (
	JobName    = "mongo-migration"
	jobTimeout = 120 * time.Second
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cfg := config.Load(JobName)
	cfg.Log.Info("Starting Mongo migration job")

	clients := client.NewClient()
	clients.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)

	err := mongoMigration.RunMigration(ctx, clients.Mongo, cfg.MongoDatabaseName, cfg.MongoCollection, cfg.Log)
	clients.DisconnectWithin(cfg.ShutdownTimeout, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Migration failed", "error", err)
	}
	cfg.Log.Info("Migration completed successfully")
}
