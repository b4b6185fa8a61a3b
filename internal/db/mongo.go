package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"live-airlines/provisioner/internal/config"
	"live-airlines/provisioner/internal/logging"
	"live-airlines/provisioner/internal/schema"
)

// ConnectMongo opens a client and pings the primary once. There is no retry
// loop: provisioning runs at startup and an unreachable server is fatal.
func ConnectMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI()).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetAppName("liveairlines-provisioner")

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, &schema.ConnectionError{Op: "connect", Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, &schema.ConnectionError{Op: "ping", Err: err}
	}

	logging.Info("Connected to MongoDB",
		"host", cfg.Redacted(),
		"database", cfg.Database,
	)
	return client, nil
}

// PingMongo is used by the health endpoint.
func PingMongo(ctx context.Context, client *mongo.Client) error {
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}
