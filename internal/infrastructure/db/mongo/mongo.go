// Package mongo backs the user store and the audit trail with MongoDB. The
// users collection enforces username uniqueness with an index; audit events
// land in a separate collection, written off the request path.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultConnectTimeout = 10 * time.Second
	appName               = "auth-service"
)

// Config selects the deployment and the database holding the auth collections.
type Config struct {
	URI      string
	Database string

	// ConnectTimeout bounds the initial dial and ping. Zero means the default.
	ConnectTimeout time.Duration
}

// Connect dials the deployment, proves it answers a ping, and returns the
// client together with the auth database. A dead deployment fails here, at
// startup, not on the first registration. Callers own the client and must
// Disconnect it on shutdown.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(dialCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
