package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectivityError marks the store as unreachable. It is fatal for the
// current call and is reported verbatim, never retried automatically.
type ConnectivityError struct {
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("mongodb connection failed: %v", e.Err)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// Connect opens a pooled MongoDB client and verifies it with a ping. The
// client is created once at startup and shared by every tool call; the 5s
// server selection timeout keeps an unreachable cluster from hanging calls.
func Connect(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(5)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, &ConnectivityError{Err: err}
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, &ConnectivityError{Err: err}
	}

	return client.Database(database), nil
}
