package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// ErrNoChangeStreams means the deployment is a standalone server. Token
// events are read from a change stream, which needs a replica set or a
// sharded cluster.
var ErrNoChangeStreams = errors.New("mongodb deployment does not support change streams")

// Config describes the MongoDB deployment shared by the storefront tabs.
type Config struct {
	URI      string
	Database string
	AppName  string
	Timeout  time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return defaultTimeout
	}
	return c.Timeout
}

// clientOptions reads from the primary so a tab never sees a token older
// than its own last write.
func (c Config) clientOptions() *options.ClientOptions {
	opts := options.Client().
		ApplyURI(c.URI).
		SetServerSelectionTimeout(c.timeout()).
		SetReadPreference(readpref.Primary())
	if c.AppName != "" {
		opts.SetAppName(c.AppName)
	}
	return opts
}

// topology is the part of the hello reply that tells a replica set member
// ("setName") or a mongos router ("msg": "isdbgrid") from a standalone.
type topology struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

func (t topology) changeStreams() bool {
	return t.SetName != "" || t.Msg == "isdbgrid"
}

// Connect opens a client, checks that the deployment can serve change
// streams, and returns the configured database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	client, err := mongo.Connect(ctx, cfg.clientOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	var topo topology
	err = client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&topo)
	if err == nil && !topo.changeStreams() {
		err = ErrNoChangeStreams
	}
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo %s: %w", cfg.Database, err)
	}

	return client, client.Database(cfg.Database), nil
}
