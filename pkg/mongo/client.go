package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// Client wraps the MongoDB connection used for the sales archive.
type Client struct {
	raw      *mongo.Client
	database string
	sales    string
}

// New connects to MongoDB with the decimal-aware registry and verifies connectivity.
func New(ctx context.Context, cfg config.MongoConfig, logg *logger.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}

	connectCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		connectCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetRegistry(NewRegistry())
	raw, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := raw.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = raw.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "mongo connection established")
	}

	return &Client{raw: raw, database: cfg.Database, sales: cfg.SalesCollection}, nil
}

// SalesCollection returns the configured collection holding sale documents.
func (c *Client) SalesCollection() *mongo.Collection {
	return c.raw.Database(c.database).Collection(c.sales)
}

// Ping checks that the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("mongo client not initialized")
	}
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}
