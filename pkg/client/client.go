package client

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"staybook/pkg/logger"
)

// Client holds the optional backing connections. A nil field means the
// feature it serves runs without a store.
type Client struct {
	Mongo *mongo.Client
	Redis *redis.Client
}

func NewClient() *Client {
	return &Client{}
}

func (c *Client) SetMongo(ctx context.Context, log *logger.Logger, mongoURI string, mongoConnTimeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, mongoConnTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("Successfully connected to MongoDB")
	c.Mongo = client
	return nil
}

func (c *Client) SetRedis(ctx context.Context, log *logger.Logger, addr, password string) error {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("failed to ping Redis at %s: %w", addr, err)
	}

	log.Info("Successfully connected to Redis", "addr", addr)
	c.Redis = rdb
	return nil
}

func (c *Client) GracefulShutdown(ctx context.Context, log *logger.Logger) {
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			log.Error("Failed to disconnect MongoDB", "error", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Error("Failed to close Redis", "error", err)
		}
	}
}
