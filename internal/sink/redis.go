package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"vacfetch/pkg/fetch"
)

// RedisSink pushes rows as JSON documents onto a Redis list so downstream
// consumers can drain them independently of the CSV output.
type RedisSink struct {
	client *redis.Client
	key    string
}

// NewRedis parses redisURL, verifies connectivity, and returns a sink
// appending to the given list key.
func NewRedis(ctx context.Context, redisURL, key string) (*RedisSink, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisSink{client: client, key: key}, nil
}

// NewRedisWithClient wraps an existing client (for testing).
func NewRedisWithClient(client *redis.Client, key string) *RedisSink {
	return &RedisSink{client: client, key: key}
}

// Write appends one row to the list, preserving stream order.
func (s *RedisSink) Write(ctx context.Context, row fetch.FlatRow) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", s.key, err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisSink) Close() error {
	return s.client.Close()
}
