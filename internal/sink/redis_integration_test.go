//go:build integration

package sink

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"vacfetch/pkg/fetch"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	cleanup := func() {
		client.Close()
		redisContainer.Terminate(ctx)
	}

	return client, cleanup
}

func TestRedisSink_Integration_WritePreservesOrder(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	s := NewRedisWithClient(redisClient, "vacfetch:test:rows")

	rows := []fetch.FlatRow{
		{ID: "1", Name: "Go Developer", AreaName: "Moscow"},
		{ID: "2", Name: "SRE", AreaName: "Saint Petersburg"},
		{ID: "3", Name: "Backend Engineer", SalaryFrom: "120000"},
	}
	for _, row := range rows {
		if err := s.Write(ctx, row); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	stored, err := redisClient.LRange(ctx, "vacfetch:test:rows", 0, -1).Result()
	if err != nil {
		t.Fatalf("LRange() error = %v", err)
	}
	if len(stored) != 3 {
		t.Fatalf("len(stored) = %d, want 3", len(stored))
	}

	for i, payload := range stored {
		var got fetch.FlatRow
		if err := json.Unmarshal([]byte(payload), &got); err != nil {
			t.Fatalf("Stored payload %d is not valid JSON: %v", i, err)
		}
		if got != rows[i] {
			t.Errorf("stored[%d] = %+v, want %+v", i, got, rows[i])
		}
	}
}

func TestRedisSink_Integration_NewRedis(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()
	url := "redis://" + redisClient.Options().Addr

	s, err := NewRedis(ctx, url, "vacfetch:test:connect")
	if err != nil {
		t.Fatalf("NewRedis() error = %v", err)
	}
	defer s.Close()

	if err := s.Write(ctx, fetch.FlatRow{ID: "1", Name: "Go Developer"}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	n, err := redisClient.LLen(ctx, "vacfetch:test:connect").Result()
	if err != nil {
		t.Fatalf("LLen() error = %v", err)
	}
	if n != 1 {
		t.Errorf("list length = %d, want 1", n)
	}
}

func TestRedisSink_Integration_NewRedisBadURL(t *testing.T) {
	if _, err := NewRedis(context.Background(), "not-a-redis-url", "key"); err == nil {
		t.Error("NewRedis() expected error for malformed URL")
	}
}
