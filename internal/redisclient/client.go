package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"xchange/internal/ingest"
)

const (
	runKeyPrefix = "ingest:run:"
	runTTL       = 24 * time.Hour
)

// ErrRunNotFound is returned when no status exists for a run identifier.
var ErrRunNotFound = errors.New("run not found")

// Client records ingestion run progress in Redis.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// UpdateRun stores the run's current status under a 24h TTL.
func (c *Client) UpdateRun(ctx context.Context, status ingest.RunStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshal run status: %w", err)
	}
	return c.rdb.Set(ctx, runKeyPrefix+status.RunID, payload, runTTL).Err()
}

// GetRun retrieves the last recorded status of a run.
func (c *Client) GetRun(ctx context.Context, runID string) (*ingest.RunStatus, error) {
	payload, err := c.rdb.Get(ctx, runKeyPrefix+runID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run status: %w", err)
	}
	var status ingest.RunStatus
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("unmarshal run status: %w", err)
	}
	return &status, nil
}
