package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"admin-dashboard/internal/models"

	"github.com/go-redis/redis/v8"
)

const (
	snapshotKey = "dashboard:snapshot"
	editLockFmt = "lock:stock-edit:%s"
)

// ErrNoSnapshot is returned when no last-good snapshot is cached
var ErrNoSnapshot = errors.New("no cached snapshot")

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies the connection
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

// NewFromRedis wraps an existing go-redis client
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping reports whether Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// SaveSnapshot stores the last successfully fetched, normalized records.
// Aggregates are never cached; they are recomputed from the records.
func (c *Client) SaveSnapshot(ctx context.Context, snap *models.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, snapshotKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the cached snapshot or ErrNoSnapshot
func (c *Client) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	payload, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &snap, nil
}

// AcquireEditLock guards one product's edit across dashboard replicas
func (c *Client) AcquireEditLock(ctx context.Context, productID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf(editLockFmt, productID), "1", ttl).Result()
}

// ReleaseEditLock releases a product edit lock
func (c *Client) ReleaseEditLock(ctx context.Context, productID string) error {
	return c.rdb.Del(ctx, fmt.Sprintf(editLockFmt, productID)).Err()
}
