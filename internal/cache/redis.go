package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rentfinder/internal/model"
	"rentfinder/internal/observability"

	"github.com/redis/go-redis/v9"
)

// SnapshotKey is where the listing snapshot is stored
const SnapshotKey = "rentfinder:listings:snapshot"

// ListingCache keeps the full listing snapshot in Redis
type ListingCache struct {
	c   *redis.Client
	ttl time.Duration
}

// NewListingCache connects to Redis at addr
func NewListingCache(addr, pass string, db int, ttl time.Duration) *ListingCache {
	return NewListingCacheFromClient(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), ttl)
}

// NewListingCacheFromClient wraps an existing client
func NewListingCacheFromClient(c *redis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{c: c, ttl: ttl}
}

// Get returns the cached snapshot. ok is false on a miss.
func (r *ListingCache) Get(ctx context.Context) (listings []model.Listing, ok bool, err error) {
	v, err := r.c.Get(ctx, SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return nil, false, nil
	}
	if err != nil {
		observability.ObserveCache("redis", "error")
		return nil, false, fmt.Errorf("failed to read listing snapshot: %w", err)
	}
	if err := json.Unmarshal(v, &listings); err != nil {
		observability.ObserveCache("redis", "error")
		return nil, false, fmt.Errorf("failed to decode listing snapshot: %w", err)
	}
	observability.ObserveCache("redis", "hit")
	return listings, true, nil
}

// Set stores the snapshot for the configured TTL
func (r *ListingCache) Set(ctx context.Context, listings []model.Listing) error {
	b, err := json.Marshal(listings)
	if err != nil {
		return fmt.Errorf("failed to encode listing snapshot: %w", err)
	}
	if err := r.c.Set(ctx, SnapshotKey, b, r.ttl).Err(); err != nil {
		observability.ObserveCache("redis", "error")
		return fmt.Errorf("failed to write listing snapshot: %w", err)
	}
	observability.ObserveCache("redis", "set")
	return nil
}

// Close closes the Redis client
func (r *ListingCache) Close() error {
	return r.c.Close()
}
