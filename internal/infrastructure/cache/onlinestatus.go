package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// onlineStatusPrefix is the prefix for all online status keys
	onlineStatusPrefix = "device:online:"
	// DefaultOnlineStatusTTL bounds how stale a cached online flag may be
	DefaultOnlineStatusTTL = 60 * time.Second
)

// OnlineStatusCache provides Redis-based caching of device reachability so
// repeated status checks within the TTL do not hit the vendor device list.
// A nil cache is valid and disables caching.
type OnlineStatusCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewOnlineStatusCache creates a new OnlineStatusCache instance. A zero ttl
// falls back to DefaultOnlineStatusTTL.
func NewOnlineStatusCache(client *redis.Client, ttl time.Duration) *OnlineStatusCache {
	if ttl <= 0 {
		ttl = DefaultOnlineStatusTTL
	}
	return &OnlineStatusCache{client: client, ttl: ttl}
}

func buildOnlineKey(imei string) string {
	return onlineStatusPrefix + imei
}

// Get returns the cached online flag for an IMEI. The second return value
// reports whether a cached entry was found.
func (c *OnlineStatusCache) Get(ctx context.Context, imei string) (bool, bool, error) {
	if c == nil || c.client == nil {
		return false, false, nil
	}

	value, err := c.client.Get(ctx, buildOnlineKey(imei)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, fmt.Errorf("failed to read online status: %w", err)
	}
	return value == "1", true, nil
}

// SetAll stores online flags for a batch of IMEIs with the configured TTL.
func (c *OnlineStatusCache) SetAll(ctx context.Context, online map[string]bool) error {
	if c == nil || c.client == nil || len(online) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for imei, up := range online {
		value := "0"
		if up {
			value = "1"
		}
		pipe.Set(ctx, buildOnlineKey(imei), value, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store online status: %w", err)
	}
	return nil
}

// Invalidate drops cached flags for the given IMEIs, used after commands
// that change device power state.
func (c *OnlineStatusCache) Invalidate(ctx context.Context, imeis ...string) error {
	if c == nil || c.client == nil || len(imeis) == 0 {
		return nil
	}

	keys := make([]string, len(imeis))
	for i, imei := range imeis {
		keys[i] = buildOnlineKey(imei)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate online status: %w", err)
	}
	return nil
}
