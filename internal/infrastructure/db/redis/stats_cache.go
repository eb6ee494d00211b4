package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lexhaven/clientdesk/internal/core/ports"
)

const statsTTL = 5 * time.Minute

// StatsCache caches firm-level client aggregates in Redis.
// Key format: stats:<law_firm_id>
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached aggregate for a firm, or nil on a miss.
func (c *StatsCache) Get(ctx context.Context, lawFirmID string) (*ports.FirmStats, error) {
	raw, err := c.client.Get(ctx, c.key(lawFirmID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var stats ports.FirmStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}
	return &stats, nil
}

// Set stores the aggregate with a short TTL; staleness is bounded by
// write-path invalidation plus the TTL backstop.
func (c *StatsCache) Set(ctx context.Context, lawFirmID string, stats *ports.FirmStats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(lawFirmID), raw, statsTTL).Err()
}

// Invalidate drops the cached aggregate after any client write.
func (c *StatsCache) Invalidate(ctx context.Context, lawFirmID string) error {
	return c.client.Del(ctx, c.key(lawFirmID)).Err()
}

func (c *StatsCache) key(lawFirmID string) string {
	return "stats:" + lawFirmID
}
