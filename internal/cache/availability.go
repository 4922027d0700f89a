// Package cache holds the redis-backed availability memo. The read path may
// serve from it; every mutation that can change a day's availability must
// invalidate that day's key, so stale unavailability is never served as
// available.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyFormat = "avail:%d:%s" // therapistID, yyyy-mm-dd

type Availability struct {
	rdb *redis.Client
	ttl time.Duration
}

// New returns a nil cache when rdb is nil; all methods are nil-safe so the
// engine runs without redis.
func New(rdb *redis.Client, ttl time.Duration) *Availability {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &Availability{rdb: rdb, ttl: ttl}
}

func key(therapistID uint, date time.Time) string {
	return fmt.Sprintf(keyFormat, therapistID, date.Format("2006-01-02"))
}

// Get unmarshals the cached payload into out. Returns false on miss, nil
// cache, or any redis/decode error.
func (c *Availability) Get(ctx context.Context, therapistID uint, date time.Time, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key(therapistID, date)).Bytes()
	if err != nil {
		return false
	}

	return json.Unmarshal(raw, out) == nil
}

func (c *Availability) Set(ctx context.Context, therapistID uint, date time.Time, v any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return
	}

	// best effort; a failed write only costs a recompute
	c.rdb.Set(ctx, key(therapistID, date), raw, c.ttl)
}

func (c *Availability) Invalidate(ctx context.Context, therapistID uint, date time.Time) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, key(therapistID, date))
}

// InvalidateAll drops every cached day for a therapist. Used when the weekly
// schedule or the offering set changes, which can affect any date.
func (c *Availability) InvalidateAll(ctx context.Context, therapistID uint) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("avail:%d:*", therapistID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
}
