package catalog

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"token-swap/pkg/types"
)

// CachedSource keeps the last successful fetch of Source for TTL.
// When a refresh fails and stale data exists, the stale data is returned.
type CachedSource struct {
	Source Source
	TTL    time.Duration
	Log    *zap.Logger
	// Now is overridable for tests.
	Now func() time.Time

	mu        sync.Mutex
	raw       []types.RawPrice
	fetchedAt time.Time
}

func (c *CachedSource) Name() string { return c.Source.Name() }

// Fetch returns cached prices while fresh, otherwise refreshes from Source.
func (c *CachedSource) Fetch(ctx context.Context) ([]types.RawPrice, error) {
	if c.TTL <= 0 {
		return c.Source.Fetch(ctx)
	}

	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.raw != nil && now.Before(c.fetchedAt.Add(c.TTL)) {
		return clonePrices(c.raw), nil
	}

	fresh, err := c.Source.Fetch(ctx)
	if err != nil {
		if c.raw != nil {
			c.logger().Warn("price refresh failed, serving stale prices",
				zap.String("source", c.Source.Name()),
				zap.Duration("age", now.Sub(c.fetchedAt)),
				zap.Error(err))
			return clonePrices(c.raw), nil
		}
		return nil, err
	}

	c.raw = clonePrices(fresh)
	c.fetchedAt = now
	return fresh, nil
}

// Invalidate drops the cached prices so the next Fetch hits Source
func (c *CachedSource) Invalidate() {
	c.mu.Lock()
	c.raw = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}

func (c *CachedSource) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *CachedSource) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func clonePrices(in []types.RawPrice) []types.RawPrice {
	out := make([]types.RawPrice, len(in))
	copy(out, in)
	return out
}
