package tilesource

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kiesman99/mapview/pkg/tile"
)

type cacheKey struct{ z, x, y int }

// CachedSource wraps a Source with a bounded LRU of decoded tiles.
// Successful fetches are cached durably; failures are not cached, since a
// transient network error should be retried on the next pass over the
// same tile rather than sticking for the session.
type CachedSource struct {
	upstream Source
	lru      *lru.Cache[cacheKey, *tile.Tile]
}

// NewCachedSource wraps upstream with an LRU of the given capacity. A
// non-positive capacity is rejected by golang-lru, so callers must supply
// at least 1.
func NewCachedSource(upstream Source, capacity int) (*CachedSource, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("tilesource: cache capacity must be positive, got %d", capacity)
	}
	c, err := lru.New[cacheKey, *tile.Tile](capacity)
	if err != nil {
		return nil, fmt.Errorf("tilesource: building cache: %w", err)
	}
	return &CachedSource{upstream: upstream, lru: c}, nil
}

func (c *CachedSource) Fetch(ctx context.Context, z, x, y int) (*tile.Tile, error) {
	key := cacheKey{z, x, y}
	if cached, ok := c.lru.Get(key); ok {
		return cached.Clone(), nil
	}

	t, err := c.upstream.Fetch(ctx, z, x, y)
	if err != nil {
		return nil, err
	}

	c.lru.Add(key, t)
	return t.Clone(), nil
}

// Len reports the number of tiles currently cached.
func (c *CachedSource) Len() int {
	return c.lru.Len()
}
