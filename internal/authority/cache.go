package authority

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/SpinWheel_Go/internal/domain"
)

// configCache holds the current config document. Concurrent misses share one load.
// A load that started before the last set or invalidate is not cached.
type configCache struct {
	lru   *expirable.LRU[string, domain.Config]
	group singleflight.Group

	mu  sync.Mutex
	gen uint64
}

func newConfigCache(ttl time.Duration) *configCache {
	if ttl <= 0 {
		ttl = DefaultConfigCacheTTL
	}
	return &configCache{lru: expirable.NewLRU[string, domain.Config](configCacheSize, nil, ttl)}
}

// get returns the cached config or loads it with load
func (c *configCache) get(ctx context.Context, load func(ctx context.Context) (*domain.Config, error)) (domain.Config, error) {
	if cfg, ok := c.lru.Get(configCacheKey); ok {
		return cfg.Clone(), nil
	}

	v, err, _ := c.group.Do(configCacheKey, func() (interface{}, error) {
		c.mu.Lock()
		gen := c.gen
		c.mu.Unlock()

		cfg, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen == gen {
			c.lru.Add(configCacheKey, cfg.Clone())
		}
		c.mu.Unlock()
		return *cfg, nil
	})
	if err != nil {
		return domain.Config{}, err
	}
	return v.(domain.Config).Clone(), nil
}

// set replaces the cached config after a save
func (c *configCache) set(cfg domain.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.group.Forget(configCacheKey)
	c.lru.Add(configCacheKey, cfg.Clone())
}

func (c *configCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.group.Forget(configCacheKey)
	c.lru.Remove(configCacheKey)
}
