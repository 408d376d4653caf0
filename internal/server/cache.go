package server

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ChicagoDave/gnosis/pkg/city"
	"github.com/ChicagoDave/gnosis/pkg/spec"
)

const defaultCacheSize = 256

// layoutCache holds built layouts keyed by city and seed. Concurrent first
// requests for the same key share one generation. Cached layouts are Built
// and never mutated, so they are handed out by reference.
type layoutCache struct {
	mu      sync.RWMutex
	layouts map[string]*city.Layout
	maxSize int
	group   singleflight.Group
	logger  *slog.Logger
}

func newLayoutCache(maxSize int, logger *slog.Logger) *layoutCache {
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &layoutCache{
		layouts: make(map[string]*city.Layout),
		maxSize: maxSize,
		logger:  logger.With("component", "layout_cache"),
	}
}

func cacheKey(name string, seed uint64) string {
	return fmt.Sprintf("%s:%d", name, seed)
}

// get returns the built layout for cfg at seed, generating it on a miss.
// Failed generations are not cached.
func (c *layoutCache) get(cfg spec.CityConfig, seed uint64) (*city.Layout, error) {
	key := cacheKey(cfg.Name, seed)

	c.mu.RLock()
	l, ok := c.layouts[key]
	c.mu.RUnlock()
	if ok {
		return l, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		l, ok := c.layouts[key]
		c.mu.RUnlock()
		if ok {
			return l, nil
		}

		l, err := city.Build(cfg, city.WithSeed(seed), city.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		c.put(key, l)
		return l, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		c.logger.Debug("Shared layout generation", "key", key)
	}
	return v.(*city.Layout), nil
}

func (c *layoutCache) put(key string, l *city.Layout) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.layouts) >= c.maxSize {
		for k := range c.layouts {
			delete(c.layouts, k)
			c.logger.Debug("Evicted cached layout", "key", k)
			break
		}
	}
	c.layouts[key] = l
}

func (c *layoutCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.layouts)
}
