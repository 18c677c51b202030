package cache

import (
	"context"

	"github.com/DataDog/datadog-go/statsd"
	. "github.com/Luismorlan/yatube/utils/log"
)

const (
	DDOG_CACHE_HIT_COUNTER        = "page_cache.hit"
	DDOG_CACHE_MISS_COUNTER       = "page_cache.miss"
	DDOG_CACHE_INVALIDATE_COUNTER = "page_cache.invalidate"
)

type instrumentedPageCache struct {
	PageCache
	statsd statsd.ClientInterface
}

// WithMetrics reports hits, misses and invalidations of inner to Datadog.
func WithMetrics(inner PageCache, client statsd.ClientInterface) PageCache {
	return &instrumentedPageCache{PageCache: inner, statsd: client}
}

func (c *instrumentedPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	body, ok, err := c.PageCache.Get(ctx, key)
	if err != nil {
		return body, ok, err
	}
	counter := DDOG_CACHE_MISS_COUNTER
	if ok {
		counter = DDOG_CACHE_HIT_COUNTER
	}
	c.incr(counter, key)
	return body, ok, err
}

func (c *instrumentedPageCache) Invalidate(ctx context.Context) error {
	err := c.PageCache.Invalidate(ctx)
	if err == nil {
		c.incr(DDOG_CACHE_INVALIDATE_COUNTER, "")
	}
	return err
}

func (c *instrumentedPageCache) incr(name string, key string) {
	var tags []string
	if key != "" {
		tags = []string{"key:" + key}
	}
	if err := c.statsd.Incr(name, tags, 1); err != nil {
		Log.Infoln("cannot report page cache metric ", name)
	}
}
