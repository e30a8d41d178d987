package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	defaultCacheSize = 512
	defaultCacheTTL  = 5 * time.Minute
)

type CacheConfig struct {
	Size int           `default:"512"`
	TTL  time.Duration `default:"5m"`
}

// CachedProvider memoizes successful reads of another provider. Failures are never cached.
type CachedProvider struct {
	next  Provider
	cache *expirable.LRU[string, any]
}

var _ Provider = (*CachedProvider)(nil)

func NewCachedProvider(next Provider, cfg CacheConfig) *CachedProvider {
	size := cfg.Size
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedProvider{
		next:  next,
		cache: expirable.NewLRU[string, any](size, nil, ttl),
	}
}

func (c *CachedProvider) ServiceNames(ctx context.Context) ([]string, error) {
	return cached(c, cacheKey("services"), func() ([]string, error) {
		return c.next.ServiceNames(ctx)
	})
}

func (c *CachedProvider) Countries(ctx context.Context, service string) ([]CountryRow, error) {
	return cached(c, cacheKey("countries", service), func() ([]CountryRow, error) {
		return c.next.Countries(ctx, service)
	})
}

func (c *CachedProvider) Tariffs(ctx context.Context, service, country string) ([]Record, error) {
	return cached(c, cacheKey("tariffs", service, country), func() ([]Record, error) {
		return c.next.Tariffs(ctx, service, country)
	})
}

func (c *CachedProvider) Tariff(ctx context.Context, service, country, item string) (Record, error) {
	key := cacheKey("tariff", service, country, item)
	if v, ok := c.cache.Get(key); ok {
		if r, ok := v.(Record); ok {
			return r, nil
		}
	}
	r, err := c.next.Tariff(ctx, service, country, item)
	if err != nil {
		return Record{}, err
	}
	c.cache.Add(key, r)
	return r, nil
}

// Purge drops every cached entry.
func (c *CachedProvider) Purge() {
	c.cache.Purge()
}

func cached[T any](c *CachedProvider, key string, load func() ([]T, error)) ([]T, error) {
	if v, ok := c.cache.Get(key); ok {
		if list, ok := v.([]T); ok {
			return append([]T(nil), list...), nil
		}
	}
	list, err := load()
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, append([]T(nil), list...))
	return list, nil
}

func cacheKey(parts ...string) string {
	return strings.Join(parts, "\x00")
}
