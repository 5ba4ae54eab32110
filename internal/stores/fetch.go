package stores

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/admin-console/internal/observability"
)

// Package stores holds the cached read layers between the HTTP surface and
// the backend client. Each store caches per session (upstream responses are
// permission-filtered), coalesces concurrent fetches, and lets callers
// force past staleness.

// fetchGroup is the shared cache-plus-singleflight core of every store.
type fetchGroup struct {
	name    string
	cache   *gocache.Cache
	sf      singleflight.Group
	ttl     time.Duration
	metrics *observability.Metrics
}

func newFetchGroup(name string, ttl time.Duration, metrics *observability.Metrics) *fetchGroup {
	return &fetchGroup{
		name:    name,
		cache:   gocache.New(ttl, time.Minute),
		ttl:     ttl,
		metrics: metrics,
	}
}

// get returns the cached value for key unless it is stale or force is set,
// loading at most once across concurrent callers.
func (g *fetchGroup) get(ctx context.Context, key string, force bool, load func(ctx context.Context) (any, error)) (any, error) {
	if !force {
		if val, ok := g.cache.Get(key); ok {
			g.metrics.CacheHit(g.name)
			return val, nil
		}
	}
	g.metrics.CacheMiss(g.name)

	val, err, _ := g.sf.Do(key, func() (any, error) {
		loaded, err := load(ctx)
		if err != nil {
			return nil, err
		}
		g.cache.Set(key, loaded, g.ttl)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

// invalidate drops the cached value so the next read refetches.
func (g *fetchGroup) invalidate(key string) {
	g.cache.Delete(key)
}

// put replaces the cached value in place, used for optimistic updates.
func (g *fetchGroup) put(key string, val any) {
	g.cache.Set(key, val, g.ttl)
}

// peek returns the cached value without touching staleness or metrics.
func (g *fetchGroup) peek(key string) (any, bool) {
	return g.cache.Get(key)
}
