package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"outreach/internal/core/search"
	"outreach/internal/platform/logger"
	"outreach/internal/platform/metrics"
	"outreach/internal/platform/store"

	"golang.org/x/sync/singleflight"
)

const (
	filtersKey          = "search:filters"
	filtersBuildTimeout = 10 * time.Second
)

// filterCache serves dynamic filter bounds from memory, then from the shared
// cache, then from a rebuild. Concurrent rebuilds collapse into one
type filterCache struct {
	ttl    time.Duration
	shared store.Cache
	load   func(ctx context.Context) ([]search.Record, error)
	log    logger.Logger

	group singleflight.Group
	local atomic.Pointer[filterSnap]
}

type filterSnap struct {
	f      search.Filters
	expiry time.Time
}

func (c *filterCache) get(ctx context.Context) search.Filters {
	if f, ok := c.fresh(); ok {
		metrics.Registry.CacheLookups.WithLabelValues("filters", "hit").Inc()
		return f
	}
	v, _, _ := c.group.Do("filters", func() (any, error) {
		if f, ok := c.fresh(); ok {
			return f, nil
		}
		// the build outlives a single caller that gave up
		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), filtersBuildTimeout)
		defer cancel()
		return c.build(bctx), nil
	})
	return v.(search.Filters)
}

func (c *filterCache) fresh() (search.Filters, bool) {
	snap := c.local.Load()
	if snap == nil || !now().Before(snap.expiry) {
		return search.Filters{}, false
	}
	return snap.f, true
}

func (c *filterCache) build(ctx context.Context) search.Filters {
	if f, ok := c.fromShared(ctx); ok {
		metrics.Registry.CacheLookups.WithLabelValues("filters", "shared").Inc()
		c.keep(f)
		return f
	}
	metrics.Registry.CacheLookups.WithLabelValues("filters", "miss").Inc()

	recs, err := c.load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("filter rebuild failed, serving defaults")
		return search.DefaultFilters()
	}
	f := search.BuildFilters(recs)
	c.keep(f)
	if c.shared != nil {
		if b, err := json.Marshal(f); err == nil {
			if err := c.shared.Set(ctx, filtersKey, b, c.ttl); err != nil {
				c.log.Debug().Err(err).Msg("filter cache write failed")
			}
		}
	}
	return f
}

func (c *filterCache) fromShared(ctx context.Context) (search.Filters, bool) {
	if c.shared == nil {
		return search.Filters{}, false
	}
	b, err := c.shared.Get(ctx, filtersKey)
	if err != nil {
		if !errors.Is(err, store.ErrCacheMiss) {
			c.log.Debug().Err(err).Msg("filter cache read failed")
		}
		return search.Filters{}, false
	}
	var f search.Filters
	if err := json.Unmarshal(b, &f); err != nil {
		return search.Filters{}, false
	}
	return f, true
}

func (c *filterCache) keep(f search.Filters) {
	c.local.Store(&filterSnap{f: f, expiry: now().Add(c.ttl)})
}
