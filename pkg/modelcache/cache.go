// Package modelcache holds the process-wide upstream model list, refreshed
// lazily on read once it is older than its TTL.
package modelcache

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/papercomputeco/bridge/pkg/metrics"
	"github.com/papercomputeco/bridge/pkg/upstream"
)

// DefaultTTL is how long a fetched model list is served before a refresh.
const DefaultTTL = 24 * time.Hour

// Lister fetches the upstream model list.
type Lister interface {
	ListModels(ctx context.Context) ([]upstream.Model, error)
}

// Snapshot is an immutable view of the cache. FetchedAt is zero until the
// first successful fetch.
type Snapshot struct {
	Models    []upstream.Model
	FetchedAt time.Time
}

// Cache serves the upstream model list. Readers always see a whole snapshot.
// Concurrent stale reads share one upstream call and its outcome, whether the
// refresh succeeds or fails.
type Cache struct {
	lister Lister
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time

	snapshot atomic.Pointer[Snapshot]
	refresh  singleflight.Group
}

const refreshKey = "models"

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache. A non-positive ttl selects DefaultTTL.
func New(lister Lister, ttl time.Duration, logger *zap.Logger, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		lister: lister,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.snapshot.Store(&Snapshot{})
	return c
}

// Models returns the cached model list, refreshing it first if it is stale.
// Refresh failures are logged and the previous list is returned; this never fails.
func (c *Cache) Models(ctx context.Context) []upstream.Model {
	if snap := c.snapshot.Load(); c.fresh(snap) {
		return snap.Models
	}

	v, _, _ := c.refresh.Do(refreshKey, func() (any, error) {
		return c.refreshModels(ctx), nil
	})
	return v.([]upstream.Model)
}

// refreshModels fetches the list unless a refresh finished just before us.
func (c *Cache) refreshModels(ctx context.Context) []upstream.Model {
	snap := c.snapshot.Load()
	if c.fresh(snap) {
		return snap.Models
	}

	models, err := c.lister.ListModels(ctx)
	if err != nil {
		metrics.ModelCacheRefreshesTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		c.logger.Warn("model list refresh failed, serving previous list",
			zap.Error(err),
			zap.Int("cached_count", len(snap.Models)),
			zap.Time("fetched_at", snap.FetchedAt),
		)
		return snap.Models
	}

	next := &Snapshot{Models: models, FetchedAt: c.now()}
	c.snapshot.Store(next)
	metrics.ModelCacheRefreshesTotal.WithLabelValues(metrics.OutcomeRefreshed).Inc()

	c.logger.Info("model list refreshed", zap.Int("count", len(models)))
	return next.Models
}

// First returns the first model in upstream order, if there is one.
func (c *Cache) First(ctx context.Context) (upstream.Model, bool) {
	models := c.Models(ctx)
	if len(models) == 0 {
		return upstream.Model{}, false
	}
	return models[0], true
}

// Snapshot returns the current contents without triggering a refresh.
func (c *Cache) Snapshot() Snapshot {
	return *c.snapshot.Load()
}

func (c *Cache) fresh(snap *Snapshot) bool {
	return !snap.FetchedAt.IsZero() && c.now().Sub(snap.FetchedAt) <= c.ttl
}
