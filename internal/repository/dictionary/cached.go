package dictionary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wordguess/internal/db"
	"github.com/kailas-cloud/wordguess/internal/domain"
)

// Source is the word list contract shared by every source and the cache.
type Source interface {
	Load(ctx context.Context, name string) ([]byte, error)
}

// store is the consumer interface for the word list cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// CachedSource keeps word lists in a key-value store in front of a slower source.
type CachedSource struct {
	inner      Source
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// NewCachedSource creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func NewCachedSource(
	inner Source,
	s store,
	keyPrefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		inner:      inner,
		store:      s,
		prefix:     keyPrefix + "dict:",
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Load returns the cached word list or reads it from the inner source.
// Cache failures are logged and never fail the load.
func (c *CachedSource) Load(ctx context.Context, name string) ([]byte, error) {
	key := c.cacheKey(name)

	if data, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return data, nil
	}

	c.incCache("miss")

	data, err := c.inner.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load word list: %w", err)
	}

	c.putToCache(ctx, key, data)
	return data, nil
}

// Invalidate drops the cached copy of a word list.
func (c *CachedSource) Invalidate(ctx context.Context, name string) error {
	if err := c.store.Del(ctx, c.cacheKey(name)); err != nil {
		return fmt.Errorf("invalidate word list %q: %w", name, err)
	}
	return nil
}

// Names delegates to the inner source when it can enumerate lists.
func (c *CachedSource) Names(ctx context.Context) ([]string, error) {
	lister, ok := c.inner.(interface {
		Names(ctx context.Context) ([]string, error)
	})
	if !ok {
		return nil, domain.ErrListingNotSupported
	}
	return lister.Names(ctx) //nolint:wrapcheck // passthrough
}

// HealthCheck delegates to the inner source when it supports health checks.
func (c *CachedSource) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(interface{ HealthCheck(ctx context.Context) error }); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // passthrough
	}
	return nil
}

func (c *CachedSource) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedSource) cacheKey(name string) string {
	return c.prefix + name
}

func (c *CachedSource) getFromCache(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached word list", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return data, true
}

func (c *CachedSource) putToCache(ctx context.Context, key string, data []byte) {
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache word list", zap.String("key", key), zap.Error(err))
	}
}
