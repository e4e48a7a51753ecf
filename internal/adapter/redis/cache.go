package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/home-valuation/internal/domain"
	"github.com/couchcryptid/home-valuation/internal/observability"
)

const (
	cacheLayer = "redis"
	keyPrefix  = "hv:"

	// negativeMarker records a provider "no data" answer so it is not
	// re-queried on every request.
	negativeMarker = "-"
	maxNegativeTTL = 10 * time.Minute
)

// Store is the key/value subset of Client used by Cache.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
}

// Cache builds read-through decorators for providers. Store failures are
// logged and fall through to the wrapped provider.
type Cache struct {
	store       Store
	ttl         time.Duration
	negativeTTL time.Duration
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// NewCache creates a Cache whose entries live for ttl.
func NewCache(store Store, ttl time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Cache {
	return &Cache{
		store:       store,
		ttl:         ttl,
		negativeTTL: min(ttl, maxNegativeTTL),
		metrics:     metrics,
		logger:      logger,
	}
}

// Geocoder wraps inner with the shared cache.
func (c *Cache) Geocoder(inner domain.Geocoder) domain.Geocoder {
	return &cachedGeocoder{cache: c, inner: inner}
}

// PropertyRecords wraps inner with the shared cache.
func (c *Cache) PropertyRecords(inner domain.PropertyRecords) domain.PropertyRecords {
	return &cachedRecords{cache: c, inner: inner}
}

// SchoolRatings wraps inner with the shared cache.
func (c *Cache) SchoolRatings(inner domain.SchoolRatings) domain.SchoolRatings {
	return &cachedSchools{cache: c, inner: inner}
}

type cachedGeocoder struct {
	cache *Cache
	inner domain.Geocoder
}

func (g *cachedGeocoder) Geocode(ctx context.Context, address string) (domain.Location, error) {
	key := keyPrefix + "geo:" + domain.CanonicalAddress(address)
	return readThrough(ctx, g.cache, "geocode", key, func(ctx context.Context) (domain.Location, error) {
		return g.inner.Geocode(ctx, address)
	})
}

type cachedRecords struct {
	cache *Cache
	inner domain.PropertyRecords
}

func (r *cachedRecords) LookupProperty(ctx context.Context, address string) (domain.PropertyRecord, error) {
	key := keyPrefix + "prop:" + domain.CanonicalAddress(address)
	return readThrough(ctx, r.cache, "property", key, func(ctx context.Context) (domain.PropertyRecord, error) {
		return r.inner.LookupProperty(ctx, address)
	})
}

type cachedSchools struct {
	cache *Cache
	inner domain.SchoolRatings
}

// Coordinates are keyed at three decimals, roughly a city block.
func (s *cachedSchools) SchoolRating(ctx context.Context, lat, lng float64) (int, error) {
	key := fmt.Sprintf("%sschool:%.3f,%.3f", keyPrefix, lat, lng)
	return readThrough(ctx, s.cache, "school", key, func(ctx context.Context) (int, error) {
		return s.inner.SchoolRating(ctx, lat, lng)
	})
}

func readThrough[T any](ctx context.Context, c *Cache, name, key string, fetch func(context.Context) (T, error)) (T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache read failed", "cache", name, "error", err)
	case ok && raw == negativeMarker:
		c.record(name, "negative")
		var zero T
		return zero, fmt.Errorf("cached: %w", domain.ErrNoData)
	case ok:
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			c.record(name, "hit")
			return v, nil
		}
		c.logger.Warn("cache entry corrupt", "cache", name, "key", key)
	}
	c.record(name, "miss")

	v, err := fetch(ctx)
	if errors.Is(err, domain.ErrNoData) {
		c.write(ctx, name, key, negativeMarker, c.negativeTTL)
		return v, err
	}
	if err != nil {
		return v, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache encode failed", "cache", name, "error", err)
		return v, nil
	}
	c.write(ctx, name, key, string(b), c.ttl)
	return v, nil
}

func (c *Cache) write(ctx context.Context, name, key, val string, ttl time.Duration) {
	if err := c.store.Set(ctx, key, val, ttl); err != nil {
		c.logger.Warn("cache write failed", "cache", name, "error", err)
	}
}

func (c *Cache) record(name, result string) {
	if c.metrics == nil {
		return
	}
	c.metrics.CacheLookups.WithLabelValues(name, cacheLayer, result).Inc()
}
