// Package cache stores ranked search results keyed by the normalized query.
//
// A Cache fronts one or more tiers, fastest first. Lookups fall through the
// tiers and backfill the faster ones on a lower-tier hit. Writes go to every
// tier and never fail the request that produced them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/metrics"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

// ErrMiss is returned by a Store when it holds nothing for a key.
var ErrMiss = errors.New("cache miss")

// Store is one cache tier. Stores may return entries past their expiry; the
// Cache decides freshness with its own clock.
type Store interface {
	Name() string
	Get(ctx context.Context, key string) (models.CacheEntry, error)
	Set(ctx context.Context, entry models.CacheEntry) error
}

// Key derives the content address for a request. Graded lookups are keyed
// separately per company and grade so they never share ungraded results.
func Key(req models.SearchRequest, q query.NormalizedQuery) string {
	material := q.Normalized
	if req.IsGraded {
		material += "|graded|" + strings.ToLower(strings.TrimSpace(req.GradingCompany)) +
			"|" + strings.ToLower(strings.TrimSpace(req.Grade))
	}
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// WriteResult reports the outcome of a best-effort write. Callers log it and
// move on; it is never returned to a client.
type WriteResult struct {
	Err error
}

// OK reports whether every tier accepted the write.
func (r WriteResult) OK() bool { return r.Err == nil }

// Cache is the layered result cache.
type Cache struct {
	tiers  []Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now for freshness checks and expiry stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger used for tier failures.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a cache over tiers, fastest first.
func New(ttl time.Duration, tiers []Store, opts ...Option) *Cache {
	c := &Cache{
		tiers:  tiers,
		ttl:    ttl,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL is the lifetime given to new entries.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Tiers lists tier names, fastest first.
func (c *Cache) Tiers() []string {
	names := make([]string, len(c.tiers))
	for i, t := range c.tiers {
		names[i] = t.Name()
	}
	return names
}

// Lookup returns the cached products for key. A tier error counts as a miss
// for that tier.
func (c *Cache) Lookup(ctx context.Context, key string) ([]models.Candidate, bool) {
	now := c.now()
	for i, tier := range c.tiers {
		entry, err := tier.Get(ctx, key)
		switch {
		case errors.Is(err, ErrMiss):
			metrics.CacheLookupsTotal.WithLabelValues(tier.Name(), "miss").Inc()
			continue
		case err != nil:
			metrics.CacheLookupsTotal.WithLabelValues(tier.Name(), "error").Inc()
			c.logger.Warn("Cache tier lookup failed", zap.String("tier", tier.Name()), zap.Error(err))
			continue
		case entry.Expired(now):
			metrics.CacheLookupsTotal.WithLabelValues(tier.Name(), "expired").Inc()
			continue
		}

		metrics.CacheLookupsTotal.WithLabelValues(tier.Name(), "hit").Inc()
		c.backfill(ctx, c.tiers[:i], entry)
		return entry.Results, true
	}
	return nil, false
}

func (c *Cache) backfill(ctx context.Context, tiers []Store, entry models.CacheEntry) {
	for _, tier := range tiers {
		if err := tier.Set(ctx, entry); err != nil {
			metrics.CacheWriteFailuresTotal.WithLabelValues(tier.Name()).Inc()
			c.logger.Debug("Cache backfill failed", zap.String("tier", tier.Name()), zap.Error(err))
		}
	}
}

// Store writes products under key to every tier.
func (c *Cache) Store(ctx context.Context, key, normalized string, products []models.Candidate) WriteResult {
	now := c.now()
	entry := models.CacheEntry{
		QueryHash:       key,
		NormalizedQuery: normalized,
		Results:         products,
		CreatedAt:       now,
		ExpiresAt:       now.Add(c.ttl),
	}

	var result WriteResult
	for _, tier := range c.tiers {
		if err := tier.Set(ctx, entry); err != nil {
			metrics.CacheWriteFailuresTotal.WithLabelValues(tier.Name()).Inc()
			result.Err = errors.CombineErrors(result.Err, errors.Wrapf(err, "cache tier %s", tier.Name()))
		}
	}
	return result
}
