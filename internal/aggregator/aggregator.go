// Package aggregator turns one search request into a ranked product list.
//
// Per request it consults the cache, classifies the query, fans out to the
// matching source adapters under independent timeouts, repairs missing
// coverage with the generalized web fallback, then deduplicates, ranks,
// truncates and writes the result back to the cache.
package aggregator

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/codyseavey/cardledger/backend/internal/cache"
	"github.com/codyseavey/cardledger/backend/internal/classifier"
	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/logger"
	"github.com/codyseavey/cardledger/backend/internal/metrics"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
	"github.com/codyseavey/cardledger/backend/internal/scoring"
	"github.com/codyseavey/cardledger/backend/internal/services"
)

// ErrNotConfigured means the service was started without a result cache.
// It is the only failure surfaced to callers as an error.
var ErrNotConfigured = errors.New("search backend is not configured")

// gradedBestRelevance is given to the single result of a graded lookup.
const gradedBestRelevance = 1.0

var tracer = otel.Tracer("github.com/codyseavey/cardledger/backend/internal/aggregator")

// Sources holds the adapters the aggregator may dispatch to. A nil field
// means the provider is not configured and is skipped.
type Sources struct {
	PokemonTCG   services.Source
	PriceTracker services.Source
	Scryfall     services.Source
	WebTCG       services.Source
	WebSports    services.Source
	WebOnePiece  services.Source
	WebGraded    services.Source
}

// Enabled lists the names of configured sources.
func (s Sources) Enabled() []string {
	var names []string
	for _, src := range []services.Source{
		s.PokemonTCG, s.PriceTracker, s.Scryfall, s.WebTCG, s.WebSports, s.WebOnePiece, s.WebGraded,
	} {
		if src != nil {
			names = append(names, src.Name())
		}
	}
	return names
}

// Aggregator runs searches. It is safe for concurrent use.
type Aggregator struct {
	cfg        config.SearchConfig
	sources    Sources
	cache      *cache.Cache
	normalizer *query.Normalizer
	logger     *zap.Logger
	now        func() time.Time
}

// New creates an aggregator. A nil cache makes every search fail with
// ErrNotConfigured.
func New(cfg config.SearchConfig, sources Sources, resultCache *cache.Cache, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{
		cfg:        cfg,
		sources:    sources,
		cache:      resultCache,
		normalizer: query.NewNormalizer(query.DefaultAbbreviations),
		logger:     logger,
		now:        time.Now,
	}
}

// Sources returns the configured adapters.
func (a *Aggregator) Sources() Sources { return a.sources }

// Search answers one request. Source failures never surface here; the
// caller always gets a ranked, possibly empty, list.
func (a *Aggregator) Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error) {
	start := a.now()

	if query.Len(req.Query) < a.cfg.MinQueryLength {
		return emptyResponse(), nil
	}
	if a.cache == nil {
		return models.SearchResponse{}, ErrNotConfigured
	}

	ctx, span := tracer.Start(ctx, "aggregator.Search", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	log := logger.FromContextOr(ctx, a.logger)
	q := a.normalizer.Normalize(req.Query)
	key := cache.Key(req, q)

	span.SetAttributes(
		attribute.String("query", q.Normalized),
		attribute.Bool("graded", req.IsGraded),
	)

	var (
		products []models.Candidate
		meta     models.SearchMeta
		route    string
	)

	if cached, ok := a.cache.Lookup(ctx, key); ok {
		products = cached
		meta = a.describe(req, q)
		meta.Cached = true
		route = "cached"
	} else {
		if req.IsGraded {
			products, meta = a.searchGraded(ctx, req, q, log)
			route = "graded"
		} else {
			products, meta, route = a.searchGeneral(ctx, req, q, log)
		}

		if len(products) > 0 {
			if result := a.cache.Store(ctx, key, q.Normalized, products); !result.OK() {
				log.Warn("Cache write failed", zap.String("query", q.Normalized), zap.Error(result.Err))
			}
		}
	}

	if req.IsGraded && len(products) == 0 {
		meta.NoSlabImage = true
	}
	meta.Summarize(products)
	meta.TimeMS = a.now().Sub(start).Milliseconds()

	metrics.SearchesTotal.WithLabelValues(route).Inc()
	metrics.SearchResults.Observe(float64(len(products)))
	span.SetAttributes(
		attribute.String("route", route),
		attribute.Int("products", len(products)),
		attribute.Bool("cached", meta.Cached),
	)

	log.Info("Search completed",
		zap.String("query", q.Normalized),
		zap.String("route", route),
		zap.Int("products", len(products)),
		zap.Bool("cached", meta.Cached),
		zap.Int64("time_ms", meta.TimeMS),
	)

	if products == nil {
		products = []models.Candidate{}
	}
	return models.SearchResponse{Products: products, Meta: meta}, nil
}

func emptyResponse() models.SearchResponse {
	return models.SearchResponse{Products: []models.Candidate{}, Meta: models.SearchMeta{}}
}

// describe fills the classification part of the metadata.
func (a *Aggregator) describe(req models.SearchRequest, q query.NormalizedQuery) models.SearchMeta {
	if req.IsGraded {
		return models.SearchMeta{
			GradedSearch:   true,
			GradingCompany: string(models.NormalizeGradingCompany(req.GradingCompany)),
		}
	}

	cls := classifier.Classify(q)
	isSports := cls.Sports.IsSports
	confidence := cls.Sports.Confidence
	meta := models.SearchMeta{
		SportsQuery:      &isSports,
		SportsConfidence: &confidence,
	}
	if !isSports && cls.Family.Family != classifier.FamilyUnknown {
		meta.TCGFamily = string(cls.Family.Family)
	}
	return meta
}

// searchGraded runs only the graded slab adapter. Ungraded data is never
// mixed in; an empty result tells the caller to show a placeholder.
func (a *Aggregator) searchGraded(ctx context.Context, req models.SearchRequest, q query.NormalizedQuery, log *zap.Logger) ([]models.Candidate, models.SearchMeta) {
	meta := a.describe(req, q)
	if a.sources.WebGraded == nil {
		log.Warn("Graded search requested but no graded source is configured")
		return nil, meta
	}

	result := services.RunSource(ctx, a.sources.WebGraded, req, q, log)
	if len(result.Candidates) == 0 {
		return nil, meta
	}

	best := result.Candidates[0]
	best.Relevance = gradedBestRelevance
	return []models.Candidate{best}, meta
}

// searchGeneral is the classify, dispatch, merge, cover, dedup, rank and
// truncate path.
func (a *Aggregator) searchGeneral(ctx context.Context, req models.SearchRequest, q query.NormalizedQuery, log *zap.Logger) ([]models.Candidate, models.SearchMeta, string) {
	cls := classifier.Classify(q)
	meta := a.describe(req, q)

	plan := a.plan(cls)
	merged := a.runAll(ctx, plan, req, q, log)
	merged = a.ensureCoverage(ctx, plan, merged, req, q, log)

	for i := range merged {
		merged[i].Relevance = a.relevance(q, &merged[i])
	}

	unique := Dedup(merged)
	if removed := len(merged) - len(unique); removed > 0 {
		metrics.DuplicatesRemovedTotal.Add(float64(removed))
	}

	ranked := Rank(unique)
	if a.cfg.MaxResults > 0 && len(ranked) > a.cfg.MaxResults {
		ranked = ranked[:a.cfg.MaxResults]
	}
	return ranked, meta, routeFor(cls)
}

// relevance keeps an adapter-assigned score and computes one otherwise.
func (a *Aggregator) relevance(q query.NormalizedQuery, c *models.Candidate) float64 {
	if c.Relevance > 0 {
		return scoring.Clamp(c.Relevance)
	}
	return scoring.Relevance(q, c)
}

// runAll fans out to every planned source and merges results in plan order.
func (a *Aggregator) runAll(ctx context.Context, plan []services.Source, req models.SearchRequest, q query.NormalizedQuery, log *zap.Logger) []models.Candidate {
	results := make([]services.SourceResult, len(plan))

	var g errgroup.Group
	if a.cfg.MaxConcurrency > 0 {
		g.SetLimit(a.cfg.MaxConcurrency)
	}
	for i, src := range plan {
		g.Go(func() error {
			results[i] = services.RunSource(ctx, src, req, q, log)
			return nil
		})
	}
	_ = g.Wait()

	var merged []models.Candidate
	for _, r := range results {
		merged = append(merged, r.Candidates...)
	}
	return merged
}
