// Package app assembles the search service from configuration.
package app

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/aggregator"
	"github.com/codyseavey/cardledger/backend/internal/api"
	"github.com/codyseavey/cardledger/backend/internal/api/handlers"
	"github.com/codyseavey/cardledger/backend/internal/cache"
	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/database"
	"github.com/codyseavey/cardledger/backend/internal/services"
)

// App holds the wired service and the resources it must release.
type App struct {
	Aggregator *aggregator.Aggregator
	Router     *gin.Engine
	// Janitor is nil unless the sqlite tier is in use.
	Janitor *cache.Janitor

	closers []func() error
}

// New builds every configured source, the cache tiers, the aggregator and
// the HTTP router.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) *App {
	a := &App{}

	sources, limiters, summarizer := buildSources(cfg, logger)

	// A durable tier that cannot be opened leaves the aggregator without a
	// cache, so searches fail with aggregator.ErrNotConfigured.
	var (
		resultCache *cache.Cache
		tierNames   []string
	)
	tiers, err := a.buildTiers(ctx, cfg, logger)
	if err != nil {
		logger.Error("Result cache unavailable, searches will fail until it is reachable",
			zap.String("driver", cfg.Cache.Driver),
			zap.Error(err),
		)
	} else {
		resultCache = cache.New(cfg.Cache.TTL, tiers, cache.WithLogger(logger))
		tierNames = resultCache.Tiers()
	}

	a.Aggregator = aggregator.New(cfg.Search, sources, resultCache, logger)

	enabled := sources.Enabled()
	logger.Info("Search sources configured",
		zap.Strings("sources", enabled),
		zap.Strings("cache_tiers", tierNames),
		zap.Bool("summarizer", summarizer),
	)

	a.Router = api.SetupRouter(
		cfg.HTTP,
		handlers.NewSearchHandler(a.Aggregator),
		handlers.NewStatusHandler(enabled, tierNames, limiters, summarizer),
		logger,
	)
	return a
}

// buildSources creates one adapter per enabled provider. Providers that need
// a key are left out when it is missing.
func buildSources(cfg config.Config, logger *zap.Logger) (aggregator.Sources, []*services.Limiter, bool) {
	var (
		sources  aggregator.Sources
		limiters []*services.Limiter
	)

	if c := cfg.Sources.PokemonTCG; !c.Disabled {
		svc := services.NewPokemonTCGService(c)
		sources.PokemonTCG = svc
		limiters = append(limiters, svc.Limiter())
	}
	if c := cfg.Sources.PokemonPriceTracker; !c.Disabled && c.APIKey != "" {
		svc := services.NewPokemonPriceTrackerService(c)
		sources.PriceTracker = svc
		limiters = append(limiters, svc.Limiter())
	}
	if c := cfg.Sources.Scryfall; !c.Disabled {
		svc := services.NewScryfallService(c)
		sources.Scryfall = svc
		limiters = append(limiters, svc.Limiter())
	}

	// A nil *OpenAISummarizer must not end up inside the interface.
	var summarizer services.AnswerSummarizer
	if s := services.NewOpenAISummarizer(cfg.Summarizer); s != nil {
		summarizer = s
	}

	if c := cfg.Sources.WebSearch; !c.Disabled && c.APIKey != "" {
		client := services.NewWebSearchClient(c, summarizer, logger)
		web := services.NewWebSources(client, c)
		sources.WebTCG = web.TCG
		sources.WebSports = web.Sports
		sources.WebOnePiece = web.OnePiece
		sources.WebGraded = web.Graded
		limiters = append(limiters, client.Limiter())
	} else {
		logger.Warn("Web search is not configured; sports, One Piece and graded searches will return nothing")
	}

	return sources, limiters, summarizer != nil
}

// buildTiers returns the in-process tier followed by the configured durable
// tier. It fails when the durable tier cannot be reached.
func (a *App) buildTiers(ctx context.Context, cfg config.Config, logger *zap.Logger) ([]cache.Store, error) {
	tiers := []cache.Store{cache.NewMemoryStore(cfg.Cache.MemorySize, cfg.Cache.TTL)}

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		store, err := cache.NewRedisStore(cfg.Cache.Redis)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to redis cache")
		}
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, errors.Wrap(err, "failed to ping redis cache")
		}
		a.closers = append(a.closers, func() error {
			store.Close()
			return nil
		})
		tiers = append(tiers, store)

	case config.CacheDriverSQLite:
		db, err := database.Open(cfg.Cache.SQLite.Path, logger)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open cache database")
		}
		a.closers = append(a.closers, func() error { return database.Close(db) })
		store := cache.NewSQLiteStore(db)
		a.Janitor = cache.NewJanitor(store, cfg.Cache.JanitorInterval, logger)
		tiers = append(tiers, store)
	}
	return tiers, nil
}

// Close releases cache connections in reverse order of creation.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = errors.CombineErrors(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
