package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const (
	// webCandidateRelevance is assigned to records synthesized from search
	// summaries; their names echo the query, so name scoring would overrate them.
	webCandidateRelevance = 0.75
	webSourceURLLimit     = 5
	webDefaultMaxResults  = 8
)

// webSearchSource holds what every web search variant shares. Variants
// differ in domain allow-list, query phrasing and how they shape the record.
type webSearchSource struct {
	name       string
	client     *WebSearchClient
	timeout    time.Duration
	domains    []string
	maxResults int
}

func newWebSearchSource(name string, client *WebSearchClient, timeout time.Duration, domains []string) webSearchSource {
	return webSearchSource{
		name:       name,
		client:     client,
		timeout:    timeout,
		domains:    domains,
		maxResults: webDefaultMaxResults,
	}
}

func (w *webSearchSource) Name() string { return w.name }

func (w *webSearchSource) Timeout(query.NormalizedQuery) time.Duration {
	return w.timeout
}

func (w *webSearchSource) search(ctx context.Context, text string) (*WebSearchResponse, error) {
	return w.client.Search(ctx, WebSearchRequest{
		Query:          text,
		IncludeDomains: w.domains,
		MaxResults:     w.maxResults,
		IncludeAnswer:  true,
		IncludeImages:  true,
		SearchDepth:    "advanced",
	})
}

// baseCandidate shapes the common fields from one search response. ok is
// false when the response carries nothing worth showing.
func (w *webSearchSource) baseCandidate(q query.NormalizedQuery, resp *WebSearchResponse) (c models.Candidate, ok bool) {
	image := BestImage(resp.Images)
	stats, hasPrice := ExtractPrices(resp.Answer)
	if image == "" && !hasPrice && len(resp.Results) == 0 {
		return models.Candidate{}, false
	}

	c = models.Candidate{
		ID:         webCandidateID(w.name, q.Normalized),
		Name:       displayName(q.Original),
		ImageURL:   image,
		Relevance:  webCandidateRelevance,
		AISummary:  strings.TrimSpace(resp.Answer),
		SourceURLs: topSourceURLs(resp.Results, webSourceURLLimit),
		Source:     w.name,
	}
	if hasPrice {
		c.MarketPrice = models.Price(stats.Market)
		c.LowestListed = models.Price(stats.Lowest)
		c.PriceSource = models.PriceSourceWeb
	}
	return c, true
}

// webCandidateID is stable for a source and query so repeated searches
// produce the same identifier.
func webCandidateID(source, normalized string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(source+"|"+normalized)).String()
}

// displayName title-cases a raw query for use as a product name.
func displayName(raw string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(raw), " "))
}

// WebSources groups the web search variants built on one client.
type WebSources struct {
	TCG      *TCGWebSearch
	Sports   *SportsWebSearch
	OnePiece *OnePieceWebSearch
	Graded   *GradedSlabSearch
}

// NewWebSources builds every variant. cfg.Timeout bounds ordinary lookups
// and cfg.LongTimeout bounds graded slab lookups.
func NewWebSources(client *WebSearchClient, cfg config.SourceConfig) WebSources {
	return WebSources{
		TCG:      NewTCGWebSearch(client, cfg.Timeout),
		Sports:   NewSportsWebSearch(client, cfg.Timeout),
		OnePiece: NewOnePieceWebSearch(client, cfg.Timeout),
		Graded:   NewGradedSlabSearch(client, cfg.LongTimeout),
	}
}
