package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/metrics"
	"github.com/codyseavey/cardledger/backend/internal/models"
)

// WebSearchRequest is the body sent to the AI search provider.
type WebSearchRequest struct {
	Query          string   `json:"query"`
	IncludeDomains []string `json:"include_domains,omitempty"`
	MaxResults     int      `json:"max_results"`
	IncludeAnswer  bool     `json:"include_answer"`
	IncludeImages  bool     `json:"include_images"`
	SearchDepth    string   `json:"search_depth,omitempty"`
}

// WebSearchResponse carries the generated answer, image URLs and snippets.
type WebSearchResponse struct {
	Answer  string            `json:"answer"`
	Images  []string          `json:"images"`
	Results []WebSearchResult `json:"results"`
}

// WebSearchResult is one page hit.
type WebSearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Content string  `json:"content"`
	Score   float64 `json:"score,omitempty"`
}

// WebSearchClient calls the AI-summarized search API shared by every web
// search source. It owns the provider's quota.
type WebSearchClient struct {
	client     *http.Client
	apiKey     string
	baseURL    string
	limiter    *Limiter
	summarizer AnswerSummarizer
	logger     *zap.Logger
}

// NewWebSearchClient creates the client. summarizer may be nil.
func NewWebSearchClient(cfg config.SourceConfig, summarizer AnswerSummarizer, logger *zap.Logger) *WebSearchClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSearchClient{
		client:     newHTTPClient(cfg.LongTimeout),
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		limiter:    NewLimiterFromConfig("web_search", cfg),
		summarizer: summarizer,
		logger:     logger,
	}
}

// Limiter exposes the provider quota for status reporting.
func (c *WebSearchClient) Limiter() *Limiter {
	return c.limiter
}

// Search runs one query. When the provider returns results without an
// answer and a summarizer is configured, the answer is synthesized from the
// snippets; a summarizer failure leaves the answer empty.
func (c *WebSearchClient) Search(ctx context.Context, sr WebSearchRequest) (*WebSearchResponse, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			metrics.WebSearchErrorsTotal.WithLabelValues("quota").Inc()
		}
		return nil, err
	}
	if remaining := c.limiter.Remaining(); remaining >= 0 {
		metrics.WebSearchQuotaRemaining.Set(float64(remaining))
	}

	body, err := json.Marshal(sr)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode web search request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.WebSearchErrorsTotal.WithLabelValues("network").Inc()
		return nil, errors.Wrap(err, "failed to call web search")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.WebSearchErrorsTotal.WithLabelValues("api").Inc()
		return nil, errors.Wrapf(ErrUpstreamStatus, "web search returned status %d", resp.StatusCode)
	}

	var out WebSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.WebSearchErrorsTotal.WithLabelValues("parse").Inc()
		return nil, errors.Wrap(err, "failed to decode web search response")
	}

	c.logger.Debug("Web search completed",
		zap.String("query", sr.Query),
		zap.Int("results", len(out.Results)),
		zap.Int("images", len(out.Images)),
		zap.Duration("duration", time.Since(start)),
	)

	if out.Answer == "" && len(out.Results) > 0 && c.summarizer != nil {
		answer, err := c.summarizer.Summarize(ctx, sr.Query, out.Results)
		if err != nil {
			c.logger.Warn("Answer synthesis failed", zap.String("query", sr.Query), zap.Error(err))
		} else {
			out.Answer = answer
		}
	}
	return &out, nil
}

// topSourceURLs returns up to n result links.
func topSourceURLs(results []WebSearchResult, n int) []models.SourceURL {
	urls := make([]models.SourceURL, 0, n)
	for _, r := range results {
		if len(urls) == n {
			break
		}
		if r.URL == "" {
			continue
		}
		title := r.Title
		if title == "" {
			title = r.URL
		}
		urls = append(urls, models.SourceURL{Title: title, URL: r.URL})
	}
	return urls
}

func searchContext(results []WebSearchResult) string {
	var b bytes.Buffer
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Content)
	}
	return b.String()
}
