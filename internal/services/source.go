package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/metrics"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

// ErrUpstreamStatus wraps any non-2xx response from a provider.
var ErrUpstreamStatus = errors.New("upstream returned unexpected status")

// Source is one upstream catalog or search provider.
type Source interface {
	// Name is the stable label used in logs, metrics and Candidate.Source.
	Name() string
	// Timeout bounds a single Fetch for q.
	Timeout(q query.NormalizedQuery) time.Duration
	// Fetch maps provider results to candidates. It must honor ctx.
	Fetch(ctx context.Context, req models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error)
}

// Outcome labels for a bounded source call.
const (
	OutcomeOK      = "ok"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
)

// SourceResult is what a bounded call hands back to the aggregator. Err is
// kept for inspection only; Candidates is always usable.
type SourceResult struct {
	Source     string
	Candidates []models.Candidate
	Outcome    string
	Err        error
	Duration   time.Duration
}

type fetchResult struct {
	candidates []models.Candidate
	err        error
}

var tracer = otel.Tracer("github.com/codyseavey/cardledger/backend/internal/services")

// RunSource calls src.Fetch bounded by src.Timeout(q). A timeout, error or
// panic yields an empty result and is logged; it never reaches the caller.
// Candidates that fail validation are dropped so only fully formed records
// leave this boundary. A straggling Fetch is cancelled through its context
// and its late result is discarded.
func RunSource(ctx context.Context, src Source, req models.SearchRequest, q query.NormalizedQuery, logger *zap.Logger) SourceResult {
	name := src.Name()
	start := time.Now()

	ctx, span := tracer.Start(ctx, "source."+name, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	timeout := src.Timeout(q)
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchResult{err: errors.Newf("panic in source %s: %v", name, r)}
			}
		}()
		candidates, err := src.Fetch(fetchCtx, req, q)
		done <- fetchResult{candidates: candidates, err: err}
	}()

	result := SourceResult{Source: name}
	select {
	case r := <-done:
		result.Err = r.err
		if r.err == nil {
			result.Candidates = keepValid(r.candidates, name, logger)
		}
	case <-fetchCtx.Done():
		result.Err = errors.Wrapf(fetchCtx.Err(), "source %s exceeded %s", name, timeout)
		result.Outcome = OutcomeTimeout
	}
	result.Duration = time.Since(start)

	switch {
	case result.Outcome == OutcomeTimeout:
		logger.Warn("Source timed out",
			zap.String("source", name),
			zap.String("query", q.Normalized),
			zap.Duration("timeout", timeout),
		)
	case result.Err != nil:
		result.Outcome = OutcomeError
		logger.Warn("Source failed",
			zap.String("source", name),
			zap.String("query", q.Normalized),
			zap.Error(result.Err),
		)
	case len(result.Candidates) == 0:
		result.Outcome = OutcomeEmpty
	default:
		result.Outcome = OutcomeOK
	}
	if result.Outcome == OutcomeTimeout || result.Outcome == OutcomeError {
		result.Candidates = nil
		span.SetStatus(codes.Error, result.Err.Error())
	}

	span.SetAttributes(
		attribute.String("source", name),
		attribute.String("outcome", result.Outcome),
		attribute.Int("candidates", len(result.Candidates)),
	)
	metrics.SourceRequestsTotal.WithLabelValues(name, result.Outcome).Inc()
	metrics.SourceDuration.WithLabelValues(name).Observe(result.Duration.Seconds())

	return result
}

func keepValid(candidates []models.Candidate, source string, logger *zap.Logger) []models.Candidate {
	valid := make([]models.Candidate, 0, len(candidates))
	for i := range candidates {
		c := candidates[i]
		if c.Source == "" {
			c.Source = source
		}
		if c.SourceURLs == nil {
			c.SourceURLs = []models.SourceURL{}
		}
		if err := c.Validate(); err != nil {
			logger.Debug("Dropping malformed candidate",
				zap.String("source", source),
				zap.String("name", c.Name),
				zap.Error(err),
			)
			continue
		}
		valid = append(valid, c)
	}
	return valid
}

// doJSON sends req and decodes a 200 response body into out. A 404 is
// reported through notFound with a nil error.
func doJSON(client *http.Client, req *http.Request, out any) (notFound bool, err error) {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return false, errors.Wrapf(err, "failed to call %s", req.URL.Host)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, errors.Wrapf(ErrUpstreamStatus, "%s returned status %d", req.URL.Host, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s response", req.URL.Host)
	}
	return false, nil
}

// newHTTPClient is shared by all adapters; per-call deadlines come from ctx.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout + 2*time.Second,
	}
}

func candidateID(source, key string) string {
	return fmt.Sprintf("%s:%s", source, key)
}
