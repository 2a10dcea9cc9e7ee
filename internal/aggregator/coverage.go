package aggregator

import (
	"context"

	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/metrics"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
	"github.com/codyseavey/cardledger/backend/internal/services"
)

// ensureCoverage runs the generalized fallback when the merged set is empty
// or has no real image. A fallback image is copied onto imageless records
// rather than discarding their structured data; fallback records are then
// appended. Nothing happens when the fallback already ran in the plan.
func (a *Aggregator) ensureCoverage(ctx context.Context, plan []services.Source, merged []models.Candidate, req models.SearchRequest, q query.NormalizedQuery, log *zap.Logger) []models.Candidate {
	fallback := a.sources.WebTCG
	if fallback == nil || contains(plan, fallback) {
		return merged
	}

	reason := coverageGap(merged)
	if reason == "" {
		return merged
	}
	metrics.CoverageFallbacksTotal.WithLabelValues(reason).Inc()
	log.Debug("Running coverage fallback", zap.String("query", q.Normalized), zap.String("reason", reason))

	result := services.RunSource(ctx, fallback, req, q, log)
	if image := firstRealImage(result.Candidates); image != "" {
		for i := range merged {
			if !merged[i].HasRealImage() {
				merged[i].ImageURL = image
			}
		}
	}
	return append(merged, result.Candidates...)
}

// coverageGap names why coverage is insufficient, or "" when it is fine.
func coverageGap(candidates []models.Candidate) string {
	if len(candidates) == 0 {
		return "no_results"
	}
	if firstRealImage(candidates) == "" {
		return "no_images"
	}
	return ""
}

func firstRealImage(candidates []models.Candidate) string {
	for i := range candidates {
		if candidates[i].HasRealImage() {
			return candidates[i].ImageURL
		}
	}
	return ""
}
