package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const SourceWebGraded = "web_graded"

// unknownGradeLabel fills grading fields the caller did not supply and the
// query did not mention.
const unknownGradeLabel = "Unknown"

var gradedPriceDomains = []string{
	"psacard.com", "beckett.com", "cgccards.com", "sgccard.com",
	"ebay.com", "130point.com", "pricecharting.com", "goldin.co",
	"pwccmarketplace.com", "fanaticscollect.com",
}

// gradeLabel finds "psa 10", "bgs 9.5", "cgc 8" style labels in a query.
var gradeLabel = regexp.MustCompile(`(?i)\b(psa|bgs|beckett|cgc|sgc|tag)\s*(10|[1-9](?:\.5)?)\b`)

// GradedSlabSearch finds photos and sold prices for a specific slab. It
// returns nothing rather than an unrelated raw card photo.
type GradedSlabSearch struct {
	webSearchSource
}

func NewGradedSlabSearch(client *WebSearchClient, timeout time.Duration) *GradedSlabSearch {
	return &GradedSlabSearch{newWebSearchSource(SourceWebGraded, client, timeout, gradedPriceDomains)}
}

func (s *GradedSlabSearch) Fetch(ctx context.Context, req models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	details := gradingDetails(req, q)

	text := q.Normalized
	if label := gradeQueryLabel(details); label != "" && !strings.Contains(text, label) {
		text = label + " " + text
	}

	resp, err := s.search(ctx, text+" graded slab")
	if err != nil {
		return nil, err
	}
	base, ok := s.baseCandidate(q, resp)
	if !ok || base.ImageURL == "" {
		return nil, nil
	}
	return []models.Candidate{models.NewGradedCandidate(base, details)}, nil
}

// gradeQueryLabel is the lower-cased "company grade" text to search for,
// leaving out whichever part is unknown.
func gradeQueryLabel(details models.GradingDetails) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{details.GradingCompany, details.Grade} {
		if p != "" && p != unknownGradeLabel {
			parts = append(parts, strings.ToLower(p))
		}
	}
	return strings.Join(parts, " ")
}

// gradingDetails prefers the request fields and falls back to a label
// embedded in the query text.
func gradingDetails(req models.SearchRequest, q query.NormalizedQuery) models.GradingDetails {
	company := strings.TrimSpace(req.GradingCompany)
	grade := strings.TrimSpace(req.Grade)
	if company == "" || grade == "" {
		if m := gradeLabel.FindStringSubmatch(q.Original); m != nil {
			if company == "" {
				company = m[1]
			}
			if grade == "" {
				grade = m[2]
			}
		}
	}

	details := models.GradingDetails{
		GradingCompany: string(models.NormalizeGradingCompany(company)),
		Grade:          grade,
	}
	if details.GradingCompany == "" {
		details.GradingCompany = unknownGradeLabel
	}
	if details.Grade == "" {
		details.Grade = unknownGradeLabel
	}
	return details
}
