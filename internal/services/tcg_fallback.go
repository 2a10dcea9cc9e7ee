package services

import (
	"context"
	"time"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const SourceWebTCG = "web_tcg"

var tcgPriceDomains = []string{
	"tcgplayer.com", "pricecharting.com", "ebay.com", "cardmarket.com",
	"trollandtoad.com", "cardkingdom.com", "yugiohprices.com", "mtggoldfish.com",
}

// TCGWebSearch is the generalized fallback for games without a structured
// catalog and for queries the catalogs could not illustrate.
type TCGWebSearch struct {
	webSearchSource
}

func NewTCGWebSearch(client *WebSearchClient, timeout time.Duration) *TCGWebSearch {
	return &TCGWebSearch{newWebSearchSource(SourceWebTCG, client, timeout, tcgPriceDomains)}
}

func (s *TCGWebSearch) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	resp, err := s.search(ctx, q.Normalized+" trading card price")
	if err != nil {
		return nil, err
	}
	base, ok := s.baseCandidate(q, resp)
	if !ok {
		return nil, nil
	}
	return []models.Candidate{models.NewRawCandidate(base, models.CardDetails{})}, nil
}
