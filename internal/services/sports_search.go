package services

import (
	"context"
	"regexp"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/codyseavey/cardledger/backend/internal/classifier"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const SourceWebSports = "web_sports"

var sportsPriceDomains = []string{
	"ebay.com", "130point.com", "psacard.com", "beckett.com", "pricecharting.com",
	"sportscardspro.com", "comc.com", "goldin.co", "cardladder.com",
}

var sportsCardYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// SportsWebSearch looks up sports cards, which no structured catalog covers.
type SportsWebSearch struct {
	webSearchSource
}

func NewSportsWebSearch(client *WebSearchClient, timeout time.Duration) *SportsWebSearch {
	return &SportsWebSearch{newWebSearchSource(SourceWebSports, client, timeout, sportsPriceDomains)}
}

func (s *SportsWebSearch) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	resp, err := s.search(ctx, q.Normalized+" sports card sold price")
	if err != nil {
		return nil, err
	}
	base, ok := s.baseCandidate(q, resp)
	if !ok {
		return nil, nil
	}
	return []models.Candidate{models.NewSportsCandidate(base, sportsDetails(q))}, nil
}

// sportsDetails names the player from the athlete table, falling back to
// the whole query, and picks up a printed year.
func sportsDetails(q query.NormalizedQuery) models.SportsDetails {
	player := q.Original
	if athletes := classifier.ClassifySports(q.Normalized).Athletes; len(athletes) > 0 {
		player = athletes[0]
	}
	return models.SportsDetails{
		Player: cases.Title(language.English).String(player),
		Year:   sportsCardYear.FindString(q.Normalized),
	}
}
