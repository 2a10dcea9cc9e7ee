package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const SourceWebOnePiece = "web_one_piece"

var onePiecePriceDomains = []string{
	"tcgplayer.com", "pricecharting.com", "ebay.com", "cardmarket.com",
	"onepiece-cardgame.com", "en.onepiece-cardgame.com", "limitlesstcg.com",
	"onepiecetopdecks.com", "trollandtoad.com", "tcgcollector.com",
}

// onePieceCardCode matches printed card codes like "OP05-119" or "ST01-001".
var onePieceCardCode = regexp.MustCompile(`(?i)\b(OP|ST|EB|PRB)-?(\d{2})-(\d{3})\b`)

// onePieceSets maps set codes to English set names.
var onePieceSets = map[string]string{
	"OP01":  "Romance Dawn",
	"OP02":  "Paramount War",
	"OP03":  "Pillars of Strength",
	"OP04":  "Kingdoms of Intrigue",
	"OP05":  "Awakening of the New Era",
	"OP06":  "Wings of the Captain",
	"OP07":  "500 Years in the Future",
	"OP08":  "Two Legends",
	"OP09":  "Emperors in the New World",
	"OP10":  "Royal Blood",
	"EB01":  "Memorial Collection",
	"EB02":  "Anime 25th Collection",
	"PRB01": "Premium Booster The Best",
	"ST01":  "Straw Hat Crew",
	"ST02":  "Worst Generation",
	"ST03":  "The Seven Warlords of the Sea",
	"ST04":  "Animal Kingdom Pirates",
	"ST10":  "The Three Captains",
}

// OnePieceWebSearch is the One Piece specific web variant. It searches a
// wider domain list and reads set and card number out of result text.
type OnePieceWebSearch struct {
	webSearchSource
}

func NewOnePieceWebSearch(client *WebSearchClient, timeout time.Duration) *OnePieceWebSearch {
	s := &OnePieceWebSearch{newWebSearchSource(SourceWebOnePiece, client, timeout, onePiecePriceDomains)}
	s.maxResults = 10
	return s
}

func (s *OnePieceWebSearch) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	resp, err := s.search(ctx, q.Normalized+" one piece card game price")
	if err != nil {
		return nil, err
	}
	base, ok := s.baseCandidate(q, resp)
	if !ok {
		return nil, nil
	}

	// The query itself wins over result text when it names a code.
	texts := make([]string, 0, len(resp.Results)+2)
	texts = append(texts, q.Original, resp.Answer)
	for _, r := range resp.Results {
		texts = append(texts, r.Title, r.Content)
	}
	if set, number, found := parseOnePieceCode(texts...); found {
		base.SetName = set
		base.CardNumber = number
	}
	return []models.Candidate{models.NewRawCandidate(base, models.CardDetails{})}, nil
}

// parseOnePieceCode returns the set name and normalized card number from the
// first text carrying a card code. Unknown set codes keep the code as name.
func parseOnePieceCode(texts ...string) (setName, number string, found bool) {
	for _, text := range texts {
		m := onePieceCardCode.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		setCode := strings.ToUpper(m[1]) + m[2]
		number = fmt.Sprintf("%s-%s", setCode, m[3])
		if name, ok := onePieceSets[setCode]; ok {
			return name, number, true
		}
		return setCode, number, true
	}
	return "", "", false
}
