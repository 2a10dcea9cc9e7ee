package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const (
	SourceScryfall = "scryfall"

	scryfallMaxResults = 30
)

// scryfallNoise are words that name the game rather than the card.
var scryfallNoise = map[string]struct{}{
	"mtg": {}, "magic": {}, "the": {}, "gathering": {}, "card": {}, "cards": {},
}

// ScryfallService is the Magic: The Gathering catalog.
type ScryfallService struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
	limiter *Limiter
}

func NewScryfallService(cfg config.SourceConfig) *ScryfallService {
	return &ScryfallService{
		client:  newHTTPClient(cfg.Timeout),
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		limiter: NewLimiterFromConfig(SourceScryfall, cfg),
	}
}

type scryfallSearchResponse struct {
	Data       []scryfallCard `json:"data"`
	Object     string         `json:"object"`
	TotalCards int            `json:"total_cards"`
	HasMore    bool           `json:"has_more"`
}

type scryfallCard struct {
	ImageURIs    *scryfallImages `json:"image_uris"`
	CardFaces    []scryfallFace  `json:"card_faces"`
	Prices       scryfallPrices  `json:"prices"`
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SetName      string          `json:"set_name"`
	Set          string          `json:"set"`
	CollectorNum string          `json:"collector_number"`
	Rarity       string          `json:"rarity"`
	Artist       string          `json:"artist"`
	TypeLine     string          `json:"type_line"`
	URI          string          `json:"scryfall_uri"`
}

type scryfallImages struct {
	Small  string `json:"small"`
	Normal string `json:"normal"`
	Large  string `json:"large"`
}

type scryfallFace struct {
	ImageURIs *scryfallImages `json:"image_uris"`
}

type scryfallPrices struct {
	USD     string `json:"usd"`
	USDFoil string `json:"usd_foil"`
}

func (s *ScryfallService) Name() string { return SourceScryfall }

func (s *ScryfallService) Timeout(query.NormalizedQuery) time.Duration {
	return s.timeout
}

// scryfallQuery drops game names so "mtg black lotus" searches "black lotus".
func scryfallQuery(q query.NormalizedQuery) string {
	var words []string
	for _, w := range strings.Fields(q.Normalized) {
		if _, noise := scryfallNoise[w]; noise {
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " ")
}

func (s *ScryfallService) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	search := scryfallQuery(q)
	if search == "" {
		return nil, nil
	}
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/cards/search?q=%s", s.baseURL, url.QueryEscape(search))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	var searchResp scryfallSearchResponse
	notFound, err := doJSON(s.client, req, &searchResp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search scryfall")
	}
	// Scryfall answers 404 when nothing matches.
	if notFound {
		return nil, nil
	}

	data := searchResp.Data
	if len(data) > scryfallMaxResults {
		data = data[:scryfallMaxResults]
	}
	candidates := make([]models.Candidate, len(data))
	for i, sc := range data {
		candidates[i] = s.convertToCandidate(sc)
	}
	return candidates, nil
}

func (s *ScryfallService) convertToCandidate(sc scryfallCard) models.Candidate {
	var imageURL string
	if sc.ImageURIs != nil {
		imageURL = sc.ImageURIs.Normal
	} else if len(sc.CardFaces) > 0 && sc.CardFaces[0].ImageURIs != nil {
		imageURL = sc.CardFaces[0].ImageURIs.Normal
	}

	base := models.Candidate{
		ID:         candidateID(SourceScryfall, sc.ID),
		Name:       sc.Name,
		SetName:    sc.SetName,
		CardNumber: sc.CollectorNum,
		ImageURL:   imageURL,
		Source:     SourceScryfall,
		SourceURLs: []models.SourceURL{},
	}

	if price := parseScryfallPrice(sc.Prices.USD); price > 0 {
		base.MarketPrice = models.Price(price)
	} else if foil := parseScryfallPrice(sc.Prices.USDFoil); foil > 0 {
		base.MarketPrice = models.Price(foil)
	}
	if base.MarketPrice != nil {
		base.PriceSource = SourceScryfall
	}

	if sc.URI != "" {
		base.SourceURLs = append(base.SourceURLs, models.SourceURL{
			Title: fmt.Sprintf("%s (%s) - Scryfall", sc.Name, strings.ToUpper(sc.Set)),
			URL:   sc.URI,
		})
	}

	var subtypes []string
	if _, after, ok := strings.Cut(sc.TypeLine, "—"); ok {
		subtypes = strings.Fields(after)
	}

	return models.NewRawCandidate(base, models.CardDetails{
		Rarity:   sc.Rarity,
		Subtypes: subtypes,
		Artist:   sc.Artist,
	})
}

func parseScryfallPrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func (s *ScryfallService) Limiter() *Limiter {
	return s.limiter
}
