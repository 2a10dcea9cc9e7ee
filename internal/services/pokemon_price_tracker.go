package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const (
	SourcePokemonPriceTracker = "pokemon_price_tracker"

	pptPriceSource = "pokemonpricetracker"
	pptLimit       = 20
)

var sealedIntent = regexp.MustCompile(`\b(booster box|elite trainer box|etb|tin|collection|bundle|case|upc)\b`)

// IsSealedQuery reports whether the query asks for sealed product rather than singles.
func IsSealedQuery(q query.NormalizedQuery) bool {
	return sealedIntent.MatchString(q.Normalized) || sealedIntent.MatchString(q.ExpandedQuery)
}

// sealedProductType names the product family for a sealed listing title.
var sealedProductTypes = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)elite trainer box|\betb\b`), "elite trainer box"},
	{regexp.MustCompile(`(?i)booster box`), "booster box"},
	{regexp.MustCompile(`(?i)booster bundle|\bbundle\b`), "booster bundle"},
	{regexp.MustCompile(`(?i)ultra premium collection|\bupc\b`), "ultra premium collection"},
	{regexp.MustCompile(`(?i)collection`), "collection"},
	{regexp.MustCompile(`(?i)\btin\b`), "tin"},
	{regexp.MustCompile(`(?i)\bcase\b`), "case"},
	{regexp.MustCompile(`(?i)blister`), "blister pack"},
	{regexp.MustCompile(`(?i)booster pack`), "booster pack"},
}

func sealedProductType(name string) string {
	for _, t := range sealedProductTypes {
		if t.pattern.MatchString(name) {
			return t.name
		}
	}
	return "sealed product"
}

// PokemonPriceTrackerService is the card and sealed product catalog.
type PokemonPriceTrackerService struct {
	client  *http.Client
	apiKey  string
	baseURL string
	timeout time.Duration
	limiter *Limiter
}

func NewPokemonPriceTrackerService(cfg config.SourceConfig) *PokemonPriceTrackerService {
	return &PokemonPriceTrackerService{
		client:  newHTTPClient(cfg.Timeout),
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		limiter: NewLimiterFromConfig(SourcePokemonPriceTracker, cfg),
	}
}

type pptSearchResponse struct {
	Data     []pptProduct `json:"data"`
	Metadata pptMetadata  `json:"metadata"`
}

type pptMetadata struct {
	Total   int  `json:"total"`
	HasMore bool `json:"hasMore"`
}

type pptProduct struct {
	Prices      pptPrices `json:"prices"`
	ID          string    `json:"id"`
	TCGPlayerID string    `json:"tcgPlayerId"`
	Name        string    `json:"name"`
	SetName     string    `json:"setName"`
	CardNumber  string    `json:"cardNumber"`
	Rarity      string    `json:"rarity"`
	ImageURL    string    `json:"imageUrl"`
	ImageCdnUrl string    `json:"imageCdnUrl"`
	ProductType string    `json:"productType"`
	URL         string    `json:"tcgPlayerUrl"`
}

type pptPrices struct {
	Market float64 `json:"market"`
	Low    float64 `json:"low"`
}

func (s *PokemonPriceTrackerService) Name() string { return SourcePokemonPriceTracker }

func (s *PokemonPriceTrackerService) Timeout(query.NormalizedQuery) time.Duration {
	return s.timeout
}

// Fetch searches sealed products when the query has sealed intent and cards otherwise.
func (s *PokemonPriceTrackerService) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	sealed := IsSealedQuery(q)
	endpoint := "cards"
	if sealed {
		endpoint = "sealed-products"
	}

	params := url.Values{}
	params.Set("search", q.Normalized)
	params.Set("limit", fmt.Sprint(pptLimit))
	reqURL := fmt.Sprintf("%s/%s?%s", s.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	var searchResp pptSearchResponse
	notFound, err := doJSON(s.client, req, &searchResp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search pokemon price tracker")
	}
	if notFound {
		return nil, nil
	}

	candidates := make([]models.Candidate, 0, len(searchResp.Data))
	for _, p := range searchResp.Data {
		if sealed {
			candidates = append(candidates, s.convertToSealed(p))
		} else {
			candidates = append(candidates, s.convertToCard(p))
		}
	}
	return candidates, nil
}

func (s *PokemonPriceTrackerService) baseCandidate(p pptProduct) models.Candidate {
	id := p.TCGPlayerID
	if id == "" {
		id = p.ID
	}

	// Use the best available image
	imageURL := p.ImageURL
	if p.ImageCdnUrl != "" {
		imageURL = p.ImageCdnUrl
	}

	c := models.Candidate{
		ID:         candidateID(SourcePokemonPriceTracker, id),
		Name:       strings.TrimSpace(p.Name),
		SetName:    p.SetName,
		CardNumber: p.CardNumber,
		ImageURL:   imageURL,
		Source:     SourcePokemonPriceTracker,
		SourceURLs: []models.SourceURL{},
	}
	if p.Prices.Market > 0 {
		c.MarketPrice = models.Price(p.Prices.Market)
		c.PriceSource = pptPriceSource
	}
	if p.Prices.Low > 0 {
		c.LowestListed = models.Price(p.Prices.Low)
	}
	if p.URL != "" {
		c.SourceURLs = append(c.SourceURLs, models.SourceURL{Title: c.Name, URL: p.URL})
	}
	return c
}

func (s *PokemonPriceTrackerService) convertToCard(p pptProduct) models.Candidate {
	return models.NewRawCandidate(s.baseCandidate(p), models.CardDetails{Rarity: p.Rarity})
}

func (s *PokemonPriceTrackerService) convertToSealed(p pptProduct) models.Candidate {
	productType := strings.ToLower(strings.TrimSpace(p.ProductType))
	if productType == "" {
		productType = sealedProductType(p.Name)
	}
	return models.NewSealedCandidate(s.baseCandidate(p), models.SealedDetails{ProductType: productType})
}

func (s *PokemonPriceTrackerService) Limiter() *Limiter {
	return s.limiter
}
