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
	SourcePokemonTCG = "pokemon_tcg"

	pokemonTCGPageSize = 30
	// numberMatchRelevance is assigned when a bare number query hits a card
	// printed with that exact number; name scoring cannot judge these.
	numberMatchRelevance = 0.9
)

var cardNumberQuery = regexp.MustCompile(`^#?\d+(/\d+)?$`)

// IsCardNumberQuery reports whether s is a bare card number such as "158",
// "#25" or "4/102".
func IsCardNumberQuery(s string) bool {
	return cardNumberQuery.MatchString(strings.TrimSpace(s))
}

// PokemonTCGService is the structured card catalog (pokemontcg.io).
type PokemonTCGService struct {
	client        *http.Client
	apiKey        string
	baseURL       string
	timeout       time.Duration
	numberTimeout time.Duration
	limiter       *Limiter
}

func NewPokemonTCGService(cfg config.SourceConfig) *PokemonTCGService {
	return &PokemonTCGService{
		client:        newHTTPClient(cfg.LongTimeout),
		apiKey:        cfg.APIKey,
		baseURL:       cfg.BaseURL,
		timeout:       cfg.Timeout,
		numberTimeout: cfg.LongTimeout,
		limiter:       NewLimiterFromConfig(SourcePokemonTCG, cfg),
	}
}

type pokemonSearchResponse struct {
	Data       []pokemonCard `json:"data"`
	TotalCount int           `json:"totalCount"`
}

type pokemonCard struct {
	TCGPlayer *pokemonTCGPrice `json:"tcgplayer"`
	Set       pokemonSet       `json:"set"`
	Images    pokemonImages    `json:"images"`
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Number    string           `json:"number"`
	Rarity    string           `json:"rarity"`
	Artist    string           `json:"artist"`
	Subtypes  []string         `json:"subtypes"`
}

type pokemonSet struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	PrintedTotal int    `json:"printedTotal"`
}

type pokemonImages struct {
	Small string `json:"small"`
	Large string `json:"large"`
}

type pokemonTCGPrice struct {
	Prices    map[string]models.VariantPrice `json:"prices"`
	URL       string                         `json:"url"`
	UpdatedAt string                         `json:"updatedAt"`
}

func (s *PokemonTCGService) Name() string { return SourcePokemonTCG }

// Timeout is longer for number lookups; upstream answers them slowly.
func (s *PokemonTCGService) Timeout(q query.NormalizedQuery) time.Duration {
	if IsCardNumberQuery(q.Normalized) {
		return s.numberTimeout
	}
	return s.timeout
}

// catalogNoiseWords add nothing to a search that is already scoped to the
// Pokémon catalog.
var catalogNoiseWords = map[string]struct{}{
	"pokemon": {}, "card": {}, "cards": {}, "tcg": {},
}

// BuildSearchQuery returns the catalog query expression for q. A bare card
// number becomes a number lookup. Otherwise the first word is a wildcard
// name match, later words may match either the card or the set name, and a
// trailing "4/102" or "#25" adds number clauses.
func BuildSearchQuery(q query.NormalizedQuery) string {
	text := strings.TrimSpace(q.Normalized)
	if IsCardNumberQuery(text) {
		return numberClause(text)
	}

	words := strings.Fields(text)
	var number string
	if n := len(words); n > 1 && strings.ContainsAny(words[n-1], "#/") && IsCardNumberQuery(words[n-1]) {
		number = numberClause(words[n-1])
		words = words[:n-1]
	}

	clauses := make([]string, 0, len(words)+1)
	for _, w := range words {
		if _, stop := query.StopWords[w]; stop {
			continue
		}
		if _, noise := catalogNoiseWords[w]; noise {
			continue
		}
		w = expandNickname(w)
		if len(clauses) == 0 {
			clauses = append(clauses, fmt.Sprintf("name:%s*", w))
			continue
		}
		clauses = append(clauses, fmt.Sprintf("(name:%s* OR set.name:%s*)", w, w))
	}
	if number != "" {
		clauses = append(clauses, number)
	}
	if len(clauses) == 0 {
		return fmt.Sprintf("name:%s*", text)
	}
	return strings.Join(clauses, " ")
}

// numberClause turns "#025" or "4/102" into number and printed-total clauses.
func numberClause(token string) string {
	number, total, hasTotal := strings.Cut(strings.TrimPrefix(token, "#"), "/")
	number = strings.TrimLeft(number, "0")
	if number == "" {
		number = "0"
	}
	expr := fmt.Sprintf("number:%s", number)
	if hasTotal {
		expr += fmt.Sprintf(" set.printedTotal:%s", strings.TrimLeft(total, "0"))
	}
	return expr
}

// expandNickname replaces shorthand with its single-word expansion
// ("zard" becomes "charizard"). Phrase expansions keep the original word.
func expandNickname(w string) string {
	expansions := query.DefaultAbbreviations[w]
	if len(expansions) == 1 && !strings.Contains(expansions[0], " ") {
		return expansions[0]
	}
	return w
}

func (s *PokemonTCGService) Fetch(ctx context.Context, _ models.SearchRequest, q query.NormalizedQuery) ([]models.Candidate, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", BuildSearchQuery(q))
	params.Set("pageSize", fmt.Sprint(pokemonTCGPageSize))
	params.Set("orderBy", "-set.releaseDate")
	reqURL := fmt.Sprintf("%s/cards?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	var searchResp pokemonSearchResponse
	notFound, err := doJSON(s.client, req, &searchResp)
	if err != nil {
		return nil, errors.Wrap(err, "failed to search pokemon tcg")
	}
	if notFound {
		return nil, nil
	}

	isNumber := IsCardNumberQuery(q.Normalized)
	wantNumber := strings.TrimLeft(strings.TrimPrefix(strings.SplitN(q.Normalized, "/", 2)[0], "#"), "0")

	candidates := make([]models.Candidate, 0, len(searchResp.Data))
	for _, pc := range searchResp.Data {
		c := s.convertToCandidate(pc)
		if isNumber && strings.TrimLeft(pc.Number, "0") == wantNumber {
			c.Relevance = numberMatchRelevance
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func (s *PokemonTCGService) convertToCandidate(pc pokemonCard) models.Candidate {
	base := models.Candidate{
		ID:         candidateID(SourcePokemonTCG, pc.ID),
		Name:       pc.Name,
		SetName:    pc.Set.Name,
		CardNumber: pc.Number,
		ImageURL:   pc.Images.Large,
		Source:     SourcePokemonTCG,
		SourceURLs: []models.SourceURL{},
	}
	if base.ImageURL == "" {
		base.ImageURL = pc.Images.Small
	}

	if pc.TCGPlayer != nil {
		if _, price, ok := models.SelectVariantPrice(pc.TCGPlayer.Prices); ok {
			base.MarketPrice = models.Price(price.Best())
			if price.Low > 0 {
				base.LowestListed = models.Price(price.Low)
			}
			base.PriceSource = "tcgplayer"
		}
		if pc.TCGPlayer.URL != "" {
			base.SourceURLs = append(base.SourceURLs, models.SourceURL{
				Title: fmt.Sprintf("%s - TCGplayer", pc.Name),
				URL:   pc.TCGPlayer.URL,
			})
		}
	}

	return models.NewRawCandidate(base, models.CardDetails{
		Rarity:   pc.Rarity,
		Subtypes: pc.Subtypes,
		Artist:   pc.Artist,
	})
}

func (s *PokemonTCGService) Limiter() *Limiter {
	return s.limiter
}
