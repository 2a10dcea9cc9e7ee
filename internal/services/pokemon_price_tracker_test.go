package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

func TestIsSealedQuery(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"evolving skies booster box", true},
		{"151 etb", true},
		{"crown zenith elite trainer box", true},
		{"charizard upc", true},
		{"paldea evolved tin", true},
		{"charizard ex", false},
		{"tinkaton", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsSealedQuery(query.Normalize(tt.input)); got != tt.want {
				t.Errorf("IsSealedQuery(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSealedProductType(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Scarlet & Violet 151 Elite Trainer Box", "elite trainer box"},
		{"Evolving Skies Booster Box", "booster box"},
		{"Crown Zenith Booster Bundle", "booster bundle"},
		{"Charizard ex Super Premium Collection", "collection"},
		{"Paldean Fates Tin", "tin"},
		{"Mystery Item", "sealed product"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sealedProductType(tt.name))
		})
	}
}

func TestPokemonPriceTrackerFetch(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, "Bearer ppt-key", r.Header.Get("Authorization"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{
			"data": [
				{
					"id": "p1",
					"tcgPlayerId": "502000",
					"name": " Evolving Skies Booster Box ",
					"setName": "Evolving Skies",
					"imageUrl": "https://example.com/box.png",
					"imageCdnUrl": "https://cdn.example.com/box.png",
					"prices": {"market": 899.99, "low": 850}
				},
				{
					"id": "p2",
					"name": "Evolving Skies ETB",
					"productType": "Elite Trainer Box",
					"prices": {}
				}
			],
			"metadata": {"total": 2}
		}`))
	}))
	defer server.Close()

	svc := NewPokemonPriceTrackerService(config.SourceConfig{BaseURL: server.URL, APIKey: "ppt-key", Timeout: time.Second})
	candidates, err := svc.Fetch(context.Background(), models.SearchRequest{}, query.Normalize("evolving skies booster box"))
	require.NoError(t, err)
	assert.Equal(t, "/sealed-products", gotPath)
	require.Len(t, candidates, 2)

	box := candidates[0]
	assert.Equal(t, "pokemon_price_tracker:502000", box.ID)
	assert.Equal(t, "Evolving Skies Booster Box", box.Name)
	assert.Equal(t, "https://cdn.example.com/box.png", box.ImageURL)
	assert.Equal(t, models.CategorySealed, box.Category)
	assert.Equal(t, "booster box", box.ProductType)
	assert.Equal(t, "pokemonpricetracker", box.PriceSource)
	require.NotNil(t, box.LowestListed)
	assert.InDelta(t, 850.0, *box.LowestListed, 0.001)

	etb := candidates[1]
	assert.Equal(t, "pokemon_price_tracker:p2", etb.ID)
	assert.Equal(t, "elite trainer box", etb.ProductType)
	assert.Nil(t, etb.MarketPrice)
	assert.Empty(t, etb.PriceSource)
}

func TestPokemonPriceTrackerFetchCards(t *testing.T) {
	var gotPath, gotSearch string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSearch = r.URL.Query().Get("search")
		_, _ = w.Write([]byte(`{"data":[{"id":"c1","name":"Umbreon VMAX","setName":"Evolving Skies","cardNumber":"215/203","rarity":"Secret Rare","prices":{"market":520}}]}`))
	}))
	defer server.Close()

	svc := NewPokemonPriceTrackerService(config.SourceConfig{BaseURL: server.URL, Timeout: time.Second})
	candidates, err := svc.Fetch(context.Background(), models.SearchRequest{}, query.Normalize("Umbreon VMAX"))
	require.NoError(t, err)
	assert.Equal(t, "/cards", gotPath)
	assert.Equal(t, "umbreon vmax", gotSearch)
	require.Len(t, candidates, 1)
	assert.Equal(t, models.CategoryRaw, candidates[0].Category)
	assert.Equal(t, "Secret Rare", candidates[0].Rarity)
	assert.Equal(t, "215/203", candidates[0].CardNumber)
}
