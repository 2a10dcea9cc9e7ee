package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateValidate(t *testing.T) {
	base := Candidate{ID: "c1", Name: "Charizard", Relevance: 0.5}

	tests := []struct {
		name    string
		cand    Candidate
		wantErr bool
	}{
		{"raw without details", Candidate{ID: "c1", Name: "Charizard", Category: CategoryRaw}, false},
		{"raw with details", NewRawCandidate(base, CardDetails{Rarity: "Rare Holo"}), false},
		{"sealed needs product type", NewSealedCandidate(base, SealedDetails{}), true},
		{"sealed ok", NewSealedCandidate(base, SealedDetails{ProductType: "booster box"}), false},
		{"graded needs grade", NewGradedCandidate(base, GradingDetails{GradingCompany: "PSA"}), true},
		{"graded ok", NewGradedCandidate(base, GradingDetails{GradingCompany: "PSA", Grade: "10"}), false},
		{"sports needs player", NewSportsCandidate(base, SportsDetails{}), true},
		{"sports ok", NewSportsCandidate(base, SportsDetails{Player: "Mike Trout"}), false},
		{"graded category without details", Candidate{ID: "c1", Name: "x", Category: CategoryGraded}, true},
		{"missing id", Candidate{Name: "x", Category: CategoryRaw}, true},
		{"relevance out of range", Candidate{ID: "c1", Name: "x", Category: CategoryRaw, Relevance: 1.2}, true},
		{"unknown category", Candidate{ID: "c1", Name: "x", Category: "comic"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cand.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCandidateJSONFlattensCategoryDetails(t *testing.T) {
	c := NewGradedCandidate(Candidate{ID: "g1", Name: "Charizard", SetName: "Base Set"}, GradingDetails{GradingCompany: "PSA", Grade: "10"})

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "PSA", raw["grading_company"])
	assert.Equal(t, "graded", raw["category"])
	assert.NotContains(t, raw, "player")
	assert.NotContains(t, raw, "market_price")

	var decoded Candidate
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NotNil(t, decoded.GradingDetails)
	assert.Equal(t, "10", decoded.Grade)
	assert.Nil(t, decoded.SportsDetails)
	assert.NoError(t, decoded.Validate())
}

func TestImageAndPriceFlags(t *testing.T) {
	c := Candidate{ImageURL: "https://images.pokemontcg.io/base1/4.png", MarketPrice: Price(300)}
	assert.True(t, c.HasRealImage())
	assert.True(t, c.HasPrice())

	c.ImageURL = "/assets/placeholder-card.png"
	c.MarketPrice = Price(0)
	assert.False(t, c.HasRealImage())
	assert.False(t, c.HasPrice())

	c.PriceSource = PriceSourceWeb
	assert.False(t, c.HasNamedPriceSource())
	c.PriceSource = "tcgplayer"
	assert.True(t, c.HasNamedPriceSource())
}

func TestSearchMetaSummarize(t *testing.T) {
	products := []Candidate{
		{ImageURL: "https://x/a.png", MarketPrice: Price(1)},
		{ImageURL: ""},
		{ImageURL: "https://x/b.png"},
	}
	var meta SearchMeta
	meta.Summarize(products)
	assert.Equal(t, 3, meta.Total)
	assert.Equal(t, 1, meta.WithPrices)
	assert.Equal(t, 2, meta.WithImages)
}
