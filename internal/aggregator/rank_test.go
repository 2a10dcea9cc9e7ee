package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

func scored(id string, relevance float64, image bool, price bool) models.Candidate {
	c := models.Candidate{ID: id, Name: id, Relevance: relevance}
	if image {
		c.ImageURL = "https://images.example.com/" + id + ".png"
	}
	if price {
		c.MarketPrice = models.Price(10)
	}
	return c
}

func ids(candidates []models.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.ID
	}
	return out
}

func TestRank(t *testing.T) {
	tests := []struct {
		name  string
		input []models.Candidate
		want  []string
	}{
		{
			name:  "relevance descending",
			input: []models.Candidate{scored("low", 0.2, true, true), scored("high", 0.9, true, true), scored("mid", 0.5, true, true)},
			want:  []string{"high", "mid", "low"},
		},
		{
			name:  "image breaks a near tie",
			input: []models.Candidate{scored("bare", 0.90, false, true), scored("pictured", 0.87, true, false)},
			want:  []string{"pictured", "bare"},
		},
		{
			name:  "price breaks a near tie after image",
			input: []models.Candidate{scored("unpriced", 0.80, true, false), scored("priced", 0.78, true, true)},
			want:  []string{"priced", "unpriced"},
		},
		{
			name:  "gap of 0.05 is not a tie",
			input: []models.Candidate{scored("bare", 0.90, false, false), scored("pictured", 0.85, true, true)},
			want:  []string{"bare", "pictured"},
		},
		{
			name: "clusters are anchored on their leader",
			input: []models.Candidate{
				scored("a", 0.90, false, false),
				scored("b", 0.87, false, false),
				scored("c", 0.84, true, false),
			},
			want: []string{"a", "b", "c"},
		},
		{
			name:  "equal candidates keep input order",
			input: []models.Candidate{scored("first", 0.5, true, true), scored("second", 0.5, true, true)},
			want:  []string{"first", "second"},
		},
		{
			name:  "empty",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Rank(tt.input)))
		})
	}
}

func TestRankIsIdempotent(t *testing.T) {
	input := []models.Candidate{
		scored("a", 0.91, false, false),
		scored("b", 0.90, true, false),
		scored("c", 0.88, false, true),
		scored("d", 0.70, true, true),
		scored("e", 0.69, false, false),
		scored("f", 0.30, true, false),
		scored("g", 0.30, true, false),
	}

	once := Rank(input)
	twice := Rank(once)
	assert.Equal(t, ids(once), ids(twice))
}

func TestRankDoesNotModifyInput(t *testing.T) {
	input := []models.Candidate{scored("a", 0.1, false, false), scored("b", 0.9, true, true)}
	_ = Rank(input)
	assert.Equal(t, []string{"a", "b"}, ids(input))
}

func TestDedupKeepsHigherQuality(t *testing.T) {
	withImage := models.Candidate{ID: "img", Name: "Charizard", SetName: "Base", CardNumber: "4", ImageURL: "https://images.pokemontcg.io/base1/4.png", Relevance: 0.5}
	without := models.Candidate{ID: "noimg", Name: "charizard", SetName: "BASE", CardNumber: "4", Relevance: 0.9}
	other := models.Candidate{ID: "other", Name: "Charizard", SetName: "Base Set 2", CardNumber: "4"}

	out := Dedup([]models.Candidate{without, other, withImage})
	require.Len(t, out, 2)
	assert.Equal(t, []string{"img", "other"}, ids(out))
}

func TestDedupTieKeepsFirst(t *testing.T) {
	a := models.Candidate{ID: "a", Name: "Pikachu", SetName: "Jungle", Relevance: 0.5}
	b := models.Candidate{ID: "b", Name: "Pikachu", SetName: "Jungle", Relevance: 0.5}

	assert.Equal(t, []string{"a"}, ids(Dedup([]models.Candidate{a, b})))
}

func TestDedupSurvivorHasMaxQuality(t *testing.T) {
	input := []models.Candidate{
		{ID: "1", Name: "Mew", SetName: "Promo", Relevance: 0.2},
		{ID: "2", Name: "Mew", SetName: "Promo", Relevance: 0.4, MarketPrice: models.Price(3)},
		{ID: "3", Name: "Mew", SetName: "Promo", Relevance: 0.9},
		{ID: "4", Name: "Mew", SetName: "Promo", Relevance: 0.1, MarketPrice: models.Price(3), PriceSource: "tcgplayer"},
	}

	out := Dedup(input)
	require.Len(t, out, 1)
	for i := range input {
		assert.GreaterOrEqual(t, Quality(&out[0]), Quality(&input[i]))
	}
	assert.Equal(t, "4", out[0].ID)
}

func TestDedupKey(t *testing.T) {
	a := models.Candidate{Name: "Pokémon  Center ETB", SetName: "Scarlet & Violet", CardNumber: " SV01 "}
	b := models.Candidate{Name: "pokemon center etb", SetName: "scarlet & violet", CardNumber: "sv01"}
	assert.Equal(t, DedupKey(&a), DedupKey(&b))
}
