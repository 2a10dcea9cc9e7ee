package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codyseavey/cardledger/backend/internal/query"
)

func TestClassifySports(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		wantSports     bool
		wantScore      float64
		wantConfidence float64
	}{
		{
			name:           "athlete team brand year rookie",
			query:          "Mike Trout Angels 2011 Topps Update RC",
			wantSports:     true,
			wantScore:      7.5,
			wantConfidence: 1,
		},
		{
			name:           "athlete alone",
			query:          "LeBron James",
			wantSports:     true,
			wantScore:      3,
			wantConfidence: 0.6,
		},
		{
			name:           "brand and year reach threshold",
			query:          "2011 topps",
			wantSports:     true,
			wantScore:      2,
			wantConfidence: 0.4,
		},
		{
			name:           "brand below threshold",
			query:          "pikachu topps",
			wantSports:     false,
			wantScore:      1.5,
			wantConfidence: 0.3,
		},
		{
			name:           "tcg term suppresses athlete",
			query:          "mike trout pokemon",
			wantSports:     false,
			wantScore:      -2,
			wantConfidence: 0,
		},
		{
			name:           "plain pokemon",
			query:          "charizard pokemon",
			wantSports:     false,
			wantScore:      -5,
			wantConfidence: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifySports(tt.query)
			assert.Equal(t, tt.wantSports, got.IsSports)
			assert.InDelta(t, tt.wantScore, got.Score, 1e-9)
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifySportsKeywordScoresOncePerTypedPhrase(t *testing.T) {
	tests := []struct {
		query     string
		wantScore float64
	}{
		{"rc", 0.5},
		{"rookie card", 0.5},
		{"auto", 0.5},
		{"rpa", 0.5},
		{"rookie patch", 1.0},
		{"rc auto", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.InDelta(t, tt.wantScore, ClassifySports(tt.query).Score, 1e-9)
		})
	}
}

func TestClassifySportsReportsEntities(t *testing.T) {
	got := ClassifySports("mike trout angels")
	assert.Equal(t, []string{"mike trout"}, got.Athletes)
	assert.Equal(t, []string{"angels"}, got.Teams)
}

func TestClassifyFamily(t *testing.T) {
	tests := []struct {
		query          string
		wantFamily     Family
		wantConfidence float64
	}{
		{"Monkey D Luffy OP05-119", FamilyOnePiece, 1},
		{"zoro luffy", FamilyOnePiece, 0.5},
		{"optcg", FamilyOnePiece, 1},
		{"zoro", FamilyUnknown, 0},
		{"Blue-Eyes White Dragon", FamilyYugioh, 0.9},
		{"mtg black lotus", FamilyMagic, 0.9},
		{"Magic the Gathering Commander deck", FamilyMagic, 0.9},
		{"Disney Lorcana Elsa", FamilyLorcana, 0.9},
		{"digimon agumon", FamilyDigimon, 0.9},
		{"Weiss Schwarz", FamilyWeissSchwarz, 0.9},
		{"charizard base set", FamilyPokemon, 0.95},
		{"Pokémon 151 ETB", FamilyPokemon, 0.95},
		{"random thing", FamilyUnknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := ClassifyFamily(tt.query)
			if got.Family != tt.wantFamily {
				t.Errorf("ClassifyFamily(%q) = %q, want %q", tt.query, got.Family, tt.wantFamily)
			}
			assert.InDelta(t, tt.wantConfidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	sports := Classify(query.Normalize("Shohei Ohtani Dodgers Bowman Chrome"))
	assert.True(t, sports.Sports.IsSports)

	pokemon := Classify(query.Normalize("zard etb"))
	assert.False(t, pokemon.Sports.IsSports)
	assert.Equal(t, FamilyPokemon, pokemon.Family.Family)
	assert.True(t, pokemon.IsPokemonLike())

	unknown := Classify(query.Normalize("prismatic"))
	assert.Equal(t, FamilyUnknown, unknown.Family.Family)
	assert.True(t, unknown.IsPokemonLike())

	magic := Classify(query.Normalize("mtg sheoldred"))
	assert.False(t, magic.IsPokemonLike())
}
