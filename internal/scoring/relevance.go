package scoring

import (
	"math"
	"strings"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

const (
	exactMatchScore  = 1.0
	prefixMatchScore = 0.95
	nameWeight       = 0.9
	playerWeight     = 0.85
	playerThreshold  = 0.5
	setWeight        = 0.1
	setThreshold     = 0.3
	trigramWeight    = 0.7
	trigramThreshold = 0.3
	imageBonus       = 0.03
	priceBonus       = 0.02
)

// Relevance scores c against q. Literal matches on the name dominate, token
// matching is the general case and trigram similarity catches garbled input.
// The result is clamped to [0,1].
func Relevance(q query.NormalizedQuery, c *models.Candidate) float64 {
	literal := q.Normalized
	name := query.Clean(c.Name)
	if literal == "" || name == "" {
		return 0
	}

	var score float64
	switch {
	case name == literal:
		score = exactMatchScore
	case strings.HasPrefix(name, literal):
		score = prefixMatchScore
	default:
		score = nameWeight * TokenMatchScore(q.Tokens, c.Name)
	}

	if c.SportsDetails != nil && c.Player != "" {
		if ps := TokenMatchScore(q.Tokens, c.Player); ps > playerThreshold {
			score = math.Max(score, playerWeight*ps)
		}
	}

	if c.SetName != "" {
		if ss := TokenMatchScore(q.Tokens, c.SetName); ss > setThreshold {
			score += setWeight * ss
		}
	}

	if score < trigramThreshold {
		score = math.Max(score, trigramWeight*TrigramSimilarity(literal, name))
	}

	if c.HasRealImage() {
		score += imageBonus
	}
	if c.HasPrice() {
		score += priceBonus
	}
	return Clamp(score)
}

// Clamp bounds a relevance value to [0,1]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
