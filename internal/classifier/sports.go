package classifier

import (
	"math"
	"regexp"
)

const (
	athleteWeight      = 3.0
	teamWeight         = 2.0
	brandWeight        = 1.5
	sportsKeywordScore = 0.5
	yearScore          = 0.5
	tcgPenalty         = 5.0

	sportsThreshold     = 2.0
	confidenceFullScore = 5.0
)

var cardYear = regexp.MustCompile(`\b(19[0-9]{2}|20[0-9]{2})\b`)

// sportsKeywordPhrases are matched against the typed words only, so an
// abbreviation and its expansion ("rc", "rookie card") score once.
var sportsKeywordPhrases = longestFirst(sportsKeywords)

// SportsResult reports whether a query looks like a sports card search.
type SportsResult struct {
	IsSports   bool     `json:"is_sports"`
	Score      float64  `json:"score"`
	Confidence float64  `json:"confidence"`
	Athletes   []string `json:"athletes,omitempty"`
	Teams      []string `json:"teams,omitempty"`
}

// ClassifySports scores a raw query string. See classifySports.
func ClassifySports(q string) SportsResult {
	return classifySports(newMatchTextString(q))
}

// classifySports sums athlete, team, brand, keyword and year signals and
// subtracts a fixed penalty when any trading card game term appears.
func classifySports(text matchText) SportsResult {
	athleteHits := text.hits(athletes)
	teamHits := text.hits(teams)

	score := athleteWeight*float64(len(athleteHits)) +
		teamWeight*float64(len(teamHits)) +
		brandWeight*float64(len(text.hits(cardBrands))) +
		sportsKeywordScore*float64(text.phraseCount(sportsKeywordPhrases))

	if cardYear.MatchString(text.padded) {
		score += yearScore
	}
	if len(text.hits(tcgTerms)) > 0 {
		score -= tcgPenalty
	}

	return SportsResult{
		IsSports:   score >= sportsThreshold,
		Score:      score,
		Confidence: math.Min(math.Max(score, 0)/confidenceFullScore, 1),
		Athletes:   athleteHits,
		Teams:      teamHits,
	}
}
