package scoring

import (
	"strings"

	"github.com/codyseavey/cardledger/backend/internal/query"
)

// Per-token awards, highest applicable wins.
const (
	scoreExact          = 1.0
	scorePhoneticEqual  = 0.9
	scorePrefix         = 0.8
	scorePhoneticPrefix = 0.7
	scoreSubstring      = 0.5
	scorePhoneticSubstr = 0.4
)

type targetIndex struct {
	text           string
	tokens         []string
	phonetics      []string
	phoneticString string
}

func indexTarget(target string) targetIndex {
	text := query.Clean(target)
	tokens := strings.Fields(text)
	phonetics := make([]string, len(tokens))
	for i, t := range tokens {
		phonetics[i] = Phonetic(t)
	}
	return targetIndex{
		text:           text,
		tokens:         tokens,
		phonetics:      phonetics,
		phoneticString: Phonetic(text),
	}
}

// TokenMatchScore averages the best per-token award of queryTokens against
// target. Word order in target does not matter. The result is in [0,1].
func TokenMatchScore(queryTokens []string, target string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	idx := indexTarget(target)
	if idx.text == "" {
		return 0
	}

	var sum float64
	for _, qt := range queryTokens {
		sum += tokenScore(strings.ToLower(qt), idx)
	}
	return sum / float64(len(queryTokens))
}

func tokenScore(qt string, idx targetIndex) float64 {
	if qt == "" {
		return 0
	}
	qp := Phonetic(qt)

	for _, t := range idx.tokens {
		if t == qt {
			return scoreExact
		}
	}
	if qp != "" {
		for _, p := range idx.phonetics {
			if p == qp {
				return scorePhoneticEqual
			}
		}
	}
	for _, t := range idx.tokens {
		if strings.HasPrefix(t, qt) {
			return scorePrefix
		}
	}
	if qp != "" {
		for _, p := range idx.phonetics {
			if strings.HasPrefix(p, qp) {
				return scorePhoneticPrefix
			}
		}
	}
	if strings.Contains(idx.text, qt) {
		return scoreSubstring
	}
	if qp != "" && strings.Contains(idx.phoneticString, qp) {
		return scorePhoneticSubstr
	}
	return 0
}
