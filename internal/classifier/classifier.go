// Package classifier decides which kind of product a query is about: a
// sports card or a trading card game, and which game family. Classification
// is a pure function of the query text and never fetches data.
package classifier

import (
	"sort"
	"strings"

	"github.com/codyseavey/cardledger/backend/internal/query"
)

// Classification is the combined output used to choose source adapters.
type Classification struct {
	Sports SportsResult `json:"sports"`
	Family FamilyResult `json:"family"`
}

// IsPokemonLike is true when structured Pokémon catalogs apply.
func (c Classification) IsPokemonLike() bool {
	return c.Family.Family == FamilyPokemon || c.Family.Family == FamilyUnknown
}

// Classify runs both classifiers over q.
func Classify(q query.NormalizedQuery) Classification {
	text := newMatchText(q)
	return Classification{
		Sports: classifySports(text),
		Family: classifyFamily(text),
	}
}

// matchText is the query prepared for word-boundary lookups. It covers the
// normalized query and its expansions so that both "mtg" and
// "magic gathering" are visible.
type matchText struct {
	padded string
	// typed holds only the words of the query itself, without expansions.
	typed []string
}

func newMatchText(q query.NormalizedQuery) matchText {
	words := strings.Fields(q.Normalized + " " + q.ExpandedQuery)
	return matchText{
		padded: " " + strings.Join(words, " ") + " ",
		typed:  strings.Fields(q.Normalized),
	}
}

func newMatchTextString(s string) matchText {
	return newMatchText(query.Normalize(s))
}

func (m matchText) has(term string) bool {
	return strings.Contains(m.padded, " "+term+" ")
}

// hits returns the terms present in m. Each term counts once.
func (m matchText) hits(terms []string) []string {
	var found []string
	for _, t := range terms {
		if m.has(t) {
			found = append(found, t)
		}
	}
	return found
}

// phraseCount counts non-overlapping occurrences of phrases among the typed
// words. phrases must be ordered longest first so "rookie card" wins over
// "rookie".
func (m matchText) phraseCount(phrases [][]string) int {
	used := make([]bool, len(m.typed))
	count := 0
	for _, p := range phrases {
		for i := 0; i+len(p) <= len(m.typed); i++ {
			if !matchesAt(m.typed, used, i, p) {
				continue
			}
			for j := i; j < i+len(p); j++ {
				used[j] = true
			}
			count++
		}
	}
	return count
}

func matchesAt(words []string, used []bool, at int, phrase []string) bool {
	for j, w := range phrase {
		if used[at+j] || words[at+j] != w {
			return false
		}
	}
	return true
}

// longestFirst splits phrases into words, ordered by word count descending.
func longestFirst(phrases []string) [][]string {
	out := make([][]string, len(phrases))
	for i, p := range phrases {
		out[i] = strings.Fields(p)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}
