// Package query turns raw search text into the normalized forms used for
// classification, scoring and cache keys.
package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizedQuery is immutable once built.
type NormalizedQuery struct {
	Original      string   `json:"original"`
	Normalized    string   `json:"normalized"`     // lower-case, folded, single-spaced
	Tokens        []string `json:"tokens"`         // normalized tokens + expansions, stop-words removed
	ExpandedQuery string   `json:"expanded_query"` // Tokens joined by a space
}

// Normalizer expands queries with a fixed abbreviation table.
type Normalizer struct {
	abbreviations map[string][]string
}

// NewNormalizer copies the table so later edits to the caller's map have no effect.
func NewNormalizer(abbreviations map[string][]string) *Normalizer {
	table := make(map[string][]string, len(abbreviations))
	for k, v := range abbreviations {
		table[strings.ToLower(k)] = append([]string(nil), v...)
	}
	return &Normalizer{abbreviations: table}
}

var defaultNormalizer = NewNormalizer(DefaultAbbreviations)

// Normalize uses DefaultAbbreviations.
func Normalize(raw string) NormalizedQuery {
	return defaultNormalizer.Normalize(raw)
}

// Normalize lower-cases and folds raw, then appends every abbreviation
// expansion as additional tokens. Stop-words are removed from the token set
// but kept in Normalized.
func (n *Normalizer) Normalize(raw string) NormalizedQuery {
	normalized := Clean(raw)
	words := strings.Fields(normalized)

	tokens := make([]string, 0, len(words)*2)
	for _, w := range words {
		tokens = append(tokens, w)
		for _, phrase := range n.abbreviations[w] {
			tokens = append(tokens, strings.Fields(phrase)...)
		}
	}

	filtered := tokens[:0]
	for _, t := range tokens {
		if _, stop := StopWords[t]; stop {
			continue
		}
		filtered = append(filtered, t)
	}

	return NormalizedQuery{
		Original:      raw,
		Normalized:    normalized,
		Tokens:        filtered,
		ExpandedQuery: strings.Join(filtered, " "),
	}
}

// punctuation that never carries meaning in a card query; '/', '#', '-' and
// '.' are kept for card numbers and set codes.
var noise = strings.NewReplacer(
	",", " ", "(", " ", ")", " ", "[", " ", "]", " ",
	"!", " ", "?", " ", "\"", " ", ";", " ", ":", " ",
)

// Clean lower-cases s, strips diacritics and noise punctuation, and collapses
// whitespace. Clean(Clean(s)) == Clean(s).
func Clean(s string) string {
	// Chained transformers carry state, so each call builds its own.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(norm.NFKC.String(folded))
	folded = noise.Replace(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Len is the trimmed rune length used for the minimum-length check.
func Len(raw string) int {
	return len([]rune(strings.TrimSpace(raw)))
}
