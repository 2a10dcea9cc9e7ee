// Package scoring ranks candidates against a normalized query using literal,
// token, phonetic and trigram similarity.
package scoring

import (
	"strings"
	"unicode"
)

const vowelSymbol = 'a'

// phoneticClass merges letters that are commonly confused in typed card names.
var phoneticClass = map[rune]rune{
	'a': vowelSymbol, 'e': vowelSymbol, 'i': vowelSymbol, 'o': vowelSymbol, 'u': vowelSymbol,
	'z': 's',
	'c': 'k',
	'b': 'p',
	't': 'd',
	'v': 'f',
	'j': 'g',
	'n': 'm',
	'y': 'w',
}

var phoneticExpansions = strings.NewReplacer("qu", "kw", "x", "ks")

// Phonetic encodes s so that common misspellings collide. All vowels collapse
// to one symbol that is kept only in the leading position, confusable
// consonant pairs merge, x becomes ks, qu becomes kw, and runs of the same
// symbol collapse to one. Non-alphanumeric runes are dropped.
func Phonetic(s string) string {
	var letters strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters.WriteRune(r)
		}
	}
	expanded := phoneticExpansions.Replace(letters.String())

	out := make([]rune, 0, len(expanded))
	for i, r := range []rune(expanded) {
		if mapped, ok := phoneticClass[r]; ok {
			r = mapped
		}
		if r == vowelSymbol && i > 0 {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == r {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}
