package aggregator

import (
	"strings"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

// DedupKey identifies the physical product a candidate describes.
func DedupKey(c *models.Candidate) string {
	return query.Clean(c.Name) + "|" + query.Clean(c.SetName) + "|" + strings.ToLower(strings.TrimSpace(c.CardNumber))
}

// Quality prefers image-complete, priced, structured records:
// 3 for a real image, 2 for a price, 1 for a named price source, plus relevance.
func Quality(c *models.Candidate) float64 {
	q := c.Relevance
	if c.HasRealImage() {
		q += 3
	}
	if c.HasPrice() {
		q += 2
	}
	if c.HasNamedPriceSource() {
		q++
	}
	return q
}

// Dedup keeps one candidate per DedupKey, the one with the highest Quality.
// Ties keep the earlier candidate. Output follows first appearance of each key.
func Dedup(candidates []models.Candidate) []models.Candidate {
	index := make(map[string]int, len(candidates))
	out := make([]models.Candidate, 0, len(candidates))

	for i := range candidates {
		c := candidates[i]
		key := DedupKey(&c)
		pos, seen := index[key]
		if !seen {
			index[key] = len(out)
			out = append(out, c)
			continue
		}
		if Quality(&c) > Quality(&out[pos]) {
			out[pos] = c
		}
	}
	return out
}
