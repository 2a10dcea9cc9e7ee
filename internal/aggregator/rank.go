package aggregator

import (
	"sort"

	"github.com/codyseavey/cardledger/backend/internal/models"
)

// relevanceTie is the relevance gap below which two candidates count as
// equally relevant.
const relevanceTie = 0.05

// Rank orders candidates by relevance, treating gaps under relevanceTie as
// ties broken by real image first, then known price. Relevance is sorted
// first; a cluster is every candidate within relevanceTie of the cluster's
// leading score. Rank does not modify its input and Rank(Rank(x)) == Rank(x).
func Rank(candidates []models.Candidate) []models.Candidate {
	ranked := make([]models.Candidate, len(candidates))
	copy(ranked, candidates)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})

	for start := 0; start < len(ranked); {
		leader := ranked[start].Relevance
		end := start + 1
		for end < len(ranked) && leader-ranked[end].Relevance < relevanceTie {
			end++
		}

		cluster := ranked[start:end]
		sort.SliceStable(cluster, func(i, j int) bool {
			return presentationScore(&cluster[i]) > presentationScore(&cluster[j])
		})
		start = end
	}
	return ranked
}

// presentationScore orders a tie cluster: an image outranks a price.
func presentationScore(c *models.Candidate) int {
	score := 0
	if c.HasRealImage() {
		score += 2
	}
	if c.HasPrice() {
		score++
	}
	return score
}
