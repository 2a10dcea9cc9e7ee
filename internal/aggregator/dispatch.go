package aggregator

import (
	"github.com/codyseavey/cardledger/backend/internal/classifier"
	"github.com/codyseavey/cardledger/backend/internal/services"
)

// plan picks the adapters for a classified query, in merge order.
func (a *Aggregator) plan(cls classifier.Classification) []services.Source {
	s := a.sources
	var plan []services.Source

	if cls.Sports.IsSports {
		return appendConfigured(plan, s.WebSports)
	}

	switch cls.Family.Family {
	case classifier.FamilyPokemon:
		plan = appendConfigured(plan, s.PokemonTCG, s.PriceTracker)
	case classifier.FamilyUnknown:
		plan = appendConfigured(plan, s.PokemonTCG, s.PriceTracker, s.WebTCG)
	case classifier.FamilyOnePiece:
		plan = appendConfigured(plan, s.WebOnePiece)
	case classifier.FamilyMagic:
		plan = appendConfigured(plan, s.Scryfall, s.WebTCG)
	default:
		plan = appendConfigured(plan, s.WebTCG)
	}
	return plan
}

func appendConfigured(plan []services.Source, sources ...services.Source) []services.Source {
	for _, src := range sources {
		if src != nil {
			plan = append(plan, src)
		}
	}
	return plan
}

func contains(plan []services.Source, src services.Source) bool {
	for _, p := range plan {
		if p == src {
			return true
		}
	}
	return false
}

// routeFor labels the dispatch path for metrics.
func routeFor(cls classifier.Classification) string {
	switch {
	case cls.Sports.IsSports:
		return "sports"
	case cls.IsPokemonLike():
		return "pokemon"
	default:
		return "tcg"
	}
}
