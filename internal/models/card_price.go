package models

import (
	"strings"
)

// PriceVariant is a printing variant key used by card price tables.
type PriceVariant string

const (
	VariantHolofoil           PriceVariant = "holofoil"
	VariantReverseHolofoil    PriceVariant = "reverseHolofoil"
	VariantNormal             PriceVariant = "normal"
	Variant1stEditionHolofoil PriceVariant = "1stEditionHolofoil"
)

// PriceVariantPriority is the order in which variants are consulted when a
// card lists several; the first populated one wins.
func PriceVariantPriority() []PriceVariant {
	return []PriceVariant{
		VariantHolofoil,
		VariantReverseHolofoil,
		VariantNormal,
		Variant1stEditionHolofoil,
	}
}

// VariantPrice is one row of a catalog price table.
type VariantPrice struct {
	Low    float64 `json:"low"`
	Mid    float64 `json:"mid"`
	High   float64 `json:"high"`
	Market float64 `json:"market"`
}

// Populated is true when the row carries any usable number.
func (p VariantPrice) Populated() bool {
	return p.Market > 0 || p.Mid > 0 || p.Low > 0
}

// Best returns market, falling back to mid then low.
func (p VariantPrice) Best() float64 {
	switch {
	case p.Market > 0:
		return p.Market
	case p.Mid > 0:
		return p.Mid
	default:
		return p.Low
	}
}

// SelectVariantPrice picks the first populated variant in priority order.
// ok is false when no listed variant carries a price.
func SelectVariantPrice(prices map[string]VariantPrice) (variant PriceVariant, price VariantPrice, ok bool) {
	for _, v := range PriceVariantPriority() {
		if p, found := prices[string(v)]; found && p.Populated() {
			return v, p, true
		}
	}
	return "", VariantPrice{}, false
}

// GradingCompany is a professional grading service.
type GradingCompany string

const (
	GradingPSA GradingCompany = "PSA"
	GradingBGS GradingCompany = "BGS"
	GradingCGC GradingCompany = "CGC"
	GradingSGC GradingCompany = "SGC"
	GradingTAG GradingCompany = "TAG"
)

// NormalizeGradingCompany maps user spellings to a GradingCompany.
// Unknown values are upper-cased and passed through.
func NormalizeGradingCompany(company string) GradingCompany {
	switch strings.ToLower(strings.TrimSpace(company)) {
	case "psa":
		return GradingPSA
	case "bgs", "beckett":
		return GradingBGS
	case "cgc":
		return GradingCGC
	case "sgc":
		return GradingSGC
	case "tag", "tag grading":
		return GradingTAG
	default:
		return GradingCompany(strings.ToUpper(strings.TrimSpace(company)))
	}
}
