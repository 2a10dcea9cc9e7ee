package models

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Category identifies which kind of product a Candidate describes.
type Category string

const (
	CategoryRaw    Category = "raw"
	CategorySealed Category = "sealed"
	CategoryGraded Category = "graded"
	CategorySports Category = "sports"
)

// SourceURL is a page that backs a Candidate (search hit, catalog page).
type SourceURL struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// CardDetails holds the printed attributes of a single card.
type CardDetails struct {
	Rarity   string   `json:"rarity,omitempty"`
	Subtypes []string `json:"subtypes,omitempty"` // ["V", "VMAX", "ex"]
	Artist   string   `json:"artist,omitempty"`
}

// GradingDetails is required for graded slabs.
type GradingDetails struct {
	GradingCompany string `json:"grading_company"` // "PSA", "BGS", "CGC"
	Grade          string `json:"grade"`
}

// SportsDetails is required for sports cards.
type SportsDetails struct {
	Player string `json:"player"`
	Year   string `json:"year,omitempty"`
}

// SealedDetails is required for sealed product.
type SealedDetails struct {
	ProductType string `json:"product_type"` // "booster box", "elite trainer box", ...
}

// Candidate is one product record produced by a source adapter.
// The embedded detail pointers act as the category variant: exactly the
// pointer matching Category must be set (raw cards may omit CardDetails).
type Candidate struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	SetName      string      `json:"set_name"`
	CardNumber   string      `json:"card_number,omitempty"`
	ImageURL     string      `json:"image_url"`
	MarketPrice  *float64    `json:"market_price,omitempty"`
	LowestListed *float64    `json:"lowest_listed,omitempty"`
	Category     Category    `json:"category"`
	PriceSource  string      `json:"price_source,omitempty"` // "tcgplayer", "pokemonpricetracker", "web"
	Relevance    float64     `json:"relevance"`
	AISummary    string      `json:"ai_summary,omitempty"`
	SourceURLs   []SourceURL `json:"source_urls"`
	Source       string      `json:"source"` // adapter that produced the record

	*CardDetails
	*GradingDetails
	*SportsDetails
	*SealedDetails
}

// NewRawCandidate builds an ungraded single.
func NewRawCandidate(base Candidate, details CardDetails) Candidate {
	base.Category = CategoryRaw
	base.CardDetails = &details
	return base
}

// NewSealedCandidate builds a sealed product record.
func NewSealedCandidate(base Candidate, details SealedDetails) Candidate {
	base.Category = CategorySealed
	base.SealedDetails = &details
	return base
}

// NewGradedCandidate builds a graded slab record.
func NewGradedCandidate(base Candidate, details GradingDetails) Candidate {
	base.Category = CategoryGraded
	base.GradingDetails = &details
	return base
}

// NewSportsCandidate builds a sports card record.
func NewSportsCandidate(base Candidate, details SportsDetails) Candidate {
	base.Category = CategorySports
	base.SportsDetails = &details
	return base
}

// Validate reports whether the record is fully formed for its category.
func (c *Candidate) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("candidate id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("candidate name is required")
	}
	if c.Relevance < 0 || c.Relevance > 1 {
		return errors.Newf("relevance %f outside [0,1]", c.Relevance)
	}
	switch c.Category {
	case CategoryRaw:
		return nil
	case CategorySealed:
		if c.SealedDetails == nil || c.ProductType == "" {
			return errors.New("sealed candidate requires a product type")
		}
	case CategoryGraded:
		if c.GradingDetails == nil || c.GradingCompany == "" || c.Grade == "" {
			return errors.New("graded candidate requires grading company and grade")
		}
	case CategorySports:
		if c.SportsDetails == nil || c.Player == "" {
			return errors.New("sports candidate requires a player")
		}
	default:
		return errors.Newf("unknown category %q", c.Category)
	}
	return nil
}

// HasRealImage is true when the image URL points at an actual product image.
func (c *Candidate) HasRealImage() bool {
	return !IsPlaceholderImage(c.ImageURL)
}

// HasPrice is true when a positive market price is known.
func (c *Candidate) HasPrice() bool {
	return c.MarketPrice != nil && *c.MarketPrice > 0
}

// HasNamedPriceSource is true when the price came from a known catalog rather than text extraction.
func (c *Candidate) HasNamedPriceSource() bool {
	return c.PriceSource != "" && c.PriceSource != PriceSourceWeb
}

// PriceSourceWeb marks prices parsed out of search summaries.
const PriceSourceWeb = "web"

var placeholderMarkers = []string{"placeholder", "no-image", "noimage", "image-not-found", "default-card"}

// IsPlaceholderImage is true for empty URLs and well-known stand-in images.
func IsPlaceholderImage(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" {
		return true
	}
	for _, m := range placeholderMarkers {
		if strings.Contains(u, m) {
			return true
		}
	}
	return false
}

// Price returns a pointer to v for the optional price fields.
func Price(v float64) *float64 {
	return &v
}
