package models

// SearchRequest is the single request shape accepted by the search endpoint.
type SearchRequest struct {
	Query          string `json:"query" form:"q"`
	IsGraded       bool   `json:"isGraded" form:"graded"`
	GradingCompany string `json:"gradingCompany,omitempty" form:"company"`
	Grade          string `json:"grade,omitempty" form:"grade"`
}

// SearchMeta summarises a result set for the caller.
type SearchMeta struct {
	Total            int      `json:"total"`
	WithPrices       int      `json:"with_prices"`
	WithImages       int      `json:"with_images"`
	SportsQuery      *bool    `json:"sports_query,omitempty"`
	SportsConfidence *float64 `json:"sports_confidence,omitempty"`
	TCGFamily        string   `json:"tcg_family,omitempty"`
	GradedSearch     bool     `json:"graded_search,omitempty"`
	GradingCompany   string   `json:"grading_company,omitempty"`
	NoSlabImage      bool     `json:"no_slab_image,omitempty"`
	Cached           bool     `json:"cached"`
	TimeMS           int64    `json:"time_ms"`
}

// SearchResponse is the ranked result returned to the caller.
type SearchResponse struct {
	Products []Candidate `json:"products"`
	Meta     SearchMeta  `json:"meta"`
}

// Summarize fills the count fields of meta from products.
func (m *SearchMeta) Summarize(products []Candidate) {
	m.Total = len(products)
	m.WithPrices = 0
	m.WithImages = 0
	for i := range products {
		if products[i].HasPrice() {
			m.WithPrices++
		}
		if products[i].HasRealImage() {
			m.WithImages++
		}
	}
}
