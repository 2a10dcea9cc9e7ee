package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/cardledger/backend/internal/services"
)

// QuotaStatus is one provider's daily budget.
type QuotaStatus struct {
	Source     string `json:"source"`
	DailyLimit int    `json:"daily_limit"`
	Remaining  int    `json:"remaining"` // -1 when unlimited
}

// SearchStatus describes what the search backend can currently reach.
type SearchStatus struct {
	Sources    []string      `json:"sources"`
	CacheTiers []string      `json:"cache_tiers"`
	Quotas     []QuotaStatus `json:"quotas"`
	Summarizer bool          `json:"summarizer"`
}

type StatusHandler struct {
	sources    []string
	cacheTiers []string
	limiters   []*services.Limiter
	summarizer bool
}

func NewStatusHandler(sources, cacheTiers []string, limiters []*services.Limiter, summarizer bool) *StatusHandler {
	return &StatusHandler{
		sources:    sources,
		cacheTiers: cacheTiers,
		limiters:   limiters,
		summarizer: summarizer,
	}
}

// GetStatus returns configured sources, cache tiers and remaining quotas.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	status := SearchStatus{
		Sources:    nonNil(h.sources),
		CacheTiers: nonNil(h.cacheTiers),
		Quotas:     make([]QuotaStatus, 0, len(h.limiters)),
		Summarizer: h.summarizer,
	}
	for _, l := range h.limiters {
		if l == nil {
			continue
		}
		status.Quotas = append(status.Quotas, QuotaStatus{
			Source:     l.Name(),
			DailyLimit: l.DailyLimit(),
			Remaining:  l.Remaining(),
		})
	}
	c.JSON(http.StatusOK, status)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
