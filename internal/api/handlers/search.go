package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/logger"
	"github.com/codyseavey/cardledger/backend/internal/models"
)

// Searcher runs one product search.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) (models.SearchResponse, error)
}

type SearchHandler struct {
	searcher Searcher
}

func NewSearchHandler(searcher Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles POST /api/search with a JSON body.
func (h *SearchHandler) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// A body we cannot read is treated like a too-short query.
		logger.FromContext(c.Request.Context()).Debug("Unreadable search body", zap.Error(err))
		c.JSON(http.StatusOK, emptySearchResponse())
		return
	}
	h.respond(c, req)
}

// SearchQuery handles GET /api/search?q=...&graded=&company=&grade=.
func (h *SearchHandler) SearchQuery(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusOK, emptySearchResponse())
		return
	}
	h.respond(c, req)
}

func (h *SearchHandler) respond(c *gin.Context, req models.SearchRequest) {
	resp, err := h.searcher.Search(c.Request.Context(), req)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("Search failed", zap.String("query", req.Query), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    err.Error(),
			"products": []models.Candidate{},
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func emptySearchResponse() models.SearchResponse {
	return models.SearchResponse{Products: []models.Candidate{}}
}
