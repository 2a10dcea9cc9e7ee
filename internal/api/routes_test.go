package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/api/handlers"
	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/logger"
	"github.com/codyseavey/cardledger/backend/internal/models"
)

type loggingSearcher struct {
	sawLogger bool
}

func (s *loggingSearcher) Search(ctx context.Context, _ models.SearchRequest) (models.SearchResponse, error) {
	fallback := zap.NewNop()
	s.sawLogger = logger.FromContextOr(ctx, fallback) != fallback
	return models.SearchResponse{Products: []models.Candidate{}}, nil
}

func newTestRouter(searcher handlers.Searcher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(
		config.HTTPConfig{CORSOrigins: []string{"https://cardledger.example"}},
		handlers.NewSearchHandler(searcher),
		handlers.NewStatusHandler(nil, nil, nil, false),
		zap.NewNop(),
	)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&loggingSearcher{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRequestIDIsAssignedAndEchoed(t *testing.T) {
	searcher := &loggingSearcher{}
	router := newTestRouter(searcher)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"pikachu"}`)))
	assert.Len(t, w.Header().Get(RequestIDHeader), 27, "ksuid string length")
	assert.True(t, searcher.sawLogger, "request logger should be in the search context")

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=pikachu", nil)
	req.Header.Set(RequestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "client-supplied", w.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	router := newTestRouter(&loggingSearcher{})

	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "https://cardledger.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://cardledger.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(&loggingSearcher{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cardledger_")
}
