package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/api/handlers"
	"github.com/codyseavey/cardledger/backend/internal/config"
)

func parseConfig(t *testing.T, yaml string) config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(yaml))
	require.NoError(t, err)
	return cfg
}

func getStatus(t *testing.T, a *App) handlers.SearchStatus {
	t.Helper()
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/search/status", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var status handlers.SearchStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	return status
}

func TestNewWithoutKeys(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := New(context.Background(), parseConfig(t, "search:\n  max_results: 10\n"), zap.NewNop())
	defer func() { assert.NoError(t, a.Close()) }()

	assert.Nil(t, a.Janitor)
	assert.Equal(t, []string{"pokemon_tcg", "scryfall"}, a.Aggregator.Sources().Enabled())

	status := getStatus(t, a)
	assert.Equal(t, []string{"pokemon_tcg", "scryfall"}, status.Sources)
	assert.Equal(t, []string{"memory"}, status.CacheTiers)
	assert.False(t, status.Summarizer)
}

func TestNewWithWebSearchAndSummarizer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := parseConfig(t, `
sources:
  pokemon_price_tracker:
    api_key: ppt-key
  scryfall:
    disabled: true
  web_search:
    api_key: web-key
    daily_limit: 500
summarizer:
  api_key: openai-key
`)
	a := New(context.Background(), cfg, zap.NewNop())
	defer func() { assert.NoError(t, a.Close()) }()

	status := getStatus(t, a)
	assert.Equal(t, []string{
		"pokemon_tcg", "pokemon_price_tracker", "web_tcg", "web_sports", "web_one_piece", "web_graded",
	}, status.Sources)
	assert.True(t, status.Summarizer)

	var webQuota *handlers.QuotaStatus
	for i := range status.Quotas {
		if status.Quotas[i].Source == "web_search" {
			webQuota = &status.Quotas[i]
		}
	}
	require.NotNil(t, webQuota)
	assert.Equal(t, 500, webQuota.DailyLimit)
	assert.Equal(t, 500, webQuota.Remaining)
}

func TestNewWithSQLiteTier(t *testing.T) {
	gin.SetMode(gin.TestMode)
	path := filepath.Join(t.TempDir(), "cache.db")
	cfg := parseConfig(t, "cache:\n  driver: sqlite\n  sqlite:\n    path: "+path+"\n")

	a := New(context.Background(), cfg, zap.NewNop())

	assert.NotNil(t, a.Janitor)
	assert.Equal(t, []string{"memory", "sqlite"}, getStatus(t, a).CacheTiers)
	assert.NoError(t, a.Close())
	assert.NoError(t, a.Close(), "second close is a no-op")
}

func TestUnreachableCacheTierFailsSearches(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "redis",
			yaml: "cache:\n  driver: redis\n  redis:\n    addrs:\n      - 127.0.0.1:1\n",
		},
		{
			name: "sqlite",
			yaml: "cache:\n  driver: sqlite\n  sqlite:\n    path: " +
				filepath.Join(t.TempDir(), "missing", "dir", "cache.db") + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(context.Background(), parseConfig(t, tt.yaml), zap.NewNop())
			defer func() { assert.NoError(t, a.Close()) }()

			assert.Nil(t, a.Janitor)
			assert.Empty(t, getStatus(t, a).CacheTiers)

			w := httptest.NewRecorder()
			a.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"query":"charizard"}`)))

			require.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"search backend is not configured","products":[]}`, w.Body.String())
		})
	}
}
