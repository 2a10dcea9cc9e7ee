package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/codyseavey/cardledger/backend/internal/models"
	"github.com/codyseavey/cardledger/backend/internal/query"
)

type fakeSource struct {
	name       string
	timeout    time.Duration
	candidates []models.Candidate
	err        error
	delay      time.Duration
	panics     bool
	sawCancel  chan struct{}
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Timeout(query.NormalizedQuery) time.Duration { return f.timeout }

func (f *fakeSource) Fetch(ctx context.Context, _ models.SearchRequest, _ query.NormalizedQuery) ([]models.Candidate, error) {
	if f.panics {
		panic("boom")
	}
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			if f.sawCancel != nil {
				close(f.sawCancel)
			}
			return nil, ctx.Err()
		}
	}
	return f.candidates, f.err
}

func rawCandidate(id, name string) models.Candidate {
	return models.NewRawCandidate(models.Candidate{ID: id, Name: name}, models.CardDetails{})
}

func TestRunSource(t *testing.T) {
	q := query.Normalize("charizard")

	tests := []struct {
		name        string
		src         *fakeSource
		wantOutcome string
		wantCount   int
		wantErr     bool
	}{
		{
			name:        "ok",
			src:         &fakeSource{name: "a", timeout: time.Second, candidates: []models.Candidate{rawCandidate("1", "Charizard")}},
			wantOutcome: OutcomeOK,
			wantCount:   1,
		},
		{
			name:        "empty",
			src:         &fakeSource{name: "b", timeout: time.Second},
			wantOutcome: OutcomeEmpty,
		},
		{
			name:        "error",
			src:         &fakeSource{name: "c", timeout: time.Second, err: errors.New("upstream down"), candidates: []models.Candidate{rawCandidate("1", "x")}},
			wantOutcome: OutcomeError,
			wantErr:     true,
		},
		{
			name:        "panic",
			src:         &fakeSource{name: "d", timeout: time.Second, panics: true},
			wantOutcome: OutcomeError,
			wantErr:     true,
		},
		{
			name:        "timeout",
			src:         &fakeSource{name: "e", timeout: 20 * time.Millisecond, delay: time.Second},
			wantOutcome: OutcomeTimeout,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RunSource(context.Background(), tt.src, models.SearchRequest{}, q, zap.NewNop())
			assert.Equal(t, tt.src.name, result.Source)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Len(t, result.Candidates, tt.wantCount)
			if tt.wantErr {
				assert.Error(t, result.Err)
			} else {
				assert.NoError(t, result.Err)
			}
		})
	}
}

func TestRunSourceCancelsStragglers(t *testing.T) {
	src := &fakeSource{name: "slow", timeout: 10 * time.Millisecond, delay: time.Minute, sawCancel: make(chan struct{})}

	result := RunSource(context.Background(), src, models.SearchRequest{}, query.Normalize("pikachu"), zap.NewNop())
	assert.Equal(t, OutcomeTimeout, result.Outcome)

	select {
	case <-src.sawCancel:
	case <-time.After(time.Second):
		t.Fatal("slow source was not cancelled")
	}
}

func TestRunSourceDropsMalformedCandidates(t *testing.T) {
	src := &fakeSource{
		name:    "mixed",
		timeout: time.Second,
		candidates: []models.Candidate{
			rawCandidate("1", "Pikachu"),
			rawCandidate("", "No ID"),
			rawCandidate("3", ""),
			models.NewGradedCandidate(models.Candidate{ID: "4", Name: "Slab"}, models.GradingDetails{GradingCompany: "PSA"}),
		},
	}

	result := RunSource(context.Background(), src, models.SearchRequest{}, query.Normalize("pikachu"), zap.NewNop())
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "1", result.Candidates[0].ID)
	assert.Equal(t, "mixed", result.Candidates[0].Source)
	assert.NotNil(t, result.Candidates[0].SourceURLs)
}

func TestDoJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte(`{"name":"pikachu"}`))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/garbage":
			_, _ = w.Write([]byte(`{not json`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	client := newHTTPClient(time.Second)
	get := func(path string) (*http.Request, error) {
		return http.NewRequest(http.MethodGet, server.URL+path, nil)
	}

	var out struct {
		Name string `json:"name"`
	}

	req, _ := get("/ok")
	notFound, err := doJSON(client, req, &out)
	require.NoError(t, err)
	assert.False(t, notFound)
	assert.Equal(t, "pikachu", out.Name)

	req, _ = get("/missing")
	notFound, err = doJSON(client, req, &out)
	require.NoError(t, err)
	assert.True(t, notFound)

	req, _ = get("/garbage")
	_, err = doJSON(client, req, &out)
	assert.Error(t, err)

	req, _ = get("/broken")
	_, err = doJSON(client, req, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUpstreamStatus))
}
