package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	openai "github.com/sashabaranov/go-openai"

	"github.com/codyseavey/cardledger/backend/internal/config"
	"github.com/codyseavey/cardledger/backend/internal/metrics"
)

// AnswerSummarizer writes a short pricing answer from search snippets.
type AnswerSummarizer interface {
	Summarize(ctx context.Context, query string, results []WebSearchResult) (string, error)
}

const summarizerPrompt = `You summarize trading card and sports card market listings.
Answer in at most four sentences. Quote every price you mention as $x.xx.
Name the grading company and grade when a listing is graded.
Only use facts present in the provided search results.`

// OpenAISummarizer uses an OpenAI-compatible chat completion endpoint.
type OpenAISummarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAISummarizer returns nil when no API key is configured.
func NewOpenAISummarizer(cfg config.SummarizerConfig) *OpenAISummarizer {
	if cfg.APIKey == "" {
		return nil
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAISummarizer{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

func (s *OpenAISummarizer) Summarize(ctx context.Context, query string, results []WebSearchResult) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: 0,
		MaxTokens:   300,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarizerPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Query: %s\n\nSearch results:\n%s", query, searchContext(results))},
		},
	})
	if err != nil {
		metrics.SummarizerRequestsTotal.WithLabelValues("error").Inc()
		return "", parseSummarizerError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.SummarizerRequestsTotal.WithLabelValues("empty").Inc()
		return "", errors.New("summarizer returned no choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		metrics.SummarizerRequestsTotal.WithLabelValues("empty").Inc()
		return "", errors.New("summarizer returned an empty answer")
	}
	metrics.SummarizerRequestsTotal.WithLabelValues("success").Inc()
	return answer, nil
}

func parseSummarizerError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return errors.Newf("summarizer API error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return errors.Newf("summarizer request error %d", reqErr.HTTPStatusCode)
	}
	return errors.Wrap(err, "summarizer request failed")
}
