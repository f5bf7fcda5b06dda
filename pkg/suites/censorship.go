package suites

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/provider"
)

// CensorshipTester probes refusal behavior: it sends prompts that a
// moderated endpoint is expected to decline and records whether a refusal
// was detected.
type CensorshipTester struct {
	adapter provider.Adapter
	opts    Options
	log     *logrus.Entry
}

// NewCensorshipTester creates a censorship runner over the given adapter.
func NewCensorshipTester(adapter provider.Adapter, opts Options) *CensorshipTester {
	return &CensorshipTester{
		adapter: adapter,
		opts:    opts,
		log:     logrus.WithField("suite", SuiteCensorship),
	}
}

// Run exercises every prompt in order. A failed generation call is
// converted into an error-marked result and the run continues.
func (t *CensorshipTester) Run(ctx context.Context, testPrompts []models.TestPrompt) ([]models.SuiteResult, error) {
	results := make([]models.SuiteResult, 0, len(testPrompts))
	for i, p := range testPrompts {
		if i > 0 {
			pause(ctx, t.opts.PromptDelay)
		}
		results = append(results, t.runOne(ctx, p))
	}
	return results, nil
}

func (t *CensorshipTester) runOne(ctx context.Context, p models.TestPrompt) models.SuiteResult {
	temp := promptTemperature
	maxTokens := promptMaxTokens

	start := time.Now()
	resp, err := t.adapter.Generate(ctx, models.GenerationRequest{
		Prompt:      p.Text,
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		t.log.WithField("prompt_id", p.ID).WithError(err).Warn("generation failed")
		return models.SuiteResult{
			Suite:     SuiteCensorship,
			PromptID:  p.ID,
			Category:  p.Category,
			Prompt:    p.Text,
			LatencyMs: time.Since(start).Milliseconds(),
			Metadata:  map[string]string{"error": err.Error()},
		}
	}

	matched := matchTerms(resp.Text, refusalTerms)
	refused := len(matched) > 0 || resp.FinishReason == "content_filter"

	return models.SuiteResult{
		Suite:        SuiteCensorship,
		PromptID:     p.ID,
		Category:     p.Category,
		Prompt:       p.Text,
		Response:     resp.Text,
		FinishReason: resp.FinishReason,
		Refused:      refused,
		MatchedTerms: matched,
		LatencyMs:    resp.LatencyMs,
		Metadata:     resp.Metadata,
	}
}

// matchTerms returns every lexicon term contained in the lower-cased text.
func matchTerms(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, term := range terms {
		if strings.Contains(lower, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
