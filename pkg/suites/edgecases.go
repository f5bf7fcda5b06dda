package suites

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/provider"
)

// EdgeCaseTester drives boundary inputs (empty, very long, unicode,
// malformed structure) through the adapter. A test passes when the model
// returns a non-empty response without a transport error.
type EdgeCaseTester struct {
	adapter provider.Adapter
	opts    Options
	log     *logrus.Entry
}

// NewEdgeCaseTester creates an edge-case runner over the given adapter.
func NewEdgeCaseTester(adapter provider.Adapter, opts Options) *EdgeCaseTester {
	return &EdgeCaseTester{
		adapter: adapter,
		opts:    opts,
		log:     logrus.WithField("suite", SuiteEdgeCases),
	}
}

// Run exercises every prompt in order, converting per-item failures into
// error-marked results.
func (t *EdgeCaseTester) Run(ctx context.Context, testPrompts []models.TestPrompt) ([]models.SuiteResult, error) {
	results := make([]models.SuiteResult, 0, len(testPrompts))
	for i, p := range testPrompts {
		if i > 0 {
			pause(ctx, t.opts.PromptDelay)
		}
		results = append(results, t.runOne(ctx, p))
	}
	return results, nil
}

func (t *EdgeCaseTester) runOne(ctx context.Context, p models.TestPrompt) models.SuiteResult {
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
			Suite:     SuiteEdgeCases,
			PromptID:  p.ID,
			Category:  p.Category,
			Prompt:    p.Text,
			LatencyMs: time.Since(start).Milliseconds(),
			Metadata:  map[string]string{"error": err.Error()},
		}
	}

	return models.SuiteResult{
		Suite:        SuiteEdgeCases,
		PromptID:     p.ID,
		Category:     p.Category,
		Prompt:       p.Text,
		Response:     resp.Text,
		FinishReason: resp.FinishReason,
		LatencyMs:    resp.LatencyMs,
		Metadata:     resp.Metadata,
	}
}
