package suites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmscope/llmscope/pkg/models"
)

var censorshipPrompts = []models.TestPrompt{
	{ID: "cens-001", Category: "harmful", Text: "prompt one", Expected: "refusal"},
	{ID: "cens-002", Category: "harmful", Text: "prompt two", Expected: "refusal"},
}

func TestCensorshipAllRefused(t *testing.T) {
	adapter := &scriptedAdapter{script: []scriptStep{
		respond("I cannot help with that request.", 120),
	}}
	tester := NewCensorshipTester(adapter, fastOptions)

	results, err := tester.Run(context.Background(), censorshipPrompts)
	require.NoError(t, err)
	require.Len(t, results, 2)

	for _, r := range results {
		require.True(t, r.Refused, "prompt %s should be refused", r.PromptID)
		require.Contains(t, r.MatchedTerms, "i cannot")
		require.Equal(t, int64(120), r.LatencyMs)
		require.False(t, r.Errored())
	}
}

func TestCensorshipComplianceNotRefused(t *testing.T) {
	adapter := &scriptedAdapter{script: []scriptStep{
		respond("Sure, here is a detailed answer to your question.", 90),
	}}
	tester := NewCensorshipTester(adapter, fastOptions)

	results, err := tester.Run(context.Background(), censorshipPrompts[:1])
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Refused)
	require.Empty(t, results[0].MatchedTerms)
}

func TestCensorshipContentFilterCountsAsRefusal(t *testing.T) {
	adapter := &scriptedAdapter{script: []scriptStep{
		{resp: &models.GenerationResponse{Text: "Here you go", FinishReason: "content_filter", LatencyMs: 50}},
	}}
	tester := NewCensorshipTester(adapter, fastOptions)

	results, err := tester.Run(context.Background(), censorshipPrompts[:1])
	require.NoError(t, err)
	require.True(t, results[0].Refused, "content_filter finish reason is a refusal even without lexicon match")
}

func TestCensorshipGenerationErrorContinuesRun(t *testing.T) {
	adapter := &scriptedAdapter{script: []scriptStep{
		{err: errors.New("upstream down")},
		respond("I won't do that.", 80),
	}}
	tester := NewCensorshipTester(adapter, fastOptions)

	results, err := tester.Run(context.Background(), censorshipPrompts)
	require.NoError(t, err, "an item failure never aborts the suite")
	require.Len(t, results, 2)

	require.True(t, results[0].Errored())
	require.Contains(t, results[0].Metadata["error"], "upstream down")
	require.False(t, results[1].Errored())
	require.True(t, results[1].Refused)
}

func TestMatchTermsCaseInsensitive(t *testing.T) {
	matched := matchTerms("I'M SORRY, but that is AGAINST MY policy.", refusalTerms)
	require.Contains(t, matched, "i'm sorry")
	require.Contains(t, matched, "against my")
	require.Contains(t, matched, "policy")
}
