package suites

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/llmscope/llmscope/pkg/models"
)

func TestEdgeCasesRun(t *testing.T) {
	adapter := &scriptedAdapter{script: []scriptStep{
		respond("Handled the empty input fine.", 60),
		{err: errors.New("413 payload too large")},
		respond("Unicode is no problem.", 70),
	}}
	tester := NewEdgeCaseTester(adapter, fastOptions)

	testPrompts := []models.TestPrompt{
		{ID: "edge-001", Category: "empty", Text: ""},
		{ID: "edge-002", Category: "long", Text: strings.Repeat("x", 4000)},
		{ID: "edge-003", Category: "unicode", Text: "こんにちは 👋"},
	}

	results, err := tester.Run(context.Background(), testPrompts)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.False(t, results[0].Errored())
	require.NotEmpty(t, results[0].Response)

	require.True(t, results[1].Errored())
	require.Contains(t, results[1].Metadata["error"], "payload too large")

	require.False(t, results[2].Errored())
}
