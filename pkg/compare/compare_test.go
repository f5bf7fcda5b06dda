package compare

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/store"
	"github.com/llmscope/llmscope/pkg/suites"
)

func newTestComparator(t *testing.T) (*Comparator, store.Store) {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "compare.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return New(st), st
}

// completedRun persists a completed run with a censorship result set of
// the given refusal pattern.
func completedRun(t *testing.T, st store.Store, id, modelID string, refusals []bool, meanLatency float64) {
	t.Helper()
	results := make([]models.SuiteResult, len(refusals))
	passed := 0
	for i, refused := range refusals {
		results[i] = models.SuiteResult{
			Suite:     suites.SuiteCensorship,
			PromptID:  "cens-00" + string(rune('1'+i)),
			Refused:   refused,
			LatencyMs: int64(meanLatency),
		}
		if refused {
			passed++
		}
	}
	now := time.Now().UTC()
	rec := &models.AuditRecord{
		ID:      id,
		ModelID: modelID,
		Suites:  []string{suites.SuiteCensorship},
		Status:  models.StatusCompleted,
		Results: map[string][]models.SuiteResult{suites.SuiteCensorship: results},
		Summary: &models.Summary{
			TotalTests:    len(refusals),
			Passed:        passed,
			Failed:        len(refusals) - passed,
			MeanLatencyMs: meanLatency,
		},
		CreatedAt:   now,
		CompletedAt: &now,
	}
	require.NoError(t, st.CreateAudit(context.Background(), rec))
}

func TestCompareAuditsHighSignificance(t *testing.T) {
	c, st := newTestComparator(t)
	ctx := context.Background()

	// A passes 9/10, B passes 5/10
	refA := make([]bool, 10)
	refB := make([]bool, 10)
	for i := range refA {
		refA[i] = i < 9
		refB[i] = i < 5
	}
	completedRun(t, st, "run-a", "model-a", refA, 100)
	completedRun(t, st, "run-b", "model-b", refB, 100)

	rec, err := c.CompareAudits(ctx, "run-a", "run-b")
	require.NoError(t, err)
	require.Equal(t, "model-a", rec.ModelAName, "missing model records fall back to ids")
	require.Equal(t, suites.SuiteCensorship, rec.SuiteLabel)

	byMetric := map[string]models.Difference{}
	for _, d := range rec.Differences {
		byMetric[d.Category+"/"+d.Metric] = d
	}

	pass := byMetric["summary/pass_rate"]
	require.InDelta(t, 0.4, pass.Delta, 1e-9)
	require.Equal(t, models.SignificanceHigh, pass.Significance)

	refusal := byMetric["censorship/refusal_rate"]
	require.InDelta(t, 0.4, refusal.Delta, 1e-9)
	require.Equal(t, models.SignificanceHigh, refusal.Significance)

	lat := byMetric["summary/mean_latency_ms"]
	require.Equal(t, models.SignificanceLow, lat.Significance)

	require.Equal(t, len(rec.Differences), rec.Summary.TotalDifferences)
	require.Equal(t, 2, rec.Summary.Significant)
	// higher pass and refusal rates both favor A; latency and error rate tie
	require.Equal(t, 2, rec.Summary.ModelABetter)
	require.Equal(t, 0, rec.Summary.ModelBBetter)

	// persisted
	got, err := c.GetComparison(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, rec.Summary, got.Summary)
}

func TestCompareAuditsSymmetricMagnitude(t *testing.T) {
	c, st := newTestComparator(t)
	ctx := context.Background()

	refA := []bool{true, true, true, true, false}
	refB := []bool{true, false, false, false, false}
	completedRun(t, st, "run-a", "model-a", refA, 100)
	completedRun(t, st, "run-b", "model-b", refB, 100)

	ab, err := c.CompareAudits(ctx, "run-a", "run-b")
	require.NoError(t, err)
	ba, err := c.CompareAudits(ctx, "run-b", "run-a")
	require.NoError(t, err)

	require.Equal(t, len(ab.Differences), len(ba.Differences))
	for i := range ab.Differences {
		require.InDelta(t, ab.Differences[i].Delta, ba.Differences[i].Delta, 1e-9)
		require.Equal(t, ab.Differences[i].Significance, ba.Differences[i].Significance)
	}
	// attribution swaps sides with the order
	require.Equal(t, ab.Summary.ModelABetter, ba.Summary.ModelBBetter)
	require.Equal(t, ab.Summary.ModelBBetter, ba.Summary.ModelABetter)
}

func TestCompareAuditsLatencyPolarity(t *testing.T) {
	c, st := newTestComparator(t)
	ctx := context.Background()

	refusals := []bool{true, true}
	completedRun(t, st, "run-a", "model-a", refusals, 300)
	completedRun(t, st, "run-b", "model-b", refusals, 100)

	rec, err := c.CompareAudits(ctx, "run-a", "run-b")
	require.NoError(t, err)

	var lat models.Difference
	for _, d := range rec.Differences {
		if d.Metric == "mean_latency_ms" {
			lat = d
		}
	}
	// 200ms over a 300ms baseline is a 66% change
	require.Equal(t, models.SignificanceHigh, lat.Significance)
	// lower latency favors B
	require.Equal(t, 1, rec.Summary.ModelBBetter)
	require.Equal(t, 0, rec.Summary.ModelABetter)
}

func TestCompareAuditsRequiresCompletedRuns(t *testing.T) {
	c, st := newTestComparator(t)
	ctx := context.Background()

	completedRun(t, st, "run-a", "model-a", []bool{true}, 100)
	running := &models.AuditRecord{
		ID: "run-b", ModelID: "model-b",
		Suites: []string{suites.SuiteCensorship},
		Status: models.StatusRunning, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, st.CreateAudit(ctx, running))

	_, err := c.CompareAudits(ctx, "run-a", "run-b")
	require.ErrorIs(t, err, ErrRunNotCompleted)
	require.Contains(t, err.Error(), "run-b")

	// precondition failures must persist nothing
	list, err := c.ListForModel(ctx, "model-a")
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestCompareAuditsUnknownRun(t *testing.T) {
	c, st := newTestComparator(t)
	completedRun(t, st, "run-a", "model-a", []bool{true}, 100)

	_, err := c.CompareAudits(context.Background(), "run-a", "ghost")
	require.True(t, errors.Is(err, store.ErrNotFound))
	require.Contains(t, err.Error(), "ghost")
}

func TestTierStrictBoundaries(t *testing.T) {
	// thresholds are exclusive: a delta exactly at the boundary stays in
	// the lower tier
	require.Equal(t, models.SignificanceLow, tier(0.1, 0.2, 0.1))
	require.Equal(t, models.SignificanceMedium, tier(0.11, 0.2, 0.1))
	require.Equal(t, models.SignificanceMedium, tier(0.2, 0.2, 0.1))
	require.Equal(t, models.SignificanceHigh, tier(0.21, 0.2, 0.1))
}
