// Package compare computes significance-classified differences between two
// completed audit runs, independent of any live adapter.
package compare

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/store"
	"github.com/llmscope/llmscope/pkg/suites"
)

// ErrRunNotCompleted is returned when a comparison is requested against a
// run that has not reached the completed state.
var ErrRunNotCompleted = errors.New("audit run is not completed")

// Comparator diffs completed audit runs and persists the result.
type Comparator struct {
	store store.Store
	log   *logrus.Entry
}

// New creates a Comparator.
func New(st store.Store) *Comparator {
	return &Comparator{store: st, log: logrus.WithField("component", "compare")}
}

// CompareAudits builds and persists an immutable comparison between two
// completed runs. Both runs must exist and be completed; nothing is
// persisted otherwise.
func (c *Comparator) CompareAudits(ctx context.Context, idA, idB string) (*models.ComparisonRecord, error) {
	a, err := c.store.GetAudit(ctx, idA)
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", idA, err)
	}
	b, err := c.store.GetAudit(ctx, idB)
	if err != nil {
		return nil, fmt.Errorf("audit %s: %w", idB, err)
	}
	if a.Status != models.StatusCompleted {
		return nil, fmt.Errorf("audit %s: %w (status %s)", idA, ErrRunNotCompleted, a.Status)
	}
	if b.Status != models.StatusCompleted {
		return nil, fmt.Errorf("audit %s: %w (status %s)", idB, ErrRunNotCompleted, b.Status)
	}

	rec := &models.ComparisonRecord{
		ID:          uuid.NewString(),
		ModelAID:    a.ModelID,
		ModelBID:    b.ModelID,
		ModelAName:  c.modelName(ctx, a.ModelID),
		ModelBName:  c.modelName(ctx, b.ModelID),
		SuiteLabel:  sharedSuiteLabel(a, b),
		Differences: buildDifferences(a, b),
		CreatedAt:   time.Now().UTC(),
	}
	rec.Summary = summarizeDifferences(rec.Differences)

	if err := c.store.CreateComparison(ctx, rec); err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{
		"comparison_id": rec.ID,
		"differences":   rec.Summary.TotalDifferences,
	}).Info("comparison created")
	return rec, nil
}

// GetComparison looks up one comparison record by id.
func (c *Comparator) GetComparison(ctx context.Context, id string) (*models.ComparisonRecord, error) {
	return c.store.GetComparison(ctx, id)
}

// ListForModel returns every comparison referencing the given model.
func (c *Comparator) ListForModel(ctx context.Context, modelID string) ([]models.ComparisonRecord, error) {
	return c.store.ListComparisonsByModel(ctx, modelID)
}

// modelName resolves a human name, falling back to the id when the model
// record is gone.
func (c *Comparator) modelName(ctx context.Context, modelID string) string {
	m, err := c.store.GetModel(ctx, modelID)
	if err != nil {
		return modelID
	}
	return m.Name
}

func sharedSuiteLabel(a, b *models.AuditRecord) string {
	var shared []string
	for suite := range a.Results {
		if _, ok := b.Results[suite]; ok {
			shared = append(shared, suite)
		}
	}
	sort.Strings(shared)
	return strings.Join(shared, ",")
}

// buildDifferences computes summary-level and per-suite metric deltas.
// Thresholds are fixed per metric; significance is a pure function of the
// numeric difference.
func buildDifferences(a, b *models.AuditRecord) []models.Difference {
	var diffs []models.Difference

	sa, sb := a.Summary, b.Summary
	if sa != nil && sb != nil {
		passA, passB := rate(sa.Passed, sa.TotalTests), rate(sb.Passed, sb.TotalTests)
		diffs = append(diffs, numericDiff("summary", "pass_rate", passA, passB, tier(math.Abs(passA-passB), 0.2, 0.1)))

		latDelta := math.Abs(sa.MeanLatencyMs - sb.MeanLatencyMs)
		pct := 0.0
		if sa.MeanLatencyMs > 0 {
			pct = latDelta / sa.MeanLatencyMs * 100
		}
		diffs = append(diffs, numericDiff("summary", "mean_latency_ms", sa.MeanLatencyMs, sb.MeanLatencyMs, tier(pct, 50, 25)))

		errA, errB := rate(sa.Errors, sa.TotalTests), rate(sb.Errors, sb.TotalTests)
		diffs = append(diffs, numericDiff("summary", "error_rate", errA, errB, tier(math.Abs(errA-errB), 0.1, 0.05)))
	}

	if ra, rb, ok := bothSuites(a, b, suites.SuiteCensorship); ok {
		ca, cb := refusalRate(ra), refusalRate(rb)
		diffs = append(diffs, numericDiff("censorship", "refusal_rate", ca, cb, tier(math.Abs(ca-cb), 0.2, 0.1)))
	}
	if ra, rb, ok := bothSuites(a, b, suites.SuiteBias); ok {
		na, nb := meanNeutrality(ra), meanNeutrality(rb)
		diffs = append(diffs, numericDiff("bias", "mean_neutrality", na, nb, tier(math.Abs(na-nb), 0.2, 0.1)))
	}
	if ra, rb, ok := bothSuites(a, b, suites.SuiteSideChannel); ok {
		ka, kb := meanRiskScore(ra), meanRiskScore(rb)
		diffs = append(diffs, numericDiff("sidechannel", "mean_risk_score", ka, kb, tier(math.Abs(ka-kb), 1, 0.5)))
	}
	if ra, rb, ok := bothSuites(a, b, suites.SuiteEdgeCases); ok {
		ea, eb := responseRate(ra), responseRate(rb)
		diffs = append(diffs, numericDiff("edge-cases", "response_rate", ea, eb, tier(math.Abs(ea-eb), 0.2, 0.1)))
	}

	return diffs
}

func numericDiff(category, metric string, a, b float64, sig models.Significance) models.Difference {
	return models.Difference{
		Category:     category,
		Metric:       metric,
		ValueA:       a,
		ValueB:       b,
		Delta:        math.Abs(a - b),
		Significance: sig,
	}
}

func tier(delta, high, medium float64) models.Significance {
	switch {
	case delta > high:
		return models.SignificanceHigh
	case delta > medium:
		return models.SignificanceMedium
	default:
		return models.SignificanceLow
	}
}

// summarizeDifferences rolls up the difference list. For each numeric
// difference the better run is attributed by metric-name polarity: lower
// wins for latency, error and risk metrics, higher wins otherwise. The
// name-matching convention is preserved from the original scoring for
// compatibility.
func summarizeDifferences(diffs []models.Difference) models.DiffSummary {
	s := models.DiffSummary{TotalDifferences: len(diffs)}
	for _, d := range diffs {
		if d.Significance != models.SignificanceLow {
			s.Significant++
		}
		va, aok := toFloat(d.ValueA)
		vb, bok := toFloat(d.ValueB)
		if !aok || !bok || va == vb {
			continue
		}
		lowerBetter := strings.Contains(d.Metric, "latency") ||
			strings.Contains(d.Metric, "error") ||
			strings.Contains(d.Metric, "risk")
		aWins := va > vb
		if lowerBetter {
			aWins = va < vb
		}
		if aWins {
			s.ModelABetter++
		} else {
			s.ModelBBetter++
		}
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func bothSuites(a, b *models.AuditRecord, suite string) ([]models.SuiteResult, []models.SuiteResult, bool) {
	ra, okA := a.Results[suite]
	rb, okB := b.Results[suite]
	if !okA || !okB {
		return nil, nil, false
	}
	return ra, rb, true
}

func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total)
}

func refusalRate(results []models.SuiteResult) float64 {
	if len(results) == 0 {
		return 0
	}
	refused := 0
	for _, r := range results {
		if r.Refused {
			refused++
		}
	}
	return float64(refused) / float64(len(results))
}

func meanNeutrality(results []models.SuiteResult) float64 {
	var sum float64
	n := 0
	for _, r := range results {
		if r.Neutrality != nil {
			sum += *r.Neutrality
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func meanRiskScore(results []models.SuiteResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var sum float64
	for _, r := range results {
		sum += r.Risk.Score()
	}
	return sum / float64(len(results))
}

func responseRate(results []models.SuiteResult) float64 {
	if len(results) == 0 {
		return 0
	}
	responded := 0
	for _, r := range results {
		if !r.Errored() && r.Response != "" {
			responded++
		}
	}
	return float64(responded) / float64(len(results))
}
