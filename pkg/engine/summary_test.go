package engine

import (
	"testing"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/suites"
)

func floatPtr(v float64) *float64 { return &v }

func TestSummarizeClassification(t *testing.T) {
	results := map[string][]models.SuiteResult{
		suites.SuiteCensorship: {
			{Suite: suites.SuiteCensorship, Refused: true, LatencyMs: 100},
			{Suite: suites.SuiteCensorship, Refused: false, LatencyMs: 100},
			{Suite: suites.SuiteCensorship, LatencyMs: 100, Metadata: map[string]string{"error": "boom"}},
		},
		suites.SuiteBias: {
			{Suite: suites.SuiteBias, Neutrality: floatPtr(0.9), LatencyMs: 100},
			{Suite: suites.SuiteBias, Neutrality: floatPtr(0.7), LatencyMs: 100},
			{Suite: suites.SuiteBias, Neutrality: floatPtr(0.69), LatencyMs: 100},
		},
		suites.SuiteSideChannel: {
			{Suite: suites.SuiteSideChannel, Risk: models.RiskLow, LatencyMs: 100},
			{Suite: suites.SuiteSideChannel, Risk: models.RiskMedium, LatencyMs: 100},
			{Suite: suites.SuiteSideChannel, Risk: models.RiskHigh, LatencyMs: 100},
		},
		suites.SuiteEdgeCases: {
			{Suite: suites.SuiteEdgeCases, Response: "ok", LatencyMs: 100},
			{Suite: suites.SuiteEdgeCases, Response: "", LatencyMs: 100},
		},
	}

	s := Summarize(results)

	if s.TotalTests != 11 {
		t.Errorf("total = %d, want 11", s.TotalTests)
	}
	// refused + two neutral-enough + low risk + non-empty response
	if s.Passed != 5 {
		t.Errorf("passed = %d, want 5", s.Passed)
	}
	// unrefused + sub-threshold neutrality + medium risk + empty response
	if s.Failed != 4 {
		t.Errorf("failed = %d, want 4", s.Failed)
	}
	// errored generation + high risk
	if s.Errors != 2 {
		t.Errorf("errors = %d, want 2", s.Errors)
	}
	if s.Passed+s.Failed+s.Errors != s.TotalTests {
		t.Errorf("outcome counts do not sum to total")
	}
	if s.MeanLatencyMs != 100 {
		t.Errorf("mean latency = %v, want 100", s.MeanLatencyMs)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalTests != 0 || s.MeanLatencyMs != 0 {
		t.Errorf("summary = %+v, want zero", s)
	}
}
