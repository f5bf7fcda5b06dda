package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/llmscope/llmscope/pkg/models"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testModel(id string) *models.ModelConfig {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.ModelConfig{
		ID:       id,
		Name:     "gpt-test-" + id,
		Provider: models.ProviderOpenAI,
		Version:  "2026-01",
		Settings: models.ProviderSettings{
			APIKey:  "sk-test",
			BaseURL: "https://example.test",
			Model:   "gpt-4o-mini",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestModelRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testModel("m1")
	if err := s.CreateModel(ctx, m); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetModel(ctx, "m1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != m.Name || got.Provider != m.Provider || got.Settings.Model != "gpt-4o-mini" {
		t.Errorf("got %+v", got)
	}
}

func TestGetModelNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetModel(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFindModelByIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testModel("m1")
	if err := s.CreateModel(ctx, m); err != nil {
		t.Fatal(err)
	}

	got, err := s.FindModel(ctx, m.Name, m.Provider, m.Version)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "m1" {
		t.Errorf("id = %s", got.ID)
	}

	if _, err := s.FindModel(ctx, m.Name, m.Provider, "other-version"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateModel(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := testModel("m1")
	if err := s.CreateModel(ctx, m); err != nil {
		t.Fatal(err)
	}

	m.Settings.Model = "gpt-5"
	m.UpdatedAt = m.UpdatedAt.Add(time.Minute)
	if err := s.UpdateModel(ctx, m); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetModel(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Settings.Model != "gpt-5" {
		t.Errorf("settings not updated: %+v", got.Settings)
	}

	missing := testModel("ghost")
	if err := s.UpdateModel(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListModels(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"m1", "m2"} {
		m := testModel(id)
		m.Version = id
		if err := s.CreateModel(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	list, err := s.ListModels(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("got %d models, want 2", len(list))
	}
}

func TestAuditRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &models.AuditRecord{
		ID:        "run-1",
		ModelID:   "m1",
		Suites:    []string{"censorship", "bias"},
		Status:    models.StatusRunning,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.CreateAudit(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetAudit(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StatusRunning {
		t.Errorf("status = %s", got.Status)
	}
	if got.Summary != nil {
		t.Errorf("summary should be nil while running, got %+v", got.Summary)
	}
	if len(got.Suites) != 2 {
		t.Errorf("suites = %v", got.Suites)
	}

	// terminal transition
	now := time.Now().UTC().Truncate(time.Second)
	score := 0.9
	rec.Status = models.StatusCompleted
	rec.Results = map[string][]models.SuiteResult{
		"bias": {{Suite: "bias", PromptID: "bias-001", Neutrality: &score, LatencyMs: 120}},
	}
	rec.Summary = &models.Summary{TotalTests: 1, Passed: 1, MeanLatencyMs: 120}
	rec.CompletedAt = &now
	if err := s.UpdateAudit(ctx, rec); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = s.GetAudit(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}
	if got.Summary == nil || got.Summary.Passed != 1 {
		t.Errorf("summary = %+v", got.Summary)
	}
	if got.CompletedAt == nil {
		t.Error("completed_at not persisted")
	}
	res := got.Results["bias"]
	if len(res) != 1 || res[0].Neutrality == nil || *res[0].Neutrality != 0.9 {
		t.Errorf("results = %+v", got.Results)
	}
}

func TestListAuditsByModelNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	for i, id := range []string{"run-1", "run-2", "run-3"} {
		rec := &models.AuditRecord{
			ID:        id,
			ModelID:   "m1",
			Suites:    []string{"censorship"},
			Status:    models.StatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.CreateAudit(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}
	other := &models.AuditRecord{
		ID: "run-x", ModelID: "m2", Suites: []string{"bias"},
		Status: models.StatusRunning, CreatedAt: base,
	}
	if err := s.CreateAudit(ctx, other); err != nil {
		t.Fatal(err)
	}

	runs, err := s.ListAuditsByModel(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3", len(runs))
	}
	if runs[0].ID != "run-3" || runs[2].ID != "run-1" {
		t.Errorf("order = %s, %s, %s", runs[0].ID, runs[1].ID, runs[2].ID)
	}
}

func TestComparisonRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &models.ComparisonRecord{
		ID:         "cmp-1",
		ModelAID:   "m1",
		ModelBID:   "m2",
		ModelAName: "gpt-a",
		ModelBName: "gpt-b",
		SuiteLabel: "bias,censorship",
		Differences: []models.Difference{
			{Category: "summary", Metric: "pass_rate", ValueA: 0.9, ValueB: 0.5, Delta: 0.4, Significance: models.SignificanceHigh},
		},
		Summary:   models.DiffSummary{TotalDifferences: 1, Significant: 1, ModelABetter: 1},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := s.CreateComparison(ctx, rec); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetComparison(ctx, "cmp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ModelAName != "gpt-a" || got.SuiteLabel != "bias,censorship" {
		t.Errorf("got %+v", got)
	}
	if len(got.Differences) != 1 || got.Differences[0].Significance != models.SignificanceHigh {
		t.Errorf("differences = %+v", got.Differences)
	}

	// listed under both sides
	for _, modelID := range []string{"m1", "m2"} {
		list, err := s.ListComparisonsByModel(ctx, modelID)
		if err != nil {
			t.Fatal(err)
		}
		if len(list) != 1 {
			t.Errorf("comparisons for %s = %d, want 1", modelID, len(list))
		}
	}

	if _, err := s.GetComparison(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
