// Package engine orchestrates audit runs: it builds adapters, drives suite
// runners in sequence, aggregates run summaries and persists run state.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/llmscope/llmscope/pkg/models"
	"github.com/llmscope/llmscope/pkg/provider"
	"github.com/llmscope/llmscope/pkg/store"
	"github.com/llmscope/llmscope/pkg/suites"
)

// ErrUnsupportedFormat is returned by ExportAudit for any format other
// than json.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// ErrInvalidSuite marks an audit request naming an unknown suite.
var ErrInvalidSuite = errors.New("invalid suite")

// PromptLoader supplies ordered prompt lists per suite name.
type PromptLoader interface {
	LoadSuite(name string) ([]models.TestPrompt, error)
}

// Engine sequences suites against a model endpoint and owns every write to
// an audit record from creation to terminal state.
type Engine struct {
	store    store.Store
	registry *provider.Registry
	loader   PromptLoader
	opts     suites.Options
	log      *logrus.Entry
}

// New creates an Engine.
func New(st store.Store, registry *provider.Registry, loader PromptLoader, opts suites.Options) *Engine {
	return &Engine{
		store:    st,
		registry: registry,
		loader:   loader,
		opts:     opts,
		log:      logrus.WithField("component", "engine"),
	}
}

// Registry exposes the adapter registry for runtime provider registration.
func (e *Engine) Registry() *provider.Registry { return e.registry }

// ListModels returns every stored model configuration.
func (e *Engine) ListModels(ctx context.Context) ([]models.ModelConfig, error) {
	return e.store.ListModels(ctx)
}

// GetModel looks up one model configuration by id.
func (e *Engine) GetModel(ctx context.Context, id string) (*models.ModelConfig, error) {
	return e.store.GetModel(ctx, id)
}

// UpsertModel updates an existing record in place when name, provider and
// version match, and creates a new one otherwise.
func (e *Engine) UpsertModel(ctx context.Context, name string, prov models.Provider, version string, settings models.ProviderSettings) (*models.ModelConfig, error) {
	now := time.Now().UTC()

	existing, err := e.store.FindModel(ctx, name, prov, version)
	if err == nil {
		existing.Settings = settings
		existing.UpdatedAt = now
		if err := e.store.UpdateModel(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	m := &models.ModelConfig{
		ID:        uuid.NewString(),
		Name:      name,
		Provider:  prov,
		Version:   version,
		Settings:  settings,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := e.store.CreateModel(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// TestConnection builds the model's adapter and issues one health probe.
func (e *Engine) TestConnection(ctx context.Context, modelID string) (bool, error) {
	m, err := e.store.GetModel(ctx, modelID)
	if err != nil {
		return false, err
	}
	adapter, err := e.registry.Create(string(m.Provider), m.Settings)
	if err != nil {
		return false, err
	}
	return adapter.TestConnection(ctx), nil
}

// RunHandle tracks a background audit run. Done closes when the run
// reaches a terminal state; Err is valid after Done.
type RunHandle struct {
	ID   string
	done chan struct{}
	err  error
}

// Done returns a channel closed when the run reaches a terminal state.
func (h *RunHandle) Done() <-chan struct{} { return h.done }

// Err returns the run's terminal error, if any. Only valid after Done.
func (h *RunHandle) Err() error { return h.err }

// Wait blocks until the run finishes and returns its terminal error.
func (h *RunHandle) Wait() error {
	<-h.done
	return h.err
}

// StartAudit validates the request, creates the run record in running
// state and executes the suites on a background goroutine. The returned
// handle is usable immediately; callers that need the result await it.
func (e *Engine) StartAudit(ctx context.Context, modelID string, suiteNames []string) (*RunHandle, error) {
	if len(suiteNames) == 0 {
		return nil, fmt.Errorf("%w: none requested (valid suites: %v)", ErrInvalidSuite, suites.Valid())
	}
	for _, name := range suiteNames {
		if !suites.IsValid(name) {
			return nil, fmt.Errorf("%w: %q (valid suites: %v)", ErrInvalidSuite, name, suites.Valid())
		}
	}

	m, err := e.store.GetModel(ctx, modelID)
	if err != nil {
		return nil, err
	}
	adapter, err := e.registry.Create(string(m.Provider), m.Settings)
	if err != nil {
		return nil, err
	}
	if err := adapter.ValidateConfig(); err != nil {
		return nil, err
	}

	rec := &models.AuditRecord{
		ID:        uuid.NewString(),
		ModelID:   modelID,
		Suites:    suiteNames,
		Status:    models.StatusRunning,
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.CreateAudit(ctx, rec); err != nil {
		return nil, err
	}

	handle := &RunHandle{ID: rec.ID, done: make(chan struct{})}
	go func() {
		defer close(handle.done)
		// The request context ends when the caller returns; the run
		// must outlive it.
		_, err := e.RunAudit(context.Background(), modelID, suiteNames, adapter, rec.ID)
		handle.err = err
	}()
	return handle, nil
}

// RunAudit executes the requested suites sequentially against the adapter
// and persists exactly one terminal transition. When existingRunID is
// empty a fresh running record is created first; otherwise the record must
// already exist in running state.
func (e *Engine) RunAudit(ctx context.Context, modelID string, suiteNames []string, adapter provider.Adapter, existingRunID string) (rec *models.AuditRecord, err error) {
	if existingRunID != "" {
		rec, err = e.store.GetAudit(ctx, existingRunID)
		if err != nil {
			return nil, err
		}
		if rec.Status != models.StatusRunning {
			return nil, fmt.Errorf("run %s is %s, expected running", rec.ID, rec.Status)
		}
	} else {
		rec = &models.AuditRecord{
			ID:        uuid.NewString(),
			ModelID:   modelID,
			Suites:    suiteNames,
			Status:    models.StatusRunning,
			CreatedAt: time.Now().UTC(),
		}
		if err := e.store.CreateAudit(ctx, rec); err != nil {
			return nil, err
		}
	}

	log := e.log.WithFields(logrus.Fields{"run_id": rec.ID, "model_id": modelID})

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("audit run panicked: %v", r)
			e.failRun(rec, err)
		}
	}()

	if adapter == nil {
		err = errors.New("no adapter supplied for run")
		e.failRun(rec, err)
		return nil, err
	}

	results := make(map[string][]models.SuiteResult)
	suiteFailures := 0
	for _, name := range suiteNames {
		log.WithField("suite", name).Info("running suite")
		suiteResults, runErr := e.runSuite(ctx, adapter, name)
		if runErr != nil {
			// A whole-runner failure counts one error in the summary and
			// does not stop subsequent suites.
			log.WithField("suite", name).WithError(runErr).Error("suite failed")
			suiteFailures++
			continue
		}
		results[name] = suiteResults
	}

	summary := Summarize(results)
	summary.Errors += suiteFailures

	now := time.Now().UTC()
	rec.Status = models.StatusCompleted
	rec.Results = results
	rec.Summary = &summary
	rec.CompletedAt = &now
	if err := e.store.UpdateAudit(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist completed run: %w", err)
	}
	log.WithFields(logrus.Fields{
		"total":  summary.TotalTests,
		"passed": summary.Passed,
		"failed": summary.Failed,
		"errors": summary.Errors,
	}).Info("audit completed")
	return rec, nil
}

// failRun persists the failed terminal transition; the record keeps a
// human-readable error message.
func (e *Engine) failRun(rec *models.AuditRecord, cause error) {
	now := time.Now().UTC()
	rec.Status = models.StatusFailed
	rec.Error = cause.Error()
	rec.CompletedAt = &now
	if err := e.store.UpdateAudit(context.Background(), rec); err != nil {
		e.log.WithField("run_id", rec.ID).WithError(err).Error("persist failed run")
	}
}

func (e *Engine) runSuite(ctx context.Context, adapter provider.Adapter, name string) ([]models.SuiteResult, error) {
	switch name {
	case suites.SuiteSideChannel:
		scanner := suites.NewSideChannelScanner(adapter, e.opts)
		results, err := scanner.Run(ctx)
		if err != nil {
			return nil, &suites.SuiteError{Suite: name, Err: err}
		}
		return results, nil
	case suites.SuiteCensorship, suites.SuiteBias, suites.SuiteEdgeCases:
		testPrompts, err := e.loader.LoadSuite(name)
		if err != nil {
			return nil, &suites.SuiteError{Suite: name, Err: err}
		}
		var results []models.SuiteResult
		switch name {
		case suites.SuiteCensorship:
			results, err = suites.NewCensorshipTester(adapter, e.opts).Run(ctx, testPrompts)
		case suites.SuiteBias:
			results, err = suites.NewBiasTester(adapter, e.opts).Run(ctx, testPrompts)
		default:
			results, err = suites.NewEdgeCaseTester(adapter, e.opts).Run(ctx, testPrompts)
		}
		if err != nil {
			return nil, &suites.SuiteError{Suite: name, Err: err}
		}
		return results, nil
	default:
		return nil, &suites.SuiteError{Suite: name, Err: errors.New("unknown suite")}
	}
}

// GetAudit reconstructs the public view of a run, defaulting an absent
// summary to all-zero counts.
func (e *Engine) GetAudit(ctx context.Context, id string) (*models.AuditRecord, error) {
	rec, err := e.store.GetAudit(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.Summary == nil {
		rec.Summary = &models.Summary{}
	}
	return rec, nil
}

// ListAudits returns every run for a model, newest first.
func (e *Engine) ListAudits(ctx context.Context, modelID string) ([]models.AuditRecord, error) {
	return e.store.ListAuditsByModel(ctx, modelID)
}

// ExportAudit serializes a run. Only the json format is defined.
func (e *Engine) ExportAudit(ctx context.Context, id, format string) ([]byte, error) {
	if format != "json" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	rec, err := e.GetAudit(ctx, id)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(rec, "", "  ")
}
