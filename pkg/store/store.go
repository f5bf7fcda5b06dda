package store

import (
	"context"
	"errors"

	"github.com/llmscope/llmscope/pkg/models"
)

// ErrNotFound is returned when no record exists for the given id or filter.
var ErrNotFound = errors.New("record not found")

// Store persists model, audit and comparison records. Every mutation is a
// whole-record create or update keyed by id.
type Store interface {
	CreateModel(ctx context.Context, m *models.ModelConfig) error
	GetModel(ctx context.Context, id string) (*models.ModelConfig, error)
	ListModels(ctx context.Context) ([]models.ModelConfig, error)
	// FindModel locates a model by its logical identity.
	FindModel(ctx context.Context, name string, provider models.Provider, version string) (*models.ModelConfig, error)
	UpdateModel(ctx context.Context, m *models.ModelConfig) error

	CreateAudit(ctx context.Context, rec *models.AuditRecord) error
	GetAudit(ctx context.Context, id string) (*models.AuditRecord, error)
	UpdateAudit(ctx context.Context, rec *models.AuditRecord) error
	ListAuditsByModel(ctx context.Context, modelID string) ([]models.AuditRecord, error)

	CreateComparison(ctx context.Context, rec *models.ComparisonRecord) error
	GetComparison(ctx context.Context, id string) (*models.ComparisonRecord, error)
	ListComparisonsByModel(ctx context.Context, modelID string) ([]models.ComparisonRecord, error)

	Close() error
}
