package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/llmscope/llmscope/pkg/models"
)

// SQLite implements Store on a single SQLite database. Nested structures
// (settings, results, differences) are stored as JSON columns.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_models (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	provider   TEXT NOT NULL,
	version    TEXT NOT NULL,
	settings   TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (name, provider, version)
);
CREATE TABLE IF NOT EXISTS audit_runs (
	id           TEXT PRIMARY KEY,
	model_id     TEXT NOT NULL,
	suites       TEXT NOT NULL,
	status       TEXT NOT NULL,
	results      TEXT,
	summary      TEXT,
	error        TEXT,
	created_at   DATETIME NOT NULL,
	completed_at DATETIME
);
CREATE INDEX IF NOT EXISTS idx_runs_model ON audit_runs(model_id);
CREATE TABLE IF NOT EXISTS comparisons (
	id           TEXT PRIMARY KEY,
	model_a      TEXT NOT NULL,
	model_b      TEXT NOT NULL,
	model_a_name TEXT NOT NULL,
	model_b_name TEXT NOT NULL,
	suite_label  TEXT NOT NULL,
	differences  TEXT NOT NULL,
	summary      TEXT NOT NULL,
	created_at   DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_comparisons_a ON comparisons(model_a);
CREATE INDEX IF NOT EXISTS idx_comparisons_b ON comparisons(model_b);
`

// NewSQLite opens (and if necessary creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open store db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate store db: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

func (s *SQLite) CreateModel(ctx context.Context, m *models.ModelConfig) error {
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_models (id, name, provider, version, settings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, string(m.Provider), m.Version, string(settings), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create model: %w", err)
	}
	return nil
}

func (s *SQLite) GetModel(ctx context.Context, id string) (*models.ModelConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, provider, version, settings, created_at, updated_at
		 FROM audit_models WHERE id = ?`, id)
	return scanModel(row)
}

func (s *SQLite) FindModel(ctx context.Context, name string, provider models.Provider, version string) (*models.ModelConfig, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, provider, version, settings, created_at, updated_at
		 FROM audit_models WHERE name = ? AND provider = ? AND version = ?`,
		name, string(provider), version)
	return scanModel(row)
}

func (s *SQLite) ListModels(ctx context.Context) ([]models.ModelConfig, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, provider, version, settings, created_at, updated_at
		 FROM audit_models ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	defer rows.Close()

	var out []models.ModelConfig
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (s *SQLite) UpdateModel(ctx context.Context, m *models.ModelConfig) error {
	settings, err := json.Marshal(m.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE audit_models SET name = ?, provider = ?, version = ?, settings = ?, updated_at = ?
		 WHERE id = ?`,
		m.Name, string(m.Provider), m.Version, string(settings), m.UpdatedAt, m.ID)
	if err != nil {
		return fmt.Errorf("update model: %w", err)
	}
	return requireRow(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanModel(row rowScanner) (*models.ModelConfig, error) {
	var m models.ModelConfig
	var provider, settings string
	err := row.Scan(&m.ID, &m.Name, &provider, &m.Version, &settings, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan model: %w", err)
	}
	m.Provider = models.Provider(provider)
	if err := json.Unmarshal([]byte(settings), &m.Settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &m, nil
}

func (s *SQLite) CreateAudit(ctx context.Context, rec *models.AuditRecord) error {
	suites, results, summary, err := encodeAudit(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO audit_runs (id, model_id, suites, status, results, summary, error, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ModelID, suites, string(rec.Status), results, summary,
		rec.Error, rec.CreatedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("create audit: %w", err)
	}
	return nil
}

func (s *SQLite) UpdateAudit(ctx context.Context, rec *models.AuditRecord) error {
	suites, results, summary, err := encodeAudit(rec)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE audit_runs SET model_id = ?, suites = ?, status = ?, results = ?, summary = ?, error = ?, completed_at = ?
		 WHERE id = ?`,
		rec.ModelID, suites, string(rec.Status), results, summary,
		rec.Error, rec.CompletedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("update audit: %w", err)
	}
	return requireRow(res)
}

func (s *SQLite) GetAudit(ctx context.Context, id string) (*models.AuditRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, model_id, suites, status, results, summary, error, created_at, completed_at
		 FROM audit_runs WHERE id = ?`, id)
	return scanAudit(row)
}

func (s *SQLite) ListAuditsByModel(ctx context.Context, modelID string) ([]models.AuditRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model_id, suites, status, results, summary, error, created_at, completed_at
		 FROM audit_runs WHERE model_id = ? ORDER BY created_at DESC`, modelID)
	if err != nil {
		return nil, fmt.Errorf("list audits: %w", err)
	}
	defer rows.Close()

	var out []models.AuditRecord
	for rows.Next() {
		rec, err := scanAudit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func encodeAudit(rec *models.AuditRecord) (suites, results, summary string, err error) {
	b, err := json.Marshal(rec.Suites)
	if err != nil {
		return "", "", "", fmt.Errorf("encode suites: %w", err)
	}
	suites = string(b)
	if rec.Results != nil {
		b, err = json.Marshal(rec.Results)
		if err != nil {
			return "", "", "", fmt.Errorf("encode results: %w", err)
		}
		results = string(b)
	}
	if rec.Summary != nil {
		b, err = json.Marshal(rec.Summary)
		if err != nil {
			return "", "", "", fmt.Errorf("encode summary: %w", err)
		}
		summary = string(b)
	}
	return suites, results, summary, nil
}

func scanAudit(row rowScanner) (*models.AuditRecord, error) {
	var rec models.AuditRecord
	var status, suites string
	var results, summary, errMsg sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&rec.ID, &rec.ModelID, &suites, &status, &results, &summary,
		&errMsg, &rec.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan audit: %w", err)
	}
	rec.Status = models.RunStatus(status)
	rec.Error = errMsg.String
	if err := json.Unmarshal([]byte(suites), &rec.Suites); err != nil {
		return nil, fmt.Errorf("decode suites: %w", err)
	}
	if results.Valid && results.String != "" {
		if err := json.Unmarshal([]byte(results.String), &rec.Results); err != nil {
			return nil, fmt.Errorf("decode results: %w", err)
		}
	}
	if summary.Valid && summary.String != "" {
		rec.Summary = &models.Summary{}
		if err := json.Unmarshal([]byte(summary.String), rec.Summary); err != nil {
			return nil, fmt.Errorf("decode summary: %w", err)
		}
	}
	if completedAt.Valid {
		t := completedAt.Time
		rec.CompletedAt = &t
	}
	return &rec, nil
}

func (s *SQLite) CreateComparison(ctx context.Context, rec *models.ComparisonRecord) error {
	diffs, err := json.Marshal(rec.Differences)
	if err != nil {
		return fmt.Errorf("encode differences: %w", err)
	}
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return fmt.Errorf("encode diff summary: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, model_a, model_b, model_a_name, model_b_name, suite_label, differences, summary, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.ModelAID, rec.ModelBID, rec.ModelAName, rec.ModelBName,
		rec.SuiteLabel, string(diffs), string(summary), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comparison: %w", err)
	}
	return nil
}

func (s *SQLite) GetComparison(ctx context.Context, id string) (*models.ComparisonRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, model_a, model_b, model_a_name, model_b_name, suite_label, differences, summary, created_at
		 FROM comparisons WHERE id = ?`, id)
	return scanComparison(row)
}

func (s *SQLite) ListComparisonsByModel(ctx context.Context, modelID string) ([]models.ComparisonRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, model_a, model_b, model_a_name, model_b_name, suite_label, differences, summary, created_at
		 FROM comparisons WHERE model_a = ? OR model_b = ? ORDER BY created_at DESC`,
		modelID, modelID)
	if err != nil {
		return nil, fmt.Errorf("list comparisons: %w", err)
	}
	defer rows.Close()

	var out []models.ComparisonRecord
	for rows.Next() {
		rec, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanComparison(row rowScanner) (*models.ComparisonRecord, error) {
	var rec models.ComparisonRecord
	var diffs, summary string
	err := row.Scan(&rec.ID, &rec.ModelAID, &rec.ModelBID, &rec.ModelAName,
		&rec.ModelBName, &rec.SuiteLabel, &diffs, &summary, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan comparison: %w", err)
	}
	if err := json.Unmarshal([]byte(diffs), &rec.Differences); err != nil {
		return nil, fmt.Errorf("decode differences: %w", err)
	}
	if err := json.Unmarshal([]byte(summary), &rec.Summary); err != nil {
		return nil, fmt.Errorf("decode diff summary: %w", err)
	}
	return &rec, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*SQLite)(nil)
