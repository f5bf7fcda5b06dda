package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.Equal(t, ":8080", cfg.Listen)
	require.Equal(t, "llmscope.db", cfg.DBPath)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 500*time.Millisecond, cfg.Pacing.PromptDelay)
	require.Equal(t, time.Second, cfg.Pacing.ProbeDelay)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llmscope.yaml")
	content := `listen: ":9090"
db_path: /var/lib/llmscope/audit.db
log_level: debug
pacing:
  prompt_delay: 250ms
  probe_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Listen)
	require.Equal(t, "/var/lib/llmscope/audit.db", cfg.DBPath)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 250*time.Millisecond, cfg.Pacing.PromptDelay)
	require.Equal(t, 2*time.Second, cfg.Pacing.ProbeDelay)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "llmscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, ":8080", cfg.Listen, "unset keys keep their defaults")
	require.Equal(t, "llmscope.db", cfg.DBPath)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("LLMSCOPE_TEST_DB", "/tmp/expanded.db")

	path := filepath.Join(t.TempDir(), "llmscope.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: ${LLMSCOPE_TEST_DB}\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/expanded.db", cfg.DBPath)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
