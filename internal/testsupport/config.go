package testsupport

import (
	"path/filepath"
	"testing"

	"renoquote/internal/config"
)

// NewConfig produces a config whose output, log and history paths live in a
// per-test temp directory. Estimation runs two groups at a time so tests
// exercise the concurrent path.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "runs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfg.Estimation.Concurrency = 2
	return &cfg
}
