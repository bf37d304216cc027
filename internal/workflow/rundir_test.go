package workflow

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"renoquote/internal/services"
)

func TestNewRunDirNamesAndLocks(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.Local)

	dir, err := NewRunDir(base, now)
	if err != nil {
		t.Fatalf("NewRunDir: %v", err)
	}
	defer dir.Release()

	name := filepath.Base(dir.Path)
	if !regexp.MustCompile(`^run_20250314_092653_[0-9a-f]{8}$`).MatchString(name) {
		t.Fatalf("unexpected run dir name %q", name)
	}
	suffix := name[len(name)-8:]
	if !strings.HasPrefix(strings.ReplaceAll(dir.ID, "-", ""), suffix) {
		t.Fatalf("run id %q does not start with dir suffix %q", dir.ID, suffix)
	}

	if _, err := OpenRunDir(dir.Path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected locked run dir to be rejected, got %v", err)
	}
	if err := dir.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	reopened, err := OpenRunDir(dir.Path)
	if err != nil {
		t.Fatalf("OpenRunDir after release: %v", err)
	}
	defer reopened.Release()
	if reopened.ID != suffix {
		t.Fatalf("reopened id = %q, want %q", reopened.ID, suffix)
	}
}

func TestNewRunDirRequiresBase(t *testing.T) {
	if _, err := NewRunDir(" ", time.Now()); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestOpenRunDirMissing(t *testing.T) {
	_, err := OpenRunDir(filepath.Join(t.TempDir(), "run_20250101_000000_deadbeef"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLatestRunDir(t *testing.T) {
	base := t.TempDir()
	older := filepath.Join(base, "run_20250101_080000_aaaaaaaa")
	newer := filepath.Join(base, "run_20250102_080000")
	other := filepath.Join(base, "scratch")
	for _, dir := range []string{older, newer, other} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(other, future, future); err != nil {
		t.Fatal(err)
	}

	got, err := LatestRunDir(base)
	if err != nil {
		t.Fatalf("LatestRunDir: %v", err)
	}
	if got != newer {
		t.Fatalf("LatestRunDir = %q, want %q", got, newer)
	}
}

func TestLatestRunDirEmpty(t *testing.T) {
	if _, err := LatestRunDir(t.TempDir()); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
