package workflow

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"renoquote/internal/services"
)

const (
	runDirPrefix  = "run_"
	runTimeLayout = "20060102_150405"
	lockFileName  = ".renoquote.lock"

	// TranscriptChunksDir holds chunk_N.txt files inside a run directory.
	TranscriptChunksDir = "transcript_chunks"
	// ScanDir holds the copied measurement scan inside a run directory.
	ScanDir = "polycam_chunks"
	// ScanFileName is the name the scan is copied to.
	ScanFileName = "polycam.pdf"
	// CleanCSVName is the sectioned CSV written by the render stage.
	CleanCSVName = "comprehensive_clean_estimate.csv"
	// WorkbookName is the styled workbook written by the render stage.
	WorkbookName = "final_renovation_estimate.xlsx"
)

var runDirPattern = regexp.MustCompile(`^run_\d{8}_\d{6}(?:_([0-9a-f]{8}))?$`)

// RunDir is a run directory held under an exclusive lock.
type RunDir struct {
	Path string
	ID   string
	lock *flock.Flock
}

// NewRunDir creates run_<YYYYmmdd_HHMMSS>_<8 hex> under base and locks it.
// The run ID is a random UUID whose first eight hex digits form the suffix.
func NewRunDir(base string, now time.Time) (*RunDir, error) {
	if strings.TrimSpace(base) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "create run dir", "Output directory is not configured", nil)
	}
	id := uuid.NewString()
	suffix := strings.ReplaceAll(id, "-", "")[:8]
	path := filepath.Join(base, fmt.Sprintf("%s%s_%s", runDirPrefix, now.Format(runTimeLayout), suffix))
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "create run dir",
			fmt.Sprintf("Unable to create run directory under %s", base), err)
	}
	dir := &RunDir{Path: path, ID: id}
	if err := dir.acquire(); err != nil {
		return nil, err
	}
	return dir, nil
}

// OpenRunDir locks an existing run directory. The ID is the directory's hex
// suffix, or its base name for directories without one.
func OpenRunDir(path string) (*RunDir, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "workflow", "open run dir",
			fmt.Sprintf("Run directory %s not found", path), err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrValidation, "workflow", "open run dir",
			fmt.Sprintf("%s is not a directory", path), nil)
	}
	base := filepath.Base(path)
	id := base
	if m := runDirPattern.FindStringSubmatch(base); m != nil && m[1] != "" {
		id = m[1]
	}
	dir := &RunDir{Path: path, ID: id}
	if err := dir.acquire(); err != nil {
		return nil, err
	}
	return dir, nil
}

func (d *RunDir) acquire() error {
	lock := flock.New(filepath.Join(d.Path, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return services.Wrap(services.ErrTransient, "workflow", "lock run dir",
			fmt.Sprintf("Unable to lock %s", d.Path), err)
	}
	if !locked {
		return services.Wrap(services.ErrValidation, "workflow", "lock run dir",
			fmt.Sprintf("Run directory %s is in use by another process", d.Path), nil)
	}
	d.lock = lock
	return nil
}

// Release unlocks the directory and removes the lock file.
func (d *RunDir) Release() error {
	if d == nil || d.lock == nil {
		return nil
	}
	err := d.lock.Unlock()
	_ = os.Remove(d.lock.Path())
	d.lock = nil
	return err
}

// LatestRunDir returns the most recently modified run_* directory in base.
func LatestRunDir(base string) (string, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return "", services.Wrap(services.ErrNotFound, "workflow", "find run dir",
			fmt.Sprintf("Output directory %s is unreadable", base), err)
	}
	var (
		latest     string
		latestTime time.Time
	)
	for _, entry := range entries {
		if !entry.IsDir() || !runDirPattern.MatchString(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestTime) {
			latest = filepath.Join(base, entry.Name())
			latestTime = info.ModTime()
		}
	}
	if latest == "" {
		return "", services.Wrap(services.ErrNotFound, "workflow", "find run dir",
			fmt.Sprintf("No run directories found in %s", base), nil)
	}
	return latest, nil
}
