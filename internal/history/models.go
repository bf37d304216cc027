package history

import "time"

// Status is the lifecycle state of a run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Counts tallies what each stage produced.
type Counts struct {
	Chunks       int
	Groups       int
	FailedGroups int
	RawItems     int
	FinalItems   int
}

// Run is one recorded estimation run.
type Run struct {
	ID           string
	Transcript   string
	Scan         string
	RunDir       string
	Status       Status
	Stage        string
	StartedAt    time.Time
	FinishedAt   *time.Time
	Counts       Counts
	GrandTotal   float64
	ErrorKind    string
	ErrorMessage string
}

// Duration reports how long a finished run took, or zero while it runs.
func (r Run) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Outcome is what a run reports when it finishes.
type Outcome struct {
	Status       Status
	Stage        string
	Counts       Counts
	GrandTotal   float64
	ErrorKind    string
	ErrorMessage string
}
