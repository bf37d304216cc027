package stage

import (
	"renoquote/internal/chunking"
	"renoquote/internal/cleanup"
	"renoquote/internal/estimate"
	"renoquote/internal/history"
	"renoquote/internal/render"
)

// Job carries one estimation run through the pipeline stages. Each stage
// reads what earlier stages produced and fills in its own fields.
type Job struct {
	ID            string
	Dir           string
	Transcript    string
	Scan          string
	TranscriptDir string

	// Stage names the stage currently running, or the last one attempted.
	Stage string

	Chunks       []string
	Groups       []chunking.Group
	FailedGroups int

	AggregatePath string
	RawItems      []estimate.Item

	Items   []estimate.Item
	Cleanup cleanup.Report

	CSVPath      string
	WorkbookPath string
	Totals       render.Summary
}

// Counts tallies the job's progress for run history.
func (j *Job) Counts() history.Counts {
	return history.Counts{
		Chunks:       len(j.Chunks),
		Groups:       len(j.Groups),
		FailedGroups: j.FailedGroups,
		RawItems:     len(j.RawItems),
		FinalItems:   len(j.Items),
	}
}
