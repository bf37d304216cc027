package stageexec

import (
	"context"
	"errors"
	"testing"

	"renoquote/internal/services"
	"renoquote/internal/stage"
)

type recordingHandler struct {
	prepared   bool
	executed   bool
	prepareErr error
	executeErr error
	seenStage  string
}

func (h *recordingHandler) Prepare(ctx context.Context, job *stage.Job) error {
	h.prepared = true
	if name, ok := services.StageFromContext(ctx); ok {
		h.seenStage = name
	}
	return h.prepareErr
}

func (h *recordingHandler) Execute(_ context.Context, job *stage.Job) error {
	h.executed = true
	job.Chunks = append(job.Chunks, "chunk")
	return h.executeErr
}

func TestRunExecutesStage(t *testing.T) {
	handler := &recordingHandler{}
	job := &stage.Job{Dir: t.TempDir()}
	if err := Run(context.Background(), Options{Handler: handler, StageName: "ingest", Job: job}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !handler.prepared || !handler.executed {
		t.Fatalf("expected prepare and execute, got %+v", handler)
	}
	if handler.seenStage != "ingest" {
		t.Fatalf("stage not on context: %q", handler.seenStage)
	}
	if job.Stage != "ingest" || len(job.Chunks) != 1 {
		t.Fatalf("unexpected job state: %+v", job)
	}
}

func TestRunStopsOnPrepareFailure(t *testing.T) {
	wantErr := services.Wrap(services.ErrValidation, "ingest", "check input", "transcript missing", nil)
	handler := &recordingHandler{prepareErr: wantErr}
	job := &stage.Job{}
	err := Run(context.Background(), Options{Handler: handler, StageName: "ingest", Job: job})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if handler.executed {
		t.Fatal("execute should not run after prepare fails")
	}
	if job.Stage != "ingest" {
		t.Fatalf("failed stage not recorded: %q", job.Stage)
	}
}

func TestRunReturnsExecuteFailure(t *testing.T) {
	wantErr := errors.New("boom")
	handler := &recordingHandler{executeErr: wantErr}
	err := Run(context.Background(), Options{Handler: handler, StageName: "render", Job: &stage.Job{}})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected execute error, got %v", err)
	}
}

func TestRunRequiresHandlerAndJob(t *testing.T) {
	if err := Run(context.Background(), Options{StageName: "x", Job: &stage.Job{}}); err == nil {
		t.Fatal("expected error without handler")
	}
	if err := Run(context.Background(), Options{StageName: "x", Handler: &recordingHandler{}}); err == nil {
		t.Fatal("expected error without job")
	}
}

func TestStageLabel(t *testing.T) {
	tests := map[string]string{
		"":                "",
		"ingest":          "Ingest",
		"estimate_groups": "Estimate Groups",
		"RENDER":          "Render",
	}
	for in, want := range tests {
		if got := StageLabel(in); got != want {
			t.Errorf("StageLabel(%q) = %q, want %q", in, got, want)
		}
	}
}
