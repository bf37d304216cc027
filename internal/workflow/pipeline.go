package workflow

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"renoquote/internal/aggregate"
	"renoquote/internal/cleanup"
	"renoquote/internal/config"
	"renoquote/internal/history"
	"renoquote/internal/logging"
	"renoquote/internal/notifications"
	"renoquote/internal/render"
	"renoquote/internal/services"
	"renoquote/internal/services/llm"
	"renoquote/internal/stage"
	"renoquote/internal/stageexec"
	"renoquote/internal/tokens"
)

// StageSet holds the handlers a Pipeline runs, in execution order.
type StageSet struct {
	Ingest    stage.Handler
	Estimate  stage.Handler
	Aggregate stage.Handler
	Cleanup   stage.Handler
	Render    stage.Handler
}

type pipelineStage struct {
	name    string
	handler stage.Handler
}

// Dependencies are the collaborators a Pipeline uses. Nil fields fall back
// to a noop logger, the configured notifier and the configured tokenizer.
// A nil History disables run recording; a nil Client leaves only the
// offline stages usable.
type Dependencies struct {
	Logger   *slog.Logger
	Notifier notifications.Service
	History  *history.Store
	Client   llm.Completer
	Counter  tokens.Counter
	Clock    func() time.Time
}

// Pipeline runs estimation jobs.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service
	history  *history.Store
	clock    func() time.Time
	stages   StageSet
}

// New builds a Pipeline with the standard stage handlers.
func New(cfg *config.Config, deps Dependencies) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = logging.NewNop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notifications.NewService(cfg)
	}
	if deps.Counter == nil {
		deps.Counter, _ = tokens.NewCounter(cfg.Chunking.TokenizerModel)
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	p := &Pipeline{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(deps.Logger, "workflow"),
		notifier: deps.Notifier,
		history:  deps.History,
		clock:    deps.Clock,
	}
	p.ConfigureStages(StageSet{
		Ingest:    newIngestStage(cfg, deps.Counter),
		Estimate:  newEstimateStage(cfg, deps.Client, deps.Counter),
		Aggregate: newAggregateStage(),
		Cleanup:   newCleanupStage(cfg, deps.Client),
		Render:    newRenderStage(cfg),
	})
	return p
}

// ConfigureStages replaces the stage handlers.
func (p *Pipeline) ConfigureStages(set StageSet) {
	p.stages = set
}

func (p *Pipeline) ordered(names ...string) []pipelineStage {
	all := map[string]stage.Handler{
		"ingest":    p.stages.Ingest,
		"estimate":  p.stages.Estimate,
		"aggregate": p.stages.Aggregate,
		"cleanup":   p.stages.Cleanup,
		"render":    p.stages.Render,
	}
	out := make([]pipelineStage, 0, len(names))
	for _, name := range names {
		out = append(out, pipelineStage{name: name, handler: all[name]})
	}
	return out
}

// Request names the inputs of one estimation run. TranscriptDir points at
// existing chunk_N.txt files and skips ingest; Transcript is then only used
// as a label.
type Request struct {
	Transcript    string
	Scan          string
	TranscriptDir string
}

// Result summarizes a finished run.
type Result struct {
	RunID        string
	RunDir       string
	Stage        string
	Counts       history.Counts
	Totals       render.Summary
	Cleanup      cleanup.Report
	CSVPath      string
	WorkbookPath string
}

func resultFrom(job *stage.Job) Result {
	return Result{
		RunID:        job.ID,
		RunDir:       job.Dir,
		Stage:        job.Stage,
		Counts:       job.Counts(),
		Totals:       job.Totals,
		Cleanup:      job.Cleanup,
		CSVPath:      job.CSVPath,
		WorkbookPath: job.WorkbookPath,
	}
}

// Run executes every stage for req in a new run directory.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Transcript) == "" && strings.TrimSpace(req.TranscriptDir) == "" {
		return Result{}, services.Wrap(services.ErrValidation, "workflow", "run",
			"A transcript file or a transcript chunk directory is required", nil)
	}
	dir, err := NewRunDir(p.cfg.Paths.OutputDir, p.clock())
	if err != nil {
		return Result{}, err
	}
	defer p.release(dir)

	job := &stage.Job{
		ID:            dir.ID,
		Dir:           dir.Path,
		Transcript:    strings.TrimSpace(req.Transcript),
		Scan:          strings.TrimSpace(req.Scan),
		TranscriptDir: strings.TrimSpace(req.TranscriptDir),
	}
	ctx = services.WithRunID(ctx, job.ID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("run_dir", job.Dir),
		logging.String("transcript", job.Transcript),
		logging.String("scan", job.Scan),
	)
	p.recordStart(ctx, logger, job)
	p.notify(ctx, logger, notifications.EventRunStarted, notifications.Payload{
		"transcript": inputLabel(job),
		"runID":      job.ID,
	})

	names := []string{"ingest", "estimate", "aggregate", "cleanup", "render"}
	if job.TranscriptDir != "" {
		names = names[1:]
		logger.Info("using pre-chunked transcript; ingest skipped", logging.String("transcript_dir", job.TranscriptDir))
	}
	if err := p.execute(ctx, job, p.ordered(names...)); err != nil {
		p.recordFailure(ctx, logger, job, err)
		return resultFrom(job), err
	}
	p.recordSuccess(ctx, logger, job)
	return resultFrom(job), nil
}

// Finish reruns aggregate, cleanup and render on an existing run
// directory. Aggregation is skipped when the directory has no group
// outputs but already holds an aggregated CSV. A run recorded in history
// under the same directory is updated with the new items.
func (p *Pipeline) Finish(ctx context.Context, runDir string) (Result, error) {
	dir, err := OpenRunDir(runDir)
	if err != nil {
		return Result{}, err
	}
	defer p.release(dir)

	job := &stage.Job{ID: dir.ID, Dir: dir.Path}
	ctx = services.WithRunID(ctx, job.ID)
	logger := logging.WithContext(ctx, p.logger)

	names := []string{"aggregate", "cleanup", "render"}
	if outputs, err := aggregate.OutputFiles(dir.Path); err == nil && len(outputs) == 0 {
		names = names[1:]
		logger.Info("no group outputs; using existing aggregated estimate",
			logging.String("path", filepath.Join(dir.Path, aggregate.OutputFileName)),
		)
	}
	if err := p.execute(ctx, job, p.ordered(names...)); err != nil {
		return resultFrom(job), err
	}
	logger.Info("run finished",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("items", len(job.Items)),
		logging.String("grand_total", render.FormatMoney(job.Totals.GrandTotal)),
	)
	p.updateRecorded(ctx, logger, job)
	return resultFrom(job), nil
}

// Health reports the readiness of every configured stage.
func (p *Pipeline) Health(ctx context.Context) []stage.Health {
	stages := p.ordered("ingest", "estimate", "aggregate", "cleanup", "render")
	out := make([]stage.Health, 0, len(stages))
	for _, st := range stages {
		if st.handler == nil {
			out = append(out, stage.Unhealthy(st.name, "handler not configured"))
			continue
		}
		out = append(out, st.handler.HealthCheck(ctx))
	}
	return out
}

func (p *Pipeline) execute(ctx context.Context, job *stage.Job, stages []pipelineStage) error {
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := stageexec.Run(ctx, stageexec.Options{
			Logger:    p.logger,
			Handler:   st.handler,
			StageName: st.name,
			Job:       job,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) release(dir *RunDir) {
	if err := dir.Release(); err != nil {
		p.logger.Debug("run dir unlock failed", logging.String("run_dir", dir.Path), logging.Error(err))
	}
}

func inputLabel(job *stage.Job) string {
	if job.Transcript != "" {
		return filepath.Base(job.Transcript)
	}
	return filepath.Base(job.TranscriptDir)
}

func (p *Pipeline) notify(ctx context.Context, logger *slog.Logger, event notifications.Event, payload notifications.Payload) {
	if p.notifier == nil {
		return
	}
	if err := p.notifier.Publish(ctx, event, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("run cancelled, notification not sent", logging.String("event", string(event)))
			return
		}
		logger.Debug("notification failed", logging.String("event", string(event)), logging.Error(err))
	}
}

func (p *Pipeline) recordStart(ctx context.Context, logger *slog.Logger, job *stage.Job) {
	if p.history == nil {
		return
	}
	err := p.history.StartRun(ctx, history.Run{
		ID:         job.ID,
		Transcript: job.Transcript,
		Scan:       job.Scan,
		RunDir:     job.Dir,
		StartedAt:  p.clock(),
	})
	if err != nil {
		logging.WarnWithContext(logger, "run history unavailable; run not recorded", "history_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
			logging.String(logging.FieldImpact, "this run will not appear in 'renoquote runs'"),
		)
	}
}

func (p *Pipeline) recordFailure(ctx context.Context, logger *slog.Logger, job *stage.Job, runErr error) {
	kind := services.Details(runErr)
	logging.ErrorWithContext(logger, "run failed", "run_failed",
		logging.String("failed_stage", job.Stage),
		logging.String("error_kind", kind),
		logging.Error(runErr),
		logging.String(logging.FieldErrorHint, "see the stage failure above; rerun after fixing inputs"),
	)
	// History and notifications still go out when the run was cancelled.
	ctx = context.WithoutCancel(ctx)
	if p.history != nil {
		err := p.history.FinishRun(ctx, job.ID, history.Outcome{
			Status:       history.StatusFailed,
			Stage:        job.Stage,
			Counts:       job.Counts(),
			ErrorKind:    kind,
			ErrorMessage: runErr.Error(),
		})
		if err != nil {
			logger.Warn("failed to record run failure",
				logging.Error(err),
				logging.String(logging.FieldEventType, "history_write_failed"),
				logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
				logging.String(logging.FieldImpact, "run history shows this run as running"),
			)
		}
	}
	p.notify(ctx, logger, notifications.EventRunFailed, notifications.Payload{
		"stage": stageexec.StageLabel(job.Stage),
		"error": runErr.Error(),
		"runID": job.ID,
	})
}

func (p *Pipeline) recordSuccess(ctx context.Context, logger *slog.Logger, job *stage.Job) {
	counts := job.Counts()
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("chunks", counts.Chunks),
		logging.Int("groups", counts.Groups),
		logging.Int("failed_groups", counts.FailedGroups),
		logging.Int("raw_items", counts.RawItems),
		logging.Int("final_items", counts.FinalItems),
		logging.String("grand_total", render.FormatMoney(job.Totals.GrandTotal)),
		logging.String("workbook", job.WorkbookPath),
	)
	if p.history != nil {
		if err := p.saveOutcome(ctx, job.ID, job, counts); err != nil {
			logging.WarnWithContext(logger, "failed to record run result", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check paths.history_db permissions"),
				logging.String(logging.FieldImpact, "run history is missing this run's items"),
			)
		}
	}
	p.notify(ctx, logger, notifications.EventRunCompleted, notifications.Payload{
		"runID":        job.ID,
		"items":        counts.FinalItems,
		"grandTotal":   render.FormatMoney(job.Totals.GrandTotal),
		"failedGroups": counts.FailedGroups,
		"workbook":     job.WorkbookPath,
	})
}

func (p *Pipeline) saveOutcome(ctx context.Context, id string, job *stage.Job, counts history.Counts) error {
	if err := p.history.SaveItems(ctx, id, job.Items); err != nil {
		return err
	}
	return p.history.FinishRun(ctx, id, history.Outcome{
		Status:     history.StatusCompleted,
		Stage:      job.Stage,
		Counts:     counts,
		GrandTotal: job.Totals.GrandTotal,
	})
}

// updateRecorded refreshes a history record whose run directory matches
// the finished job. The directory suffix is a prefix of the run ID.
func (p *Pipeline) updateRecorded(ctx context.Context, logger *slog.Logger, job *stage.Job) {
	if p.history == nil {
		return
	}
	run, err := p.history.Get(ctx, job.ID)
	if err != nil || run == nil || filepath.Clean(run.RunDir) != filepath.Clean(job.Dir) {
		return
	}
	counts := run.Counts
	counts.RawItems = len(job.RawItems)
	counts.FinalItems = len(job.Items)
	if err := p.saveOutcome(ctx, run.ID, job, counts); err != nil {
		logger.Debug("history update failed", logging.String("history_id", run.ID), logging.Error(err))
		return
	}
	logger.Info("run history updated", logging.String("history_id", run.ID))
}
