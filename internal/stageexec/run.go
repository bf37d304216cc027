// Package stageexec runs a single pipeline stage with the standard start,
// completion and failure logging.
package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"renoquote/internal/logging"
	"renoquote/internal/services"
	"renoquote/internal/stage"
)

// Handler is the stage contract used by the execution helper.
type Handler interface {
	Prepare(context.Context, *stage.Job) error
	Execute(context.Context, *stage.Job) error
}

// Options controls stage execution.
type Options struct {
	Logger    *slog.Logger
	Handler   Handler
	StageName string
	Job       *stage.Job
}

// Run prepares and executes a stage against the job. The stage name is
// recorded on the job before anything runs so failures can be attributed.
func Run(ctx context.Context, opts Options) error {
	if opts.Handler == nil {
		return fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}
	if opts.Job == nil {
		return fmt.Errorf("job is required")
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	opts.Job.Stage = opts.StageName
	started := time.Now()
	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("stage_label", StageLabel(opts.StageName)),
		logging.String("run_dir", strings.TrimSpace(opts.Job.Dir)),
	)

	if err := opts.Handler.Prepare(stageCtx, opts.Job); err != nil {
		return handleFailure(stageLogger, opts.StageName, err)
	}
	if err := opts.Handler.Execute(stageCtx, opts.Job); err != nil {
		return handleFailure(stageLogger, opts.StageName, err)
	}

	counts := opts.Job.Counts()
	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.Duration("elapsed", time.Since(started)),
		logging.Int("chunks", counts.Chunks),
		logging.Int("groups", counts.Groups),
		logging.Int("raw_items", counts.RawItems),
		logging.Int("final_items", counts.FinalItems),
	)
	return nil
}

func handleFailure(logger *slog.Logger, stageName string, stageErr error) error {
	if stageErr == nil {
		stageErr = fmt.Errorf("stage %s failed", stageName)
	}
	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String("error_kind", services.Details(stageErr)),
		logging.String("error_message", strings.TrimSpace(stageErr.Error())),
		logging.Error(stageErr),
	)
	return stageErr
}

// StageLabel turns a stage name such as "estimate_groups" into "Estimate Groups".
func StageLabel(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Fields(strings.ReplaceAll(name, "_", " "))
	for i, part := range parts {
		runes := []rune(strings.ToLower(part))
		runes[0] = unicode.ToUpper(runes[0])
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
