package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"renoquote/internal/aggregate"
	"renoquote/internal/chunking"
	"renoquote/internal/config"
	"renoquote/internal/extract"
	"renoquote/internal/fileutil"
	"renoquote/internal/logging"
	"renoquote/internal/pricing"
	"renoquote/internal/prompt"
	"renoquote/internal/services"
	"renoquote/internal/services/llm"
	"renoquote/internal/stage"
	"renoquote/internal/tokens"
)

// estimateStage groups chunks under the token budget and asks the model
// for line items once per group, writing each raw response to the run
// directory. A failed group is counted and skipped.
type estimateStage struct {
	cfg     *config.Config
	client  llm.Completer
	counter tokens.Counter
	logger  *slog.Logger

	system       string
	instructions string
	attachments  prompt.Attachments
}

func newEstimateStage(cfg *config.Config, client llm.Completer, counter tokens.Counter) *estimateStage {
	return &estimateStage{cfg: cfg, client: client, counter: counter, logger: logging.NewNop()}
}

func (s *estimateStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *estimateStage) Prepare(_ context.Context, job *stage.Job) error {
	if s.client == nil {
		return services.Wrap(services.ErrConfiguration, "estimate", "prepare",
			"LLM client not configured; set llm.api_key or OPENAI_API_KEY", nil)
	}
	if len(job.Chunks) == 0 {
		if err := s.loadChunks(job); err != nil {
			return err
		}
	}

	instructions, err := prompt.LoadInstructions(s.cfg.Paths.PromptFile)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "estimate", "load prompt",
			"Unable to load estimation instructions", err)
	}
	s.instructions = instructions

	var files []prompt.Attachment
	if path := strings.TrimSpace(s.cfg.Paths.MasterPricing); path != "" {
		files = append(files, pricing.Reference(path))
	} else {
		logging.WarnWithContext(s.logger, "no master pricing reference configured", "pricing_missing",
			logging.String(logging.FieldErrorHint, "set paths.master_pricing in the config"),
			logging.String(logging.FieldImpact, "unit costs will not follow the price list"),
		)
	}
	var scanText string
	if strings.TrimSpace(job.Scan) != "" {
		scanText = extract.ReferenceText(job.Scan)
		files = append(files, prompt.FileAttachment(job.Scan, scanText))
	}
	unavailable := prompt.ScanUnavailable(scanText)
	if unavailable {
		s.logger.Info("scan measurements unavailable; model will infer quantities",
			logging.String("scan", job.Scan),
		)
	}
	s.system = prompt.SystemPrompt(unavailable)

	cheatsheet, err := pricing.Cheatsheet(s.cfg.Paths.SectionMinimums)
	if err != nil {
		logging.WarnWithContext(s.logger, "section minimums unreadable; cheatsheet skipped", "cheatsheet_failed",
			logging.String("path", s.cfg.Paths.SectionMinimums),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the section minimums CSV"),
			logging.String(logging.FieldImpact, "section minimums are not sent to the model"),
		)
	}
	samples, err := pricing.SampleScopes(s.cfg.Estimation.SampleScopes)
	if err != nil {
		return err
	}
	s.attachments = prompt.Attachments{Cheatsheet: cheatsheet, SampleScopes: samples, Files: files}

	promptTokens := s.counter.Count(instructions)
	job.Groups = chunking.GroupChunks(job.Chunks, s.cfg.Chunking.GroupMaxTokens, promptTokens, s.counter)
	chunkChars := chunking.TotalChars(job.Chunks)
	groupChars := chunking.GroupedChars(job.Groups)
	if chunkChars != groupChars {
		logging.WarnWithContext(s.logger, "character count mismatch between chunks and groups", "group_mismatch",
			logging.Int("chunk_chars", chunkChars),
			logging.Int("group_chars", groupChars),
			logging.String(logging.FieldErrorHint, "inspect transcript_chunks for unreadable files"),
			logging.String(logging.FieldImpact, "some transcript text may not reach the model"),
		)
	}
	s.logger.Info("chunks grouped",
		logging.Int("chunks", len(job.Chunks)),
		logging.Int("groups", len(job.Groups)),
		logging.Int("prompt_tokens", promptTokens),
		logging.Int("chars", groupChars),
	)
	return nil
}

func (s *estimateStage) loadChunks(job *stage.Job) error {
	if strings.TrimSpace(job.TranscriptDir) == "" {
		return services.Wrap(services.ErrValidation, "estimate", "load chunks", "No transcript chunks to estimate", nil)
	}
	chunks, err := chunking.ReadChunks(job.TranscriptDir)
	if err != nil {
		return services.Wrap(services.ErrNotFound, "estimate", "load chunks",
			fmt.Sprintf("Unable to read chunks from %s", job.TranscriptDir), err)
	}
	if len(chunks) == 0 {
		return services.Wrap(services.ErrNotFound, "estimate", "load chunks",
			fmt.Sprintf("No chunk_N.txt files in %s", job.TranscriptDir), nil)
	}
	job.Chunks = chunks
	return nil
}

func (s *estimateStage) Execute(ctx context.Context, job *stage.Job) error {
	limit := s.cfg.Estimation.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var failed atomic.Int64
	for _, group := range job.Groups {
		group := group
		g.Go(func() error {
			err := s.estimateGroup(gctx, job.Dir, group)
			if err == nil {
				return nil
			}
			if ctxErr := gctx.Err(); ctxErr != nil {
				return ctxErr
			}
			failed.Add(1)
			logging.WarnWithContext(s.logger, "group estimation failed", "group_failed",
				logging.Int(logging.FieldGroup, group.Index),
				logging.String("error_kind", services.Details(err)),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the LLM endpoint and rerun"),
				logging.String(logging.FieldImpact, "items from this group are missing from the estimate"),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	job.FailedGroups = int(failed.Load())
	s.logger.Info("estimation finished",
		logging.Int("groups", len(job.Groups)),
		logging.Int("succeeded", len(job.Groups)-job.FailedGroups),
		logging.Int("failed", job.FailedGroups),
	)
	if len(job.Groups) > 0 && job.FailedGroups == len(job.Groups) {
		return services.Wrap(services.ErrExternalTool, "estimate", "estimate groups",
			fmt.Sprintf("All %d groups failed", len(job.Groups)), nil)
	}
	return nil
}

func (s *estimateStage) estimateGroup(ctx context.Context, dir string, group chunking.Group) error {
	ctx = services.WithGroup(ctx, group.Index)
	logger := s.logger.With(logging.Int(logging.FieldGroup, group.Index))
	text := group.Text()

	flags := prompt.Flags{ProcessHeavy: prompt.IsProcessHeavy(text)}
	if flags.ProcessHeavy {
		logger.Info("group flagged as process heavy", logging.Int("keywords", prompt.ProcessKeywordCount(text)))
	}
	response, err := s.complete(ctx, group, text, flags)
	if err != nil {
		return err
	}
	if s.cfg.Estimation.RefusalRetry && prompt.IsRefusal(response) {
		logger.Info("refusal detected; retrying with forceful prompt",
			logging.String(logging.FieldEventType, "refusal_retry"),
		)
		flags.Forceful = true
		response, err = s.complete(ctx, group, text, flags)
		if err != nil {
			return err
		}
		if prompt.IsRefusal(response) {
			logging.WarnWithContext(logger, "model refused again after forceful retry", "refusal_persisted",
				logging.String(logging.FieldErrorHint, "review the group text for non-renovation content"),
				logging.String(logging.FieldImpact, "this group may contribute no items"),
			)
		}
	}

	path := aggregate.OutputPath(dir, group.Index)
	if err := fileutil.WriteFileAtomic(path, []byte(response)); err != nil {
		return services.Wrap(services.ErrTransient, "estimate", "write output",
			fmt.Sprintf("Unable to write %s", filepath.Base(path)), err)
	}
	logger.Info("group estimated",
		logging.Int("chunks", len(group.Chunks)),
		logging.Int("chars", group.Chars()),
		logging.Int("response_chars", len(response)),
		logging.String("output", filepath.Base(path)),
	)
	return nil
}

func (s *estimateStage) complete(ctx context.Context, group chunking.Group, text string, flags prompt.Flags) (string, error) {
	attachments := s.attachments.WithTranscript(fmt.Sprintf("transcript_group_%d.txt", group.Index), text)
	user := attachments.Assemble(prompt.BuildUserPrompt(text, s.instructions, flags))
	response, err := s.client.Complete(ctx, s.system, user)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "estimate", "complete",
			fmt.Sprintf("LLM request for group %d failed", group.Index), err)
	}
	return response, nil
}

type healthChecker interface {
	HealthCheck(context.Context) error
}

func (s *estimateStage) HealthCheck(ctx context.Context) stage.Health {
	if s.client == nil {
		return stage.Unhealthy("estimate", "LLM client not configured")
	}
	if checker, ok := s.client.(healthChecker); ok {
		if err := checker.HealthCheck(ctx); err != nil {
			return stage.Unhealthy("estimate", err.Error())
		}
	}
	return stage.Healthy("estimate")
}
