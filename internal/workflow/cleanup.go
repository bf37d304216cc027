package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"renoquote/internal/aggregate"
	"renoquote/internal/cleanup"
	"renoquote/internal/config"
	"renoquote/internal/estimate"
	"renoquote/internal/logging"
	"renoquote/internal/pricing"
	"renoquote/internal/services"
	"renoquote/internal/services/llm"
	"renoquote/internal/stage"
)

// cleanupStage runs the rule passes over the aggregated items and reports
// categories the price list does not know.
type cleanupStage struct {
	cfg    *config.Config
	client llm.Completer
	logger *slog.Logger
}

func newCleanupStage(cfg *config.Config, client llm.Completer) *cleanupStage {
	return &cleanupStage{cfg: cfg, client: client, logger: logging.NewNop()}
}

func (s *cleanupStage) SetLogger(logger *slog.Logger) { s.logger = logger }

// Prepare loads the aggregated CSV when the job arrives without raw items,
// which is the case when cleanup reruns on an existing run directory.
func (s *cleanupStage) Prepare(_ context.Context, job *stage.Job) error {
	if len(job.RawItems) > 0 {
		return nil
	}
	path := job.AggregatePath
	if path == "" {
		path = filepath.Join(job.Dir, aggregate.OutputFileName)
	}
	items, err := estimate.ReadCSV(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "cleanup", "load items",
				fmt.Sprintf("Aggregated estimate not found at %s", path), err)
		}
		return services.Wrap(services.ErrValidation, "cleanup", "load items",
			fmt.Sprintf("Unable to read %s", path), err)
	}
	if len(items) == 0 {
		return services.Wrap(services.ErrNotFound, "cleanup", "load items",
			fmt.Sprintf("No line items in %s", path), nil)
	}
	job.RawItems = items
	job.AggregatePath = path
	return nil
}

func (s *cleanupStage) Execute(ctx context.Context, job *stage.Job) error {
	opts := cleanup.Options{
		ConfidenceThreshold: s.cfg.Cleanup.ConfidenceThreshold,
		DefaultMarkup:       s.cfg.Cleanup.DefaultMarkup,
		ModelDedupe:         s.cfg.Cleanup.LLMDedupe,
		Client:              s.client,
	}
	if opts.ModelDedupe && s.client == nil {
		logging.WarnWithContext(s.logger, "model dedupe requested without an LLM client", "dedupe_unavailable",
			logging.String(logging.FieldErrorHint, "set llm.api_key to enable model dedupe"),
			logging.String(logging.FieldImpact, "local dedupe rules are used instead"),
		)
	}
	items, report := cleanup.New(opts, s.logger).Run(ctx, job.RawItems)
	if err := ctx.Err(); err != nil {
		return err
	}
	job.Items = items
	job.Cleanup = report
	if len(items) == 0 {
		return services.Wrap(services.ErrValidation, "cleanup", "run passes",
			fmt.Sprintf("Cleanup removed all %d items", len(job.RawItems)), nil)
	}
	s.checkSections(items)
	return nil
}

func (s *cleanupStage) checkSections(items []estimate.Item) {
	path := strings.TrimSpace(s.cfg.Paths.MasterPricing)
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return
	}
	catalog, err := pricing.LoadCatalog(path)
	if err != nil {
		s.logger.Debug("price list unavailable for section check", logging.Error(err))
		return
	}
	for _, issue := range pricing.CheckSections(items, catalog.Sections()) {
		logging.WarnWithContext(s.logger, "category not in price list", "unknown_section",
			logging.String("category", issue.Category),
			logging.Int("items", issue.Items),
			logging.String("suggestion", issue.Suggestion),
			logging.String(logging.FieldErrorHint, "rename the category or extend the price list"),
			logging.String(logging.FieldImpact, "section minimums may not apply to these items"),
		)
	}
}

func (s *cleanupStage) HealthCheck(context.Context) stage.Health {
	if s.cfg.Cleanup.LLMDedupe && s.client == nil {
		return stage.Health{Name: "cleanup", Ready: true, Detail: "model dedupe falls back to local rules"}
	}
	return stage.Healthy("cleanup")
}
