package cleanup

import (
	"context"
	"log/slog"
	"strings"

	"renoquote/internal/estimate"
	"renoquote/internal/logging"
	"renoquote/internal/services/llm"
)

// Options tunes the cleanup passes.
type Options struct {
	ConfidenceThreshold float64
	DefaultMarkup       float64
	// ModelDedupe enables the model-assisted dedupe pass when Client is set.
	ModelDedupe bool
	Client      llm.Completer
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return Options{ConfidenceThreshold: 85, DefaultMarkup: 0.75}
}

// PassResult records item counts around one pass.
type PassResult struct {
	Name string
	In   int
	Out  int
}

// Report summarizes a cleanup run.
type Report struct {
	Passes        []PassResult
	Recategorized int
	TotalsFixed   int
	DedupeMode    string
}

// Cleaner runs the cleanup passes.
type Cleaner struct {
	opts   Options
	logger *slog.Logger
}

// New constructs a Cleaner. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Cleaner{opts: opts, logger: logger}
}

// Run applies every pass in order and returns the cleaned items.
func (c *Cleaner) Run(ctx context.Context, items []estimate.Item) ([]estimate.Item, Report) {
	var report Report
	record := func(name string, in, out int) {
		report.Passes = append(report.Passes, PassResult{Name: name, In: in, Out: out})
		c.logger.Info("cleanup pass complete",
			logging.String("pass", name),
			logging.Int("items_in", in),
			logging.Int("items_out", out),
		)
	}

	current := BasicClean(items)
	record("basic_clean", len(items), len(current))

	before := len(current)
	current, report.Recategorized = Recategorize(current)
	record("recategorize", before, len(current))

	before = len(current)
	current, report.DedupeMode = c.dedupe(ctx, current)
	record("dedupe", before, len(current))

	before = len(current)
	current = PrioritizeConfidence(current, c.opts.ConfidenceThreshold)
	record("confidence_priority", before, len(current))

	before = len(current)
	current, report.TotalsFixed = FixTotals(current, c.opts.DefaultMarkup)
	record("fix_totals", before, len(current))

	before = len(current)
	current = PruneToApartmentScope(current)
	record("apartment_scope", before, len(current))

	before = len(current)
	current = MergeOverlapping(current)
	record("merge_overlapping", before, len(current))

	before = len(current)
	current = RemoveCrossCategory(current)
	record("cross_category", before, len(current))

	before = len(current)
	current = MergeCabinetry(current)
	record("cabinetry_merge", before, len(current))

	return current, report
}

func (c *Cleaner) dedupe(ctx context.Context, items []estimate.Item) ([]estimate.Item, string) {
	if c.opts.ModelDedupe && c.opts.Client != nil {
		deduped, err := ModelDedupe(ctx, c.opts.Client, items)
		if err == nil {
			return deduped, "model"
		}
		logging.WarnWithContext(c.logger, "model dedupe failed; using local rules", "dedupe_fallback",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check llm settings or disable cleanup.llm_dedupe"),
			logging.String(logging.FieldImpact, "local keyword rules decide duplicates"),
		)
	}
	deduped, events := LocalDedupe(items)
	for _, ev := range events {
		c.logger.Debug("removed duplicate",
			logging.String("rule", ev.Reason),
			logging.String("item", ev.Item.ItemName),
			logging.String("room", ev.Item.Room),
		)
	}
	return deduped, "local"
}

// BasicClean trims names, rooms and categories, collapses description
// whitespace and drops items without a name.
func BasicClean(items []estimate.Item) []estimate.Item {
	out := make([]estimate.Item, 0, len(items))
	for _, it := range items {
		it.ItemName = strings.TrimSpace(it.ItemName)
		it.Description = estimate.CleanDescription(it.Description)
		it.Room = strings.TrimSpace(it.Room)
		it.Category = strings.TrimSpace(it.Category)
		if it.ItemName == "" {
			continue
		}
		out = append(out, it)
	}
	return out
}
