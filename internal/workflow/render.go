package workflow

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"

	"renoquote/internal/config"
	"renoquote/internal/fileutil"
	"renoquote/internal/logging"
	"renoquote/internal/render"
	"renoquote/internal/services"
	"renoquote/internal/stage"
)

// renderStage writes the sectioned CSV and the styled workbook.
type renderStage struct {
	cfg    *config.Config
	logger *slog.Logger
}

func newRenderStage(cfg *config.Config) *renderStage {
	return &renderStage{cfg: cfg, logger: logging.NewNop()}
}

func (s *renderStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *renderStage) Prepare(_ context.Context, job *stage.Job) error {
	if len(job.Items) == 0 {
		return services.Wrap(services.ErrValidation, "render", "prepare", "No cleaned items to render", nil)
	}
	return nil
}

func (s *renderStage) Execute(_ context.Context, job *stage.Job) error {
	rate := s.cfg.Cleanup.GeneralConditionsRate

	var buf bytes.Buffer
	if err := render.WriteSectionedCSV(&buf, job.Items, rate); err != nil {
		return services.Wrap(services.ErrValidation, "render", "encode csv", "Unable to encode estimate CSV", err)
	}
	csvPath := filepath.Join(job.Dir, CleanCSVName)
	if err := fileutil.WriteFileAtomic(csvPath, buf.Bytes()); err != nil {
		return services.Wrap(services.ErrTransient, "render", "write csv", "Unable to write estimate CSV", err)
	}
	job.CSVPath = csvPath

	workbookPath := filepath.Join(job.Dir, WorkbookName)
	if err := render.WriteWorkbook(workbookPath, job.Items, rate); err != nil {
		return services.Wrap(services.ErrTransient, "render", "write workbook", "Unable to write estimate workbook", err)
	}
	job.WorkbookPath = workbookPath

	job.Totals = render.Summarize(job.Items, rate)
	s.logger.Info("estimate rendered",
		logging.String("csv", filepath.Base(csvPath)),
		logging.String("workbook", filepath.Base(workbookPath)),
		logging.Int("categories", len(job.Totals.Categories)),
		logging.String("grand_total", render.FormatMoney(job.Totals.GrandTotal)),
	)
	return nil
}

func (s *renderStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("render")
}
