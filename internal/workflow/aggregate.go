package workflow

import (
	"context"
	"log/slog"

	"renoquote/internal/aggregate"
	"renoquote/internal/logging"
	"renoquote/internal/stage"
)

// aggregateStage parses every group output in the run directory into one
// item list.
type aggregateStage struct {
	logger *slog.Logger
}

func newAggregateStage() *aggregateStage {
	return &aggregateStage{logger: logging.NewNop()}
}

func (s *aggregateStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *aggregateStage) Prepare(context.Context, *stage.Job) error { return nil }

func (s *aggregateStage) Execute(ctx context.Context, job *stage.Job) error {
	result, err := aggregate.Run(ctx, job.Dir, s.logger)
	if err != nil {
		return err
	}
	job.RawItems = result.Items
	job.AggregatePath = result.CSVPath
	return nil
}

func (s *aggregateStage) HealthCheck(context.Context) stage.Health {
	return stage.Healthy("aggregate")
}
