package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"renoquote/internal/chunking"
	"renoquote/internal/config"
	"renoquote/internal/extract"
	"renoquote/internal/fileutil"
	"renoquote/internal/logging"
	"renoquote/internal/services"
	"renoquote/internal/stage"
	"renoquote/internal/tokens"
)

// ingestStage extracts the transcript, splits it into chunk files and
// copies the measurement scan into the run directory.
type ingestStage struct {
	cfg     *config.Config
	counter tokens.Counter
	logger  *slog.Logger
}

func newIngestStage(cfg *config.Config, counter tokens.Counter) *ingestStage {
	return &ingestStage{cfg: cfg, counter: counter, logger: logging.NewNop()}
}

func (s *ingestStage) SetLogger(logger *slog.Logger) { s.logger = logger }

func (s *ingestStage) Prepare(_ context.Context, job *stage.Job) error {
	if err := stage.RequireFile("ingest", "transcript", job.Transcript); err != nil {
		return err
	}
	if strings.TrimSpace(job.Scan) != "" {
		return stage.RequireFile("ingest", "scan", job.Scan)
	}
	return nil
}

func (s *ingestStage) Execute(ctx context.Context, job *stage.Job) error {
	chunks, err := ChunkFile(job.Transcript, s.chunkOptions(), s.counter)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	chunkDir := filepath.Join(job.Dir, TranscriptChunksDir)
	if _, err := chunking.WriteChunks(chunkDir, chunks); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "write chunks", "Unable to write transcript chunks", err)
	}
	job.Chunks = chunks
	job.TranscriptDir = chunkDir
	s.logger.Info("transcript chunked",
		logging.String("transcript", filepath.Base(job.Transcript)),
		logging.String("strategy", string(chunking.StrategyFor(job.Transcript))),
		logging.Int("chunks", len(chunks)),
		logging.Int("chars", chunking.TotalChars(chunks)),
	)

	if strings.TrimSpace(job.Scan) == "" {
		logging.WarnWithContext(s.logger, "no measurement scan supplied", "scan_missing",
			logging.String(logging.FieldErrorHint, "pass --scan with a Polycam PDF export"),
			logging.String(logging.FieldImpact, "quantities will be inferred from the transcript"),
		)
		return nil
	}
	scanDir := filepath.Join(job.Dir, ScanDir)
	if err := os.MkdirAll(scanDir, 0o755); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "copy scan", "Unable to create scan directory", err)
	}
	if err := fileutil.CopyFileVerified(job.Scan, filepath.Join(scanDir, ScanFileName)); err != nil {
		return services.Wrap(services.ErrTransient, "ingest", "copy scan",
			fmt.Sprintf("Unable to copy scan %s", job.Scan), err)
	}
	return nil
}

func (s *ingestStage) HealthCheck(context.Context) stage.Health {
	if s.cfg == nil || strings.TrimSpace(s.cfg.Paths.OutputDir) == "" {
		return stage.Unhealthy("ingest", "output directory not configured")
	}
	if _, approx := s.counter.(tokens.Heuristic); approx {
		return stage.Health{Name: "ingest", Ready: true, Detail: "token counts are approximate"}
	}
	return stage.Healthy("ingest")
}

func (s *ingestStage) chunkOptions() chunking.Options {
	return chunking.Options{
		MaxTokens:     s.cfg.Chunking.TranscriptChunkTokens,
		OverlapTokens: s.cfg.Chunking.OverlapTokens,
	}
}

// ChunkFile extracts text from path and splits it with the strategy its name
// selects.
func ChunkFile(path string, opts chunking.Options, counter tokens.Counter) ([]string, error) {
	text, err := extract.ExtractFile(path)
	if err != nil {
		return nil, err
	}
	chunks := chunking.SplitWith(chunking.StrategyFor(path), text, opts, counter)
	if len(chunks) == 0 {
		return nil, services.Wrap(services.ErrValidation, "ingest", "split text",
			fmt.Sprintf("No text to chunk in %s", path), nil)
	}
	return chunks, nil
}
