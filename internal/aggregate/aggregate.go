// Package aggregate merges per-group estimation outputs into a single item
// list for a run directory.
package aggregate

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"renoquote/internal/estimate"
	"renoquote/internal/fileutil"
	"renoquote/internal/logging"
	"renoquote/internal/render"
	"renoquote/internal/services"
)

// OutputFileName is the aggregated CSV written into the run directory.
const OutputFileName = "aggregated_chunked_estimate.csv"

var outputPattern = regexp.MustCompile(`^estimate_output_chunk_(\d+)\.txt$`)

// OutputPath returns the path of group index's raw model output in runDir.
func OutputPath(runDir string, index int) string {
	return filepath.Join(runDir, fmt.Sprintf("estimate_output_chunk_%d.txt", index))
}

// Result summarizes an aggregation pass.
type Result struct {
	Files      int
	Parsed     int
	Duplicates int
	Items      []estimate.Item
	CSVPath    string
}

// OutputFiles lists estimate_output_chunk_N.txt files in runDir ordered by N.
func OutputFiles(runDir string) ([]string, error) {
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return nil, err
	}
	type numbered struct {
		n    int
		path string
	}
	var files []numbered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := outputPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		files = append(files, numbered{n: n, path: filepath.Join(runDir, entry.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].n < files[j].n })
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.path
	}
	return paths, nil
}

// Run parses every group output in runDir, drops Category|Room|ItemName
// repeats across groups and writes the aggregated CSV.
func Run(ctx context.Context, runDir string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	files, err := OutputFiles(runDir)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "aggregate", "list outputs", "Run directory is unreadable", err)
	}
	if len(files) == 0 {
		return Result{}, services.Wrap(services.ErrNotFound, "aggregate", "list outputs",
			fmt.Sprintf("No estimate outputs found in %s", runDir), nil)
	}

	result := Result{Files: len(files)}
	seen := make(map[string]struct{})
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("estimate output unreadable",
				logging.String("path", path),
				logging.Error(err),
				logging.String(logging.FieldEventType, "output_read_failed"),
				logging.String(logging.FieldErrorHint, "check run directory permissions"),
				logging.String(logging.FieldImpact, "items from this group are missing"),
			)
			continue
		}
		items, mode := estimate.ParseResponse(string(data))
		result.Parsed++
		added := 0
		for _, item := range items {
			key := item.Key()
			if _, dup := seen[key]; dup {
				result.Duplicates++
				logger.Debug("skipping duplicate item",
					logging.String("item", item.ItemName),
					logging.String("room", item.Room),
				)
				continue
			}
			seen[key] = struct{}{}
			result.Items = append(result.Items, item)
			added++
		}
		logger.Info("parsed estimate output",
			logging.String("file", filepath.Base(path)),
			logging.String("parse_mode", string(mode)),
			logging.Int("items", len(items)),
			logging.Int("added", added),
		)
	}

	if len(result.Items) == 0 {
		return result, services.Wrap(services.ErrNotFound, "aggregate", "collect items",
			"No line items found in estimate outputs", nil)
	}

	var buf bytes.Buffer
	if err := render.WriteFlatCSV(&buf, result.Items); err != nil {
		return result, services.Wrap(services.ErrValidation, "aggregate", "encode csv", "Unable to encode aggregated items", err)
	}
	result.CSVPath = filepath.Join(runDir, OutputFileName)
	if err := fileutil.WriteFileAtomic(result.CSVPath, buf.Bytes()); err != nil {
		return result, services.Wrap(services.ErrTransient, "aggregate", "write csv", "Unable to write aggregated CSV", err)
	}
	logger.Info("aggregation complete",
		logging.String(logging.FieldEventType, "aggregate_complete"),
		logging.Int("files", result.Files),
		logging.Int("items", len(result.Items)),
		logging.Int("duplicates", result.Duplicates),
	)
	return result, nil
}
