package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"renoquote/internal/estimate"
)

// ErrAmbiguousID is returned when an ID prefix matches several runs.
var ErrAmbiguousID = errors.New("run id prefix is ambiguous")

const runColumns = "id, transcript, scan, run_dir, status, stage, started_at, finished_at, chunks, groups_total, groups_failed, items_raw, items_final, grand_total, error_kind, error_message"

// StartRun records a run in the running state.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	err := s.exec(ctx,
		`INSERT INTO runs (id, transcript, scan, run_dir, status, stage, started_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		nullableString(run.Transcript),
		nullableString(run.Scan),
		run.RunDir,
		StatusRunning,
		nullableString(run.Stage),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final status, counts and error of a run.
func (s *Store) FinishRun(ctx context.Context, id string, out Outcome) error {
	err := s.exec(ctx,
		`UPDATE runs
         SET status = ?, stage = ?, finished_at = ?, chunks = ?, groups_total = ?, groups_failed = ?,
             items_raw = ?, items_final = ?, grand_total = ?, error_kind = ?, error_message = ?
         WHERE id = ?`,
		out.Status,
		nullableString(out.Stage),
		time.Now().UTC().Format(time.RFC3339Nano),
		out.Counts.Chunks,
		out.Counts.Groups,
		out.Counts.FailedGroups,
		out.Counts.RawItems,
		out.Counts.FinalItems,
		out.GrandTotal,
		nullableString(out.ErrorKind),
		nullableString(out.ErrorMessage),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// SaveItems replaces the stored line items of a run.
func (s *Store) SaveItems(ctx context.Context, runID string, items []estimate.Item) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin items tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, "DELETE FROM run_items WHERE run_id = ?", runID); err != nil {
			return fmt.Errorf("clear items: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO run_items (run_id, position, category, room, item_name, description,
             quantity, unit_cost, markup, markup_type, total, confidence)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare item insert: %w", err)
		}
		defer stmt.Close()
		for i, it := range items {
			if _, err := stmt.ExecContext(ctx, runID, i,
				it.Category, it.Room, it.ItemName, it.Description, it.Quantity,
				it.UnitCost, it.Markup, it.MarkupType, it.Total, it.Confidence,
			); err != nil {
				return fmt.Errorf("insert item %d: %w", i, err)
			}
		}
		return tx.Commit()
	})
}

// Get returns the run with the given ID or unique ID prefix. A missing run
// yields nil without error.
func (s *Store) Get(ctx context.Context, idOrPrefix string) (*Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ? OR id LIKE ? ESCAPE '\' ORDER BY (id = ?) DESC LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%", idOrPrefix)
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch {
	case len(found) == 0:
		return nil, nil
	case found[0].ID == idOrPrefix || len(found) == 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, idOrPrefix)
	}
}

// List returns the most recent runs first. A limit of zero or less returns
// every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// Items returns the stored line items of a run in their original order.
func (s *Store) Items(ctx context.Context, runID string) ([]estimate.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, room, item_name, description, quantity, unit_cost, markup, markup_type, total, confidence
         FROM run_items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []estimate.Item
	for rows.Next() {
		var fields [10]sql.NullString
		dest := make([]any, len(fields))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, estimate.Item{
			Category:    fields[0].String,
			Room:        fields[1].String,
			ItemName:    fields[2].String,
			Description: fields[3].String,
			Quantity:    fields[4].String,
			UnitCost:    fields[5].String,
			Markup:      fields[6].String,
			MarkupType:  fields[7].String,
			Total:       fields[8].String,
			Confidence:  fields[9].String,
		})
	}
	return items, rows.Err()
}

// Stats counts runs by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM runs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("run stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}
