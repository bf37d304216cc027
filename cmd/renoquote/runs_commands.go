package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"renoquote/internal/history"
	"renoquote/internal/render"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded estimation runs",
	}
	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	return runsCmd
}

type runView struct {
	ID           string     `json:"id"`
	Transcript   string     `json:"transcript,omitempty"`
	Scan         string     `json:"scan,omitempty"`
	RunDir       string     `json:"run_dir"`
	Status       string     `json:"status"`
	Stage        string     `json:"stage,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Chunks       int        `json:"chunks"`
	Groups       int        `json:"groups"`
	FailedGroups int        `json:"failed_groups"`
	RawItems     int        `json:"raw_items"`
	FinalItems   int        `json:"final_items"`
	GrandTotal   float64    `json:"grand_total"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

func newRunView(run history.Run) runView {
	return runView{
		ID:           run.ID,
		Transcript:   run.Transcript,
		Scan:         run.Scan,
		RunDir:       run.RunDir,
		Status:       string(run.Status),
		Stage:        run.Stage,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
		Chunks:       run.Counts.Chunks,
		Groups:       run.Counts.Groups,
		FailedGroups: run.Counts.FailedGroups,
		RawItems:     run.Counts.RawItems,
		FinalItems:   run.Counts.FinalItems,
		GrandTotal:   run.GrandTotal,
		ErrorKind:    run.ErrorKind,
		ErrorMessage: run.ErrorMessage,
	}
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if jsonOut {
				views := make([]runView, 0, len(runs))
				for _, run := range runs {
					views = append(views, newRunView(run))
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					shortID(run.ID),
					humanize.Time(run.StartedAt),
					string(run.Status),
					run.Stage,
					strconv.Itoa(run.Counts.FinalItems),
					runTotal(run),
					runDuration(run),
				})
			}
			fmt.Fprint(out, renderTable(
				[]string{"ID", "Started", "Status", "Stage", "Items", "Grand Total", "Duration"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			stats, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%d completed, %d failed, %d running\n",
				stats[history.StatusCompleted], stats[history.StatusFailed], stats[history.StatusRunning])
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print runs as JSON")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	var showItems, jsonOut bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run by ID or unique ID prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.historyStore()
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			run, err := store.Get(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, history.ErrAmbiguousID) {
					return fmt.Errorf("%w; use more characters of the ID", err)
				}
				return err
			}
			if run == nil {
				return fmt.Errorf("run %q not found", id)
			}

			if jsonOut {
				if !showItems {
					return writeJSON(cmd, newRunView(*run))
				}
				items, err := store.Items(cmd.Context(), run.ID)
				if err != nil {
					return err
				}
				return writeJSON(cmd, struct {
					runView
					Items any `json:"items"`
				}{newRunView(*run), items})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ID:          %s\n", run.ID)
			fmt.Fprintf(out, "Status:      %s\n", run.Status)
			if run.Stage != "" {
				fmt.Fprintf(out, "Stage:       %s\n", run.Stage)
			}
			fmt.Fprintf(out, "Started:     %s (%s)\n", run.StartedAt.Local().Format(time.DateTime), humanize.Time(run.StartedAt))
			if run.FinishedAt != nil {
				fmt.Fprintf(out, "Duration:    %s\n", runDuration(*run))
			}
			if run.Transcript != "" {
				fmt.Fprintf(out, "Transcript:  %s\n", run.Transcript)
			}
			if run.Scan != "" {
				fmt.Fprintf(out, "Scan:        %s\n", run.Scan)
			}
			fmt.Fprintf(out, "Directory:   %s\n", run.RunDir)
			fmt.Fprintf(out, "Chunks:      %d in %d groups (%d failed)\n", run.Counts.Chunks, run.Counts.Groups, run.Counts.FailedGroups)
			fmt.Fprintf(out, "Items:       %d kept of %d parsed\n", run.Counts.FinalItems, run.Counts.RawItems)
			fmt.Fprintf(out, "Grand total: %s\n", runTotal(*run))
			if run.ErrorMessage != "" {
				fmt.Fprintf(out, "Error:       %s (%s)\n", run.ErrorMessage, run.ErrorKind)
			}
			if !showItems {
				return nil
			}

			items, err := store.Items(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				rows = append(rows, []string{it.Category, it.Room, it.ItemName, it.Quantity, render.FormatMoney(it.TotalValue())})
			}
			fmt.Fprint(out, renderTable(
				[]string{"Category", "Room", "Item", "Qty", "Total"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showItems, "items", false, "Include the run's final line items")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the run as JSON")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runTotal(run history.Run) string {
	if run.Status != history.StatusCompleted {
		return "-"
	}
	return render.FormatMoney(run.GrandTotal)
}

func runDuration(run history.Run) string {
	d := run.Duration()
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Second).String()
}
