package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"renoquote/internal/cleanup"
	"renoquote/internal/render"
	"renoquote/internal/workflow"
)

type categoryView struct {
	Name  string  `json:"name"`
	Items int     `json:"items"`
	Total float64 `json:"total"`
}

type resultView struct {
	RunID        string         `json:"run_id"`
	RunDir       string         `json:"run_dir"`
	Chunks       int            `json:"chunks"`
	Groups       int            `json:"groups"`
	FailedGroups int            `json:"failed_groups"`
	RawItems     int            `json:"raw_items"`
	FinalItems   int            `json:"final_items"`
	Categories   []categoryView `json:"categories"`
	Subtotal     float64        `json:"subtotal"`
	Conditions   float64        `json:"general_conditions"`
	GrandTotal   float64        `json:"grand_total"`
	DedupeMode   string         `json:"dedupe_mode,omitempty"`
	CSVPath      string         `json:"csv"`
	WorkbookPath string         `json:"workbook"`
}

func newResultView(res workflow.Result) resultView {
	view := resultView{
		RunID:        res.RunID,
		RunDir:       res.RunDir,
		Chunks:       res.Counts.Chunks,
		Groups:       res.Counts.Groups,
		FailedGroups: res.Counts.FailedGroups,
		RawItems:     res.Counts.RawItems,
		FinalItems:   res.Counts.FinalItems,
		Subtotal:     res.Totals.Subtotal,
		Conditions:   res.Totals.Conditions,
		GrandTotal:   res.Totals.GrandTotal,
		DedupeMode:   res.Cleanup.DedupeMode,
		CSVPath:      res.CSVPath,
		WorkbookPath: res.WorkbookPath,
	}
	view.Categories = make([]categoryView, 0, len(res.Totals.Categories))
	for _, c := range res.Totals.Categories {
		view.Categories = append(view.Categories, categoryView{Name: c.Name, Items: c.Items, Total: c.Total})
	}
	return view
}

// printTotals renders per-category totals with subtotal, general conditions
// and grand total footer rows.
func printTotals(out io.Writer, totals render.Summary) {
	rows := make([][]string, 0, len(totals.Categories))
	for _, c := range totals.Categories {
		rows = append(rows, []string{c.Name, strconv.Itoa(c.Items), render.FormatMoney(c.Total)})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Category", "Items", "Total"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight},
		[]string{"Subtotal", strconv.Itoa(totals.Items), render.FormatMoney(totals.Subtotal)},
		[]string{render.ConditionsLabel(totals.Rate), "", render.FormatMoney(totals.Conditions)},
		[]string{"Grand Total", "", render.FormatMoney(totals.GrandTotal)},
	))
}

func printResult(out io.Writer, res workflow.Result) {
	printTotals(out, res.Totals)
	fmt.Fprintf(out, "Run:       %s\n", res.RunID)
	fmt.Fprintf(out, "Directory: %s\n", res.RunDir)
	if res.Counts.Groups > 0 {
		fmt.Fprintf(out, "Groups:    %s estimated, %s failed (%s chunks)\n",
			humanize.Comma(int64(res.Counts.Groups-res.Counts.FailedGroups)),
			humanize.Comma(int64(res.Counts.FailedGroups)),
			humanize.Comma(int64(res.Counts.Chunks)))
	}
	fmt.Fprintf(out, "Items:     %d kept of %d parsed\n", res.Counts.FinalItems, res.Counts.RawItems)
	fmt.Fprintf(out, "CSV:       %s\n", res.CSVPath)
	fmt.Fprintf(out, "Workbook:  %s\n", res.WorkbookPath)
}

func printCleanupReport(out io.Writer, report cleanup.Report) {
	rows := make([][]string, 0, len(report.Passes))
	for _, pass := range report.Passes {
		rows = append(rows, []string{pass.Name, strconv.Itoa(pass.In), strconv.Itoa(pass.Out), strconv.Itoa(pass.In - pass.Out)})
	}
	fmt.Fprint(out, renderTable(
		[]string{"Pass", "In", "Out", "Removed"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
	))
	fmt.Fprintf(out, "Recategorized: %d, totals fixed: %d, dedupe: %s\n", report.Recategorized, report.TotalsFixed, report.DedupeMode)
}
