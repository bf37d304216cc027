package render

import (
	"encoding/csv"
	"io"
	"sort"
	"strings"

	"renoquote/internal/estimate"
)

// WriteFlatCSV writes items under the canonical header, one row per item.
func WriteFlatCSV(w io.Writer, items []estimate.Item) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(estimate.Columns); err != nil {
		return err
	}
	for _, it := range items {
		if err := cw.Write(it.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// totalRow returns a row that only carries a label in the Description column
// and a value in the Total column.
func totalRow(label, total string) []string {
	row := make([]string, len(estimate.Columns))
	row[3] = label
	row[8] = total
	return row
}

// WriteSectionedCSV writes items grouped under sorted category headers with
// a total row per category, followed by subtotal, general conditions and
// grand total rows. Items without a category are omitted.
func WriteSectionedCSV(w io.Writer, items []estimate.Item, rate float64) error {
	summary := Summarize(items, rate)
	names := make([]string, 0, len(summary.Categories))
	totals := make(map[string]float64, len(summary.Categories))
	for _, c := range summary.Categories {
		names = append(names, c.Name)
		totals[c.Name] = c.Total
	}
	sort.Strings(names)

	cw := csv.NewWriter(w)
	rows := [][]string{estimate.Columns}
	for _, name := range names {
		header := make([]string, len(estimate.Columns))
		header[0] = name
		rows = append(rows, header)
		for _, it := range items {
			if strings.TrimSpace(it.Category) == name {
				rows = append(rows, it.Record())
			}
		}
		if totals[name] > 0 {
			rows = append(rows, totalRow("", formatPlain(totals[name])))
		}
	}
	if summary.Subtotal > 0 {
		rows = append(rows,
			totalRow("", formatPlain(summary.Subtotal)),
			totalRow(ConditionsLabel(rate), formatPlain(summary.Conditions)),
			totalRow("Grand Total", formatPlain(summary.GrandTotal)),
		)
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
