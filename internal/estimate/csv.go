package estimate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadCSV loads items from a CSV file with a header row naming the canonical
// columns. Section header rows, blank rows and repeated header rows are
// skipped.
func ReadCSV(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

// DecodeCSV reads items from r; see ReadCSV.
func DecodeCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var items []Item
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		item := Item{
			Category:    field(row, "Category"),
			Room:        field(row, "Room"),
			ItemName:    field(row, "ItemName"),
			Description: field(row, "Description"),
			Quantity:    field(row, "Quantity"),
			UnitCost:    field(row, "UnitCost"),
			Markup:      field(row, "Markup"),
			MarkupType:  field(row, "MarkupType"),
			Total:       field(row, "Total"),
			Confidence:  field(row, "Confidence"),
		}
		if strings.TrimSpace(item.Category) == "" || strings.TrimSpace(item.ItemName) == "" || item.Category == "Category" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
