package render

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"renoquote/internal/estimate"
)

func sampleItems() []estimate.Item {
	return []estimate.Item{
		{Category: "Tile", Room: "Kitchen", ItemName: "Floor tile", Description: strings.Repeat("porcelain ", 13), Total: "1000"},
		{Category: "Demolition", ItemName: "Gut", Total: "$500.50"},
		{Category: "Tile", ItemName: "Grout", Total: "abc"},
		{Category: "", ItemName: "Orphan", Total: "5"},
	}
}

func TestWriteFlatCSV(t *testing.T) {
	var buf bytes.Buffer
	items := []estimate.Item{{Category: "Tile", Room: "Kitchen", ItemName: "Floor, tile", Total: "10", MarkupType: "%"}}
	if err := WriteFlatCSV(&buf, items); err != nil {
		t.Fatalf("WriteFlatCSV: %v", err)
	}
	want := "Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence\n" +
		"Tile,Kitchen,\"Floor, tile\",,,,,%,10,\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSectionedCSV(t *testing.T) {
	items := sampleItems()
	items[0].Description = ""
	items[0].Room = ""
	var buf bytes.Buffer
	if err := WriteSectionedCSV(&buf, items, 0.10); err != nil {
		t.Fatalf("WriteSectionedCSV: %v", err)
	}
	want := strings.Join([]string{
		"Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence",
		"Demolition,,,,,,,,,",
		"Demolition,,Gut,,,,,,$500.50,",
		",,,,,,,,500.50,",
		"Tile,,,,,,,,,",
		"Tile,,Floor tile,,,,,,1000,",
		"Tile,,Grout,,,,,,abc,",
		",,,,,,,,1000.00,",
		",,,,,,,,1500.50,",
		",,,General Conditions (10%),,,,,150.05,",
		",,,Grand Total,,,,,1650.55,",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("csv =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteSectionedCSVWithoutTotals(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSectionedCSV(&buf, []estimate.Item{{Category: "Tile", ItemName: "Grout"}}, 0.10); err != nil {
		t.Fatalf("WriteSectionedCSV: %v", err)
	}
	if strings.Contains(buf.String(), "Grand Total") {
		t.Fatalf("zero subtotal should omit closing rows:\n%s", buf.String())
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleItems(), 0.10)
	if len(s.Categories) != 2 || s.Categories[0].Name != "Tile" || s.Categories[1].Name != "Demolition" {
		t.Fatalf("categories = %+v", s.Categories)
	}
	if s.Categories[0].Items != 2 || s.Categories[0].Total != 1000 {
		t.Fatalf("tile = %+v", s.Categories[0])
	}
	if s.Items != 3 {
		t.Fatalf("items = %d, want 3", s.Items)
	}
	if math.Abs(s.Subtotal-1500.5) > 1e-9 || math.Abs(s.GrandTotal-1650.55) > 1e-9 {
		t.Fatalf("subtotal = %v grand = %v", s.Subtotal, s.GrandTotal)
	}
}

func TestFormatting(t *testing.T) {
	if got := FormatMoney(1234.5); got != "$1,234.50" {
		t.Fatalf("FormatMoney = %q", got)
	}
	tests := []struct {
		rate float64
		want string
	}{
		{0.10, "General Conditions (10%)"},
		{0.15, "General Conditions (15%)"},
		{0.125, "General Conditions (12.5%)"},
	}
	for _, tt := range tests {
		if got := ConditionsLabel(tt.rate); got != tt.want {
			t.Errorf("ConditionsLabel(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestDescriptionHeight(t *testing.T) {
	tests := []struct {
		chars int
		want  float64
	}{
		{60, 0},
		{61, 36},
		{130, 36},
		{200, 54},
	}
	for _, tt := range tests {
		if got := descriptionHeight(strings.Repeat("x", tt.chars)); got != tt.want {
			t.Errorf("descriptionHeight(%d chars) = %v, want %v", tt.chars, got, tt.want)
		}
	}
}

func TestBuildWorkbookLayout(t *testing.T) {
	f, err := BuildWorkbook(sampleItems(), 0.10)
	if err != nil {
		t.Fatalf("BuildWorkbook: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1":  "Section",
		"H1":  "Total",
		"A2":  "Tile",
		"C3":  "Floor tile",
		"C4":  "Grout",
		"A5":  "Total",
		"H5":  "$1,000.00",
		"A8":  "Demolition",
		"C9":  "Gut",
		"H9":  "$500.50",
		"H10": "$500.50",
		"A13": "Overall Subtotal",
		"H13": "$1,500.50",
		"A14": "General Conditions (10%)",
		"H14": "$150.05",
		"A15": "GRAND TOTAL",
		"H15": "$1,650.55",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(SheetName, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		if got != want {
			t.Errorf("%s = %q, want %q", cell, got, want)
		}
	}

	desc, _ := f.GetCellValue(SheetName, "D3")
	if desc != strings.TrimSpace(strings.Repeat("porcelain ", 13)) {
		t.Errorf("description = %q", desc)
	}
	if h, _ := f.GetRowHeight(SheetName, 3); h != 36 {
		t.Errorf("row 3 height = %v, want 36", h)
	}
	if h, _ := f.GetRowHeight(SheetName, 1); h != 25 {
		t.Errorf("header height = %v, want 25", h)
	}
	if w, _ := f.GetColWidth(SheetName, "A"); w != 25 {
		t.Errorf("section width = %v, want 25", w)
	}
	if w, _ := f.GetColWidth(SheetName, "D"); w != 65 {
		t.Errorf("description width = %v, want 65", w)
	}

	even, _ := f.GetCellStyle(SheetName, "B3")
	odd, _ := f.GetCellStyle(SheetName, "B4")
	if even == odd {
		t.Error("consecutive item rows should alternate styles")
	}
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estimate.xlsx")
	if err := WriteWorkbook(path, sampleItems(), 0.10); err != nil {
		t.Fatalf("WriteWorkbook: %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()
	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Fatalf("sheets = %v", sheets)
	}
	if got, _ := f.GetCellValue(SheetName, "A15"); got != "GRAND TOTAL" {
		t.Fatalf("A15 = %q", got)
	}
}
