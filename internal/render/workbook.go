package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"renoquote/internal/estimate"
	"renoquote/internal/fileutil"
	"renoquote/internal/textutil"
)

// SheetName is the worksheet holding the estimate.
const SheetName = "Renovation Estimate"

const (
	colorHeader     = "231F20"
	colorWhite      = "FFFFFF"
	colorSubheader  = "C1A59A"
	colorTotal      = "FAF5EE"
	colorAlternate  = "F3E3D8"
	colorGrandTotal = "E1CDC0"
	colorBorder     = "F3E3D8"

	fontFamily = "Inter"
	lastColumn = 9
	// borderHair is excelize's index for the hair line border.
	borderHair = 7

	descWrapChars   = 60
	lineHeight      = 18
	minWrapHeight   = 20
	headerRowHeight = 25
)

var workbookHeaders = []string{
	"Section", "Room", "Item Name", "Description", "Quantity", "Unit Cost", "Markup", "Total", "Confidence",
}

type styles struct {
	header, subheader   int
	data, alternate     int
	dataRight, altRight int
	total, grandTotal   int
}

type styleDef struct {
	dst   *int
	style excelize.Style
}

func newStyles(f *excelize.File) (styles, error) {
	border := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "right", "top", "bottom"} {
		border = append(border, excelize.Border{Type: side, Color: colorBorder, Style: borderHair})
	}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	regular := &excelize.Font{Family: fontFamily, Size: 10}
	bold := &excelize.Font{Family: fontFamily, Size: 11, Bold: true}
	rowStyle := func(color, horizontal, vertical string) excelize.Style {
		return excelize.Style{
			Font: regular, Fill: fill(color), Border: border,
			Alignment: &excelize.Alignment{Horizontal: horizontal, Vertical: vertical, WrapText: true},
		}
	}
	totalStyle := func(color string) excelize.Style {
		return excelize.Style{
			Font: bold, Fill: fill(color), Border: border,
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
		}
	}

	var st styles
	defs := []styleDef{
		{&st.header, excelize.Style{
			Font:      &excelize.Font{Family: fontFamily, Size: 12, Bold: true, Color: colorWhite},
			Fill:      fill(colorHeader),
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    border,
		}},
		{&st.subheader, excelize.Style{
			Font: bold, Fill: fill(colorSubheader), Border: border,
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
		}},
		{&st.data, rowStyle(colorWhite, "left", "top")},
		{&st.alternate, rowStyle(colorAlternate, "left", "top")},
		{&st.dataRight, rowStyle(colorWhite, "right", "center")},
		{&st.altRight, rowStyle(colorAlternate, "right", "center")},
		{&st.total, totalStyle(colorTotal)},
		{&st.grandTotal, totalStyle(colorGrandTotal)},
	}
	for _, def := range defs {
		id, err := f.NewStyle(&def.style)
		if err != nil {
			return styles{}, fmt.Errorf("create style: %w", err)
		}
		*def.dst = id
	}
	return st, nil
}

func clampWidth(v, lo, hi int) float64 {
	return float64(max(lo, min(v, hi)))
}

func longest(items []estimate.Item, field func(estimate.Item) string, fallback int) int {
	if len(items) == 0 {
		return fallback
	}
	n := 0
	for _, it := range items {
		n = max(n, utf8.RuneCountInString(field(it)))
	}
	return n
}

// columnWidths sizes the text columns to their content within fixed bounds.
func columnWidths(items []estimate.Item) []float64 {
	section := longest(items, func(it estimate.Item) string { return it.Category }, 10)
	room := longest(items, func(it estimate.Item) string { return it.Room }, 10)
	name := longest(items, func(it estimate.Item) string { return it.ItemName }, 15)
	desc := longest(items, func(it estimate.Item) string { return it.Description }, 30)
	return []float64{
		clampWidth(section+5, 25, 35),
		clampWidth(room+3, 18, 25),
		clampWidth(name+5, 30, 45),
		clampWidth(desc/2, 60, 80),
		12, 18, 10, 12, 15,
	}
}

// descriptionHeight returns the row height for a wrapped description, or 0
// when the default height fits.
func descriptionHeight(desc string) float64 {
	n := utf8.RuneCountInString(desc)
	if n <= descWrapChars {
		return 0
	}
	lines := max(2, n/descWrapChars)
	return float64(max(minWrapHeight, lines*lineHeight))
}

type sheetWriter struct {
	f   *excelize.File
	row int
}

func (w *sheetWriter) set(col int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, w.row)
	if err != nil {
		return err
	}
	if err := w.f.SetCellValue(SheetName, cell, value); err != nil {
		return err
	}
	return w.f.SetCellStyle(SheetName, cell, cell, style)
}

// fill writes values into the leading columns and blanks out the rest of the
// row, all in one style.
func (w *sheetWriter) fill(style int, values map[int]any) error {
	for col := 1; col <= lastColumn; col++ {
		v, ok := values[col]
		if !ok {
			v = ""
		}
		if err := w.set(col, v, style); err != nil {
			return err
		}
	}
	return nil
}

// BuildWorkbook lays out items on a styled worksheet. Categories appear in
// first-seen order with alternating row fills and a total row each, followed
// by the overall subtotal, general conditions and grand total.
func BuildWorkbook(items []estimate.Item, rate float64) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}
	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := layout(f, st, items, rate); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func layout(f *excelize.File, st styles, items []estimate.Item, rate float64) error {
	for i, width := range columnWidths(items) {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(SheetName, 1, headerRowHeight); err != nil {
		return err
	}

	w := &sheetWriter{f: f, row: 1}
	for i, header := range workbookHeaders {
		if err := w.set(i+1, header, st.header); err != nil {
			return err
		}
	}
	w.row++

	summary := Summarize(items, rate)
	for _, category := range summary.Categories {
		if err := w.fill(st.subheader, map[int]any{1: category.Name}); err != nil {
			return err
		}
		w.row++

		i := 0
		for _, it := range items {
			if strings.TrimSpace(it.Category) != category.Name {
				continue
			}
			left := textutil.Ternary(i%2 == 0, st.data, st.alternate)
			right := textutil.Ternary(i%2 == 0, st.dataRight, st.altRight)
			i++

			desc := estimate.CleanDescription(it.Description)
			if h := descriptionHeight(desc); h > 0 {
				if err := f.SetRowHeight(SheetName, w.row, h); err != nil {
					return err
				}
			}
			cells := []struct {
				value any
				style int
			}{
				{"", left}, {it.Room, left}, {it.ItemName, left}, {desc, left},
				{it.Quantity, right}, {it.UnitCost, right}, {it.Markup, right},
				{FormatMoney(it.TotalValue()), right}, {it.Confidence, right},
			}
			for col, c := range cells {
				if err := w.set(col+1, c.value, c.style); err != nil {
					return err
				}
			}
			w.row++
		}

		if category.Total > 0 {
			if err := w.fill(st.total, map[int]any{1: "Total", 8: FormatMoney(category.Total)}); err != nil {
				return err
			}
			w.row++
			if err := w.fill(st.data, nil); err != nil {
				return err
			}
			w.row++
		}
		w.row++
	}

	if summary.Subtotal <= 0 {
		return nil
	}
	closing := []struct {
		label string
		value float64
		style int
	}{
		{"Overall Subtotal", summary.Subtotal, st.total},
		{ConditionsLabel(rate), summary.Conditions, st.total},
		{"GRAND TOTAL", summary.GrandTotal, st.grandTotal},
	}
	for _, line := range closing {
		if err := w.fill(line.style, map[int]any{1: line.label, 8: FormatMoney(line.value)}); err != nil {
			return err
		}
		w.row++
	}
	return nil
}

// WriteWorkbook renders items to an XLSX file at path.
func WriteWorkbook(path string, items []estimate.Item, rate float64) error {
	f, err := BuildWorkbook(items, rate)
	if err != nil {
		return err
	}
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes())
}
