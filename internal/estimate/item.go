package estimate

import (
	"strconv"
	"strings"

	"renoquote/internal/textutil"
)

// Columns is the canonical CSV header for line items.
var Columns = []string{
	"Category", "Room", "ItemName", "Description", "Quantity",
	"UnitCost", "Markup", "MarkupType", "Total", "Confidence",
}

// Item is one priced scope line.
type Item struct {
	Category    string `json:"category"`
	Room        string `json:"room"`
	ItemName    string `json:"item_name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitCost    string `json:"unit_cost"`
	Markup      string `json:"markup"`
	MarkupType  string `json:"markup_type"`
	Total       string `json:"total"`
	Confidence  string `json:"confidence"`
	// Notes records provenance added by cleanup; it is not written to CSV.
	Notes string `json:"notes,omitempty"`
}

// Key identifies an item for exact-repeat detection across chunk outputs.
func (it Item) Key() string {
	return it.Category + "|" + it.Room + "|" + it.ItemName
}

// Record returns the item's values in Columns order.
func (it Item) Record() []string {
	return []string{
		it.Category, it.Room, it.ItemName, it.Description, it.Quantity,
		it.UnitCost, it.Markup, it.MarkupType, it.Total, it.Confidence,
	}
}

// ConfidenceValue parses Confidence after removing any percent sign. Values
// that do not parse count as zero.
func (it Item) ConfidenceValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(it.Confidence, "%", "")), 64)
	if err != nil {
		return 0
	}
	return v
}

// TotalValue parses Total after removing currency symbols, separators and
// quotes. Values that do not parse count as zero.
func (it Item) TotalValue() float64 {
	return ParseAmount(it.Total)
}

var amountReplacer = strings.NewReplacer(",", "", "$", "", `"`, "", "'", "")

// ParseAmount parses a money string such as "$1,250.00". Failures yield zero.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(amountReplacer.Replace(raw)), 64)
	if err != nil {
		return 0
	}
	return v
}

// CleanDescription collapses runs of whitespace and line breaks into single
// spaces.
func CleanDescription(text string) string {
	return textutil.CollapseWhitespace(text)
}
