package estimate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fencedResponse = "Here is the estimate:\n```json\n" + `{
  "sections": [
    {"name": "Tile", "items": [
      {"room": "Primary Bathroom", "scope_item": "Floor tile", "description": "Install porcelain\n  floor tile",
       "quantity": 60, "unit_cost": "$14.00", "markup": "35%", "subtotal": 1134.0, "confidence_score": 90}
    ]},
    {"name": "Plumbing", "items": [
      {"room": "Kitchen", "scope_item": "Sink hookup", "description": "Connect sink", "quantity": "1 UNIT",
       "unit_cost": "$450", "markup": null, "subtotal": "", "confidence_score": "80%"}
    ]}
  ]
}` + "\n```\nLet me know."

func TestParseResponseFenced(t *testing.T) {
	items, mode := ParseResponse(fencedResponse)
	if mode != ParseFenced {
		t.Fatalf("mode = %s, want %s", mode, ParseFenced)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	first := items[0]
	want := Item{
		Category: "Tile", Room: "Primary Bathroom", ItemName: "Floor tile",
		Description: "Install porcelain floor tile", Quantity: "60", UnitCost: "$14.00",
		Markup: "35%", MarkupType: "%", Total: "1134.0", Confidence: "90",
	}
	if first != want {
		t.Fatalf("first item = %+v\nwant %+v", first, want)
	}
	if items[1].Markup != "" || items[1].ConfidenceValue() != 80 {
		t.Fatalf("second item = %+v", items[1])
	}
}

func TestParseResponseBraces(t *testing.T) {
	content := `Sure! {"sections": [{"name": "Demolition", "items": [{"room": "Kitchen", "scope_item": "Gut kitchen"}]}]} Thanks.`
	items, mode := ParseResponse(content)
	if mode != ParseBraces || len(items) != 1 || items[0].ItemName != "Gut kitchen" {
		t.Fatalf("ParseResponse = %+v, %s", items, mode)
	}
}

func TestParseResponseLineFallback(t *testing.T) {
	content := strings.Join([]string{
		"Category: Electrical",
		"Item: Add GFI outlets",
		"Room: Kitchen",
		"Quantity: 4",
		"Price: $120",
		"Category: Painting",
		"Description: Paint   walls",
		"Item: Paint walls",
		"Category: Orphan",
	}, "\n")
	items, mode := ParseResponse(content)
	if mode != ParseLines {
		t.Fatalf("mode = %s", mode)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items: %+v", len(items), items)
	}
	if items[0].Category != "Electrical" || items[0].Room != "Kitchen" || items[0].Quantity != "4" || items[0].UnitCost != "$120" {
		t.Fatalf("first item = %+v", items[0])
	}
	if items[1].ItemName != "Paint walls" || items[1].Description != "Paint walls" {
		t.Fatalf("second item = %+v", items[1])
	}
}

func TestParseResponseNothing(t *testing.T) {
	items, _ := ParseResponse("I'm unable to help with that.")
	if len(items) != 0 {
		t.Fatalf("expected no items, got %+v", items)
	}
}

func TestValueHelpers(t *testing.T) {
	tests := []struct {
		item       Item
		confidence float64
		total      float64
	}{
		{Item{Confidence: "85%", Total: "$1,250.50"}, 85, 1250.5},
		{Item{Confidence: " 92 ", Total: `"300"`}, 92, 300},
		{Item{Confidence: "high", Total: "321 * 6"}, 0, 0},
		{Item{}, 0, 0},
	}
	for _, tt := range tests {
		if got := tt.item.ConfidenceValue(); got != tt.confidence {
			t.Errorf("ConfidenceValue(%q) = %v, want %v", tt.item.Confidence, got, tt.confidence)
		}
		if got := tt.item.TotalValue(); got != tt.total {
			t.Errorf("TotalValue(%q) = %v, want %v", tt.item.Total, got, tt.total)
		}
	}
}

func TestReadCSVSkipsHeaderAndBlankRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	data := "Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence\n" +
		"Tile,Bath,Floor tile,Porcelain,60,$14,35%,%,1134,90\n" +
		"Tile,,,,,,,,,\n" +
		"Category,Room,ItemName,Description,Quantity,UnitCost,Markup,MarkupType,Total,Confidence\n" +
		",,,,,,,,1134.00,\n" +
		"Doors,Entry,Entry door,\"Replace, paint\",1,$900,35%,%,1215,70\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2: %+v", len(items), items)
	}
	if items[1].Description != "Replace, paint" || items[1].Key() != "Doors|Entry|Entry door" {
		t.Fatalf("second item = %+v", items[1])
	}
}

func TestRecordMatchesColumns(t *testing.T) {
	if got := len((Item{}).Record()); got != len(Columns) {
		t.Fatalf("record has %d fields, want %d", got, len(Columns))
	}
}
