package aggregate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"renoquote/internal/estimate"
	"renoquote/internal/services"
)

func writeOutput(t *testing.T, dir string, index int, body string) {
	t.Helper()
	if err := os.WriteFile(OutputPath(dir, index), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunMergesOutputsInNumericOrder(t *testing.T) {
	dir := t.TempDir()
	writeOutput(t, dir, 10, "```json\n{\"sections\":[{\"name\":\"Doors\",\"items\":[{\"room\":\"Entry\",\"scope_item\":\"Entry door\"}]}]}\n```")
	writeOutput(t, dir, 2, "```json\n{\"sections\":[{\"name\":\"Tile\",\"items\":[{\"room\":\"Bath\",\"scope_item\":\"Floor tile\"},{\"room\":\"Bath\",\"scope_item\":\"Wall tile\"}]}]}\n```")
	writeOutput(t, dir, 1, "```json\n{\"sections\":[{\"name\":\"Tile\",\"items\":[{\"room\":\"Bath\",\"scope_item\":\"Floor tile\",\"subtotal\":\"900\"}]}]}\n```")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Files != 3 || result.Duplicates != 1 {
		t.Fatalf("result = %+v", result)
	}
	names := []string{}
	for _, item := range result.Items {
		names = append(names, item.ItemName)
	}
	want := []string{"Floor tile", "Wall tile", "Entry door"}
	if len(names) != len(want) {
		t.Fatalf("items = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("items = %v, want %v", names, want)
		}
	}
	if result.Items[0].Total != "900" {
		t.Fatalf("first occurrence should win, got total %q", result.Items[0].Total)
	}

	items, err := estimate.ReadCSV(result.CSVPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(items) != 3 || items[2].MarkupType != "%" {
		t.Fatalf("csv items = %+v", items)
	}
}

func TestRunWithoutOutputs(t *testing.T) {
	_, err := Run(context.Background(), t.TempDir(), nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRunWithoutItems(t *testing.T) {
	dir := t.TempDir()
	writeOutput(t, dir, 1, "I'm unable to provide an estimate.")
	_, err := Run(context.Background(), dir, nil)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, OutputFileName)); !os.IsNotExist(statErr) {
		t.Fatal("aggregated csv should not be written without items")
	}
}
