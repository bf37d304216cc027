package pricing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"renoquote/internal/estimate"
	"renoquote/internal/services"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "master.csv", "\ufeffItem Code,Category,Description,Size/Type,Unit,Labor,Material\n"+
		"D-100,Demolition,Full gut,Apartment,SF,12.50,N/A\n"+
		"T-200,Tile,Floor tile,12x24,SF,\"1,200\",TBD\n"+
		",Tile,Wall tile,3x6,SF,9,4\n")

	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if len(catalog.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(catalog.Entries))
	}
	first := catalog.Entries[0]
	if first.Code != "D-100" || first.Labor != 12.5 || first.Material != 0 {
		t.Fatalf("first entry = %+v", first)
	}
	if catalog.Entries[1].Labor != 1200 {
		t.Fatalf("labor with separator = %v, want 1200", catalog.Entries[1].Labor)
	}
	if got := strings.Join(catalog.Sections(), ","); got != "Demolition,Tile" {
		t.Fatalf("sections = %q", got)
	}
	codes := catalog.Codes()
	if len(codes) != 2 {
		t.Fatalf("codes = %v, want 2", codes)
	}
	if _, ok := codes["T-200"]; !ok {
		t.Fatal("missing code T-200")
	}
}

func TestLoadCatalogMissing(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestNilCatalogUsesDefaultSections(t *testing.T) {
	var catalog *Catalog
	if got := catalog.Sections(); len(got) != len(DefaultSections) || got[0] != "Demolition" {
		t.Fatalf("sections = %v", got)
	}
	if len(catalog.Codes()) != 0 {
		t.Fatal("nil catalog should have no codes")
	}
}

func TestLoadSectionMinimums(t *testing.T) {
	path := writeFile(t, t.TempDir(), "minimums.csv", "Section,Markup,Minimum\n"+
		"Demolition,35%,$1500\n"+
		",10%,$0\n"+
		"Tile,40%,$2000\n")
	mins, err := LoadSectionMinimums(path)
	if err != nil {
		t.Fatalf("LoadSectionMinimums: %v", err)
	}
	if got := strings.Join(SectionNames(mins), ","); got != "Demolition,Tile" {
		t.Fatalf("sections = %q", got)
	}
	if mins[1].Values["Minimum"] != "$2000" || mins[1].Values["Markup"] != "40%" {
		t.Fatalf("tile values = %v", mins[1].Values)
	}
	if _, ok := mins[0].Values["Section"]; ok {
		t.Fatal("section column should not be repeated in values")
	}
}

func TestCheckSections(t *testing.T) {
	items := []estimate.Item{
		{Category: "Tile"},
		{Category: "Plumbing Fixtures"},
		{Category: "Plumbing Fixtures"},
		{Category: "Misc"},
	}
	issues := CheckSections(items, []string{"Demolition", "Electrical", "Plumbing", "Tile"})
	if len(issues) != 2 {
		t.Fatalf("issues = %+v, want 2", issues)
	}
	if issues[0].Category != "Misc" || issues[0].Suggestion != "" || issues[0].Items != 1 {
		t.Fatalf("first issue = %+v", issues[0])
	}
	if issues[1].Category != "Plumbing Fixtures" || issues[1].Suggestion != "Plumbing" || issues[1].Items != 2 {
		t.Fatalf("second issue = %+v", issues[1])
	}
}

func TestReferenceAttachments(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeFile(t, dir, "minimums.csv", "Section,Minimum\nTile,$2000\n")

	ref := Reference(csvPath)
	if ref.Name != "minimums.csv" || !strings.Contains(ref.Content, "| Tile | $2000 |") {
		t.Fatalf("reference = %+v", ref)
	}

	table, err := Cheatsheet(csvPath)
	if err != nil || table == nil {
		t.Fatalf("Cheatsheet = %v, %v", table, err)
	}
	if !strings.HasPrefix(table.Markdown, "| Section | Minimum |\n| --- | --- |\n") {
		t.Fatalf("cheatsheet markdown = %q", table.Markdown)
	}
	if table, err := Cheatsheet(filepath.Join(dir, "absent.csv")); table != nil || err != nil {
		t.Fatalf("absent cheatsheet = %v, %v", table, err)
	}

	if _, err := SampleScopes([]string{csvPath, filepath.Join(dir, "absent.csv")}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("SampleScopes err = %v, want ErrNotFound", err)
	}
	tables, err := SampleScopes([]string{csvPath})
	if err != nil || len(tables) != 1 {
		t.Fatalf("SampleScopes = %v, %v", tables, err)
	}
}
