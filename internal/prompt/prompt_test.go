package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIsProcessHeavy(t *testing.T) {
	long := strings.Repeat("install new oak flooring in the hallway ", 40)
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"no keywords", "Gut the kitchen and replace the cabinets.", false},
		{"short with one keyword", "We still need the permit before demo.", true},
		{"long with one keyword", long + " permit", false},
		{"long with three keywords", long + " permit insurance board", true},
		{"case insensitive", "INSURANCE certificate for the CONDO board", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProcessHeavy(tt.text); got != tt.want {
				t.Fatalf("IsProcessHeavy() = %v, want %v (count %d)", got, tt.want, ProcessKeywordCount(tt.text))
			}
		})
	}
}

func TestIsRefusal(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"```json\n{\"sections\": []}\n```", false},
		{"I'm unable to help with that.", true},
		{"I cannot produce an estimate without measurements.", true},
		{"Please CONSULT A PROFESSIONAL.", true},
		{"Demolition of existing tile", false},
	}
	for _, tt := range tests {
		if got := IsRefusal(tt.text); got != tt.want {
			t.Errorf("IsRefusal(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestBuildUserPrompt(t *testing.T) {
	plain := BuildUserPrompt("chunk text", "INSTRUCTIONS", Flags{})
	if plain != "[TRANSCRIPT CHUNK]\nchunk text\n\nINSTRUCTIONS" {
		t.Fatalf("plain prompt = %q", plain)
	}

	both := BuildUserPrompt("chunk text", "INSTRUCTIONS", Flags{ProcessHeavy: true, Forceful: true})
	forceful := strings.Index(both, "**MANDATORY")
	process := strings.Index(both, "**NOTE")
	instructions := strings.Index(both, "INSTRUCTIONS")
	if forceful < 0 || process < 0 || !(forceful < process && process < instructions) {
		t.Fatalf("expected forceful, process note, instructions order; got %q", both)
	}
}

func TestAttachmentsAssemble(t *testing.T) {
	att := Attachments{
		Cheatsheet:   &Table{Name: "section_minimums.csv", Markdown: "| Section |\n| --- |\n"},
		SampleScopes: []Table{{Name: "bath.csv", Markdown: "| A |\n"}},
		Files: []Attachment{
			FileAttachment("/ref/master_pricing.pdf", "PRICES"),
			FileAttachment("/runs/x/polycam.pdf", "SCAN"),
		},
	}.WithTranscript("group_1.txt", "TRANSCRIPT")

	got := att.Assemble("USER")
	want := "USER" +
		"\n\nSection Markup and Minimums Cheatsheet (section_minimums.csv):\n| Section |\n| --- |\n" +
		"\n\nSample Scope Table 1 (bath.csv):\n| A |\n" +
		"\n\n" +
		"=== File 1 (master_pricing.pdf) ===\nPRICES\n\n" +
		"=== File 2 (polycam.pdf) ===\nSCAN\n\n" +
		"=== File 3 (group_1.txt) ===\nTRANSCRIPT\n\n"
	if got != want {
		t.Fatalf("Assemble() =\n%q\nwant\n%q", got, want)
	}
}

func TestWithTranscriptDoesNotAlias(t *testing.T) {
	base := Attachments{Files: make([]Attachment, 2, 4)}
	a := base.WithTranscript("a", "A")
	b := base.WithTranscript("b", "B")
	if a.Files[2].Name != "a" || b.Files[2].Name != "b" {
		t.Fatalf("transcript attachments share storage: %v %v", a.Files, b.Files)
	}
}

func TestSystemPrompt(t *testing.T) {
	if strings.Contains(SystemPrompt(false), "Polycam measurements unavailable") {
		t.Fatal("rule should be absent when scan is available")
	}
	if !strings.HasSuffix(SystemPrompt(true), "tag them as assumed.\n") {
		t.Fatal("expected inferred measurement rule")
	}
}

func TestScanUnavailable(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", true},
		{"short", true},
		{"[PDF content from scan.pdf - extraction failed: EOF]" + strings.Repeat(" pad", 20), true},
		{strings.Repeat("Kitchen 12' x 10' ", 5), false},
	}
	for _, tt := range tests {
		if got := ScanUnavailable(tt.text); got != tt.want {
			t.Errorf("ScanUnavailable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestLoadInstructions(t *testing.T) {
	got, err := LoadInstructions("")
	if err != nil || !strings.Contains(got, "scope_item") {
		t.Fatalf("default instructions = %q, %v", got, err)
	}

	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("custom"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = LoadInstructions(path)
	if err != nil || got != "custom" {
		t.Fatalf("LoadInstructions(file) = %q, %v", got, err)
	}

	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, []byte("  \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInstructions(empty); err == nil {
		t.Fatal("expected error for empty prompt file")
	}
}
