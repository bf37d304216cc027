package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"renoquote/internal/services"
)

func TestExtractTranscriptJSONSections(t *testing.T) {
	payload := `{
		"summary": "Kitchen and bath refresh",
		"action_items": [{"text": "Send pricing"}, {"text": "Schedule walk-through"}],
		"key_questions": [{"text": "Keep the radiators?"}],
		"topics": [{"text": "Tile"}, {"text": "Cabinets"}],
		"chapter_summaries": [
			{"title": "Intro", "description": "Scope overview", "topics": ["kitchen", "bath"]},
			{"title": "Budget", "description": "Ranges"}
		],
		"transcript": {"speaker_blocks": [
			{"speaker": {"name": "Dana"}, "words": "We want to gut the bathroom."},
			{"speaker": {}, "words": "Understood."},
			{"speaker": {"name": "Dana"}, "words": "   "}
		]}
	}`
	got, err := ExtractTranscriptJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ExtractTranscriptJSON: %v", err)
	}
	want := strings.Join([]string{
		"SUMMARY: Kitchen and bath refresh",
		"ACTION ITEMS: Send pricing; Schedule walk-through",
		"KEY QUESTIONS: Keep the radiators?",
		"TOPICS: Tile; Cabinets",
		"CHAPTER 1: Intro - Scope overview Topics: kitchen, bath",
		"CHAPTER 2: Budget - Ranges",
		"TRANSCRIPT EXCERPT:\nDana: We want to gut the bathroom.\nUnknown: Understood.",
	}, "\n\n")
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestExtractTranscriptJSONArrayUsesFirstElement(t *testing.T) {
	got, err := ExtractTranscriptJSON([]byte(`[{"summary": "first"}, {"summary": "second"}]`))
	if err != nil {
		t.Fatalf("ExtractTranscriptJSON: %v", err)
	}
	if got != "SUMMARY: first" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractTranscriptJSONMalformed(t *testing.T) {
	_, err := ExtractTranscriptJSON([]byte(`{"summary": `))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractTranscriptJSONTolerantValues(t *testing.T) {
	payload := `{
		"summary": 42,
		"action_items": ["call plumber", {"text": "order tile"}, 7, null],
		"key_questions": "Permit needed?",
		"topics": [{"text": true}],
		"chapter_summaries": [{"title": 1, "description": {"room":"attic"}, "topics": ["insulation", 3]}],
		"transcript": {"speaker_blocks": [
			{"speaker": {"name": null}, "words": 12.5},
			{"speaker": {"name": "Sam"}, "words": "Done."}
		]}
	}`
	got, err := ExtractTranscriptJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ExtractTranscriptJSON: %v", err)
	}
	want := strings.Join([]string{
		"SUMMARY: 42",
		"ACTION ITEMS: call plumber; order tile; 7",
		"KEY QUESTIONS: Permit needed?",
		"TOPICS: true",
		`CHAPTER 1: 1 - {"room":"attic"} Topics: insulation, 3`,
		"TRANSCRIPT EXCERPT:\nUnknown: 12.5\nSam: Done.",
	}, "\n\n")
	if got != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", got, want)
	}
}

func TestSampleBlocksLongTranscript(t *testing.T) {
	blocks := make([]speakerBlock, 200)
	for i := range blocks {
		blocks[i].Words = scalar(fmt.Sprintf("b%d", i))
	}
	sampled := sampleBlocks(blocks)
	// 40 opening + 20 from index 50 + 20 from index 150 + 40 closing
	if len(sampled) != 120 {
		t.Fatalf("len(sampled) = %d, want 120", len(sampled))
	}
	checks := map[int]string{0: "b0", 39: "b39", 40: "b50", 60: "b150", 80: "b160", 119: "b199"}
	for idx, want := range checks {
		if string(sampled[idx].Words) != want {
			t.Errorf("sampled[%d] = %q, want %q", idx, sampled[idx].Words, want)
		}
	}
	if got := sampleBlocks(blocks[:100]); len(got) != 100 {
		t.Fatalf("short transcripts must not be sampled, got %d", len(got))
	}
}

func TestExtractTranscriptJSONTruncates(t *testing.T) {
	payload := fmt.Sprintf(`{"summary": %q}`, strings.Repeat("a", 60000))
	got, err := ExtractTranscriptJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ExtractTranscriptJSON: %v", err)
	}
	if !strings.HasSuffix(got, truncationNotice) {
		t.Fatal("expected truncation notice")
	}
	if len(got) != maxTranscriptChars+len(truncationNotice) {
		t.Fatalf("len = %d", len(got))
	}
}

func TestCSVToMarkdown(t *testing.T) {
	got, err := CSVToMarkdown(strings.NewReader("Section,Markup,Minimum\nTile,35%,\"$1,500\"\n"))
	if err != nil {
		t.Fatalf("CSVToMarkdown: %v", err)
	}
	want := "| Section | Markup | Minimum |\n| --- | --- | --- |\n| Tile | 35% | $1,500 |\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	empty, err := CSVToMarkdown(strings.NewReader(""))
	if err != nil || empty != "" {
		t.Fatalf("empty csv = %q, %v", empty, err)
	}
}

func TestExtractFileDispatch(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txt, []byte("plain notes"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ExtractFile(txt)
	if err != nil || got != "plain notes" {
		t.Fatalf("ExtractFile(txt) = %q, %v", got, err)
	}

	jsonPath := filepath.Join(dir, "call.json")
	if err := os.WriteFile(jsonPath, []byte(`{"summary":"gut bath"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = ExtractFile(jsonPath)
	if err != nil || got != "SUMMARY: gut bath" {
		t.Fatalf("ExtractFile(json) = %q, %v", got, err)
	}

	if _, err := ExtractFile(filepath.Join(dir, "scope.docx")); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for docx, got %v", err)
	}
	if _, err := ExtractFile(filepath.Join(dir, "missing.txt")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestExtractPDFRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ExtractPDF(path); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReferenceTextPlaceholders(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "scan.pdf")
	if got := ReferenceText(missing); !strings.Contains(got, "extraction failed") {
		t.Fatalf("missing pdf placeholder = %q", got)
	}
	if got := ReferenceText(filepath.Join(dir, "scope.docx")); !strings.HasPrefix(got, "[Unsupported file:") {
		t.Fatalf("unsupported placeholder = %q", got)
	}
	csvPath := filepath.Join(dir, "pricing.csv")
	if err := os.WriteFile(csvPath, []byte("Item Code,Price\nT-1,12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := ReferenceText(csvPath); !strings.HasPrefix(got, "| Item Code | Price |") {
		t.Fatalf("csv reference = %q", got)
	}
}
