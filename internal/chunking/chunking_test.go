package chunking

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"renoquote/internal/tokens"
)

func sentences() string {
	return strings.Repeat("a", 30) + ". " + strings.Repeat("b", 30) + ". " + strings.Repeat("c", 30)
}

func TestSplitEmptyAndSmall(t *testing.T) {
	if got := Split("   \n", Options{MaxTokens: 10}, tokens.Heuristic{}); got != nil {
		t.Fatalf("blank text = %v, want nil", got)
	}
	text := "  Replace vanity.  "
	got := Split(text, Options{MaxTokens: 100}, tokens.Heuristic{})
	if len(got) != 1 || got[0] != text {
		t.Fatalf("small text = %q, want single untouched chunk", got)
	}
}

func TestSplitCutsAtSentenceEndings(t *testing.T) {
	got := Split(sentences(), Options{MaxTokens: 10}, tokens.Heuristic{})
	want := []string{
		strings.Repeat("a", 30) + ".",
		strings.Repeat("b", 30) + ".",
		strings.Repeat("c", 30),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSplitOverlapsChunks(t *testing.T) {
	got := Split(sentences(), Options{MaxTokens: 10, OverlapTokens: 2}, tokens.Heuristic{})
	if len(got) != 3 {
		t.Fatalf("got %d chunks %q, want 3", len(got), got)
	}
	if !strings.HasPrefix(got[1], "aaaaaa. b") {
		t.Errorf("second chunk should overlap the first, got %q", got[1])
	}
	if !strings.HasPrefix(got[2], "bbbbbb. c") {
		t.Errorf("third chunk should overlap the second, got %q", got[2])
	}
}

func TestSplitOverlapLargerThanWindowStillProgresses(t *testing.T) {
	text := strings.Repeat("word ", 400)
	got := Split(text, Options{MaxTokens: 10, OverlapTokens: 50}, tokens.Heuristic{})
	if len(got) == 0 || len(got) > 60 {
		t.Fatalf("unexpected chunk count %d", len(got))
	}
	for i, chunk := range got {
		if len([]rune(chunk)) > 40 {
			t.Fatalf("chunk %d exceeds window: %d", i, len(chunk))
		}
	}
}

func TestSplitTakeoff(t *testing.T) {
	text := strings.Repeat("a", 30) + "." + strings.Repeat("b", 20) + "\n" + strings.Repeat("c", 60)
	got := SplitTakeoff(text, Options{MaxTokens: 10})
	want := []string{
		strings.Repeat("a", 30) + ".",
		strings.Repeat("b", 20),
		strings.Repeat("c", 40),
		strings.Repeat("c", 20),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
	if SplitTakeoff("", Options{MaxTokens: 10}) != nil {
		t.Fatal("empty takeoff should yield no chunks")
	}
}

func TestStrategyFor(t *testing.T) {
	tests := map[string]Strategy{
		"/in/Kitchen_Takeoff.pdf":  StrategyTakeoff,
		"/in/call-transcript.json": StrategyTranscript,
		"takeoff/notes.txt":        StrategyTranscript,
	}
	for path, want := range tests {
		if got := StrategyFor(path); got != want {
			t.Errorf("StrategyFor(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGroupChunks(t *testing.T) {
	chunk := strings.Repeat("x", 40)
	big := strings.Repeat("y", 400)
	chunks := []string{chunk, chunk, chunk, big, chunk}
	groups := GroupChunks(chunks, 25, 5, tokens.Heuristic{})

	wantSizes := []int{2, 1, 1, 1}
	if len(groups) != len(wantSizes) {
		t.Fatalf("got %d groups, want %d", len(groups), len(wantSizes))
	}
	for i, g := range groups {
		if g.Index != i+1 {
			t.Errorf("group %d index = %d", i, g.Index)
		}
		if len(g.Chunks) != wantSizes[i] {
			t.Errorf("group %d has %d chunks, want %d", i+1, len(g.Chunks), wantSizes[i])
		}
	}
	if GroupedChars(groups) != TotalChars(chunks) {
		t.Fatalf("character totals differ: %d vs %d", GroupedChars(groups), TotalChars(chunks))
	}
	if groups[0].Text() != chunk+"\n\n"+chunk {
		t.Fatalf("group text = %q", groups[0].Text())
	}
}

func TestGroupChunksEmpty(t *testing.T) {
	if got := GroupChunks(nil, 100, 10, nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}

func TestWriteAndReadChunksNumericOrder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "transcript_chunks")
	chunks := make([]string, 11)
	for i := range chunks {
		chunks[i] = strings.Repeat(string(rune('a'+i)), 3)
	}
	paths, err := WriteChunks(dir, chunks)
	if err != nil {
		t.Fatalf("WriteChunks: %v", err)
	}
	if filepath.Base(paths[10]) != "chunk_11.txt" {
		t.Fatalf("unexpected path %s", paths[10])
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadChunks(dir)
	if err != nil {
		t.Fatalf("ReadChunks: %v", err)
	}
	if len(got) != len(chunks) {
		t.Fatalf("read %d chunks, want %d", len(got), len(chunks))
	}
	for i := range chunks {
		if got[i] != chunks[i] {
			t.Fatalf("chunk %d = %q, want %q", i, got[i], chunks[i])
		}
	}
}
