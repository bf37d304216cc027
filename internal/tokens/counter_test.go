package tokens

import (
	"strings"
	"testing"
)

func TestHeuristicCount(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"abc", 0},
		{"abcd", 1},
		{strings.Repeat("x", 4000), 1000},
	}
	for _, tt := range tests {
		if got := (Heuristic{}).Count(tt.text); got != tt.want {
			t.Errorf("Count(len=%d) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}

func TestNewCounterCountsWords(t *testing.T) {
	counter, exact := NewCounter("gpt-4o")
	if !exact {
		t.Skip("offline encoding unavailable")
	}
	if got := counter.Count(""); got != 0 {
		t.Fatalf("Count(empty) = %d, want 0", got)
	}
	got := counter.Count("Remove existing tile and install new porcelain floor.")
	if got < 5 || got > 20 {
		t.Fatalf("Count() = %d, want a plausible token count", got)
	}
}

func TestNewCounterUnknownModelFallsBack(t *testing.T) {
	counter, _ := NewCounter("not-a-real-model")
	if counter == nil {
		t.Fatal("expected a counter")
	}
	if counter.Count("kitchen cabinets") <= 0 {
		t.Fatal("expected positive count")
	}
}
