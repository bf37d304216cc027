package chunking

import (
	"strings"
	"unicode/utf8"

	"renoquote/internal/tokens"
)

// Group is an ordered set of chunks sent together in one estimation request.
type Group struct {
	Index  int
	Chunks []string
}

// Text joins the group's chunks with blank lines.
func (g Group) Text() string {
	return strings.Join(g.Chunks, "\n\n")
}

// Chars returns the total character count of the group's chunks.
func (g Group) Chars() int {
	return TotalChars(g.Chunks)
}

// TotalChars sums the character counts of chunks.
func TotalChars(chunks []string) int {
	total := 0
	for _, chunk := range chunks {
		total += utf8.RuneCountInString(chunk)
	}
	return total
}

// GroupChunks packs chunks in order, starting a new group when the running
// token count plus the next chunk and promptTokens would exceed maxTokens.
// A chunk larger than the budget still forms its own group. Group indexes
// start at 1.
func GroupChunks(chunks []string, maxTokens, promptTokens int, counter tokens.Counter) []Group {
	if counter == nil {
		counter = tokens.Heuristic{}
	}
	var (
		groups  []Group
		current []string
		used    int
	)
	for _, chunk := range chunks {
		n := counter.Count(chunk)
		if used+n+promptTokens > maxTokens && len(current) > 0 {
			groups = append(groups, Group{Index: len(groups) + 1, Chunks: current})
			current = []string{chunk}
			used = n
			continue
		}
		current = append(current, chunk)
		used += n
	}
	if len(current) > 0 {
		groups = append(groups, Group{Index: len(groups) + 1, Chunks: current})
	}
	return groups
}

// GroupedChars sums the character counts of every group.
func GroupedChars(groups []Group) int {
	total := 0
	for _, g := range groups {
		total += g.Chars()
	}
	return total
}
