package chunking

import (
	"path/filepath"
	"strings"

	"renoquote/internal/tokens"
)

const charsPerToken = 4

// Strategy names a split algorithm.
type Strategy string

const (
	StrategyTranscript Strategy = "transcript"
	StrategyTakeoff    Strategy = "takeoff"
)

// Options bounds chunk sizes in tokens.
type Options struct {
	MaxTokens     int
	OverlapTokens int
}

// StrategyFor picks the takeoff strategy for files whose name mentions a
// takeoff and the transcript strategy otherwise.
func StrategyFor(path string) Strategy {
	if strings.Contains(strings.ToLower(filepath.Base(path)), "takeoff") {
		return StrategyTakeoff
	}
	return StrategyTranscript
}

// SplitWith dispatches to the split function for strategy.
func SplitWith(strategy Strategy, text string, opts Options, counter tokens.Counter) []string {
	if strategy == StrategyTakeoff {
		return SplitTakeoff(text, opts)
	}
	return Split(text, opts, counter)
}

var sentenceEndings = []string{". ", "! ", "? ", "\n\n"}

// Split divides transcript text into chunks of roughly opts.MaxTokens tokens.
// Text that already fits is returned whole. Each window is cut just after the
// first ending in sentenceEndings whose last occurrence lies past 70% of the
// window; the next window starts OverlapTokens before the cut but always after
// the previous start.
func Split(text string, opts Options, counter tokens.Counter) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if counter == nil {
		counter = tokens.Heuristic{}
	}
	if opts.MaxTokens <= 0 || counter.Count(text) <= opts.MaxTokens {
		return []string{text}
	}

	runes := []rune(text)
	window := opts.MaxTokens * charsPerToken
	overlap := max(opts.OverlapTokens, 0) * charsPerToken

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + window
		if end >= len(runes) {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}
		segment := runes[start:end]
		for _, ending := range sentenceEndings {
			idx := lastIndexRunes(segment, []rune(ending))
			if float64(idx) > float64(len(segment))*0.7 {
				end = start + idx + len([]rune(ending))
				break
			}
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

// SplitTakeoff divides takeoff text into non-overlapping windows of
// opts.MaxTokens tokens, preferring to cut after '.', '!' or '?' within the
// last 200 characters of a window, then after a newline within the last 100.
func SplitTakeoff(text string, opts Options) []string {
	runes := []rune(text)
	window := max(opts.MaxTokens, 1) * charsPerToken

	var chunks []string
	start := 0
	for start < len(runes) {
		limit := min(start+window, len(runes))
		end := limit
		if end < len(runes) {
			for i := end; i > max(start, end-200); i-- {
				if strings.ContainsRune(".!?", runes[i]) {
					end = i + 1
					break
				}
			}
			if end == limit {
				for i := end; i > max(start, end-100); i-- {
					if runes[i] == '\n' {
						end = i + 1
						break
					}
				}
			}
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		start = end
	}
	return chunks
}

func lastIndexRunes(haystack, needle []rune) int {
	for i := len(haystack) - len(needle); i >= 0; i-- {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
