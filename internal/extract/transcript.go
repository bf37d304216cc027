package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"renoquote/internal/services"
)

const (
	maxTranscriptChars = 50000
	sampleThreshold    = 100
	truncationNotice   = "\n\n[Content truncated for processing]"
)

type chapterSummary struct {
	Title       scalar   `json:"title"`
	Description scalar   `json:"description"`
	Topics      textList `json:"topics"`
}

type speakerBlock struct {
	Speaker *struct {
		Name scalar `json:"name"`
	} `json:"speaker"`
	Words scalar `json:"words"`
}

type meetingNotes struct {
	Summary          scalar           `json:"summary"`
	ActionItems      textList         `json:"action_items"`
	KeyQuestions     textList         `json:"key_questions"`
	Topics           textList         `json:"topics"`
	ChapterSummaries []chapterSummary `json:"chapter_summaries"`
	Transcript       *struct {
		SpeakerBlocks []speakerBlock `json:"speaker_blocks"`
	} `json:"transcript"`
}

// ExtractTranscriptJSON flattens a meeting-notes JSON payload into labelled
// text sections. Arrays are accepted and their first element is used.
func ExtractTranscriptJSON(data []byte) (string, error) {
	notes, err := decodeNotes(data)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "extract", "decode transcript json", "Transcript JSON is malformed", err)
	}

	var parts []string
	if notes.Summary != "" {
		parts = append(parts, "SUMMARY: "+string(notes.Summary))
	}
	if len(notes.ActionItems) > 0 {
		parts = append(parts, "ACTION ITEMS: "+joinText(notes.ActionItems))
	}
	if len(notes.KeyQuestions) > 0 {
		parts = append(parts, "KEY QUESTIONS: "+joinText(notes.KeyQuestions))
	}
	if len(notes.Topics) > 0 {
		parts = append(parts, "TOPICS: "+joinText(notes.Topics))
	}
	for i, chapter := range notes.ChapterSummaries {
		line := fmt.Sprintf("CHAPTER %d: %s - %s", i+1, chapter.Title, chapter.Description)
		if len(chapter.Topics) > 0 {
			line += " Topics: " + joinTopics(chapter.Topics)
		}
		parts = append(parts, line)
	}
	if notes.Transcript != nil {
		var lines []string
		for _, block := range sampleBlocks(notes.Transcript.SpeakerBlocks) {
			if strings.TrimSpace(string(block.Words)) == "" {
				continue
			}
			lines = append(lines, speakerName(block)+": "+string(block.Words))
		}
		if len(lines) > 0 {
			parts = append(parts, "TRANSCRIPT EXCERPT:\n"+strings.Join(lines, "\n"))
		}
	}

	combined := strings.Join(parts, "\n\n")
	if runes := []rune(combined); len(runes) > maxTranscriptChars {
		combined = string(runes[:maxTranscriptChars]) + truncationNotice
	}
	return combined, nil
}

func decodeNotes(data []byte) (meetingNotes, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var list []meetingNotes
		if err := json.Unmarshal(data, &list); err != nil {
			return meetingNotes{}, err
		}
		if len(list) == 0 {
			return meetingNotes{}, nil
		}
		return list[0], nil
	}
	var notes meetingNotes
	err := json.Unmarshal(data, &notes)
	return notes, err
}

func joinText(entries textList) string {
	return strings.Join(entryTexts(entries), "; ")
}

func joinTopics(entries textList) string {
	return strings.Join(entryTexts(entries), ", ")
}

func entryTexts(entries textList) []string {
	values := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Text == "" {
			continue
		}
		values = append(values, string(entry.Text))
	}
	return values
}

func speakerName(block speakerBlock) string {
	if block.Speaker == nil || block.Speaker.Name == "" {
		return "Unknown"
	}
	return string(block.Speaker.Name)
}

// sampleBlocks keeps long transcripts bounded: the opening fifth, twenty
// blocks from each of the quarter marks, and the closing fifth.
func sampleBlocks(blocks []speakerBlock) []speakerBlock {
	n := len(blocks)
	if n <= sampleThreshold {
		return blocks
	}
	edge := max(10, n/5)
	midStart := n / 4
	midEnd := 3 * n / 4

	sampled := make([]speakerBlock, 0, 2*edge+40)
	sampled = append(sampled, blocks[:min(edge, n)]...)
	sampled = append(sampled, blocks[midStart:min(midStart+20, n)]...)
	sampled = append(sampled, blocks[midEnd:min(midEnd+20, n)]...)
	sampled = append(sampled, blocks[n-min(edge, n):]...)
	return sampled
}
