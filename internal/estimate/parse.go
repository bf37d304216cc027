package estimate

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fencedJSONPattern = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// ParseMode reports which strategy produced a parse result.
type ParseMode string

const (
	ParseFenced ParseMode = "fenced_json"
	ParseBraces ParseMode = "braced_json"
	ParseLines  ParseMode = "line_fallback"
)

// ParseResponse extracts items from a model response. It tries a ```json
// fenced block, then the span from the first '{' to the last '}', and finally
// a line scanner over "Category:", "Item:" and similar markers.
func ParseResponse(content string) ([]Item, ParseMode) {
	if m := fencedJSONPattern.FindStringSubmatch(content); m != nil {
		var resp response
		if err := json.Unmarshal([]byte(m[1]), &resp); err == nil {
			return resp.items(), ParseFenced
		}
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		var resp response
		if err := json.Unmarshal([]byte(content[start:end+1]), &resp); err == nil {
			return resp.items(), ParseBraces
		}
	}
	return parseLines(content), ParseLines
}

func parseLines(content string) []Item {
	var (
		items   []Item
		current Item
		hasCat  bool
		hasName bool
	)
	flush := func() {
		if hasCat && hasName {
			items = append(items, current)
		}
	}
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		switch {
		case strings.Contains(line, "Category:") || strings.Contains(line, "Item:") || strings.Contains(line, "Description:"):
			if hasCat && hasName {
				flush()
				current, hasCat, hasName = Item{}, false, false
			}
			switch {
			case strings.Contains(line, "Category:"):
				current.Category = after(line, "Category:")
				hasCat = true
			case strings.Contains(line, "Item:"):
				current.ItemName = after(line, "Item:")
				hasName = true
			default:
				current.Description = CleanDescription(after(line, "Description:"))
			}
		case strings.Contains(line, "Room:"):
			current.Room = after(line, "Room:")
		case strings.Contains(line, "Quantity:"):
			current.Quantity = after(line, "Quantity:")
		case strings.Contains(line, "Unit:"):
			current.Notes = "unit: " + after(line, "Unit:")
		case strings.Contains(line, "Price:"):
			current.UnitCost = after(line, "Price:")
		}
	}
	flush()
	return items
}

// after returns the trimmed text between the first marker and any following
// repeat of it.
func after(line, marker string) string {
	parts := strings.SplitN(line, marker, 3)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
