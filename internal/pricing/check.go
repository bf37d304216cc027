package pricing

import (
	"sort"

	"renoquote/internal/estimate"
	"renoquote/internal/textutil"
)

// suggestionThreshold is the minimum cosine similarity for a section hint.
const suggestionThreshold = 0.3

// SectionIssue reports an estimate category that is not a valid section.
type SectionIssue struct {
	Category   string
	Items      int
	Suggestion string
}

// CheckSections returns one issue per category absent from valid, ordered
// by category name. Each issue carries the closest valid section when one is
// similar enough.
func CheckSections(items []estimate.Item, valid []string) []SectionIssue {
	allowed := make(map[string]struct{}, len(valid))
	prints := make([]*textutil.Fingerprint, len(valid))
	for i, section := range valid {
		allowed[section] = struct{}{}
		prints[i] = textutil.NewFingerprint(section)
	}

	counts := make(map[string]int)
	for _, it := range items {
		if _, ok := allowed[it.Category]; ok {
			continue
		}
		counts[it.Category]++
	}

	issues := make([]SectionIssue, 0, len(counts))
	for category, n := range counts {
		issue := SectionIssue{Category: category, Items: n}
		fp := textutil.NewFingerprint(category)
		best := suggestionThreshold
		for i, section := range valid {
			if score := textutil.CosineSimilarity(fp, prints[i]); score >= best {
				best = score
				issue.Suggestion = section
			}
		}
		issues = append(issues, issue)
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Category < issues[j].Category })
	return issues
}
