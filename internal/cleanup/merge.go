package cleanup

import (
	"sort"

	"renoquote/internal/estimate"
	"renoquote/internal/textutil"
)

type workType struct {
	name     string
	keywords []string
}

var workTypes = []workType{
	{"demolition", []string{"demolition", "demo", "gut", "remove", "tear out", "strip"}},
	{"electrical", []string{"electrical", "wiring", "outlet", "switch", "light", "panel", "rewiring"}},
	{"plumbing", []string{"plumbing", "plumb", "sink", "toilet", "shower", "tub", "fixture"}},
	{"cabinetry", []string{"cabinet", "cabinetry", "storage", "shelf", "drawer"}},
	{"countertop", []string{"countertop", "counter", "quartz", "marble", "granite", "surface"}},
	{"tile", []string{"tile", "tiling", "ceramic", "porcelain", "grout"}},
	{"flooring", []string{"flooring", "floor", "hardwood", "laminate", "vinyl"}},
	{"painting", []string{"paint", "painting", "primer", "coat", "finish"}},
	{"backsplash", []string{"backsplash", "back splash", "wall tile"}},
	{"trim", []string{"trim", "baseboard", "crown", "molding", "moulding"}},
	{"doors", []string{"door", "frame", "jamb", "hinge"}},
	{"waterproofing", []string{"waterproof", "water proof", "moisture", "seal"}},
	{"cleaning", []string{"clean", "cleaning", "post construction", "final clean"}},
	{"appliances", []string{"appliance", "oven", "range", "microwave", "dishwasher", "refrigerator"}},
}

// WorkType classifies an item's work by the first keyword family found in its
// normalized name and description, defaulting to "general".
func WorkType(it estimate.Item) string {
	text := combined(it)
	for _, wt := range workTypes {
		if textutil.ContainsAny(text, wt.keywords...) {
			return wt.name
		}
	}
	return "general"
}

// isWorkSubset reports whether candidate's work is already covered by kept.
func isWorkSubset(candidate, kept estimate.Item) bool {
	c, k := combined(candidate), combined(kept)
	switch {
	case textutil.ContainsAny(k, "full gut") && textutil.ContainsAny(c, "demolition", "remove", "gut"):
		return true
	case textutil.ContainsAny(k, "complete") && textutil.ContainsAny(c, "rewiring", "electrical", "plumbing"):
		return true
	case textutil.ContainsAny(k, "installation") && textutil.ContainsAny(c, "install", "put in", "set up"):
		return true
	}
	return false
}

// MergeOverlapping keeps one item per work type within each category and
// normalized room, preferring confident items with shorter descriptions, and
// drops work already covered by a broader kept item. Items missing a category
// or room are dropped.
func MergeOverlapping(items []estimate.Item) []estimate.Item {
	catOrder, byCategory := groupBy(items, category, true)
	var out []estimate.Item
	for _, cat := range catOrder {
		roomOrder, byRoom := groupBy(byCategory[cat], func(it estimate.Item) string { return NormalizeRoom(it.Room) }, true)
		for _, room := range roomOrder {
			out = append(out, mergeRoom(byRoom[room])...)
		}
	}
	return out
}

func mergeRoom(items []estimate.Item) []estimate.Item {
	if len(items) == 1 {
		return items
	}
	ranked := append([]estimate.Item(nil), items...)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := ranked[i].ConfidenceValue(), ranked[j].ConfidenceValue()
		if ci != cj {
			return ci > cj
		}
		return len(ranked[i].Description) < len(ranked[j].Description)
	})

	var kept []estimate.Item
	seenTypes := make(map[string]struct{})
	for _, it := range ranked {
		wt := WorkType(it)
		if _, ok := seenTypes[wt]; ok {
			continue
		}
		covered := false
		for _, existing := range kept {
			if isWorkSubset(it, existing) {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		kept = append(kept, it)
		seenTypes[wt] = struct{}{}
	}
	return kept
}
