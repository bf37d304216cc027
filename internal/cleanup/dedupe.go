package cleanup

import (
	"sort"
	"strings"

	"renoquote/internal/estimate"
	"renoquote/internal/textutil"
)

type duplicateRule struct {
	name  string
	match func(candidate, kept estimate.Item) bool
}

func sameNormalizedRoom(a, b estimate.Item) bool {
	return NormalizeRoom(a.Room) == NormalizeRoom(b.Room)
}

func bothNamesHave(a, b estimate.Item, keywords ...string) bool {
	return textutil.ContainsAny(NormalizeName(a.ItemName), keywords...) &&
		textutil.ContainsAny(NormalizeName(b.ItemName), keywords...)
}

func bothRawNamesHave(a, b estimate.Item, keywords ...string) bool {
	return textutil.ContainsAny(lowerName(a), keywords...) && textutil.ContainsAny(lowerName(b), keywords...)
}

// duplicateRules are checked in order against already kept items in the same
// room; the first match rejects the candidate.
var duplicateRules = []duplicateRule{
	{"countertop", func(a, b estimate.Item) bool {
		return sameNormalizedRoom(a, b) && bothNamesHave(a, b, "countertop", "counter", "quartz", "marble", "granite", "surface")
	}},
	{"plumbing", func(a, b estimate.Item) bool {
		if !sameNormalizedRoom(a, b) {
			return false
		}
		if bothNamesHave(a, b, "full gut") {
			return true
		}
		return SameWork(a, b)
	}},
	{"demolition", func(a, b estimate.Item) bool {
		return sameNormalizedRoom(a, b) && bothNamesHave(a, b, "demolition", "demo", "gut", "remove", "tear out", "strip")
	}},
	{"painting", func(a, b estimate.Item) bool {
		return sameNormalizedRoom(a, b) && bothNamesHave(a, b, "paint", "painting", "primer", "coat", "finish")
	}},
	{"tile", func(a, b estimate.Item) bool {
		if !sameNormalizedRoom(a, b) {
			return false
		}
		ca, cb := combined(a), combined(b)
		tileWords := []string{"tile", "backsplash", "grout", "ceramic", "porcelain"}
		if textutil.ContainsAny(ca, tileWords...) && textutil.ContainsAny(cb, tileWords...) {
			return true
		}
		return NormalizeRoom(a.Room) == "kitchen" &&
			textutil.ContainsAny(ca, "floor", "flooring") &&
			textutil.ContainsAny(cb, "tile", "floor", "flooring")
	}},
	{"cleaning", func(a, b estimate.Item) bool {
		if !strings.Contains(lowerName(a), "cleaning") || !strings.Contains(lowerName(b), "cleaning") {
			return false
		}
		ra, rb := strings.ToLower(a.Room), strings.ToLower(b.Room)
		if ra == rb {
			return true
		}
		return strings.Contains(ra, "entire") != strings.Contains(rb, "entire")
	}},
	{"flooring", func(a, b estimate.Item) bool {
		floorWords := []string{"floor", "flooring", "hardwood", "laminate", "tile floor", "tile flooring", "subfloor", "underlayment"}
		return sameNormalizedRoom(a, b) &&
			textutil.ContainsAny(combined(a), floorWords...) && textutil.ContainsAny(combined(b), floorWords...)
	}},
	{"waterproofing", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) &&
			bothRawNamesHave(a, b, "waterproof", "waterproofing", "membrane")
	}},
	{"walls/ceilings", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) &&
			bothRawNamesHave(a, b, "wall", "ceiling", "drywall", "plaster")
	}},
	{"backsplash", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) && bothRawNamesHave(a, b, "backsplash")
	}},
	{"trim", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) && bothRawNamesHave(a, b, "trim", "baseboard", "molding")
	}},
	{"doors", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) &&
			bothRawNamesHave(a, b, "door", "entry", "interior door", "exterior door")
	}},
	{"cabinetry", func(a, b estimate.Item) bool {
		return strings.ToLower(a.Room) == strings.ToLower(b.Room) &&
			bothRawNamesHave(a, b, "cabinet", "cabinetry", "kitchen cabinet", "bathroom cabinet", "closet")
	}},
}

// matchDuplicateRule returns the name of the first rule that flags candidate
// as a duplicate of kept, or "".
func matchDuplicateRule(candidate, kept estimate.Item) string {
	for _, rule := range duplicateRules {
		if rule.match(candidate, kept) {
			return rule.name
		}
	}
	return ""
}

// DedupeEvent records one item removed by local dedupe.
type DedupeEvent struct {
	Item   estimate.Item
	Reason string
}

// LocalDedupe removes duplicate items within each category. Items are ranked
// by confidence and room specificity; a candidate is dropped when any of its
// room/name/description combinations was already seen, or when a duplicate
// rule matches a kept item in the same room. Items without a category are
// dropped.
func LocalDedupe(items []estimate.Item) ([]estimate.Item, []DedupeEvent) {
	order, groups := groupBy(items, category, true)
	var (
		out    []estimate.Item
		events []DedupeEvent
	)
	for _, cat := range order {
		ranked := append([]estimate.Item(nil), groups[cat]...)
		sort.SliceStable(ranked, func(i, j int) bool {
			ci, cj := ranked[i].ConfidenceValue(), ranked[j].ConfidenceValue()
			if ci != cj {
				return ci > cj
			}
			return roomSpecificity(ranked[i]) > roomSpecificity(ranked[j])
		})

		seen := make(map[string]struct{})
		var kept []estimate.Item
		for _, it := range ranked {
			room := lowerRoom(it)
			name := strings.ToLower(strings.TrimSpace(it.ItemName))
			desc := strings.ToLower(strings.TrimSpace(it.Description))
			combos := []string{room + "|" + name, room + "|" + name + "|" + desc, name + "|" + desc}

			duplicate := false
			for _, combo := range combos {
				if _, ok := seen[combo]; ok {
					duplicate = true
					break
				}
			}
			if duplicate {
				events = append(events, DedupeEvent{Item: it, Reason: "exact"})
				continue
			}
			for _, combo := range combos {
				seen[combo] = struct{}{}
			}

			reason := ""
			for _, existing := range kept {
				if lowerRoom(existing) != room {
					continue
				}
				if reason = matchDuplicateRule(it, existing); reason != "" {
					break
				}
			}
			if reason != "" {
				events = append(events, DedupeEvent{Item: it, Reason: reason})
				continue
			}
			kept = append(kept, it)
		}
		out = append(out, kept...)
	}
	return out, events
}
