package cleanup

import (
	"strings"

	"renoquote/internal/estimate"
	"renoquote/internal/textutil"
)

type roomRule struct {
	keywords []string
	room     string
}

// Order matters: bathroom variants resolve before the generic bathroom and
// "room" catches anything like "living room" before office and entry.
var roomRules = []roomRule{
	{[]string{"primary bathroom", "main bathroom"}, "primary bathroom"},
	{[]string{"secondary bathroom", "second bathroom", "guest bathroom"}, "secondary bathroom"},
	{[]string{"bathroom 2", "bathroom2"}, "bathroom 2"},
	{[]string{"bathroom 1", "bathroom1"}, "bathroom 1"},
	{[]string{"bathroom"}, "bathroom"},
	{[]string{"kitchen", "other 1", "other1"}, "kitchen"},
	{[]string{"closet"}, "closet"},
	{[]string{"living", "room"}, "living area"},
	{[]string{"office"}, "office area"},
	{[]string{"entry", "foyer"}, "entry"},
	{[]string{"general", "apartment"}, "apartment"},
}

// NormalizeRoom maps free-form room labels onto a small canonical set.
// Unrecognized rooms are returned lowercased and trimmed.
func NormalizeRoom(room string) string {
	lower := strings.ToLower(strings.TrimSpace(room))
	for _, rule := range roomRules {
		if textutil.ContainsAny(lower, rule.keywords...) {
			return rule.room
		}
	}
	return lower
}

// NormalizeName lowercases, trims and strips punctuation from an item name.
func NormalizeName(name string) string {
	return textutil.NormalizeName(name)
}

// SameWork reports whether two items describe the same work: the same
// normalized room and either equal normalized names or a word overlap above
// 0.7 of the larger name.
func SameWork(a, b estimate.Item) bool {
	if NormalizeRoom(a.Room) != NormalizeRoom(b.Room) {
		return false
	}
	nameA := NormalizeName(a.ItemName)
	nameB := NormalizeName(b.ItemName)
	if nameA == nameB {
		return true
	}
	return textutil.WordOverlap(nameA, nameB) > 0.7
}

func lowerRoom(it estimate.Item) string {
	return strings.ToLower(strings.TrimSpace(it.Room))
}

func lowerName(it estimate.Item) string {
	return strings.ToLower(it.ItemName)
}

// combined returns the normalized name and description joined by a space.
func combined(it estimate.Item) string {
	return NormalizeName(it.ItemName) + " " + NormalizeName(it.Description)
}

// roomSpecificity ranks individually named rooms above whole-home scopes.
func roomSpecificity(it estimate.Item) int {
	room := strings.ToLower(it.Room)
	switch {
	case textutil.ContainsAny(room, "bathroom 1", "bathroom 2", "kitchen"):
		return 2
	case textutil.ContainsAny(room, "bathrooms", "entire apartment"):
		return 1
	default:
		return 0
	}
}

// groupBy partitions items by key, preserving first-seen key order and the
// relative order of items within each group. Items with a blank key are
// dropped when dropBlank is set.
func groupBy(items []estimate.Item, key func(estimate.Item) string, dropBlank bool) ([]string, map[string][]estimate.Item) {
	var order []string
	groups := make(map[string][]estimate.Item)
	for _, it := range items {
		k := key(it)
		if dropBlank && k == "" {
			continue
		}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}
	return order, groups
}

func category(it estimate.Item) string {
	return strings.TrimSpace(it.Category)
}
