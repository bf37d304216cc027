package cleanup

import (
	"strings"

	"renoquote/internal/estimate"
	"renoquote/internal/textutil"
)

var apartmentLevelCategories = map[string]struct{}{
	"Demolition":                {},
	"Electrical":                {},
	"Flooring":                  {},
	"Trims":                     {},
	"Painting & Wall Coverings": {},
	"Heating and Cooling":       {},
	"Windows":                   {},
	"General Requirements":      {},
	"Doors":                     {},
}

var roomSpecificCategories = map[string]struct{}{
	"Plumbing":      {},
	"Tile":          {},
	"Waterproofing": {},
	"Cabinetry":     {},
	"Countertops":   {},
	"Backsplash":    {},
	"Accessories":   {},
}

func isApartmentRoom(room string) bool {
	return room == "" || textutil.ContainsAny(room, "general", "apartment", "entire", "overall", "building")
}

func isWholeHomeRoom(room string) bool {
	return textutil.ContainsAny(room, "entire", "full", "whole", "apartment", "general", "all rooms")
}

// PruneToApartmentScope drops room-level items from a category once the same
// category already has whole-apartment scope. Room-specific trades such as
// plumbing and tile are left untouched.
func PruneToApartmentScope(items []estimate.Item) []estimate.Item {
	order, groups := groupBy(items, category, false)
	out := make([]estimate.Item, 0, len(items))
	for _, cat := range order {
		group := groups[cat]
		if _, ok := roomSpecificCategories[cat]; ok {
			out = append(out, group...)
			continue
		}
		wide := isWholeHomeRoom
		if _, ok := apartmentLevelCategories[cat]; ok {
			wide = isApartmentRoom
		}
		var scoped []estimate.Item
		for _, it := range group {
			if wide(strings.ToLower(strings.TrimSpace(it.Room))) {
				scoped = append(scoped, it)
			}
		}
		if len(scoped) > 0 {
			out = append(out, scoped...)
		} else {
			out = append(out, group...)
		}
	}
	return out
}
