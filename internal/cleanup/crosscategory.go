package cleanup

import (
	"strings"

	"renoquote/internal/estimate"
)

// categoryFit scores how well a section name suits a work type. Exact matches
// score 100; tile and flooring partially suit each other and backsplash work
// partially suits tile.
var categoryFit = map[string]map[string]float64{
	"demolition":    {"demolition": 100},
	"electrical":    {"electrical": 100},
	"plumbing":      {"plumbing": 100},
	"tile":          {"tile": 100, "flooring": 50},
	"flooring":      {"flooring": 100, "tile": 50},
	"painting":      {"painting": 100},
	"cabinetry":     {"cabinetry": 100},
	"countertop":    {"countertop": 100},
	"backsplash":    {"backsplash": 100, "tile": 50},
	"trim":          {"trim": 100},
	"doors":         {"doors": 100},
	"waterproofing": {"waterproofing": 100},
	"cleaning":      {"cleaning": 100},
	"appliances":    {"appliances": 100},
}

func crossCategoryScore(it estimate.Item, wt string) float64 {
	score := it.ConfidenceValue()*10 + 0.1*float64(len(it.Description))
	score += categoryFit[wt][strings.ToLower(it.Category)]
	return score
}

// RemoveCrossCategory keeps the best scoring item for each normalized room
// and work type, removing the same work filed under different sections.
// Ties go to the first item seen. Items without a room are dropped.
func RemoveCrossCategory(items []estimate.Item) []estimate.Item {
	roomOrder, byRoom := groupBy(items, func(it estimate.Item) string { return NormalizeRoom(it.Room) }, true)
	var out []estimate.Item
	for _, room := range roomOrder {
		typeOrder, byType := groupBy(byRoom[room], WorkType, false)
		for _, wt := range typeOrder {
			group := byType[wt]
			best := group[0]
			bestScore := crossCategoryScore(best, wt)
			for _, it := range group[1:] {
				if s := crossCategoryScore(it, wt); s > bestScore {
					best, bestScore = it, s
				}
			}
			out = append(out, best)
		}
	}
	return out
}

// MergeCabinetry files every Cabinetry item under "Cabinetry & Storage".
// Items without a category are dropped.
func MergeCabinetry(items []estimate.Item) []estimate.Item {
	order, groups := groupBy(items, category, true)
	out := make([]estimate.Item, 0, len(items))
	for _, cat := range order {
		for _, it := range groups[cat] {
			if cat == "Cabinetry" || cat == "Cabinetry & Storage" {
				it.Category = "Cabinetry & Storage"
			}
			out = append(out, it)
		}
	}
	return out
}
