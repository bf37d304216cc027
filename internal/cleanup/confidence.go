package cleanup

import (
	"sort"

	"renoquote/internal/estimate"
)

// PrioritizeConfidence groups items by category, normalized room and
// normalized name. Single-item groups pass through. For larger groups only
// the most confident item survives, and only when its confidence reaches
// threshold.
func PrioritizeConfidence(items []estimate.Item, threshold float64) []estimate.Item {
	order, groups := groupBy(items, func(it estimate.Item) string {
		return category(it) + "_" + NormalizeRoom(it.Room) + "_" + NormalizeName(it.ItemName)
	}, false)

	out := make([]estimate.Item, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if len(group) == 1 {
			out = append(out, group[0])
			continue
		}
		ranked := append([]estimate.Item(nil), group...)
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].ConfidenceValue() > ranked[j].ConfidenceValue()
		})
		if best := ranked[0]; best.ConfidenceValue() >= threshold {
			out = append(out, best)
		}
	}
	return out
}
