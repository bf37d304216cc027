package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"renoquote/internal/estimate"
)

// CategoryTotal is the rolled-up value of one estimate section.
type CategoryTotal struct {
	Name  string
	Items int
	Total float64
}

// Summary holds section totals and the overall figures derived from them.
type Summary struct {
	Categories []CategoryTotal
	Items      int
	Subtotal   float64
	Conditions float64
	GrandTotal float64
	Rate       float64
}

// Summarize totals items by category in first-seen order. Items without a
// category are ignored.
func Summarize(items []estimate.Item, rate float64) Summary {
	s := Summary{Rate: rate}
	index := make(map[string]int)
	for _, it := range items {
		name := strings.TrimSpace(it.Category)
		if name == "" {
			continue
		}
		i, ok := index[name]
		if !ok {
			i = len(s.Categories)
			index[name] = i
			s.Categories = append(s.Categories, CategoryTotal{Name: name})
		}
		s.Categories[i].Items++
		s.Categories[i].Total += it.TotalValue()
		s.Items++
	}
	for _, c := range s.Categories {
		s.Subtotal += c.Total
	}
	s.Conditions = s.Subtotal * rate
	s.GrandTotal = s.Subtotal + s.Conditions
	return s
}

// FormatMoney renders v as dollars with thousands separators and cents.
func FormatMoney(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// ConditionsLabel names the general conditions line for rate, e.g.
// "General Conditions (10%)".
func ConditionsLabel(rate float64) string {
	pct := strconv.FormatFloat(math.Round(rate*10000)/100, 'f', -1, 64)
	return "General Conditions (" + pct + "%)"
}

func formatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
