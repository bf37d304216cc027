package cleanup

import (
	"strings"

	"renoquote/internal/estimate"
)

// text pairs the lowercased item name and description a rule inspects.
type text struct {
	name string
	desc string
}

func (t text) either(keyword string) bool {
	return strings.Contains(t.name, keyword) || strings.Contains(t.desc, keyword)
}

func (t text) nameHasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(t.name, kw) {
			return true
		}
	}
	return false
}

func (t text) eitherHasAny(keywords ...string) bool {
	for _, kw := range keywords {
		if t.either(kw) {
			return true
		}
	}
	return false
}

type categoryRule struct {
	category string
	match    func(t text) bool
}

// categoryRules is evaluated top to bottom; the first match wins. Demolition
// leads so "gut" and "remove existing" items never land in a trade section.
var categoryRules = []categoryRule{
	{"Demolition", func(t text) bool {
		return t.eitherHasAny("gut", "demolition", "demo", "remove all", "remove existing", "tear out", "strip", "pre-construction") &&
			!t.either("flooring")
	}},
	{"Countertops", func(t text) bool {
		return strings.Contains(t.name, "countertop") || (strings.Contains(t.desc, "countertop") && !strings.Contains(t.desc, "remove"))
	}},
	{"Backsplash", func(t text) bool {
		return strings.Contains(t.name, "backsplash") || (strings.Contains(t.desc, "backsplash") && !strings.Contains(t.desc, "remove"))
	}},
	{"Appliances", func(t text) bool {
		return (t.either("appliance") || t.nameHasAny("dishwasher", "refrigerator", "stove")) &&
			!strings.Contains(t.desc, "remove") && !strings.Contains(t.name, "electrical")
	}},
	{"Cabinetry", func(t text) bool {
		return t.either("cabinet") && !strings.Contains(t.desc, "remove") && !strings.Contains(t.desc, "gut")
	}},
	{"Plumbing", func(t text) bool {
		return t.either("plumbing") ||
			t.nameHasAny("sink", "toilet", "shower", "tub", "fixture", "faucet", "drain", "water line", "waste line")
	}},
	{"Electrical", func(t text) bool {
		return t.either("electrical") || t.nameHasAny("wiring", "outlet", "switch", "light", "gfi", "circuit")
	}},
	{"Waterproofing", func(t text) bool {
		return t.either("waterproof") || t.nameHasAny("moisture", "membrane", "vapor barrier")
	}},
	{"Tile", func(t text) bool {
		return strings.Contains(t.name, "tile") || (strings.Contains(t.desc, "tile") && !strings.Contains(t.name, "backsplash"))
	}},
	{"Walls & Ceiling", func(t text) bool {
		return t.either("drywall") ||
			(strings.Contains(t.name, "wall") && !strings.Contains(t.name, "tile")) ||
			t.nameHasAny("ceiling", "soffit", "partition", "framing")
	}},
	{"Flooring", func(t text) bool {
		return t.either("flooring") || t.nameHasAny("hardwood", "laminate", "vinyl") ||
			(strings.Contains(t.name, "floor") && !strings.Contains(t.name, "tile") && !strings.Contains(t.name, "demo"))
	}},
	{"Painting & Wall Coverings", func(t text) bool { return t.nameHasAny("paint", "painting", "primer") }},
	{"Trims", func(t text) bool { return t.nameHasAny("trim", "baseboard", "molding", "crown") }},
	{"Doors", func(t text) bool { return t.nameHasAny("door") }},
	{"Windows", func(t text) bool { return t.nameHasAny("window", "glazing") }},
	{"Heating and Cooling", func(t text) bool { return t.nameHasAny("hvac", "heating", "cooling", "radiator") }},
	{"Accessories", func(t text) bool { return t.nameHasAny("accessory", "towel bar", "mirror", "medicine cabinet") }},
	{"General Requirements", func(t text) bool {
		return t.nameHasAny("cleaning", "cleanup", "final", "general conditions", "conditions")
	}},
}

// Categorize returns the trade section an item belongs to by keyword, or ""
// when no rule matches.
func Categorize(it estimate.Item) string {
	t := text{name: strings.ToLower(it.ItemName), desc: strings.ToLower(it.Description)}
	for _, rule := range categoryRules {
		if rule.match(t) {
			return rule.category
		}
	}
	return ""
}

// Recategorize moves items into the section their keywords indicate. Items
// that match no rule keep their category.
func Recategorize(items []estimate.Item) ([]estimate.Item, int) {
	out := make([]estimate.Item, 0, len(items))
	moved := 0
	for _, it := range items {
		if next := Categorize(it); next != "" && next != it.Category {
			it.Notes = appendNote(it.Notes, "recategorized from "+quoteOrBlank(it.Category))
			it.Category = next
			moved++
		}
		out = append(out, it)
	}
	return out, moved
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "; " + note
}

func quoteOrBlank(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
