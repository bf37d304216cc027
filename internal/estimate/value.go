package estimate

import (
	"bytes"
	"encoding/json"
	"strings"
)

// text decodes any JSON scalar into its textual form so numeric quantities
// and costs are kept as written.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*t = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = text(s)
		return nil
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		*t = text(strings.TrimSpace(string(trimmed)))
		return nil
	}
	*t = text(trimmed)
	return nil
}

type responseItem struct {
	Room            text `json:"room"`
	ScopeItem       text `json:"scope_item"`
	Description     text `json:"description"`
	Quantity        text `json:"quantity"`
	UnitCost        text `json:"unit_cost"`
	Markup          text `json:"markup"`
	Subtotal        text `json:"subtotal"`
	ConfidenceScore text `json:"confidence_score"`
	Notes           text `json:"deduplication_notes"`
}

type responseSection struct {
	Name  text           `json:"name"`
	Items []responseItem `json:"items"`
}

type response struct {
	Sections []responseSection `json:"sections"`
}

func (r response) items() []Item {
	var out []Item
	for _, section := range r.Sections {
		for _, it := range section.Items {
			out = append(out, Item{
				Category:    string(section.Name),
				Room:        string(it.Room),
				ItemName:    string(it.ScopeItem),
				Description: CleanDescription(string(it.Description)),
				Quantity:    string(it.Quantity),
				UnitCost:    string(it.UnitCost),
				Markup:      string(it.Markup),
				MarkupType:  "%",
				Total:       string(it.Subtotal),
				Confidence:  string(it.ConfidenceScore),
				Notes:       string(it.Notes),
			})
		}
	}
	return out
}
