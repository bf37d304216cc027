package pricing

import (
	"errors"
	"os"

	"renoquote/internal/services"
)

// SectionMinimum is one row of the section minimums and margins sheet. Values
// other than the section name are kept as written.
type SectionMinimum struct {
	Section string
	Values  map[string]string
}

// LoadSectionMinimums reads the section minimums CSV. Rows without a section
// name are skipped.
func LoadSectionMinimums(path string) ([]SectionMinimum, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "pricing", "load section minimums", path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "pricing", "load section minimums", path, err)
	}
	defer f.Close()
	rows, err := readTable(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pricing", "decode section minimums", path, err)
	}
	var out []SectionMinimum
	for _, row := range rows {
		section := row.get("Section")
		if section == "" {
			continue
		}
		values := make(map[string]string, len(row.index))
		for column := range row.index {
			if column != "Section" {
				values[column] = row.get(column)
			}
		}
		out = append(out, SectionMinimum{Section: section, Values: values})
	}
	return out, nil
}

// SectionNames returns the section names in sheet order.
func SectionNames(minimums []SectionMinimum) []string {
	out := make([]string, 0, len(minimums))
	for _, m := range minimums {
		out = append(out, m.Section)
	}
	return out
}
