package pricing

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"renoquote/internal/services"
)

// DefaultSections is used when no catalog categories are available.
var DefaultSections = []string{
	"Demolition", "Electrical", "Plumbing", "Kitchen Cabinets", "Kitchen",
	"Tile", "Carpentry", "Waterproofing", "Cleaning",
}

// Entry is one row of the master pricing catalog.
type Entry struct {
	Code        string
	Category    string
	Description string
	SizeType    string
	Unit        string
	Labor       float64
	Material    float64
}

// Catalog holds the master pricing rows.
type Catalog struct {
	Entries []Entry
}

// LoadCatalog reads a master pricing CSV. Columns are matched by header name;
// "N/A" and "TBD" prices read as zero.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "pricing", "load catalog", path, err)
		}
		return nil, services.Wrap(services.ErrConfiguration, "pricing", "load catalog", path, err)
	}
	defer f.Close()
	catalog, err := DecodeCatalog(f)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pricing", "decode catalog", path, err)
	}
	return catalog, nil
}

// DecodeCatalog parses master pricing rows from r.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	rows, err := readTable(r)
	if err != nil {
		return nil, err
	}
	catalog := &Catalog{}
	for _, row := range rows {
		catalog.Entries = append(catalog.Entries, Entry{
			Code:        row.get("Item Code"),
			Category:    row.get("Category"),
			Description: row.get("Description"),
			SizeType:    row.get("Size/Type"),
			Unit:        row.get("Unit"),
			Labor:       parsePrice(row.get("Labor")),
			Material:    parsePrice(row.get("Material")),
		})
	}
	return catalog, nil
}

// Sections returns the sorted distinct catalog categories, or
// DefaultSections when the catalog is nil or has none.
func (c *Catalog) Sections() []string {
	if c == nil {
		return append([]string(nil), DefaultSections...)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.Entries {
		if e.Category == "" {
			continue
		}
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultSections...)
	}
	sort.Strings(out)
	return out
}

// Codes returns the set of non-blank item codes.
func (c *Catalog) Codes() map[string]struct{} {
	codes := make(map[string]struct{})
	if c == nil {
		return codes
	}
	for _, e := range c.Entries {
		if e.Code != "" {
			codes[e.Code] = struct{}{}
		}
	}
	return codes
}

func parsePrice(raw string) float64 {
	switch raw {
	case "", "N/A", "TBD":
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.ReplaceAll(raw, ",", ""), "$"), 64)
	if err != nil {
		return 0
	}
	return v
}

type tableRow struct {
	index  map[string]int
	record []string
}

func (r tableRow) get(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

// readTable decodes a headed CSV into rows addressable by column name.
func readTable(r io.Reader) ([]tableRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	var rows []tableRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, tableRow{index: index, record: record})
	}
	return rows, nil
}
