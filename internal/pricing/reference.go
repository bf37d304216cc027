package pricing

import (
	"os"
	"path/filepath"

	"renoquote/internal/extract"
	"renoquote/internal/prompt"
	"renoquote/internal/services"
)

// Reference returns a price reference document as a prompt attachment. PDF
// and CSV files are converted to text; failures become placeholder content
// so estimation can proceed without the reference.
func Reference(path string) prompt.Attachment {
	return prompt.FileAttachment(path, extract.ReferenceText(path))
}

// Cheatsheet renders the section minimums sheet as a markdown table. A blank
// or missing path yields nil.
func Cheatsheet(path string) (*prompt.Table, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	md, err := extract.CSVFileToMarkdown(path)
	if err != nil {
		return nil, err
	}
	return &prompt.Table{Name: filepath.Base(path), Markdown: md}, nil
}

// SampleScopes renders each sample scope CSV as a markdown table. Every path
// must exist.
func SampleScopes(paths []string) ([]prompt.Table, error) {
	tables := make([]prompt.Table, 0, len(paths))
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return nil, services.Wrap(services.ErrNotFound, "pricing", "sample scope", "sample scope file not found: "+path, err)
		}
		md, err := extract.CSVFileToMarkdown(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, prompt.Table{Name: filepath.Base(path), Markdown: md})
	}
	return tables, nil
}
