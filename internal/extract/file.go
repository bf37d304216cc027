package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"renoquote/internal/services"
)

// ExtractFile reads path and returns its text based on the file extension.
func ExtractFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return ExtractPDF(path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", readError(path, err)
		}
		return ExtractTranscriptJSON(data)
	case ".txt", ".md", ".csv":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", readError(path, err)
		}
		return string(data), nil
	default:
		return "", services.Wrap(services.ErrValidation, "extract", "detect format",
			fmt.Sprintf("Unsupported file type %q; use PDF, JSON or plain text", filepath.Ext(path)), nil)
	}
}

func readError(path string, err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrNotFound, "extract", "read file", fmt.Sprintf("File not found: %s", path), err)
	}
	return services.Wrap(services.ErrValidation, "extract", "read file", fmt.Sprintf("Unable to read %s", path), err)
}

// ReferenceText returns text suitable for a prompt attachment. Failures are
// reported inline as bracketed placeholders rather than errors so the model
// can proceed with assumptions.
func ReferenceText(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		if !fileExists(path) {
			return fmt.Sprintf("[PDF content from %s - extraction failed: file not found]", path)
		}
		text, err := ExtractPDF(path)
		if err != nil {
			return fmt.Sprintf("[PDF content from %s - extraction failed: %v]", path, err)
		}
		return text
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Sprintf("[Text content from %s - extraction failed: %v]", path, err)
		}
		return string(data)
	case ".csv":
		md, err := CSVFileToMarkdown(path)
		if err != nil {
			return fmt.Sprintf("[CSV content from %s - extraction failed: %v]", path, err)
		}
		return md
	default:
		return fmt.Sprintf("[Unsupported file: %s]", path)
	}
}

// CSVToMarkdown renders CSV records as a pipe table with a separator row after
// the header. Empty input yields an empty string.
func CSVToMarkdown(r io.Reader) (string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		b.WriteString("| ")
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString(" |\n")
	}
	header := records[0]
	writeRow(header)
	separator := make([]string, len(header))
	for i := range separator {
		separator[i] = "---"
	}
	writeRow(separator)
	for _, row := range records[1:] {
		writeRow(row)
	}
	return b.String(), nil
}

// CSVFileToMarkdown opens path and renders it with CSVToMarkdown.
func CSVFileToMarkdown(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return CSVToMarkdown(f)
}
