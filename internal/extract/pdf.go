package extract

import (
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"

	"renoquote/internal/services"
)

// ExtractPDF returns the plain text of every readable page, one page per line
// group. An error is returned when the file cannot be opened or holds no text.
func ExtractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "extract", "open pdf", fmt.Sprintf("Unable to open %s", path), err)
	}
	defer f.Close()

	var text strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", services.Wrap(services.ErrValidation, "extract", "read pdf", fmt.Sprintf("No text extracted from %s", path), nil)
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
