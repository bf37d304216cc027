package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Table is a markdown reference table appended to the prompt.
type Table struct {
	Name     string
	Markdown string
}

// Attachment is a numbered source document inlined as text.
type Attachment struct {
	Name    string
	Content string
}

// Attachments holds the reference material sent with every group.
type Attachments struct {
	Cheatsheet   *Table
	SampleScopes []Table
	Files        []Attachment
}

// Assemble appends the cheatsheet, sample scope tables and file sections to
// the user prompt.
func (a Attachments) Assemble(userPrompt string) string {
	var b strings.Builder
	b.WriteString(userPrompt)
	if a.Cheatsheet != nil {
		fmt.Fprintf(&b, "\n\nSection Markup and Minimums Cheatsheet (%s):\n%s", a.Cheatsheet.Name, a.Cheatsheet.Markdown)
	}
	for i, scope := range a.SampleScopes {
		fmt.Fprintf(&b, "\n\nSample Scope Table %d (%s):\n%s", i+1, scope.Name, scope.Markdown)
	}
	b.WriteString("\n\n")
	for i, file := range a.Files {
		fmt.Fprintf(&b, "=== File %d (%s) ===\n%s\n\n", i+1, file.Name, file.Content)
	}
	return b.String()
}

// WithTranscript returns a copy of a whose file list ends with the group text.
func (a Attachments) WithTranscript(name, text string) Attachments {
	files := make([]Attachment, 0, len(a.Files)+1)
	files = append(files, a.Files...)
	files = append(files, Attachment{Name: name, Content: text})
	a.Files = files
	return a
}

// FileAttachment names an attachment after the base name of path.
func FileAttachment(path, content string) Attachment {
	return Attachment{Name: filepath.Base(path), Content: content}
}
