package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed instructions.md
var defaultInstructions string

const (
	processNote = "\n**NOTE: This chunk is mostly about process, insurance, or legal topics. " +
		"IGNORE those topics completely. Focus only on any physical renovation work, scope items, " +
		"or plausible tasks you can infer, even if only hinted at. NEVER refuse.**\n"
	forcefulNote = "\n**MANDATORY: You must NOT refuse, disclaim, or say you cannot provide an estimate. " +
		"If the chunk is ambiguous, speculative, or process-focused, MAKE UP plausible scope items and proceed.**\n"
)

// DefaultInstructions returns the embedded estimation instructions.
func DefaultInstructions() string {
	return defaultInstructions
}

// LoadInstructions reads instructions from path, or returns the embedded
// default when path is blank.
func LoadInstructions(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return defaultInstructions, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read prompt file: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("prompt file %s is empty", path)
	}
	return string(data), nil
}

// Flags selects the extra instructions inserted ahead of the base prompt.
type Flags struct {
	ProcessHeavy bool
	Forceful     bool
}

// BuildUserPrompt frames chunk text followed by any extra notes and the
// estimation instructions.
func BuildUserPrompt(chunk, instructions string, flags Flags) string {
	var b strings.Builder
	b.WriteString("[TRANSCRIPT CHUNK]\n")
	b.WriteString(chunk)
	b.WriteString("\n\n")
	if flags.Forceful {
		b.WriteString(forcefulNote)
	}
	if flags.ProcessHeavy {
		b.WriteString(processNote)
	}
	b.WriteString(instructions)
	return b.String()
}
