package prompt

import "strings"

const minScanChars = 50

const systemGuardrails = "You are a professional renovation estimator. \n" +
	"CRITICAL RULES: \n" +
	"- Never refuse or defer. Always produce a full estimate. \n" +
	"- If any source is missing/unreadable (e.g., Polycam), proceed using reasonable assumptions based on the master pricing sheet and transcript. \n" +
	"- Explicitly mark assumptions in descriptions but provide concrete numeric quantities and subtotals. \n" +
	"- Apply markups exactly as instructed. \n" +
	"- Output must be a single JSON object wrapped in a ```json code block, with the exact schema requested. No prose before/after the block. \n"

const inferredMeasurementsRule = "- Polycam measurements unavailable: infer room areas and linear feet using standard " +
	"residential assumptions (e.g., kitchen counter depth ~2.5 ft, small bath tile ~60-80 SF) and clearly tag them as assumed.\n"

// ScanUnavailable reports whether extracted scan text is missing, a failure
// placeholder, or too short to carry measurements.
func ScanUnavailable(scanText string) bool {
	lower := strings.ToLower(scanText)
	if strings.Contains(lower, "extraction failed") || strings.Contains(lower, "text extraction not available") {
		return true
	}
	return len([]rune(strings.TrimSpace(scanText))) < minScanChars
}

// SystemPrompt returns the estimator guardrails, adding the inferred
// measurement rule when scan data is unavailable.
func SystemPrompt(scanUnavailable bool) string {
	if scanUnavailable {
		return systemGuardrails + inferredMeasurementsRule
	}
	return systemGuardrails
}
