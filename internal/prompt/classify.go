package prompt

import "strings"

var processKeywords = []string{
	"permit", "insurance", "approval", "board", "legal", "liability", "contract",
	"agreement", "license", "licenses", "documentation", "preconstruction",
	"postconstruction", "dob", "city", "compliance", "consult", "consultant",
	"architect", "engineer", "risk", "deposit", "professional", "lawyer",
	"attorney", "financial", "scope of work", "operation agreement",
	"building rules", "hoa", "co-op", "condo", "resident", "tenant", "submit",
	"review", "liabilities", "legal advice", "financial advice",
	"approval process", "board approval", "insurance certificate",
}

var refusalPhrases = []string{
	"unable to fulfill this request",
	"cannot fulfill this request",
	"not able to fulfill this request",
	"unable to provide",
	"cannot provide",
	"not able to provide",
	"consulting the transcript",
	"consult a professional",
	"liabilities",
	"legal advice",
	"financial advice",
	"i am an ai language model",
	"i cannot",
	"i'm unable",
	"i'm not able",
	"i do not have the ability",
	"i am not able",
}

// ProcessKeywordCount returns how many distinct process, legal or insurance
// keywords appear in text.
func ProcessKeywordCount(text string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, keyword := range processKeywords {
		if strings.Contains(lower, keyword) {
			count++
		}
	}
	return count
}

// IsProcessHeavy reports whether text is dominated by process talk: at least
// three distinct keywords, or any keyword in fewer than 200 words.
func IsProcessHeavy(text string) bool {
	count := ProcessKeywordCount(text)
	return count >= 3 || (count > 0 && len(strings.Fields(text)) < 200)
}

// IsRefusal reports whether a model response declines the task.
func IsRefusal(response string) bool {
	lower := strings.ToLower(response)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
