package cleanup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"renoquote/internal/estimate"
	"renoquote/internal/services/llm"
)

const dedupeSystemPrompt = "You are a professional renovation estimator specializing in deduplication and scope optimization. " +
	"Your task is to review renovation items and select the best unique scopes for each section."

const dedupeRules = `You are a professional renovation estimator. Review the following items and select the BEST UNIQUE scope items for each section, removing duplicates and overlapping work.

## DEDUPLICATION RULES:
1. **Remove Duplicates**: Items with same name, room, and similar scope
2. **Remove Overlapping**: Items that cover the same work in different ways
3. **Keep Best Quality**: When duplicates exist, keep the one with:
   - Higher confidence score
   - More detailed description
   - Better pricing accuracy
   - More specific scope
4. **Ensure Uniqueness**: Each item should represent distinct work
5. **Maintain Coverage**: Don't remove items that cover different aspects

## OUTPUT FORMAT:
Provide a JSON response with this exact structure:
{"sections": [{"name": "Section Name", "items": [{"room": "Room Name", "scope_item": "Item Name",
"description": "Detailed description", "quantity": "X SF/LF/UNIT", "unit_cost": "$X per SF/LF/UNIT",
"markup": "0.75", "subtotal": "Calculated total", "confidence_score": "85",
"deduplication_notes": "Why this item was kept"}]}]}

## ITEMS TO REVIEW:
`

const dedupeInstructions = `
## INSTRUCTIONS:
1. Review each section carefully
2. Remove duplicates and overlapping items
3. Keep the BEST item when duplicates exist
4. Ensure each item represents unique work
5. Maintain comprehensive coverage
6. Provide deduplication notes explaining your choices

Return only the JSON response with the cleaned, unique items for each section.
`

// BuildDedupePrompt lists items section by section for model review.
func BuildDedupePrompt(items []estimate.Item) string {
	order, groups := groupBy(items, category, true)
	var b strings.Builder
	b.WriteString(dedupeRules)
	for _, cat := range order {
		fmt.Fprintf(&b, "\n### %s SECTION:\n", strings.ToUpper(cat))
		for _, it := range groups[cat] {
			fmt.Fprintf(&b, "- **%s** in %s\n", it.ItemName, it.Room)
			fmt.Fprintf(&b, "  - Description: %s\n", it.Description)
			fmt.Fprintf(&b, "  - Quantity: %s\n", it.Quantity)
			fmt.Fprintf(&b, "  - Unit Cost: %s\n", it.UnitCost)
			fmt.Fprintf(&b, "  - Total: %s\n", it.Total)
			fmt.Fprintf(&b, "  - Confidence: %s\n", it.Confidence)
		}
	}
	b.WriteString(dedupeInstructions)
	return b.String()
}

// ModelDedupe asks the model to pick unique scope items. An empty result is
// reported as an error so callers can fall back to LocalDedupe.
func ModelDedupe(ctx context.Context, client llm.Completer, items []estimate.Item) ([]estimate.Item, error) {
	if client == nil {
		return nil, errors.New("llm client unavailable")
	}
	content, err := client.CompleteJSON(ctx, dedupeSystemPrompt, BuildDedupePrompt(items))
	if err != nil {
		return nil, err
	}
	deduped, _ := estimate.ParseResponse(content)
	if len(deduped) == 0 {
		return nil, errors.New("model returned no items")
	}
	return deduped, nil
}
