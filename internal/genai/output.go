package genai

import (
	"fmt"
	"strings"

	"clearbill/internal/schema"
)

// CleanJSON strips markdown code fences some models wrap around JSON output.
func CleanJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// CheckOutput validates raw provider output against the requested schema.
func CheckOutput(outputSchema map[string]any, raw []byte) error {
	if outputSchema == nil {
		return nil
	}
	if err := schema.Validate(outputSchema, raw); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// SchemaInstruction renders the structured-output constraint appended to
// every prompt.
func SchemaInstruction(outputSchema map[string]any) string {
	return "Return ONLY valid JSON that conforms to this JSON Schema. " +
		"No markdown formatting, no code fences, no explanation - just the raw JSON object.\n\n" +
		"JSON Schema:\n" + schema.MustJSON(outputSchema)
}

// Truncate shortens s for inclusion in error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
