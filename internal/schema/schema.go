// Package schema defines the JSON-Schema contracts for every value crossing
// a generator-call boundary. Schemas are plain maps (draft 2020-12 subset) so
// they can be embedded in prompts as a structured-output constraint and used
// locally to validate what comes back.
package schema

// lineItemProp is the schema for one billed service, test, or medication.
func lineItemProp() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"code":        map[string]any{"type": "string"},
			"charge":      map[string]any{"type": "number"},
		},
		"required": []string{"description", "charge"},
	}
}

func lineItemArray() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": lineItemProp(),
	}
}

// BillRecord returns the output schema for the extraction stage: six header
// fields plus the three line-item buckets. Every bucket is required so the
// model cannot silently drop a category.
func BillRecord() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"patientName":   map[string]any{"type": "string"},
			"billDate":      map[string]any{"type": "string"},
			"providerName":  map[string]any{"type": "string"},
			"totalAmount":   map[string]any{"type": "number"},
			"accountNumber": map[string]any{"type": "string"},
			"insuranceName": map[string]any{"type": "string"},
			"procedures":    lineItemArray(),
			"tests":         lineItemArray(),
			"medications":   lineItemArray(),
		},
		"required": []string{
			"patientName", "billDate", "providerName", "totalAmount",
			"accountNumber", "insuranceName", "procedures", "tests", "medications",
		},
	}
}

// ErrorAuditResult returns the output schema for the error-detection stage.
// Summary and report have minLength 1: an empty-findings audit must still
// state affirmatively that the bill looks clean.
func ErrorAuditResult() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"errorsDetected": map[string]any{"type": "boolean"},
			"errorSummary":   map[string]any{"type": "string", "minLength": 1},
			"detailedReport": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"errorsDetected", "errorSummary", "detailedReport"},
	}
}

// AppealLetter returns the output schema for the letter-generation stage.
func AppealLetter() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"appealLetter": map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"appealLetter"},
	}
}
