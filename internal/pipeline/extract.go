// Package pipeline implements the three-stage bill analysis pipeline:
// extraction, error detection, and conditional appeal-letter generation.
// Stages run sequentially, each making a single generator attempt; a stage
// failure is terminal for the request.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"clearbill/internal/domain"
	"clearbill/internal/port"
	"clearbill/internal/schema"
)

// ExtractStage turns a raw bill document into a structured BillRecord.
type ExtractStage struct {
	gen port.Generator
}

// NewExtractStage creates an ExtractStage backed by gen.
func NewExtractStage(gen port.Generator) *ExtractStage {
	return &ExtractStage{gen: gen}
}

// Run extracts the bill header fields and categorized line items from doc.
// Returns the record and the model that produced it.
func (s *ExtractStage) Run(ctx context.Context, doc *domain.DocumentPayload) (*domain.BillRecord, string, error) {
	out, err := s.gen.Generate(ctx, port.GenerateInput{
		PromptName: "extractMedicalBillData",
		Prompt:     BuildExtractionPrompt(),
		Document: &port.DocumentAttachment{
			ContentType: doc.ContentType,
			Data:        doc.Data,
		},
		OutputSchema: schema.BillRecord(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrExtractionFailed, err)
	}

	var record domain.BillRecord
	if err := json.Unmarshal(out.Raw, &record); err != nil {
		return nil, "", fmt.Errorf("%w: unmarshal bill record: %v", domain.ErrExtractionFailed, err)
	}
	return &record, out.ModelUsed, nil
}
