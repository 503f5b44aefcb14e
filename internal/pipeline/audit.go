package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"clearbill/internal/domain"
	"clearbill/internal/port"
	"clearbill/internal/schema"
)

// AuditStage checks a structured bill record against a reference taxonomy of
// known billing-error patterns.
type AuditStage struct {
	gen      port.Generator
	taxonomy string
}

// NewAuditStage creates an AuditStage. taxonomy is the billing-error
// reference text; pass DefaultTaxonomy unless configuration overrides it.
func NewAuditStage(gen port.Generator, taxonomy string) *AuditStage {
	if taxonomy == "" {
		taxonomy = DefaultTaxonomy
	}
	return &AuditStage{gen: gen, taxonomy: taxonomy}
}

// Run audits record and returns the verdict. The narrative fields are
// non-empty even when no errors are found.
func (s *AuditStage) Run(ctx context.Context, record *domain.BillRecord) (*domain.ErrorAuditResult, error) {
	serialized, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal bill record: %v", domain.ErrAuditFailed, err)
	}

	out, err := s.gen.Generate(ctx, port.GenerateInput{
		PromptName:   "detectBillingErrors",
		Prompt:       BuildAuditPrompt(string(serialized), s.taxonomy),
		OutputSchema: schema.ErrorAuditResult(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuditFailed, err)
	}

	var result domain.ErrorAuditResult
	if err := json.Unmarshal(out.Raw, &result); err != nil {
		return nil, fmt.Errorf("%w: unmarshal audit result: %v", domain.ErrAuditFailed, err)
	}
	return &result, nil
}
