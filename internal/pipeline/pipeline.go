package pipeline

import (
	"context"
	"log"

	"clearbill/internal/domain"
	"clearbill/internal/port"
)

// Pipeline sequences the three analysis stages over one document.
type Pipeline struct {
	extract *ExtractStage
	audit   *AuditStage
	letter  *LetterStage
}

// New builds a Pipeline whose stages share a single generator.
func New(gen port.Generator, taxonomy string) *Pipeline {
	return &Pipeline{
		extract: NewExtractStage(gen),
		audit:   NewAuditStage(gen, taxonomy),
		letter:  NewLetterStage(gen),
	}
}

// Run executes extract, audit, and (when errors were found) letter
// generation for doc. Data flows strictly forward; the first stage failure
// aborts the request. Returns the assembled result and the model used.
func (p *Pipeline) Run(ctx context.Context, doc *domain.DocumentPayload) (*domain.AnalysisResult, string, error) {
	record, model, err := p.extract.Run(ctx, doc)
	if err != nil {
		log.Printf("pipeline.Run: extraction failed: %v", err)
		return nil, "", err
	}

	audit, err := p.audit.Run(ctx, record)
	if err != nil {
		log.Printf("pipeline.Run: audit failed: %v", err)
		return nil, "", err
	}

	letter, err := p.letter.Run(ctx, record, audit)
	if err != nil {
		log.Printf("pipeline.Run: letter generation failed: %v", err)
		return nil, "", err
	}

	return &domain.AnalysisResult{
		ExtractedData: *record,
		ErrorAnalysis: *audit,
		AppealLetter:  letter,
	}, model, nil
}
