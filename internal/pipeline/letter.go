package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"clearbill/internal/domain"
	"clearbill/internal/port"
	"clearbill/internal/schema"
)

// LetterStage drafts an appeal letter from a bill record and its audit.
type LetterStage struct {
	gen port.Generator
}

// NewLetterStage creates a LetterStage backed by gen.
func NewLetterStage(gen port.Generator) *LetterStage {
	return &LetterStage{gen: gen}
}

// Run returns the appeal letter text. When the audit found no errors the
// stage returns an empty letter without invoking the generator: a letter
// must never reference errors that were not found.
func (s *LetterStage) Run(ctx context.Context, record *domain.BillRecord, audit *domain.ErrorAuditResult) (string, error) {
	if !audit.ErrorsDetected {
		return "", nil
	}

	out, err := s.gen.Generate(ctx, port.GenerateInput{
		PromptName: "generateAppealLetter",
		Prompt: BuildLetterPrompt(
			record.PatientName,
			record.AccountNumber,
			record.BillDate,
			record.ProviderName,
			audit.DetailedReport,
		),
		OutputSchema: schema.AppealLetter(),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrLetterGenerationFailed, err)
	}

	var letter struct {
		AppealLetter string `json:"appealLetter"`
	}
	if err := json.Unmarshal(out.Raw, &letter); err != nil {
		return "", fmt.Errorf("%w: unmarshal letter: %v", domain.ErrLetterGenerationFailed, err)
	}
	return letter.AppealLetter, nil
}
