// Package noop provides a no-op AnalysisRepository used when no database is
// configured: inserts are accepted and discarded so the pipeline stays usable
// during development without a provisioned store.
package noop

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"clearbill/internal/domain"
	"clearbill/internal/port"
)

type analysisRepo struct{}

// NewAnalysisRepo creates a no-op AnalysisRepository. The warning is logged
// once at construction so silent data loss is visible in the logs.
func NewAnalysisRepo() port.AnalysisRepository {
	log.Printf("noop.NewAnalysisRepo: persistence is not configured; analyses will be accepted but discarded")
	return &analysisRepo{}
}

func (r *analysisRepo) Create(_ context.Context, a *domain.BillAnalysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()
	log.Printf("noop.analysisRepo.Create: discarding analysis %s (provider=%q errors_detected=%t)",
		a.ID, a.ProviderName, a.ErrorsDetected)
	return nil
}

func (r *analysisRepo) GetByID(_ context.Context, _ uuid.UUID) (*domain.BillAnalysis, error) {
	return nil, domain.ErrNotFound
}

func (r *analysisRepo) List(_ context.Context, _, _ int) ([]domain.BillAnalysis, int, error) {
	return []domain.BillAnalysis{}, 0, nil
}
