package port

import (
	"context"

	"github.com/google/uuid"

	"clearbill/internal/domain"
)

// AnalysisRepository persists completed bill analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.BillAnalysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillAnalysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillAnalysis, int, error)
}
