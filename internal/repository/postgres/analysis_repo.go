package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"clearbill/internal/domain"
	"clearbill/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, a *domain.BillAnalysis) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO bill_analyses (
		id, patient_name, bill_date, provider_name, total_amount,
		account_number, insurance_name,
		errors_detected, error_summary, detailed_report,
		procedures, tests, medications, appeal_letter,
		model_used, content_type, document_size,
		archive_bucket, archive_key, created_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7,
		$8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17,
		$18, $19, $20
	)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.PatientName, a.BillDate, a.ProviderName, a.TotalAmount,
		a.AccountNumber, a.InsuranceName,
		a.ErrorsDetected, a.ErrorSummary, a.DetailedReport,
		a.Procedures, a.Tests, a.Medications, a.AppealLetter,
		a.ModelUsed, a.ContentType, a.DocumentSize,
		a.ArchiveBucket, a.ArchiveKey, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillAnalysis, error) {
	var a domain.BillAnalysis
	err := r.db.GetContext(ctx, &a,
		"SELECT * FROM bill_analyses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &a, nil
}

func (r *analysisRepo) List(ctx context.Context, offset, limit int) ([]domain.BillAnalysis, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bill_analyses"); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	var analyses []domain.BillAnalysis
	err := r.db.SelectContext(ctx, &analyses,
		`SELECT * FROM bill_analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return analyses, total, nil
}
