package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"clearbill/internal/config"
	"clearbill/internal/domain"
	"clearbill/internal/pipeline"
	"clearbill/internal/port"
)

// AnalyzeInput is the DTO for one bill analysis request.
type AnalyzeInput struct {
	Filename string
	Data     []byte
}

// AnalysisService is the orchestrator: it validates the inbound document,
// runs the three-stage pipeline, archives the document, and persists the
// assembled result. Every failure path surfaces as an error; no partial
// results are returned.
type AnalysisService interface {
	Analyze(ctx context.Context, input AnalyzeInput) (*domain.AnalysisResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BillAnalysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.BillAnalysis, int, error)
}

type analysisService struct {
	pipeline *pipeline.Pipeline
	repo     port.AnalysisRepository
	storage  port.ObjectStorage
	s3Cfg    *config.S3Config
}

// NewAnalysisService creates an AnalysisService.
func NewAnalysisService(
	p *pipeline.Pipeline,
	repo port.AnalysisRepository,
	storage port.ObjectStorage,
	s3Cfg *config.S3Config,
) AnalysisService {
	return &analysisService{
		pipeline: p,
		repo:     repo,
		storage:  storage,
		s3Cfg:    s3Cfg,
	}
}

// ValidateDocument checks the inbound payload and returns a ValidationError
// listing every violated constraint, or the detected content type when valid.
// Content type is sniffed from magic bytes; the client's declared type is
// not trusted.
func ValidateDocument(data []byte) (string, error) {
	var violations []string
	contentType := ""

	if len(data) == 0 {
		violations = append(violations, "File is empty.")
	} else {
		if len(data) > domain.MaxDocumentSize {
			violations = append(violations, "File size exceeds 5MB.")
		}
		detected := http.DetectContentType(data)
		if i := strings.Index(detected, ";"); i >= 0 {
			detected = strings.TrimSpace(detected[:i])
		}
		if _, ok := domain.AllowedContentTypes[detected]; !ok {
			violations = append(violations, "Only images and PDFs are supported.")
		} else {
			contentType = detected
		}
	}

	if len(violations) > 0 {
		return "", domain.NewValidationError(violations...)
	}
	return contentType, nil
}

func (s *analysisService) Analyze(ctx context.Context, input AnalyzeInput) (*domain.AnalysisResult, error) {
	contentType, err := ValidateDocument(input.Data)
	if err != nil {
		return nil, err
	}

	doc := &domain.DocumentPayload{
		Filename:    input.Filename,
		ContentType: contentType,
		Data:        input.Data,
	}

	result, model, err := s.pipeline.Run(ctx, doc)
	if err != nil {
		return nil, err
	}

	analysisID := uuid.New()
	record := &domain.BillAnalysis{
		ID:             analysisID,
		PatientName:    result.ExtractedData.PatientName,
		BillDate:       result.ExtractedData.BillDate,
		ProviderName:   result.ExtractedData.ProviderName,
		TotalAmount:    result.ExtractedData.TotalAmount,
		AccountNumber:  result.ExtractedData.AccountNumber,
		InsuranceName:  result.ExtractedData.InsuranceName,
		ErrorsDetected: result.ErrorAnalysis.ErrorsDetected,
		ErrorSummary:   result.ErrorAnalysis.ErrorSummary,
		DetailedReport: result.ErrorAnalysis.DetailedReport,
		Procedures:     result.ExtractedData.Procedures,
		Tests:          result.ExtractedData.Tests,
		Medications:    result.ExtractedData.Medications,
		AppealLetter:   result.AppealLetter,
		ModelUsed:      model,
		ContentType:    contentType,
		DocumentSize:   int64(len(input.Data)),
	}

	// Archival is best effort: it sits outside the analysis pipeline and a
	// missing archive must not fail an otherwise successful request.
	if s.s3Cfg.Bucket != "" {
		key := fmt.Sprintf("bills/%s/%s", analysisID, input.Filename)
		_, upErr := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.s3Cfg.Bucket,
			Key:         key,
			Body:        bytes.NewReader(input.Data),
			ContentType: contentType,
			Size:        int64(len(input.Data)),
		})
		if upErr != nil {
			log.Printf("analysisService.Analyze: document archival failed for %s: %v", analysisID, upErr)
		} else {
			record.ArchiveBucket = s.s3Cfg.Bucket
			record.ArchiveKey = key
		}
	}

	if err := s.repo.Create(ctx, record); err != nil {
		log.Printf("analysisService.Analyze: persisting analysis %s failed: %v", analysisID, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	return result, nil
}

func (s *analysisService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillAnalysis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *analysisService) List(ctx context.Context, offset, limit int) ([]domain.BillAnalysis, int, error) {
	return s.repo.List(ctx, offset, limit)
}
