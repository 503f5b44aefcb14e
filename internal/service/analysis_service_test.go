package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clearbill/internal/config"
	"clearbill/internal/domain"
	"clearbill/internal/pipeline"
	"clearbill/internal/port"
	"clearbill/internal/service"
	"clearbill/mocks"
)

// pdfContent returns bytes whose magic prefix sniffs as application/pdf.
func pdfContent() []byte {
	return []byte("%PDF-1.4 minimal bill content for detection purposes")
}

// jpegContent returns bytes whose magic prefix sniffs as image/jpeg.
func jpegContent() []byte {
	header := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	return append(header, bytes.Repeat([]byte{0x01}, 64)...)
}

func cleanAuditOutput() *port.GenerateOutput {
	return &port.GenerateOutput{
		Raw: []byte(`{
			"errorsDetected": false,
			"errorSummary": "No billing errors were identified.",
			"detailedReport": "All line items were reviewed against known error patterns and none matched."
		}`),
		ModelUsed: "gpt-4o",
	}
}

func extractGenOutput() *port.GenerateOutput {
	return &port.GenerateOutput{
		Raw: []byte(`{
			"patientName": "Jane Roe",
			"billDate": "2026-01-15",
			"providerName": "General Hospital",
			"totalAmount": 420.00,
			"accountNumber": "ACC-42",
			"insuranceName": "Acme Health",
			"procedures": [],
			"tests": [{"description": "CBC panel", "code": "85025", "charge": 45.5}],
			"medications": []
		}`),
		ModelUsed: "gpt-4o",
	}
}

func newService(gen port.Generator, repo *mocks.MockAnalysisRepo, storage *mocks.MockObjectStorage, bucket string) service.AnalysisService {
	s3Cfg := &config.S3Config{Region: "us-east-1", Bucket: bucket}
	return service.NewAnalysisService(pipeline.New(gen, ""), repo, storage, s3Cfg)
}

func TestValidateDocument_Empty(t *testing.T) {
	_, err := service.ValidateDocument(nil)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"File is empty."}, vErr.Violations)
}

func TestValidateDocument_AtSizeLimit(t *testing.T) {
	data := append([]byte("%PDF-1.4 "), bytes.Repeat([]byte{0x20}, domain.MaxDocumentSize-9)...)
	require.Len(t, data, domain.MaxDocumentSize)

	contentType, err := service.ValidateDocument(data)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
}

func TestValidateDocument_OneByteOver(t *testing.T) {
	data := append([]byte("%PDF-1.4 "), bytes.Repeat([]byte{0x20}, domain.MaxDocumentSize-8)...)
	require.Len(t, data, domain.MaxDocumentSize+1)

	_, err := service.ValidateDocument(data)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"File size exceeds 5MB."}, vErr.Violations)
}

func TestValidateDocument_UnsupportedType(t *testing.T) {
	_, err := service.ValidateDocument([]byte("plain text, not a bill document"))

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"Only images and PDFs are supported."}, vErr.Violations)
}

func TestValidateDocument_OversizedAndUnsupported_AllViolationsReported(t *testing.T) {
	data := bytes.Repeat([]byte("x"), domain.MaxDocumentSize+1)

	_, err := service.ValidateDocument(data)

	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 2)
	assert.Contains(t, vErr.Error(), "File size exceeds 5MB.")
	assert.Contains(t, vErr.Error(), "Only images and PDFs are supported.")
}

func TestValidateDocument_SniffsIgnoringFilename(t *testing.T) {
	// content wins over whatever extension or declared type came with it
	contentType, err := service.ValidateDocument(jpegContent())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
}

func TestAnalyze_CleanBill_PersistedWithoutLetter(t *testing.T) {
	gen := new(mocks.MockGenerator)
	repo := new(mocks.MockAnalysisRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newService(gen, repo, storage, "")

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "extractMedicalBillData"
	})).Return(extractGenOutput(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "detectBillingErrors"
	})).Return(cleanAuditOutput(), nil).Once()

	var saved *domain.BillAnalysis
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillAnalysis")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.BillAnalysis)
		}).
		Return(nil).Once()

	result, err := svc.Analyze(context.Background(), service.AnalyzeInput{
		Filename: "bill.pdf",
		Data:     pdfContent(),
	})

	require.NoError(t, err)
	assert.False(t, result.ErrorAnalysis.ErrorsDetected)
	assert.Empty(t, result.AppealLetter)

	require.NotNil(t, saved)
	assert.Equal(t, "Jane Roe", saved.PatientName)
	assert.Equal(t, "application/pdf", saved.ContentType)
	assert.Equal(t, int64(len(pdfContent())), saved.DocumentSize)
	assert.Empty(t, saved.AppealLetter)
	assert.Empty(t, saved.ArchiveBucket)
	assert.Equal(t, "gpt-4o", saved.ModelUsed)

	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	gen.AssertNumberOfCalls(t, "Generate", 2)
}

func TestAnalyze_ArchivesDocumentWhenBucketConfigured(t *testing.T) {
	gen := new(mocks.MockGenerator)
	repo := new(mocks.MockAnalysisRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newService(gen, repo, storage, "clearbill-archive")

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "extractMedicalBillData"
	})).Return(extractGenOutput(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "detectBillingErrors"
	})).Return(cleanAuditOutput(), nil).Once()

	var uploaded port.UploadInput
	storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Run(func(args mock.Arguments) {
			uploaded = args.Get(1).(port.UploadInput)
		}).
		Return(&port.UploadOutput{Location: "https://example/bill.pdf"}, nil).Once()

	var saved *domain.BillAnalysis
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillAnalysis")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.BillAnalysis)
		}).
		Return(nil).Once()

	_, err := svc.Analyze(context.Background(), service.AnalyzeInput{Filename: "bill.pdf", Data: pdfContent()})
	require.NoError(t, err)

	assert.Equal(t, "clearbill-archive", uploaded.Bucket)
	assert.True(t, strings.HasPrefix(uploaded.Key, "bills/"))
	assert.True(t, strings.HasSuffix(uploaded.Key, "/bill.pdf"))
	assert.Equal(t, "application/pdf", uploaded.ContentType)

	require.NotNil(t, saved)
	assert.Equal(t, "clearbill-archive", saved.ArchiveBucket)
	assert.Equal(t, uploaded.Key, saved.ArchiveKey)
}

func TestAnalyze_ArchiveFailureDoesNotFailRequest(t *testing.T) {
	gen := new(mocks.MockGenerator)
	repo := new(mocks.MockAnalysisRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newService(gen, repo, storage, "clearbill-archive")

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "extractMedicalBillData"
	})).Return(extractGenOutput(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "detectBillingErrors"
	})).Return(cleanAuditOutput(), nil).Once()

	storage.On("Upload", mock.Anything, mock.Anything).
		Return(nil, errors.New("bucket unreachable")).Once()

	var saved *domain.BillAnalysis
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.BillAnalysis")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*domain.BillAnalysis)
		}).
		Return(nil).Once()

	_, err := svc.Analyze(context.Background(), service.AnalyzeInput{Filename: "bill.pdf", Data: pdfContent()})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Empty(t, saved.ArchiveBucket)
	assert.Empty(t, saved.ArchiveKey)
}

func TestAnalyze_PersistenceFailureIsTerminal(t *testing.T) {
	gen := new(mocks.MockGenerator)
	repo := new(mocks.MockAnalysisRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newService(gen, repo, storage, "")

	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "extractMedicalBillData"
	})).Return(extractGenOutput(), nil).Once()
	gen.On("Generate", mock.Anything, mock.MatchedBy(func(in port.GenerateInput) bool {
		return in.PromptName == "detectBillingErrors"
	})).Return(cleanAuditOutput(), nil).Once()

	repo.On("Create", mock.Anything, mock.Anything).
		Return(errors.New("connection refused")).Once()

	result, err := svc.Analyze(context.Background(), service.AnalyzeInput{Filename: "bill.pdf", Data: pdfContent()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)
}

func TestAnalyze_InvalidDocument_PipelineNeverRuns(t *testing.T) {
	gen := new(mocks.MockGenerator)
	repo := new(mocks.MockAnalysisRepo)
	storage := new(mocks.MockObjectStorage)
	svc := newService(gen, repo, storage, "clearbill-archive")

	result, err := svc.Analyze(context.Background(), service.AnalyzeInput{
		Filename: "notes.txt",
		Data:     []byte("just some plain text"),
	})

	assert.Nil(t, result)
	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)

	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
	storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
