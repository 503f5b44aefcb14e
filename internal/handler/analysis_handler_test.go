package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clearbill/internal/domain"
	"clearbill/internal/handler"
	"clearbill/internal/router"
	"clearbill/internal/service"
	"clearbill/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(svc service.AnalysisService) *gin.Engine {
	analysisH := handler.NewAnalysisHandler(svc)
	healthH := handler.NewHealthHandler(nil)
	return router.Setup(analysisH, healthH, []string{"http://localhost:3000"})
}

func multipartBody(t *testing.T, fieldName, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		ExtractedData: domain.BillRecord{
			PatientName:   "Jane Roe",
			BillDate:      "2026-01-15",
			ProviderName:  "General Hospital",
			TotalAmount:   420,
			AccountNumber: "ACC-42",
			InsuranceName: "Acme Health",
			Procedures:    []domain.LineItem{},
			Tests:         []domain.LineItem{{Description: "CBC panel", Code: "85025", Charge: 45.5}},
			Medications:   []domain.LineItem{},
		},
		ErrorAnalysis: domain.ErrorAuditResult{
			ErrorsDetected: false,
			ErrorSummary:   "No billing errors were identified.",
			DetailedReport: "All line items were reviewed and none matched a known error pattern.",
		},
		AppealLetter: "",
	}
}

func TestAnalysisHandler_Create_Success(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.MatchedBy(func(in service.AnalyzeInput) bool {
		return in.Filename == "bill.pdf" && len(in.Data) > 0
	})).Return(sampleResult(), nil).Once()

	r := setupRouter(svc)

	body, contentType := multipartBody(t, "file", "bill.pdf", []byte("%PDF-1.4 content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	require.NotNil(t, resp.Data)

	data := resp.Data.(map[string]interface{})
	extracted := data["extractedData"].(map[string]interface{})
	assert.Equal(t, "Jane Roe", extracted["patientName"])
	analysis := data["errorAnalysis"].(map[string]interface{})
	assert.Equal(t, false, analysis["errorsDetected"])
	assert.Equal(t, "", data["appealLetter"])
}

func TestAnalysisHandler_Create_MissingFile(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)

	svc.AssertNotCalled(t, "Analyze", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_Create_ValidationErrorEnvelope(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("File size exceeds 5MB.", "Only images and PDFs are supported.")).Once()

	r := setupRouter(svc)

	body, contentType := multipartBody(t, "file", "huge.bin", []byte("xxxx"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_DOCUMENT", resp.Error.Code)
	assert.Equal(t, "File size exceeds 5MB. Only images and PDFs are supported.", resp.Error.Message)
}

func TestAnalysisHandler_Create_ExtractionFailure(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.ErrExtractionFailed).Once()

	r := setupRouter(svc)

	body, contentType := multipartBody(t, "file", "bill.pdf", []byte("%PDF-1.4 content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "EXTRACTION_FAILED", resp.Error.Code)
}

func TestAnalysisHandler_Create_PersistenceFailure(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("Analyze", mock.Anything, mock.Anything).
		Return(nil, domain.ErrPersistenceFailed).Once()

	r := setupRouter(svc)

	body, contentType := multipartBody(t, "file", "bill.pdf", []byte("%PDF-1.4 content"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "PERSISTENCE_FAILED", resp.Error.Code)
}

func TestAnalysisHandler_GetByID_NotFound(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("GetByID", mock.Anything, mock.Anything).
		Return(nil, domain.ErrNotFound).Once()

	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalysisHandler_GetByID_InvalidID(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAnalysisHandler_List_Paginated(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	analyses := []domain.BillAnalysis{
		{ID: uuid.New(), PatientName: "Jane Roe"},
		{ID: uuid.New(), PatientName: "John Doe"},
	}
	svc.On("List", mock.Anything, 0, 20).Return(analyses, 2, nil).Once()

	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestAnalysisHandler_List_ClampsLimit(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	svc.On("List", mock.Anything, 0, 20).Return([]domain.BillAnalysis{}, 0, nil).Once()

	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?limit=5000&offset=-3", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHealthHandler_Liveness(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_NoDatabase(t *testing.T) {
	svc := new(mocks.MockAnalysisService)
	r := setupRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
