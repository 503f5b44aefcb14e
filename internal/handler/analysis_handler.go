package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clearbill/internal/domain"
	"clearbill/internal/export"
	"clearbill/internal/service"
)

// maxUploadBytes caps the multipart read one byte above the document limit
// so oversized uploads are detected rather than silently truncated.
const maxUploadBytes = domain.MaxDocumentSize + 1

// AnalysisHandler handles bill analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// Create handles POST /api/v1/analyses. It accepts a multipart upload with a
// single "file" field, runs the full analysis pipeline, and returns the
// assembled result.
func (h *AnalysisHandler) Create(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "could not read uploaded file")
		return
	}

	result, err := h.analysisService.Analyze(c.Request.Context(), service.AnalyzeInput{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// List handles GET /api/v1/analyses with pagination.
func (h *AnalysisHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	analyses, total, err := h.analysisService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/analyses/:id.
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	analysis, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, analysis)
}

// Export handles GET /api/v1/analyses/export. It streams every stored
// analysis as an XLSX workbook.
func (h *AnalysisHandler) Export(c *gin.Context) {
	const batchSize = 200

	var analyses []domain.BillAnalysis
	offset := 0
	for {
		batch, total, err := h.analysisService.List(c.Request.Context(), offset, batchSize)
		if err != nil {
			HandleError(c, err)
			return
		}
		analyses = append(analyses, batch...)
		offset += len(batch)
		if len(batch) == 0 || offset >= total {
			break
		}
	}

	buf, err := export.AnalysesToXLSX(analyses)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("bill-analyses-%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
