package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"clearbill/internal/domain"
)

const sheetName = "Analyses"

// columns defines the export header row.
var columns = []string{
	"Analysis ID",
	"Patient Name",
	"Bill Date",
	"Provider Name",
	"Account Number",
	"Insurance Name",
	"Total Amount",
	"Procedure Count",
	"Test Count",
	"Medication Count",
	"Errors Detected",
	"Error Summary",
	"Appeal Letter Generated",
	"Model Used",
	"Document Type",
	"Document Size (bytes)",
	"Created At",
}

// AnalysesToXLSX renders stored analyses as a single-sheet XLSX workbook.
func AnalysesToXLSX(analyses []domain.BillAnalysis) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remove default sheet: %w", err)
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i := range analyses {
		cell := fmt.Sprintf("A%d", i+2)
		row := analysisToRow(&analyses[i])
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return &buf, nil
}

func analysisToRow(a *domain.BillAnalysis) []interface{} {
	letterGenerated := "No"
	if strings.TrimSpace(a.AppealLetter) != "" {
		letterGenerated = "Yes"
	}
	errorsDetected := "No"
	if a.ErrorsDetected {
		errorsDetected = "Yes"
	}

	return []interface{}{
		a.ID.String(),
		a.PatientName,
		a.BillDate,
		a.ProviderName,
		a.AccountNumber,
		a.InsuranceName,
		a.TotalAmount,
		len(a.Procedures),
		len(a.Tests),
		len(a.Medications),
		errorsDetected,
		a.ErrorSummary,
		letterGenerated,
		a.ModelUsed,
		a.ContentType,
		a.DocumentSize,
		a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
