package export

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clearbill/internal/domain"
)

func TestAnalysesToXLSX(t *testing.T) {
	analyses := []domain.BillAnalysis{
		{
			ID:             uuid.New(),
			PatientName:    "Jane Roe",
			BillDate:       "2026-01-15",
			ProviderName:   "General Hospital",
			TotalAmount:    420.5,
			AccountNumber:  "ACC-42",
			InsuranceName:  "Acme Health",
			ErrorsDetected: true,
			ErrorSummary:   "Duplicate charge found.",
			Procedures:     domain.LineItems{{Description: "Office visit", Code: "99213", Charge: 150}},
			Tests:          domain.LineItems{{Description: "CBC panel", Charge: 45.5}, {Description: "CBC panel", Charge: 45.5}},
			AppealLetter:   "To Whom It May Concern,\n...",
			ModelUsed:      "gpt-4o",
			ContentType:    "application/pdf",
			DocumentSize:   1024,
			CreatedAt:      time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:          uuid.New(),
			PatientName: "John Doe",
			CreatedAt:   time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	buf, err := AnalysesToXLSX(analyses)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, columns, rows[0][:len(columns)])

	first := rows[1]
	assert.Equal(t, analyses[0].ID.String(), first[0])
	assert.Equal(t, "Jane Roe", first[1])
	assert.Equal(t, "1", first[7])  // procedures
	assert.Equal(t, "2", first[8])  // tests
	assert.Equal(t, "Yes", first[10])
	assert.Equal(t, "Yes", first[12])

	second := rows[2]
	assert.Equal(t, "John Doe", second[1])
	assert.Equal(t, "No", second[10])
	assert.Equal(t, "No", second[12])
}

func TestAnalysesToXLSX_Empty(t *testing.T) {
	buf, err := AnalysesToXLSX(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
