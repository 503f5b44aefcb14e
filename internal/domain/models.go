package domain

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one billed service, test, or medication on a bill.
// Immutable once extracted.
type LineItem struct {
	Description string  `json:"description"`
	Code        string  `json:"code,omitempty"`
	Charge      float64 `json:"charge"`
}

// BillRecord is the full structured content of one uploaded medical bill:
// six header fields plus every line item classified into one of three buckets.
type BillRecord struct {
	PatientName   string     `json:"patientName"`
	BillDate      string     `json:"billDate"`
	ProviderName  string     `json:"providerName"`
	TotalAmount   float64    `json:"totalAmount"`
	AccountNumber string     `json:"accountNumber"`
	InsuranceName string     `json:"insuranceName"`
	Procedures    []LineItem `json:"procedures"`
	Tests         []LineItem `json:"tests"`
	Medications   []LineItem `json:"medications"`
}

// ErrorAuditResult is the audit verdict for a bill. ErrorSummary and
// DetailedReport are always non-empty prose, even when no errors were found.
type ErrorAuditResult struct {
	ErrorsDetected bool   `json:"errorsDetected"`
	ErrorSummary   string `json:"errorSummary"`
	DetailedReport string `json:"detailedReport"`
}

// AnalysisResult is the aggregate produced by one analysis request.
// AppealLetter is empty exactly when no errors were detected.
type AnalysisResult struct {
	ExtractedData BillRecord       `json:"extractedData"`
	ErrorAnalysis ErrorAuditResult `json:"errorAnalysis"`
	AppealLetter  string           `json:"appealLetter"`
}

// DocumentPayload is the inbound bill document: content type plus raw bytes.
type DocumentPayload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// BillAnalysis is the persisted form of an AnalysisResult.
type BillAnalysis struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientName    string     `db:"patient_name" json:"patient_name"`
	BillDate       string     `db:"bill_date" json:"bill_date"`
	ProviderName   string     `db:"provider_name" json:"provider_name"`
	TotalAmount    float64    `db:"total_amount" json:"total_amount"`
	AccountNumber  string     `db:"account_number" json:"account_number"`
	InsuranceName  string     `db:"insurance_name" json:"insurance_name"`
	ErrorsDetected bool       `db:"errors_detected" json:"errors_detected"`
	ErrorSummary   string     `db:"error_summary" json:"error_summary"`
	DetailedReport string     `db:"detailed_report" json:"detailed_report"`
	Procedures     LineItems  `db:"procedures" json:"procedures"`
	Tests          LineItems  `db:"tests" json:"tests"`
	Medications    LineItems  `db:"medications" json:"medications"`
	AppealLetter   string     `db:"appeal_letter" json:"appeal_letter"`
	ModelUsed      string     `db:"model_used" json:"model_used"`
	ContentType    string     `db:"content_type" json:"content_type"`
	DocumentSize   int64      `db:"document_size" json:"document_size"`
	ArchiveBucket  string     `db:"archive_bucket" json:"archive_bucket,omitempty"`
	ArchiveKey     string     `db:"archive_key" json:"archive_key,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}
