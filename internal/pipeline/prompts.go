package pipeline

// BuildExtractionPrompt returns the prompt for the extraction stage. The
// attached document travels separately as a binary payload.
func BuildExtractionPrompt() string {
	return `You are an expert data extraction specialist for medical bills.

Given the attached medical bill document, extract the following information:

- Patient Name: The name of the patient.
- Bill Date: The date on the medical bill.
- Provider Name: The name of the healthcare provider.
- Total Amount: The total amount due on the bill.
- Account Number: The account number for the bill.
- Insurance Name: The name of the insurance company.

Then, carefully analyze all line items on the bill. Categorize each line item into exactly one of the following groups: 'procedures', 'tests', or 'medications'. For each line item, extract its description, any associated billing code (like a CPT code), and the charge amount.

Every visible line item must be placed in one of the three groups. If an item is ambiguous, choose the best-fit group rather than omitting the item.`
}

// BuildAuditPrompt returns the prompt for the error-detection stage.
// extractedData is the serialized bill record; taxonomy is the reference
// text of known billing-error categories.
func BuildAuditPrompt(extractedData, taxonomy string) string {
	return `You are an expert medical billing auditor focused on accountability and transparency. Your primary goal is to identify potential overcharges and duplicate billings.

Analyze the extracted line items from the medical bill. Your analysis should be based on the provided list of common billing errors.

Your tasks:
1. Check for duplicate services: scrutinize the list of procedures, tests, and medications for any identical line items (same description, code, and charge) that appear more than once without clear justification.
2. Flag potential overcharges (upcoding): while you cannot know the exact service provided, look for charges that seem unusually high for a given description, or services that are commonly bundled but billed separately. Use the provided billing error guide for guidance.
3. Generate a report: based on your findings, provide a clear summary and a detailed report. The tone should be objective and factual.

- If you find duplicates, list them clearly.
- If you suspect overcharges, explain why.
- If no definite errors are found, state that the bill appears to be transparent and accurate based on the provided information.

Be conservative and only flag issues with a high degree of certainty.

Extracted Data:
` + extractedData + `

Common Billing Errors Guide:
` + taxonomy
}

// BuildLetterPrompt returns the prompt for the letter-generation stage.
// The letter may draw facts only from the bill header fields and the
// audit's detailed report.
func BuildLetterPrompt(patientName, accountNumber, billDate, providerName, detailedReport string) string {
	return `You are a patient advocate and an expert in medical billing correspondence. Your task is to write a professional and clear appeal letter to a healthcare provider based on a medical bill analysis.

The user has analyzed their medical bill and found potential errors. Use the provided bill data and error report to draft a letter.

Letter requirements:
1. Tone: polite, respectful, but firm and clear.
2. Structure:
   - Patient information: start by clearly identifying the patient (Name: ` + patientName + `, Account Number: ` + accountNumber + `).
   - Purpose: state that the letter is regarding a bill dated ` + billDate + ` and that you are seeking clarification on potential billing discrepancies.
   - Details: reference the specific errors identified in the detailed report below. For each error, clearly state the service/charge in question and why it appears to be an error. Use the detailed report as the only source for this section.
   - Request: politely request a detailed, itemized review of the charges and a corrected bill to be sent.
   - Closing: end with a professional closing ("Sincerely,") and a placeholder for the user's name ("[Your Name]").
3. Content: do not add any information not present in the context. The letter must be addressed to the provider ("To Whom It May Concern at ` + providerName + `,").

Error Analysis Report:
` + detailedReport + `

Based on all the information above, generate the appeal letter as a single block of text.`
}
