package port

import (
	"context"
	"encoding/json"
)

// DocumentAttachment is an optional binary document sent alongside a prompt.
type DocumentAttachment struct {
	ContentType string
	Data        []byte
}

// GenerateInput carries one structured-output request to an LLM provider.
// OutputSchema is a JSON-Schema map; providers must return JSON that
// validates against it or fail.
type GenerateInput struct {
	PromptName   string
	Prompt       string
	Document     *DocumentAttachment
	OutputSchema map[string]any
}

// GenerateOutput is the schema-valid JSON produced by a provider.
type GenerateOutput struct {
	Raw       json.RawMessage
	ModelUsed string
}

// Generator abstracts the generative capability behind the analysis pipeline.
// Implementations make exactly one attempt per call; retries and fallbacks
// are deliberately absent.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*GenerateOutput, error)
}
