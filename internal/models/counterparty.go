package models

// ExtractionConfidence grades how reliable a counterparty pattern is.
type ExtractionConfidence string

const (
	ExtractionHigh   ExtractionConfidence = "HIGH"
	ExtractionMedium ExtractionConfidence = "MEDIUM"
)

// CounterpartyExtraction is produced once per message and reused by every
// later stage.
type CounterpartyExtraction struct {
	Name       string               `json:"name,omitempty"`
	Rule       string               `json:"rule,omitempty"`
	Confidence ExtractionConfidence `json:"confidence,omitempty"`
	Found      bool                 `json:"found"`
}
