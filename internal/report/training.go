package report

import (
	"encoding/json"
	"fmt"
	"io"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

// DefaultTrainingConfidence is the lowest confidence exported by default.
const DefaultTrainingConfidence = 0.85

// TrainingRecord is one labelled example of merchant to category.
type TrainingRecord struct {
	Text     string  `json:"text"`
	Merchant string  `json:"merchant"`
	Label    string  `json:"label"`
	Conf     float64 `json:"conf"`
	Source   string  `json:"source"`
}

// TrainingRecords selects records with a merchant and a real category whose
// confidence is at least minConfidence. Records awaiting confirmation and
// linked self-transfers are left out; low-confidence records count once the
// user has confirmed them.
func TrainingRecords(txns []models.Transaction, minConfidence float64) []TrainingRecord {
	var out []TrainingRecord
	for _, t := range txns {
		if t.Merchant == "" || t.CategoryName == "" || t.CategoryName == models.CategoryUncategorized {
			continue
		}
		if t.RequiresConfirmation || t.LinkedID != "" {
			continue
		}
		if t.Confidence < minConfidence && !userConfirmed(t) {
			continue
		}
		conf := t.Confidence
		if userConfirmed(t) {
			conf = 1.0
		}
		out = append(out, TrainingRecord{
			Text:     t.Snippet,
			Merchant: t.Merchant,
			Label:    t.CategoryName,
			Conf:     conf,
			Source:   "LEDGER",
		})
	}
	return out
}

// userConfirmed reports whether a fallback record had its flag cleared,
// which only happens through a manual categorization.
func userConfirmed(t models.Transaction) bool {
	return !t.RequiresConfirmation && t.MatchedRule.IsFallback()
}

// WriteTrainingJSONL writes one JSON object per line.
func (g *Generator) WriteTrainingJSONL(w io.Writer, records []TrainingRecord) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to write training record: %w", err)
		}
	}
	g.logger.Info("Wrote training data", logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}
