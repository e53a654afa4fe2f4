// Package report renders the sender analysis, the transaction audit and
// the training-data export.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

// Format is an output format for the audit report.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Generator writes reports. It holds no state besides its logger.
type Generator struct {
	logger logging.Logger
}

// NewGenerator creates a Generator.
func NewGenerator(logger logging.Logger) *Generator {
	return &Generator{logger: logging.OrDefault(logger).WithField(logging.FieldComponent, "report")}
}

// SenderStats summarizes the messages of one sender id.
type SenderStats struct {
	Sender  string   `json:"sender"`
	Count   int      `json:"count"`
	Samples []string `json:"samples"`
}

// Sender analysis defaults.
const (
	DefaultMaxSamples   = 5
	DefaultSampleLength = 100
)

// AnalyzeSenders groups messages by sender, most frequent first. Ties sort
// by sender. Each entry keeps up to maxSamples body prefixes.
func AnalyzeSenders(msgs []models.RawMessage, maxSamples, sampleLength int) []SenderStats {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if sampleLength <= 0 {
		sampleLength = DefaultSampleLength
	}

	bySender := make(map[string]*SenderStats)
	for _, m := range msgs {
		sender := strings.TrimSpace(m.Sender)
		if sender == "" {
			sender = "UNKNOWN"
		}
		s, ok := bySender[sender]
		if !ok {
			s = &SenderStats{Sender: sender}
			bySender[sender] = s
		}
		s.Count++
		if len(s.Samples) < maxSamples {
			s.Samples = append(s.Samples, prefix(m.Body, sampleLength))
		}
	}

	out := make([]SenderStats, 0, len(bySender))
	for _, s := range bySender {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Sender < out[j].Sender
	})
	return out
}

// WriteSenderReport writes the sender analysis as a markdown table.
func (g *Generator) WriteSenderReport(w io.Writer, stats []SenderStats) error {
	var b strings.Builder
	b.WriteString("# Sender Pattern Analysis\n\n")
	b.WriteString("| Sender | Count | Common Patterns |\n")
	b.WriteString("|---|---|---|\n")
	for _, s := range stats {
		samples := make([]string, len(s.Samples))
		for i, body := range s.Samples {
			samples[i] = cell(body)
		}
		fmt.Fprintf(&b, "| %s | %d | %s |\n", cell(s.Sender), s.Count, strings.Join(samples, "<br>"))
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write sender report: %w", err)
	}
	g.logger.Info("Wrote sender report", logging.Field{Key: logging.FieldCount, Value: len(stats)})
	return nil
}

// WriteAuditReport renders an audit in the given format.
func (g *Generator) WriteAuditReport(w io.Writer, a *Audit, format Format) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(a, "", "  ")
		if err != nil {
			g.logger.WithError(err).Error("Failed to marshal audit report")
			return fmt.Errorf("failed to marshal audit report: %w", err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write audit report: %w", err)
		}
	case FormatMarkdown, "":
		if _, err := io.WriteString(w, a.Markdown()); err != nil {
			return fmt.Errorf("failed to write audit report: %w", err)
		}
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
	g.logger.Info("Wrote audit report",
		logging.Field{Key: logging.FieldCount, Value: a.Scanned},
		logging.Field{Key: "issues", Value: len(a.Issues)})
	return nil
}

func prefix(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// cell makes text safe for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "")
}
