package source

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"
)

// maxLineBytes bounds one JSONL record.
const maxLineBytes = 1 << 20

// jsonlRecord accepts both the flat export layout and the app's decision
// log layout, where the SMS sits under rawInput.
type jsonlRecord struct {
	Body      string          `json:"body"`
	Sender    string          `json:"sender"`
	Timestamp json.RawMessage `json:"timestamp"`
	RawInput  *jsonlRawInput  `json:"rawInput"`
}

type jsonlRawInput struct {
	FullMessageText string `json:"fullMessageText"`
	Sender          string `json:"sender"`
}

// JSONLSource reads one JSON object per line.
type JSONLSource struct {
	r      io.Reader
	name   string
	logger logging.Logger
}

// NewJSONLSource creates a JSONL source.
func NewJSONLSource(r io.Reader, name string, logger logging.Logger) *JSONLSource {
	return &JSONLSource{r: r, name: name, logger: logging.OrDefault(logger)}
}

// Each streams the records. Blank lines are ignored.
func (s *JSONLSource) Each(ctx context.Context, fn func(models.RawMessage) error, onErr func(error)) error {
	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	line := 0
	for scanner.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return err
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		msg, err := s.decode(text, line)
		if err != nil {
			s.logger.Debug("Skipping unreadable record",
				logging.Field{Key: logging.FieldSource, Value: s.name},
				logging.Field{Key: logging.FieldLine, Value: line},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
			report(onErr, err)
			continue
		}
		if err := fn(msg); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s: %w", s.name, err)
	}
	return nil
}

func (s *JSONLSource) decode(text string, line int) (models.RawMessage, error) {
	var rec jsonlRecord
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return models.RawMessage{}, &smserror.ParseError{Source: s.name, Line: line, Err: err}
	}

	msg := models.RawMessage{Body: rec.Body, Sender: rec.Sender}
	if rec.RawInput != nil && msg.Body == "" {
		msg.Body = rec.RawInput.FullMessageText
		if msg.Sender == "" {
			msg.Sender = rec.RawInput.Sender
		}
	}
	if strings.TrimSpace(msg.Body) == "" {
		return models.RawMessage{}, &smserror.ParseError{Source: s.name, Line: line, Field: "body",
			Err: errors.New("missing message body")}
	}

	raw := strings.Trim(string(rec.Timestamp), `"`)
	if raw == "null" {
		raw = ""
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		return models.RawMessage{}, &smserror.ParseError{Source: s.name, Line: line, Field: "timestamp",
			Value: raw, Err: err}
	}
	msg.TimestampMillis = ts
	return msg, nil
}
