package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/smserror"

	"github.com/gocarina/gocsv"
)

// csvRow keeps the timestamp as text so one bad row does not fail the file.
type csvRow struct {
	Body      string `csv:"body"`
	Sender    string `csv:"sender"`
	Timestamp string `csv:"timestamp"`
}

// CSVSource reads a body,sender,timestamp export.
type CSVSource struct {
	r      io.Reader
	name   string
	logger logging.Logger
}

// NewCSVSource creates a CSV source.
func NewCSVSource(r io.Reader, name string, logger logging.Logger) *CSVSource {
	return &CSVSource{r: r, name: name, logger: logging.OrDefault(logger)}
}

// Each streams the rows. Line numbers count the header as line 1.
func (s *CSVSource) Each(ctx context.Context, fn func(models.RawMessage) error, onErr func(error)) error {
	rows := make(chan csvRow)
	done := make(chan error, 1)
	go func() {
		done <- gocsv.UnmarshalToChan(s.r, rows)
	}()

	line := 1
	var stopErr error
	for row := range rows {
		line++
		if stopErr != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			stopErr = err
			continue
		}

		msg, err := s.convert(row, line)
		if err != nil {
			s.logger.Debug("Skipping unreadable record",
				logging.Field{Key: logging.FieldSource, Value: s.name},
				logging.Field{Key: logging.FieldLine, Value: line},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
			report(onErr, err)
			continue
		}
		if err := fn(msg); err != nil {
			stopErr = err
		}
	}

	if err := <-done; err != nil && !errors.Is(err, gocsv.ErrEmptyCSVFile) && !errors.Is(err, io.EOF) {
		if stopErr == nil {
			stopErr = fmt.Errorf("error parsing %s: %w", s.name, err)
		}
	}
	return stopErr
}

func (s *CSVSource) convert(row csvRow, line int) (models.RawMessage, error) {
	if strings.TrimSpace(row.Body) == "" {
		return models.RawMessage{}, &smserror.ParseError{Source: s.name, Line: line, Field: "body",
			Err: errors.New("missing message body")}
	}
	ts, err := parseTimestamp(row.Timestamp)
	if err != nil {
		return models.RawMessage{}, &smserror.ParseError{Source: s.name, Line: line, Field: "timestamp",
			Value: row.Timestamp, Err: err}
	}
	return models.RawMessage{Body: row.Body, Sender: strings.TrimSpace(row.Sender), TimestampMillis: ts}, nil
}

// parseTimestamp accepts epoch milliseconds or RFC 3339. An empty value is 0.
func parseTimestamp(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if ms < 0 {
			return 0, errors.New("negative timestamp")
		}
		return ms, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return 0, errors.New("expected epoch millis or RFC 3339")
	}
	return t.UnixMilli(), nil
}
