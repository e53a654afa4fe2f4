// Package export writes stored transactions to CSV.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

// DefaultDelimiter separates CSV fields unless configured otherwise.
const DefaultDelimiter = ','

// Row is the exported shape of a transaction.
type Row struct {
	ID                   string `csv:"id"`
	Date                 string `csv:"date"`
	Amount               string `csv:"amount"`
	Currency             string `csv:"currency"`
	Direction            string `csv:"direction"`
	Type                 string `csv:"type"`
	Category             string `csv:"category"`
	Merchant             string `csv:"merchant"`
	Counterparty         string `csv:"counterparty"`
	UPIID                string `csv:"upi_id"`
	Reference            string `csv:"reference"`
	Nature               string `csv:"nature"`
	Rule                 string `csv:"rule"`
	Confidence           string `csv:"confidence"`
	RequiresConfirmation bool   `csv:"requires_confirmation"`
	LinkedID             string `csv:"linked_id"`
	Sender               string `csv:"sender"`
	Snippet              string `csv:"snippet"`
}

// NewRow flattens a transaction. Amounts are rupees with two decimals and
// dates are RFC3339 in UTC; a zero timestamp exports an empty date.
func NewRow(t models.Transaction) Row {
	date := ""
	if t.TimestampMillis > 0 {
		date = t.Time().Format(time.RFC3339)
	}
	return Row{
		ID:                   t.ID,
		Date:                 date,
		Amount:               models.ExtractedAmount{MinorUnits: t.AmountMinor}.Major().StringFixed(2),
		Currency:             models.Currency,
		Direction:            string(t.Direction),
		Type:                 string(t.Type),
		Category:             t.CategoryName,
		Merchant:             t.Merchant,
		Counterparty:         t.Counterparty,
		UPIID:                t.UPIID,
		Reference:            t.Reference,
		Nature:               string(t.Nature),
		Rule:                 string(t.MatchedRule),
		Confidence:           strconv.FormatFloat(t.Confidence, 'f', 2, 64),
		RequiresConfirmation: t.RequiresConfirmation,
		LinkedID:             t.LinkedID,
		Sender:               t.Sender,
		Snippet:              t.Snippet,
	}
}

// CSVWriter writes transactions with a fixed delimiter.
type CSVWriter struct {
	delimiter rune
	logger    logging.Logger
}

// NewCSVWriter creates a CSVWriter. A zero delimiter means a comma.
func NewCSVWriter(delimiter rune, logger logging.Logger) *CSVWriter {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	return &CSVWriter{
		delimiter: delimiter,
		logger:    logging.OrDefault(logger).WithField(logging.FieldComponent, "export"),
	}
}

// Write marshals transactions, header first, to w.
func (c *CSVWriter) Write(w io.Writer, transactions []models.Transaction) error {
	if transactions == nil {
		return errors.New("cannot write nil transactions to CSV")
	}

	rows := make([]Row, len(transactions))
	for i, t := range transactions {
		rows[i] = NewRow(t)
	}

	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = c.delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		c.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// WriteFile writes transactions to path, creating parent directories.
func (c *CSVWriter) WriteFile(path string, transactions []models.Transaction) error {
	if transactions == nil {
		return errors.New("cannot write nil transactions to CSV")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		c.logger.WithError(err).Error("Failed to create directory")
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(path) // #nosec G304 -- user-selected output path
	if err != nil {
		c.logger.WithError(err).Error("Failed to create CSV file")
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := c.Write(file, transactions); err != nil {
		return err
	}
	c.logger.Info("Wrote transactions to CSV file",
		logging.Field{Key: logging.FieldPath, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)})
	return nil
}
