// Package common contains shared functionality for command handlers
package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"saikumar/sms-ledger/internal/models"
	"saikumar/sms-ledger/internal/store"
)

// OpenOutput returns stdout for an empty path or "-", otherwise a new file
// at path. The returned close function is always safe to call.
func OpenOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return stdout, func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("error creating directory: %w", err)
	}
	f, err := os.Create(path) // #nosec G304 -- CLI tool requires user-provided file paths
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ListAll returns every stored transaction in time order.
func ListAll(ctx context.Context, repo store.TransactionRepository) ([]models.Transaction, error) {
	txns, err := repo.List(ctx, store.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

// Rupees formats minor units for display.
func Rupees(minor int64) string {
	return models.ExtractedAmount{MinorUnits: minor}.String()
}
