// Package source reads inbox SMS exports as a stream of raw messages.
package source

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"saikumar/sms-ledger/internal/logging"
	"saikumar/sms-ledger/internal/models"
)

// Format names an export layout.
type Format string

const (
	JSONL Format = "jsonl"
	CSV   Format = "csv"
)

// Source yields raw messages in file order. fn is called once per message;
// a non-nil return stops the scan. onErr receives per-record failures
// (always *smserror.ParseError) and the scan continues after it.
type Source interface {
	Each(ctx context.Context, fn func(models.RawMessage) error, onErr func(error)) error
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".json", ".ndjson":
		return JSONL, nil
	case ".csv":
		return CSV, nil
	default:
		return "", fmt.Errorf("unknown message source format for %s", path)
	}
}

// New returns a source of the given format reading from r. name labels
// parse errors.
func New(format Format, r io.Reader, name string, logger logging.Logger) (Source, error) {
	switch format {
	case JSONL:
		return NewJSONLSource(r, name, logger), nil
	case CSV:
		return NewCSVSource(r, name, logger), nil
	default:
		return nil, fmt.Errorf("unknown message source format: %s", format)
	}
}

// File is a Source backed by a file on disk.
type File struct {
	Path   string
	Format Format
	logger logging.Logger
}

// OpenFile returns a file source. An empty format is derived from the
// extension.
func OpenFile(path string, format Format, logger logging.Logger) (*File, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error opening message source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("message source %s is a directory", path)
	}
	return &File{Path: path, Format: format, logger: logging.OrDefault(logger)}, nil
}

// Each opens the file and streams it.
func (f *File) Each(ctx context.Context, fn func(models.RawMessage) error, onErr func(error)) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return fmt.Errorf("error opening message source: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			f.logger.WithError(err).Warn("Failed to close file")
		}
	}()

	src, err := New(f.Format, file, filepath.Base(f.Path), f.logger)
	if err != nil {
		return err
	}
	return src.Each(ctx, fn, onErr)
}

// Slice is an in-memory Source.
type Slice []models.RawMessage

// Each yields the messages in order.
func (s Slice) Each(ctx context.Context, fn func(models.RawMessage) error, _ func(error)) error {
	for _, m := range s {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
	}
	return nil
}

func report(onErr func(error), err error) {
	if onErr != nil {
		onErr(err)
	}
}
