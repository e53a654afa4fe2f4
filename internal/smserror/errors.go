// Package smserror defines the typed errors shared across the SMS ledger.
package smserror

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicate is returned when a content hash is already stored.
	ErrDuplicate = errors.New("duplicate transaction")
	// ErrNotFound is returned when a stored record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidPattern is returned for an unusable user pattern entry.
	ErrInvalidPattern = errors.New("invalid pattern")
)

// ParseError is returned when one record of a message source cannot be read.
type ParseError struct {
	Source string
	Line   int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: failed to parse %s='%s': %v",
		e.Source, e.Line, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError is returned when a configuration or data file is unusable.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Path, e.Reason)
}

// StoreError wraps a persistence failure.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ClassificationError is returned when a message fails unexpectedly inside
// the pipeline.
type ClassificationError struct {
	Hash  string
	Stage string
	Err   error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification of %s failed at %s: %v", e.Hash, e.Stage, e.Err)
}

func (e *ClassificationError) Unwrap() error {
	return e.Err
}
