package crashstats

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error values. Callers test for them with errors.Is.
var (
	// ErrEmptyData indicates that the data source contains no header or no records
	ErrEmptyData = errors.New("crashstats: empty data source")

	// ErrUnsupportedFormat indicates an unsupported file format
	ErrUnsupportedFormat = errors.New("crashstats: unsupported file format")

	// ErrUnsupportedCompression indicates a compression that cannot be used for the operation
	ErrUnsupportedCompression = errors.New("crashstats: unsupported compression")

	// ErrFileNotFound indicates file not found
	ErrFileNotFound = errors.New("crashstats: file not found")

	// ErrMissingColumn indicates that a required dataset column is absent from the header
	ErrMissingColumn = errors.New("crashstats: missing required column")

	// ErrDuplicateColumnName is returned when a file contains duplicate column names
	ErrDuplicateColumnName = errors.New("crashstats: duplicate column name")

	// ErrNoSource indicates that the loader was not given any input
	ErrNoSource = errors.New("crashstats: no data source configured")

	// ErrUnknownView indicates a view name that does not exist
	ErrUnknownView = errors.New("crashstats: unknown view")
)

// ErrorContext provides context for where an error occurred
type ErrorContext struct {
	Operation string
	FilePath  string
	Details   string
}

// NewErrorContext creates a new error context
func NewErrorContext(operation, filePath string) *ErrorContext {
	return &ErrorContext{
		Operation: operation,
		FilePath:  filePath,
	}
}

// WithDetails adds details to the error context
func (ec *ErrorContext) WithDetails(details string) *ErrorContext {
	ec.Details = details
	return ec
}

// Error creates a formatted error with context
func (ec *ErrorContext) Error(baseErr error) error {
	parts := []string{fmt.Sprintf("crashstats: %s failed", ec.Operation)}

	if ec.FilePath != "" {
		parts = append(parts, "file: "+ec.FilePath)
	}
	if ec.Details != "" {
		parts = append(parts, "details: "+ec.Details)
	}

	context := strings.Join(parts, ", ")
	if baseErr != nil {
		return fmt.Errorf("%s: %w", context, baseErr)
	}
	return errors.New(context)
}
