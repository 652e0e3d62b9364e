package store

import "errors"

// Predefined errors
var (
	// ErrNilTable is returned when Open is called without a table
	ErrNilTable = errors.New("crashstats store: table cannot be nil")

	// ErrEmptyQuery is returned when Query is called with blank SQL
	ErrEmptyQuery = errors.New("crashstats store: query cannot be empty")

	// ErrClosed is returned when the store is used after Close
	ErrClosed = errors.New("crashstats store: store is closed")
)
