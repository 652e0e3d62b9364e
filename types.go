package crashstats

import (
	"fmt"
	"strings"
)

// File format delimiters
const (
	// csvDelimiter is the delimiter for CSV files
	csvDelimiter = ','
	// tsvDelimiter is the delimiter for TSV files
	tsvDelimiter = '\t'
	// ltsvLabelSeparator separates a label from its value in an LTSV field
	ltsvLabelSeparator = ":"
)

// utf8BOM is stripped from the first header cell; spreadsheet exports often carry it.
const utf8BOM = "\ufeff"

// header is file header.
type header []string

// newHeader creates a header with trimmed column names.
func newHeader(h []string) header {
	cleaned := make(header, len(h))
	for i, name := range h {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(name)
	}
	return cleaned
}

// index returns the position of the named column, or -1.
// Column names are compared case-insensitively.
func (h header) index(name string) int {
	for i, col := range h {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

// Row is one raw record as read from the file, one string per header column.
type Row []string

// newRow copies r and pads or truncates it to width columns.
func newRow(r []string, width int) Row {
	row := make(Row, width)
	copy(row, r)
	return row
}

// value returns the field at i, or "" when the row is shorter.
func (r Row) value(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// validateColumnNames checks for duplicate column names and returns error if found.
// Comparison is case-insensitive because columns are looked up that way.
func validateColumnNames(columns []string) error {
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		key := strings.ToLower(strings.TrimSpace(col))
		if seen[key] {
			return fmt.Errorf("%w: %s", ErrDuplicateColumnName, col)
		}
		seen[key] = true
	}
	return nil
}
