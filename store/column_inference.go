package store

import (
	"strconv"
	"strings"
)

// columnType represents the SQL column type
type columnType int

const (
	// columnTypeText represents TEXT column type
	columnTypeText columnType = iota
	// columnTypeInteger represents INTEGER column type
	columnTypeInteger
	// columnTypeReal represents REAL column type
	columnTypeReal
)

// String returns the SQL column type string
func (ct columnType) String() string {
	switch ct {
	case columnTypeInteger:
		return "INTEGER"
	case columnTypeReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Type inference constants
const (
	// maxSampleSize limits how many values are sampled for type inference
	maxSampleSize = 1000
	// minConfidenceThreshold is the minimum share of values that must parse as a numeric type
	minConfidenceThreshold = 0.8
)

// column is one column of the accidents table.
type column struct {
	name   string // sanitised SQL identifier
	source string // header as read from the file, empty for derived columns
	typ    columnType
}

// inferColumnType infers the SQL column type from a sample of values.
// Empty values are ignored. The column is numeric when at least
// minConfidenceThreshold of the remaining values are numbers; stray text is
// then stored as-is under SQLite's flexible typing.
func inferColumnType(values []string) columnType {
	sample := sampleValues(values)

	var integers, reals, texts int
	for _, value := range sample {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		switch {
		case isInteger(value):
			integers++
		case isFloat(value):
			reals++
		default:
			texts++
		}
	}

	nonEmpty := integers + reals + texts
	if nonEmpty == 0 || float64(integers+reals)/float64(nonEmpty) < minConfidenceThreshold {
		return columnTypeText
	}
	if reals > 0 {
		return columnTypeReal
	}
	return columnTypeInteger
}

// sampleValues returns at most maxSampleSize values spread evenly across values.
func sampleValues(values []string) []string {
	if len(values) <= maxSampleSize {
		return values
	}
	step := len(values) / maxSampleSize
	samples := make([]string, 0, maxSampleSize)
	for i := 0; i < len(values) && len(samples) < maxSampleSize; i += step {
		samples = append(samples, values[i])
	}
	return samples
}

// isInteger checks if a value is an integer
func isInteger(value string) bool {
	first := value[0]
	if first != '+' && first != '-' && (first < '0' || first > '9') {
		return false
	}
	_, err := strconv.ParseInt(value, 10, 64)
	return err == nil
}

// isFloat checks if a value is a finite decimal number. NaN and Inf have no digits.
func isFloat(value string) bool {
	if !strings.ContainsAny(value, "0123456789") {
		return false
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// Character classes of SQL identifiers
const (
	firstDigitChar = '0'
	lastDigitChar  = '9'
	underscoreChar = '_'
)

// sanitizeIdentifier turns a file header into a SQL identifier:
// letters, digits and underscores only, never starting with a digit.
func sanitizeIdentifier(name string) string {
	var sb strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= firstDigitChar && r <= lastDigitChar, r == underscoreChar:
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			sb.WriteRune(underscoreChar)
		}
	}

	result := sb.String()
	if result == "" {
		return "column"
	}
	if result[0] >= firstDigitChar && result[0] <= lastDigitChar {
		result = "column_" + result
	}
	return result
}

// uniqueIdentifiers sanitises names and appends _2, _3, ... to repeats, case-insensitively.
// reserved names are treated as already taken.
func uniqueIdentifiers(names []string, reserved ...string) []string {
	taken := make(map[string]bool, len(names)+len(reserved))
	for _, r := range reserved {
		taken[strings.ToLower(r)] = true
	}

	out := make([]string, len(names))
	for i, name := range names {
		base := sanitizeIdentifier(name)
		candidate := base
		for n := 2; taken[strings.ToLower(candidate)]; n++ {
			candidate = base + "_" + strconv.Itoa(n)
		}
		taken[strings.ToLower(candidate)] = true
		out[i] = candidate
	}
	return out
}

// quoteIdentifier quotes a SQL identifier
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
