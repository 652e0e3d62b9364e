package crashstats

import (
	"fmt"
	"sort"
	"strings"
)

// Table is the immutable in-memory dataset. It is built once by a Loader
// (or NewTable) and only read afterwards.
type Table struct {
	// name is table name derived from file path.
	name string
	// header is the full file header, including columns the views do not use.
	header header
	// records is table records in file order.
	records []Record
	// stats summarises coercion failures seen while building the table.
	stats LoadStats
}

// LoadStats counts rows and lenient-parse failures observed while building a Table.
type LoadStats struct {
	Rows         int
	InvalidDates int
	InvalidTimes int
}

// YearCount is the number of records dated in one year.
type YearCount struct {
	Year  int
	Count int
}

// NewTable builds a Table from a header and raw rows.
// Every RequiredColumns entry must be present in the header.
func NewTable(name string, columns []string, rows [][]string) (*Table, error) {
	raw := make([]Row, len(rows))
	for i, r := range rows {
		raw[i] = Row(r)
	}
	return newTable(name, newHeader(columns), raw)
}

// newTable validates the header and coerces every row into a Record.
func newTable(name string, h header, rows []Row) (*Table, error) {
	if len(h) == 0 {
		return nil, ErrEmptyData
	}
	if err := validateColumnNames(h); err != nil {
		return nil, err
	}

	idx, missing := newColumnIndex(h)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	t := &Table{
		name:    name,
		header:  h,
		records: make([]Record, 0, len(rows)),
	}
	for _, r := range rows {
		rec := idx.newRecord(newRow(r, len(h)))
		if !rec.Date.Valid {
			t.stats.InvalidDates++
		}
		if !rec.Time.Valid {
			t.stats.InvalidTimes++
		}
		t.records = append(t.records, rec)
	}
	t.stats.Rows = len(t.records)
	return t, nil
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Header returns a copy of the file header.
func (t *Table) Header() []string {
	h := make([]string, len(t.header))
	copy(h, t.header)
	return h
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// Records returns the records in file order. The slice is a copy; the table is not affected
// by changes to it.
func (t *Table) Records() []Record {
	records := make([]Record, len(t.records))
	copy(records, t.records)
	return records
}

// Stats returns the load statistics.
func (t *Table) Stats() LoadStats {
	return t.stats
}

// Value returns the raw value of column for rec.
func (t *Table) Value(rec Record, column string) (string, bool) {
	i := t.header.index(column)
	if i < 0 {
		return "", false
	}
	return rec.row.value(i), true
}

// Years lists every year that has at least one parseable date, ascending.
func (t *Table) Years() []YearCount {
	counts := make(map[int]int)
	for _, rec := range t.records {
		if year, ok := rec.Year(); ok {
			counts[year]++
		}
	}

	years := make([]YearCount, 0, len(counts))
	for year, count := range counts {
		years = append(years, YearCount{Year: year, Count: count})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years
}
