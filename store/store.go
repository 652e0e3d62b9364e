package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/crashstats"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// TableName is the name of the SQL table holding the dataset.
const TableName = "accidents"

// Derived columns appended to every row.
const (
	ColumnYear      = "accident_year"
	ColumnHour      = "accident_hour"
	ColumnSpeedZone = "speed_zone_kmh"
)

// Store is an in-memory SQLite database holding one dataset.
// It is safe for concurrent use; queries are serialised on a single connection.
type Store struct {
	db      *sql.DB
	columns []column
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for store events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open creates an in-memory database and loads table into it.
func Open(ctx context.Context, table *crashstats.Table, opts ...Option) (*Store, error) {
	if table == nil {
		return nil, ErrNilTable
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every connection to ":memory:" is a separate database
	db.SetMaxOpenConns(1)

	s := &Store{
		db:     db,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(ctx, table); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, errors.Join(err, fmt.Errorf("failed to close database: %w", closeErr))
		}
		return nil, err
	}

	s.logger.Debug("store opened", zap.String("table", TableName), zap.Int("rows", table.Len()))
	return s, nil
}

// load creates the accidents table and inserts every record.
func (s *Store) load(ctx context.Context, table *crashstats.Table) error {
	records := table.Records()
	header := table.Header()

	names := uniqueIdentifiers(header, ColumnYear, ColumnHour, ColumnSpeedZone)
	s.columns = make([]column, 0, len(header)+3)
	for i, source := range header {
		values := make([]string, len(records))
		for j, rec := range records {
			values[j], _ = table.Value(rec, source)
		}
		s.columns = append(s.columns, column{name: names[i], source: source, typ: inferColumnType(values)})
	}
	s.columns = append(s.columns,
		column{name: ColumnYear, typ: columnTypeInteger},
		column{name: ColumnHour, typ: columnTypeInteger},
		column{name: ColumnSpeedZone, typ: columnTypeInteger},
	)

	if _, err := s.db.ExecContext(ctx, s.createTableSQL()); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.insert(ctx, tx, table, records); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to rollback: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// insert writes records with a single prepared statement.
func (s *Store) insert(ctx context.Context, tx *sql.Tx, table *crashstats.Table, records []crashstats.Record) error {
	stmt, err := tx.PrepareContext(ctx, s.insertSQL())
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(s.columns))
	for i, rec := range records {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		for j, col := range s.columns {
			switch col.name {
			case ColumnYear:
				args[j] = nullable(rec.Year())
			case ColumnHour:
				args[j] = nullable(rec.Hour())
			case ColumnSpeedZone:
				args[j] = nullable(rec.SpeedZoneKmh())
			default:
				value, _ := table.Value(rec, col.source)
				args[j] = convertValue(value, col.typ)
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("failed to insert row %d: %w", i+1, err)
		}
	}
	return nil
}

// nullable turns a value and ok flag into a database value.
func nullable(v int, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

// convertValue converts a raw cell to the value stored for typ. Empty cells become NULL.
func convertValue(value string, typ columnType) any {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	switch typ {
	case columnTypeInteger:
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
	case columnTypeReal:
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	}
	return value
}

// createTableSQL returns the CREATE TABLE statement of the accidents table.
func (s *Store) createTableSQL() string {
	defs := make([]string, len(s.columns))
	for i, col := range s.columns {
		defs[i] = quoteIdentifier(col.name) + " " + col.typ.String()
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdentifier(TableName), strings.Join(defs, ", "))
}

// insertSQL returns the parameterised INSERT statement of the accidents table.
func (s *Store) insertSQL() string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = quoteIdentifier(col.name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(s.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdentifier(TableName), strings.Join(names, ", "), placeholders)
}

// Columns returns the SQL column names of the accidents table, derived columns last.
func (s *Store) Columns() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.name
	}
	return names
}

// Close releases the database. Calling Close more than once is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// isClosed reports whether Close has been called.
func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Query runs a read query and renders the result as a view titled with the query text.
// NULL cells render as the empty string.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*crashstats.View, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if s.isClosed() {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	view := &crashstats.View{
		Title:   strings.TrimSpace(query),
		Columns: columns,
		Rows:    make([][]string, 0),
	}
	cells := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		view.Rows = append(view.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	s.logger.Debug("query executed", zap.String("query", view.Title), zap.Int("rows", view.Len()))
	return view, nil
}

// CountByHour counts the accidents of year per hour of day.
// Accidents with an unparseable time are excluded.
func (s *Store) CountByHour(ctx context.Context, year int) (crashstats.Counts, error) {
	return s.countBy(ctx, ColumnHour, year)
}

// CountBySpeedZone counts the accidents of year per numeric speed zone.
// Accidents without a numeric zone are excluded.
func (s *Store) CountBySpeedZone(ctx context.Context, year int) (crashstats.Counts, error) {
	return s.countBy(ctx, ColumnSpeedZone, year)
}

// countBy groups the accidents of year by an integer derived column.
func (s *Store) countBy(ctx context.Context, key string, year int) (crashstats.Counts, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}

	query := fmt.Sprintf(
		"SELECT %[1]s, COUNT(*) FROM %[2]s WHERE %[3]s = ? AND %[1]s IS NOT NULL GROUP BY %[1]s",
		quoteIdentifier(key), quoteIdentifier(TableName), quoteIdentifier(ColumnYear))

	rows, err := s.db.QueryContext(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", key, err)
	}
	defer rows.Close()

	counts := make(crashstats.Counts)
	for rows.Next() {
		var k, n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[k] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate counts: %w", err)
	}
	return counts, nil
}
