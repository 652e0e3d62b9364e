package crashstats

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/xuri/excelize/v2"
)

// ctxCheckInterval is how many rows are read between context checks.
const ctxCheckInterval = 1024

// streamingParser reads a header and raw rows of one format from an io.Reader.
// The reader is expected to be decompressed already.
type streamingParser struct {
	fileType FileType
}

// newStreamingParser creates a parser for fileType
func newStreamingParser(fileType FileType) *streamingParser {
	return &streamingParser{fileType: fileType}
}

// parse reads every row from reader.
func (p *streamingParser) parse(ctx context.Context, reader io.Reader) (header, []Row, error) {
	switch p.fileType {
	case FileTypeCSV:
		return p.parseDelimited(ctx, reader, csvDelimiter)
	case FileTypeTSV:
		return p.parseDelimited(ctx, reader, tsvDelimiter)
	case FileTypeLTSV:
		return p.parseLTSV(ctx, reader)
	case FileTypeParquet:
		return p.parseParquet(ctx, reader)
	case FileTypeXLSX:
		return p.parseXLSX(ctx, reader)
	default:
		return nil, nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, p.fileType)
	}
}

// checkContext returns ctx.Err() every ctxCheckInterval rows.
func checkContext(ctx context.Context, rows int) error {
	if rows%ctxCheckInterval != 0 {
		return nil
	}
	return ctx.Err()
}

// parseDelimited parses CSV or TSV data with the given delimiter
func (p *streamingParser) parseDelimited(ctx context.Context, reader io.Reader, delimiter rune) (header, []Row, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.FieldsPerRecord = -1 // short and long rows are padded or truncated to the header
	if delimiter == tsvDelimiter {
		csvReader.LazyQuotes = true
	}

	first, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrEmptyData
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}
	h := newHeader(first)

	var rows []Row
	for {
		if err := checkContext(ctx, len(rows)); err != nil {
			return nil, nil, err
		}
		fields, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read %s row %d: %w", p.fileType, len(rows)+2, err)
		}
		rows = append(rows, newRow(fields, len(h)))
	}
	return h, rows, nil
}

// parseLTSV parses LTSV data. The header is the union of labels in first-seen order.
func (p *streamingParser) parseLTSV(ctx context.Context, reader io.Reader) (header, []Row, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		labels  []string
		seen    = make(map[string]int)
		entries []map[string]string
	)
	for scanner.Scan() {
		if err := checkContext(ctx, len(entries)); err != nil {
			return nil, nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry := make(map[string]string)
		for _, field := range strings.Split(line, "\t") {
			label, value, ok := strings.Cut(field, ltsvLabelSeparator)
			if !ok {
				continue
			}
			label = strings.TrimSpace(label)
			entry[label] = value
			if _, exists := seen[label]; !exists {
				seen[label] = len(labels)
				labels = append(labels, label)
			}
		}
		if len(entry) > 0 {
			entries = append(entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read ltsv: %w", err)
	}
	if len(labels) == 0 {
		return nil, nil, ErrEmptyData
	}

	rows := make([]Row, len(entries))
	for i, entry := range entries {
		row := make(Row, len(labels))
		for label, value := range entry {
			row[seen[label]] = value
		}
		rows[i] = row
	}
	return newHeader(labels), rows, nil
}

// parseParquet parses Parquet data. Parquet needs random access, so the stream is buffered.
func (p *streamingParser) parseParquet(ctx context.Context, reader io.Reader) (header, []Row, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	if len(data) == 0 {
		return nil, nil, ErrEmptyData
	}

	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet table: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	h := make(header, schema.NumFields())
	for i, field := range schema.Fields() {
		h[i] = field.Name
	}

	tableReader := array.NewTableReader(table, 0)
	defer tableReader.Release()

	rows := make([]Row, 0, table.NumRows())
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			if err := checkContext(ctx, len(rows)); err != nil {
				return nil, nil, err
			}
			row := make(Row, batch.NumCols())
			for j, col := range batch.Columns() {
				if col.IsNull(i) {
					continue
				}
				row[j] = col.ValueStr(i)
			}
			rows = append(rows, row)
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading parquet records: %w", err)
	}
	return newHeader(h), rows, nil
}

// parseXLSX parses the first sheet of an XLSX workbook.
// The first non-empty row is the header; short rows are padded.
func (p *streamingParser) parseXLSX(ctx context.Context, reader io.Reader) (header, []Row, error) {
	xlsxFile, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer func() {
		_ = xlsxFile.Close() // Ignore close error
	}()

	sheetNames := xlsxFile.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, nil, fmt.Errorf("%w: no sheets found in XLSX file", ErrEmptyData)
	}

	sheetName := sheetNames[0]
	iter, err := xlsxFile.Rows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open rows iterator for sheet %s: %w", sheetName, err)
	}
	defer iter.Close()

	var (
		h    header
		rows []Row
	)
	for iter.Next() {
		if err := checkContext(ctx, len(rows)); err != nil {
			return nil, nil, err
		}
		cells, err := iter.Columns()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read row in sheet %s: %w", sheetName, err)
		}
		if h == nil {
			if len(cells) == 0 {
				continue // leading empty rows
			}
			h = newHeader(cells)
			continue
		}
		rows = append(rows, newRow(cells, len(h)))
	}
	if h == nil {
		return nil, nil, fmt.Errorf("%w: sheet %s is empty", ErrEmptyData, sheetName)
	}
	return h, rows, nil
}
