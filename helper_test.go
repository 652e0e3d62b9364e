package crashstats

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// fixturePath is the ten-row sample of the accident dataset.
const fixturePath = "testdata/crashes.csv"

// readFixture returns the header and rows of the CSV fixture.
func readFixture(t *testing.T) ([]string, [][]string) {
	t.Helper()
	data, err := os.ReadFile(fixturePath)
	require.NoError(t, err)
	all, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return all[0], all[1:]
}

// fixtureTable loads the CSV fixture.
func fixtureTable(t *testing.T) *Table {
	t.Helper()
	columns, rows := readFixture(t)
	table, err := NewTable("crashes", columns, rows)
	require.NoError(t, err)
	return table
}

// record builds a Record through the same coercion the loader uses.
func record(date, clock, accidentType, alcohol, zone string) Record {
	row := Row{"1", "T1", "Finished", date, clock, accidentType, "Other injury accident", alcohol, zone}
	idx, _ := newColumnIndex(newHeader(RequiredColumns))
	return idx.newRecord(row)
}

// encodeFixture renders the fixture in the format of fileType, uncompressed.
func encodeFixture(t *testing.T, fileType FileType) []byte {
	t.Helper()
	columns, rows := readFixture(t)

	var buf bytes.Buffer
	switch fileType {
	case FileTypeCSV, FileTypeTSV:
		w := csv.NewWriter(&buf)
		if fileType == FileTypeTSV {
			w.Comma = '\t'
		}
		require.NoError(t, w.Write(columns))
		require.NoError(t, w.WriteAll(rows))

	case FileTypeLTSV:
		for _, row := range rows {
			fields := make([]string, len(columns))
			for i, col := range columns {
				fields[i] = col + ":" + row[i]
			}
			buf.WriteString(strings.Join(fields, "\t") + "\n")
		}

	case FileTypeXLSX:
		f := excelize.NewFile()
		for r, values := range append([][]string{columns}, rows...) {
			for c, v := range values {
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellStr("Sheet1", cell, v))
			}
		}
		require.NoError(t, f.Write(&buf))
		_ = f.Close() // Ignore close error in test

	case FileTypeParquet:
		fields := make([]arrow.Field, len(columns))
		for i, col := range columns {
			fields[i] = arrow.Field{Name: col, Type: arrow.BinaryTypes.String, Nullable: true}
		}
		schema := arrow.NewSchema(fields, nil)

		builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
		defer builder.Release()
		for _, row := range rows {
			for i, v := range row {
				sb, ok := builder.Field(i).(*array.StringBuilder)
				require.True(t, ok)
				if v == "" {
					sb.AppendNull()
					continue
				}
				sb.Append(v)
			}
		}
		rec := builder.NewRecord()
		defer rec.Release()

		tbl := array.NewTableFromRecords(schema, []arrow.Record{rec})
		defer tbl.Release()
		require.NoError(t, pqarrow.WriteTable(tbl, &buf, 1024, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps()))

	default:
		t.Fatalf("no encoder for %v", fileType)
	}
	return buf.Bytes()
}

// compress applies compression to data.
func compress(t *testing.T, data []byte, compression CompressionType) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, closeWriter, err := newCompressingWriter(&buf, compression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, closeWriter())
	return buf.Bytes()
}

// writeFixture writes the fixture to dir as name; the extensions of name select
// format and compression.
func writeFixture(t *testing.T, dir, name string) string {
	t.Helper()
	data := compress(t, encodeFixture(t, detectFileType(name)), detectCompressionType(name))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
