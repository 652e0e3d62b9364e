package crashstats

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// speedZoneView is the 2015 speed zone view of the fixture.
func speedZoneView(t *testing.T) *View {
	t.Helper()
	view, _ := NewExplorer(fixtureTable(t)).SpeedZones(2015)
	return view
}

func TestWriteView(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{
			name:   "csv",
			format: OutputFormatCSV,
			want:   "Speed Zone (Km/h),Total Accidents\n100,2\n50,1\n60,1\n",
		},
		{
			name:   "tsv",
			format: OutputFormatTSV,
			want:   "Speed Zone (Km/h)\tTotal Accidents\n100\t2\n50\t1\n60\t1\n",
		},
		{
			name:   "ltsv",
			format: OutputFormatLTSV,
			want: "Speed Zone (Km/h):100\tTotal Accidents:2\n" +
				"Speed Zone (Km/h):50\tTotal Accidents:1\n" +
				"Speed Zone (Km/h):60\tTotal Accidents:1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, WriteView(&buf, speedZoneView(t), NewExportOptions().WithFormat(tt.format)))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestWriteView_LTSVEscapesSeparators(t *testing.T) {
	t.Parallel()

	view := &View{Columns: []string{"note"}, Rows: [][]string{{"a\tb\nc"}, {}}}
	var buf bytes.Buffer
	require.NoError(t, WriteView(&buf, view, NewExportOptions().WithFormat(OutputFormatLTSV)))
	assert.Equal(t, "note:a b c\nnote:\n", buf.String())
}

func TestWriteView_XLSX(t *testing.T) {
	t.Parallel()

	view := speedZoneView(t)
	var buf bytes.Buffer
	require.NoError(t, WriteView(&buf, view, NewExportOptions().WithFormat(OutputFormatXLSX)))

	workbook, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = workbook.Close() }()

	sheets := workbook.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "Total Accidents per Speed Zone", sheets[0])

	rows, err := workbook.GetRows(sheets[0])
	require.NoError(t, err)
	assert.Equal(t, append([][]string{view.Columns}, view.Rows...), rows)
}

func TestWriteView_Compressed(t *testing.T) {
	t.Parallel()

	for _, compression := range []CompressionType{CompressionGZ, CompressionXZ, CompressionZSTD} {
		t.Run(compression.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			opts := NewExportOptions().WithCompression(compression)
			require.NoError(t, WriteView(&buf, speedZoneView(t), opts))

			h, rows, err := decodeExport(t, buf.Bytes(), opts)
			require.NoError(t, err)
			assert.Equal(t, header{HeadingSpeedZone, HeadingTotalAccidents}, h)
			assert.Equal(t, []Row{{"100", "2"}, {"50", "1"}, {"60", "1"}}, rows)
		})
	}
}

func TestWriteView_Errors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Error(t, WriteView(&buf, nil, NewExportOptions()))
	assert.ErrorIs(t, WriteView(&buf, speedZoneView(t), NewExportOptions().WithFormat(OutputFormat(9))), ErrUnsupportedFormat)
	assert.ErrorIs(t, WriteView(&buf, speedZoneView(t), NewExportOptions().WithCompression(CompressionBZ2)), ErrUnsupportedCompression)
}

func TestSaveView(t *testing.T) {
	t.Parallel()

	t.Run("appends extension and reads back", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		opts := NewExportOptions().WithFormat(OutputFormatTSV).WithCompression(CompressionGZ)

		path, err := SaveView(filepath.Join(dir, "zones"), speedZoneView(t), opts)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "zones.tsv.gz"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		_, rows, err := decodeExport(t, data, opts)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("keeps an existing extension", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path, err := SaveView(filepath.Join(dir, "zones.CSV"), speedZoneView(t), NewExportOptions())
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "zones.CSV"), path)
	})

	t.Run("full record export loads as a dataset", func(t *testing.T) {
		t.Parallel()
		table := fixtureTable(t)
		view := &View{Title: "all", Columns: table.Header()}
		for _, rec := range table.Records() {
			view.Rows = append(view.Rows, rec.Row())
		}

		path, err := SaveView(filepath.Join(t.TempDir(), "copy"), view, NewExportOptions().WithFormat(OutputFormatXLSX))
		require.NoError(t, err)

		loaded, err := Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, table.Stats(), loaded.Stats())
		assert.Equal(t, accidentNumbers(table.Records()), accidentNumbers(loaded.Records()))
	})

	t.Run("failed write removes the partial file", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := SaveView(filepath.Join(dir, "zones"), speedZoneView(t), NewExportOptions().WithCompression(CompressionBZ2))
		require.ErrorIs(t, err, ErrUnsupportedCompression)
		assert.Contains(t, err.Error(), "crashstats: export failed")

		_, statErr := os.Stat(filepath.Join(dir, "zones.csv.bz2"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("directory target", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "zones.csv")
		require.NoError(t, os.Mkdir(dir, 0o750))
		_, err := SaveView(dir, speedZoneView(t), NewExportOptions())
		assert.ErrorContains(t, err, "output path is a directory")
	})
}

// decodeExport parses exported bytes with the loader's own parser.
func decodeExport(t *testing.T, data []byte, opts ExportOptions) (header, []Row, error) {
	t.Helper()
	reader, closeReader, err := newDecompressingReader(bytes.NewReader(data), opts.Compression)
	require.NoError(t, err)
	defer func() { _ = closeReader() }()

	fileType := detectFileType("export" + opts.Format.Extension())
	return newStreamingParser(fileType).parse(context.Background(), reader)
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{title: "Data for 2015", want: "Data for 2015"},
		{title: "  ", want: "Sheet1"},
		{title: "a/b:c?[d]", want: "a_b_c__d_"},
		{title: strings.Repeat("x", 40), want: strings.Repeat("x", maxSheetNameLength)},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sheetName(tt.title))
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		want    OutputFormat
		wantErr bool
	}{
		{name: "", want: OutputFormatCSV},
		{name: "CSV", want: OutputFormatCSV},
		{name: ".tsv", want: OutputFormatTSV},
		{name: "ltsv", want: OutputFormatLTSV},
		{name: " xlsx ", want: OutputFormatXLSX},
		{name: "parquet", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseOutputFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExportOptions(t *testing.T) {
	t.Parallel()

	opts := NewExportOptions()
	assert.Equal(t, ".csv", opts.FileExtension())
	assert.Equal(t, ".xlsx.zst", opts.WithFormat(OutputFormatXLSX).WithCompression(CompressionZSTD).FileExtension())
	assert.Equal(t, OutputFormatCSV, opts.Format, "With* return copies")
	assert.Equal(t, "unknown", OutputFormat(9).String())
	assert.Empty(t, OutputFormat(9).Extension())
}
