package crashstats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is the longest sheet name Excel accepts.
const maxSheetNameLength = 31

// WriteView writes view to w in the configured format and compression.
func WriteView(w io.Writer, view *View, opts ExportOptions) error {
	if view == nil {
		return errors.New("crashstats: view cannot be nil")
	}

	cw, closeCompressor, err := newCompressingWriter(w, opts.Compression)
	if err != nil {
		return err
	}

	switch opts.Format {
	case OutputFormatCSV:
		err = writeDelimited(cw, view, csvDelimiter)
	case OutputFormatTSV:
		err = writeDelimited(cw, view, tsvDelimiter)
	case OutputFormatLTSV:
		err = writeLTSV(cw, view)
	case OutputFormatXLSX:
		err = writeXLSX(cw, view)
	default:
		err = fmt.Errorf("%w: %v", ErrUnsupportedFormat, opts.Format)
	}

	if closeErr := closeCompressor(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to flush compressor: %w", closeErr))
	}
	return err
}

// SaveView writes view to path and returns the path written. The extension of
// opts is appended when path does not already end with it.
func SaveView(path string, view *View, opts ExportOptions) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), opts.FileExtension()) {
		path += opts.FileExtension()
	}
	ec := NewErrorContext("export", path)

	if err := newValidator().validateOutputPath(path); err != nil {
		return "", ec.Error(err)
	}

	f, err := os.Create(path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		return "", ec.Error(err)
	}

	writeErr := WriteView(f, view, opts)
	if writeErr == nil {
		writeErr = f.Sync()
	}
	if closeErr := f.Close(); closeErr != nil {
		writeErr = errors.Join(writeErr, fmt.Errorf("failed to close file: %w", closeErr))
	}
	if writeErr != nil {
		if removeErr := os.Remove(path); removeErr != nil {
			writeErr = errors.Join(writeErr, fmt.Errorf("failed to remove partial file: %w", removeErr))
		}
		return "", ec.Error(writeErr)
	}
	return path, nil
}

// writeDelimited writes the header and rows with encoding/csv
func writeDelimited(w io.Writer, view *View, delimiter rune) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = delimiter

	if err := csvWriter.Write(view.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range view.Rows {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// ltsvEscaper replaces characters that would break the line/field structure of LTSV.
var ltsvEscaper = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

// writeLTSV writes one label:value line per row
func writeLTSV(w io.Writer, view *View) error {
	var sb strings.Builder
	for _, row := range view.Rows {
		sb.Reset()
		for i, col := range view.Columns {
			if i > 0 {
				sb.WriteByte('\t')
			}
			value := ""
			if i < len(row) {
				value = row[i]
			}
			sb.WriteString(ltsvEscaper.Replace(col))
			sb.WriteString(ltsvLabelSeparator)
			sb.WriteString(ltsvEscaper.Replace(value))
		}
		sb.WriteByte('\n')
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// writeXLSX writes the view to a single-sheet workbook
func writeXLSX(w io.Writer, view *View) error {
	workbook := excelize.NewFile()
	defer func() {
		_ = workbook.Close() // Ignore close error
	}()

	sheet := sheetName(view.Title)
	defaultSheet := workbook.GetSheetName(0)
	if err := workbook.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	writeRow := func(rowNum int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return workbook.SetSheetRow(sheet, cell, &cells)
	}

	if err := writeRow(1, view.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range view.Rows {
		if err := writeRow(i+2, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := workbook.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetName derives a valid Excel sheet name from a view title.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))

	if runes := []rune(name); len(runes) > maxSheetNameLength {
		name = strings.TrimSpace(string(runes[:maxSheetNameLength]))
	}
	if name == "" {
		return "Sheet1"
	}
	return name
}
