package crashstats

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileType represents a supported input format, independent of compression
type FileType int

const (
	// FileTypeCSV represents CSV file type
	FileTypeCSV FileType = iota
	// FileTypeTSV represents TSV file type
	FileTypeTSV
	// FileTypeLTSV represents LTSV file type
	FileTypeLTSV
	// FileTypeParquet represents Parquet file type
	FileTypeParquet
	// FileTypeXLSX represents Excel XLSX file type
	FileTypeXLSX
	// FileTypeUnsupported represents unsupported file type
	FileTypeUnsupported
)

// File extensions
const (
	// extCSV is the CSV file extension
	extCSV = ".csv"
	// extTSV is the TSV file extension
	extTSV = ".tsv"
	// extLTSV is the LTSV file extension
	extLTSV = ".ltsv"
	// extParquet is the Parquet file extension
	extParquet = ".parquet"
	// extXLSX is the Excel XLSX file extension
	extXLSX = ".xlsx"
)

// baseExtensions lists every format extension in FileType order.
var baseExtensions = []string{extCSV, extTSV, extLTSV, extParquet, extXLSX}

// String returns the format name
func (ft FileType) String() string {
	switch ft {
	case FileTypeCSV:
		return "csv"
	case FileTypeTSV:
		return "tsv"
	case FileTypeLTSV:
		return "ltsv"
	case FileTypeParquet:
		return "parquet"
	case FileTypeXLSX:
		return "xlsx"
	default:
		return "unsupported"
	}
}

// Extension returns the file extension for the FileType
func (ft FileType) Extension() string {
	if ft < FileTypeCSV || ft >= FileTypeUnsupported {
		return ""
	}
	return baseExtensions[ft]
}

// file represents an input file that can be parsed into a Table
type file struct {
	path        string
	fileType    FileType
	compression CompressionType
}

// newFile creates a new file
func newFile(path string) *file {
	return &file{
		path:        path,
		fileType:    detectFileType(path),
		compression: detectCompressionType(path),
	}
}

// detectFileType detects the base format from the extension, ignoring any compression suffix
func detectFileType(path string) FileType {
	ext := strings.ToLower(filepath.Ext(removeCompressionExtension(path)))
	for i, baseExt := range baseExtensions {
		if ext == baseExt {
			return FileType(i)
		}
	}
	return FileTypeUnsupported
}

// IsSupportedFile reports whether the file name has a supported extension,
// optionally followed by a supported compression extension.
func IsSupportedFile(fileName string) bool {
	return detectFileType(fileName) != FileTypeUnsupported
}

// supportedFileExtPatterns returns all supported file patterns for glob matching
func supportedFileExtPatterns() []string {
	compressionExts := append([]string{""}, compressionExtensions...)

	patterns := make([]string, 0, len(baseExtensions)*len(compressionExts))
	for _, baseExt := range baseExtensions {
		for _, compressionExt := range compressionExts {
			patterns = append(patterns, "*"+baseExt+compressionExt)
		}
	}
	return patterns
}

// isCompressed returns true if file is compressed
func (f *file) isCompressed() bool {
	return f.compression != CompressionNone
}

// openReader opens the file and returns a reader that handles decompression
func (f *file) openReader() (io.Reader, func() error, error) {
	osFile, err := os.Open(f.path) //nolint:gosec // User-provided path is necessary for file operations
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrFileNotFound, f.path)
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	reader, cleanup, err := newDecompressingReader(osFile, f.compression)
	if err != nil {
		_ = osFile.Close() // Ignore close error during error handling
		return nil, nil, err
	}

	closer := func() error {
		cleanupErr := cleanup()
		if closeErr := osFile.Close(); closeErr != nil && cleanupErr == nil {
			cleanupErr = closeErr
		}
		return cleanupErr
	}
	return reader, closer, nil
}

// tableFromFilePath creates table name from file path
func tableFromFilePath(filePath string) string {
	fileName := removeCompressionExtension(filepath.Base(filePath))
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}
