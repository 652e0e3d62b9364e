package crashstats

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFileType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want FileType
	}{
		{path: "Crash Statistics Victoria.csv", want: FileTypeCSV},
		{path: "crashes.TSV", want: FileTypeTSV},
		{path: "crashes.ltsv.gz", want: FileTypeLTSV},
		{path: "crashes.parquet.zst", want: FileTypeParquet},
		{path: "crashes.xlsx.xz", want: FileTypeXLSX},
		{path: "crashes.json", want: FileTypeUnsupported},
		{path: "crashes.gz", want: FileTypeUnsupported},
		{path: "crashes", want: FileTypeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, detectFileType(tt.path))
			assert.Equal(t, tt.want != FileTypeUnsupported, IsSupportedFile(tt.path))
		})
	}
}

func TestFileType_StringAndExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileType FileType
		name     string
		ext      string
	}{
		{fileType: FileTypeCSV, name: "csv", ext: ".csv"},
		{fileType: FileTypeTSV, name: "tsv", ext: ".tsv"},
		{fileType: FileTypeLTSV, name: "ltsv", ext: ".ltsv"},
		{fileType: FileTypeParquet, name: "parquet", ext: ".parquet"},
		{fileType: FileTypeXLSX, name: "xlsx", ext: ".xlsx"},
		{fileType: FileTypeUnsupported, name: "unsupported", ext: ""},
		{fileType: FileType(-1), name: "unsupported", ext: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name+tt.ext, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.name, tt.fileType.String())
			assert.Equal(t, tt.ext, tt.fileType.Extension())
		})
	}
}

func TestSupportedFileExtPatterns(t *testing.T) {
	t.Parallel()

	patterns := supportedFileExtPatterns()
	assert.Len(t, patterns, len(baseExtensions)*(len(compressionExtensions)+1))
	assert.Contains(t, patterns, "*.csv")
	assert.Contains(t, patterns, "*.parquet.zst")
	assert.Contains(t, patterns, "*.xlsx.bz2")

	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, "crashes"+pattern[1:])
		require.NoError(t, err)
		assert.True(t, matched, pattern)
		assert.True(t, IsSupportedFile(pattern[1:]), pattern)
	}
}

func TestFile_OpenReader(t *testing.T) {
	t.Parallel()

	t.Run("decompresses transparently", func(t *testing.T) {
		t.Parallel()
		path := writeFixture(t, t.TempDir(), "crashes.csv.zst")

		f := newFile(path)
		assert.Equal(t, FileTypeCSV, f.fileType)
		assert.True(t, f.isCompressed())

		reader, closer, err := f.openReader()
		require.NoError(t, err)
		got, err := io.ReadAll(reader)
		require.NoError(t, err)
		require.NoError(t, closer())
		assert.Equal(t, encodeFixture(t, FileTypeCSV), got)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		f := newFile(filepath.Join(t.TempDir(), "absent.csv"))
		assert.False(t, f.isCompressed())

		_, _, err := f.openReader()
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}
