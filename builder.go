package crashstats

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

// Loader is a builder for loading the accident dataset from a file, a reader
// or a file inside an fs.FS. Exactly one source must be configured.
//
// The typical usage pattern is:
//
//	table, err := crashstats.NewLoader().
//		FromPath("Crash Statistics Victoria.csv").
//		WithLogger(logger).
//		Load(ctx)
//	if err != nil {
//		return err
//	}
type Loader struct {
	// path is a regular file path
	path string
	// reader is a caller supplied stream, already opened
	reader io.Reader
	// readerName names the table for reader input and carries its compression suffix
	readerName string
	// fileType is the format of reader input
	fileType FileType
	// filesystem and fsName identify a file inside an fs.FS
	filesystem fs.FS
	fsName     string
	// logger receives load summaries; never nil
	logger *zap.Logger
	// validator checks the configured source before loading
	validator *validator
}

// NewLoader creates a loader with no source and a no-op logger.
func NewLoader() *Loader {
	return &Loader{
		fileType:  FileTypeUnsupported,
		logger:    zap.NewNop(),
		validator: newValidator(),
	}
}

// FromPath loads the dataset from a file. The format is detected from the
// extension: .csv, .tsv, .ltsv, .parquet or .xlsx, optionally followed by
// .gz, .bz2, .xz or .zst.
//
// Returns the loader for method chaining.
func (l *Loader) FromPath(p string) *Loader {
	l.path = p
	return l
}

// FromReader loads the dataset from reader. name is used as the table name;
// a compression suffix on name (for example "crashes.csv.gz") enables decompression.
//
// Returns the loader for method chaining.
func (l *Loader) FromReader(reader io.Reader, name string, fileType FileType) *Loader {
	l.reader = reader
	l.readerName = name
	l.fileType = fileType
	return l
}

// FromFS loads the named file from filesystem. This is useful with go:embed.
// An empty name selects the only supported file at the root of filesystem.
//
// Returns the loader for method chaining.
func (l *Loader) FromFS(filesystem fs.FS, name string) *Loader {
	l.filesystem = filesystem
	l.fsName = name
	return l
}

// WithLogger sets the logger used for load summaries. A nil logger disables logging.
//
// Returns the loader for method chaining.
func (l *Loader) WithLogger(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
	return l
}

// Load reads the configured source into an immutable Table.
//
// Rows whose date or time cannot be parsed are kept with an absent value and
// counted in Table.Stats. A source without data rows returns ErrEmptyData.
func (l *Loader) Load(ctx context.Context) (*Table, error) {
	if err := l.validator.validateSource(l); err != nil {
		return nil, err
	}

	var (
		table *Table
		err   error
	)
	switch {
	case l.path != "":
		table, err = l.loadPath(ctx)
	case l.reader != nil:
		table, err = l.loadReader(ctx, l.reader, l.readerName, l.fileType)
	default:
		table, err = l.loadFS(ctx)
	}
	if err != nil {
		return nil, err
	}

	stats := table.Stats()
	l.logger.Info("dataset loaded",
		zap.String("table", table.Name()),
		zap.Int("rows", stats.Rows),
		zap.Int("invalid_dates", stats.InvalidDates),
		zap.Int("invalid_times", stats.InvalidTimes),
	)
	return table, nil
}

// loadPath opens the configured file and parses it
func (l *Loader) loadPath(ctx context.Context) (*Table, error) {
	f := newFile(l.path)
	ec := NewErrorContext("load", l.path)
	l.logger.Debug("opening data file",
		zap.String("path", l.path),
		zap.Stringer("format", f.fileType),
		zap.Bool("compressed", f.isCompressed()),
	)

	reader, closer, err := f.openReader()
	if err != nil {
		return nil, ec.Error(err)
	}

	table, err := l.parse(ctx, reader, tableFromFilePath(l.path), f.fileType)
	closeErr := closer()
	if err != nil {
		if closeErr != nil {
			return nil, ec.Error(errors.Join(err, fmt.Errorf("failed to close file: %w", closeErr)))
		}
		return nil, ec.Error(err)
	}
	if closeErr != nil {
		l.logger.Warn("failed to close data file", zap.String("path", l.path), zap.Error(closeErr))
	}
	return table, nil
}

// loadFS opens the configured file inside the filesystem and parses it
func (l *Loader) loadFS(ctx context.Context) (*Table, error) {
	name := l.fsName
	if name == "" {
		found, err := findDataFile(l.filesystem)
		if err != nil {
			return nil, NewErrorContext("load", ".").Error(err)
		}
		name = found
	}
	ec := NewErrorContext("load", name)

	fsFile, err := l.filesystem.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ec.Error(fmt.Errorf("%w: %s", ErrFileNotFound, name))
		}
		return nil, ec.Error(err)
	}
	defer fsFile.Close()

	return l.loadReader(ctx, fsFile, path.Base(name), detectFileType(name))
}

// findDataFile returns the only supported file at the root of filesystem.
func findDataFile(filesystem fs.FS) (string, error) {
	var found []string
	for _, pattern := range supportedFileExtPatterns() {
		matches, err := fs.Glob(filesystem, pattern)
		if err != nil {
			return "", fmt.Errorf("failed to search %s: %w", pattern, err)
		}
		found = append(found, matches...)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w: no supported data file", ErrFileNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("crashstats: %d data files found, name one of them: %s", len(found), strings.Join(found, ", "))
	}
}

// loadReader decompresses reader according to name and parses it
func (l *Loader) loadReader(ctx context.Context, reader io.Reader, name string, fileType FileType) (*Table, error) {
	ec := NewErrorContext("load", name)

	decompressed, cleanup, err := newDecompressingReader(reader, detectCompressionType(name))
	if err != nil {
		return nil, ec.Error(err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			l.logger.Warn("failed to release decompressor", zap.String("name", name), zap.Error(err))
		}
	}()

	table, err := l.parse(ctx, decompressed, tableFromFilePath(name), fileType)
	if err != nil {
		return nil, ec.Error(err)
	}
	return table, nil
}

// parse runs the format parser and builds the table
func (l *Loader) parse(ctx context.Context, reader io.Reader, name string, fileType FileType) (*Table, error) {
	h, rows, err := newStreamingParser(fileType).parse(ctx, reader)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no records", ErrEmptyData)
	}
	return newTable(name, h, rows)
}
