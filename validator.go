package crashstats

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// validator handles validation logic for Loader and export targets
type validator struct{}

// newValidator creates a new validator instance
func newValidator() *validator {
	return &validator{}
}

// validateSource checks that the loader has exactly one usable source
func (v *validator) validateSource(l *Loader) error {
	sources := 0
	if l.path != "" {
		sources++
	}
	if l.reader != nil {
		sources++
	}
	if l.filesystem != nil {
		sources++
	}

	switch {
	case sources == 0:
		return ErrNoSource
	case sources > 1:
		return errors.New("crashstats: only one data source can be configured")
	}

	switch {
	case l.path != "":
		return v.validatePath(l.path)
	case l.reader != nil:
		return v.validateReader(l.readerName, l.fileType)
	default:
		return v.validateFSName(l.fsName)
	}
}

// validatePath validates a single file path
func (v *validator) validatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("crashstats: path cannot be empty")
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat path %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("crashstats: path is a directory: %s", path)
	}
	if !IsSupportedFile(path) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return nil
}

// validateReader validates a reader input
func (v *validator) validateReader(name string, fileType FileType) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("crashstats: name must be specified for reader input")
	}
	if fileType < FileTypeCSV || fileType >= FileTypeUnsupported {
		return fmt.Errorf("%w: file type must be specified for reader input", ErrUnsupportedFormat)
	}
	return nil
}

// validateFSName validates a file name inside an fs.FS. An empty name is resolved at load time.
func (v *validator) validateFSName(name string) error {
	if name == "" {
		return nil
	}
	if !IsSupportedFile(name) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
	return nil
}

// validateOutputPath validates that the export target can be written
func (v *validator) validateOutputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("crashstats: output path cannot be empty")
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return fmt.Errorf("crashstats: output path is a directory: %s", path)
	}
	return nil
}
