// Package logging builds the zap logger of the crashstats command.
package logging

import (
	"fmt"
	"io"

	"github.com/nao1215/crashstats/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects how the logger is built.
type Options struct {
	// Verbose forces the debug level.
	Verbose bool
	// FileOnly discards output unless cfg.File is set. The dashboard uses it
	// so log lines never draw over the terminal UI.
	FileOnly bool
	// Output receives the log lines when cfg.File is empty. Defaults to stderr.
	Output io.Writer
}

// New builds a logger from cfg. JSON output uses the zap production config,
// console output the development config.
func New(cfg config.Log, opts Options) (*zap.Logger, error) {
	if opts.FileOnly && cfg.File == "" {
		return zap.NewNop(), nil
	}

	var zc zap.Config
	if cfg.Format == config.FormatJSON {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true

	if cfg.File == "" && opts.Output != nil {
		encoder := zapcore.NewConsoleEncoder(zc.EncoderConfig)
		if cfg.Format == config.FormatJSON {
			encoder = zapcore.NewJSONEncoder(zc.EncoderConfig)
		}
		return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(opts.Output), zc.Level), zap.AddCaller()), nil
	}

	if cfg.File != "" {
		zc.OutputPaths = []string{cfg.File}
		zc.ErrorOutputPaths = []string{cfg.File}
	} else {
		zc.OutputPaths = []string{"stderr"}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
