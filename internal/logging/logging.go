package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Config contains logging configuration.
type Config struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string
	// FilePath is the path to the log file. Empty means no file logging.
	FilePath string
	// MaxSizeMB is the maximum size in MB before rotation (default: 10).
	MaxSizeMB int
	// MaxFiles is the maximum number of rotated files to keep (default: 5).
	MaxFiles int
	// Stderr, when non-nil, also receives every record.
	Stderr io.Writer
	// ImmediateSync fsyncs the log file after every record.
	ImmediateSync bool
}

// DefaultConfig returns the configuration used without --debug: no file,
// warnings and above to stderr.
func DefaultConfig(stderr io.Writer) Config {
	return Config{
		Level:     "warn",
		MaxSizeMB: 10,
		MaxFiles:  5,
		Stderr:    stderr,
	}
}

// DebugConfig returns configuration for debug mode.
func DebugConfig(stderr io.Writer) Config {
	cfg := DefaultConfig(stderr)
	cfg.Level = "debug"
	cfg.FilePath = DefaultLogPath()
	cfg.ImmediateSync = true
	return cfg
}

// Setup builds a logger for cfg and returns it with a cleanup function that
// flushes and closes the log file, if any.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: LevelFromString(cfg.Level)}

	if cfg.FilePath == "" {
		out := cfg.Stderr
		if out == nil {
			out = io.Discard
		}
		return slog.New(slog.NewTextHandler(out, opts)), func() {}, nil
	}

	writer, err := openWriter(cfg)
	if err != nil {
		return nil, nil, err
	}

	var output io.Writer = writer
	if cfg.Stderr != nil {
		output = io.MultiWriter(writer, cfg.Stderr)
	}

	logger := slog.New(slog.NewJSONHandler(output, opts))

	cleanup := func() {
		_ = writer.Sync()
		_ = writer.Close()
	}

	return logger, cleanup, nil
}

func openWriter(cfg Config) (*RotatingWriter, error) {
	if err := EnsureLogDir(cfg.FilePath); err != nil {
		return nil, err
	}
	writer, err := NewRotatingWriter(cfg.FilePath, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, err
	}
	writer.SetImmediateSync(cfg.ImmediateSync)
	return writer, nil
}

// SetupDefault sets up logging with cfg and installs it as the default logger.
// Returns cleanup function.
func SetupDefault(cfg Config) (func(), error) {
	logger, cleanup, err := Setup(cfg)
	if err != nil {
		return nil, err
	}

	slog.SetDefault(logger)
	if cfg.FilePath != "" {
		slog.Debug("debug logging enabled",
			slog.String("log_file", cfg.FilePath),
			slog.String("level", cfg.Level))
	}
	return cleanup, nil
}

// LevelFromString converts string level to slog.Level.
// Unknown levels map to info.
func LevelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
