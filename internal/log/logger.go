package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger provides centralized logging for the entire application
type Logger struct {
	logger *slog.Logger
	file   *os.File
	level  *slog.LevelVar
}

var globalLogger *Logger

// init creates the global logger. Stdout carries scene output, so the
// default sink is stderr.
func init() {
	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		level:  level,
	}
}

// SetOutput redirects the global logger to w at the given level.
func SetOutput(w io.Writer, level slog.Level) {
	closeFile()
	lv := new(slog.LevelVar)
	lv.Set(level)
	globalLogger = &Logger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lv})),
		level:  lv,
	}
}

// SetLevel changes the minimum level of the current logger.
func SetLevel(level slog.Level) {
	if globalLogger != nil {
		globalLogger.level.Set(level)
	}
}

// SetVerbose switches between Debug and Info.
func SetVerbose(verbose bool) {
	if verbose {
		SetLevel(slog.LevelDebug)
	} else {
		SetLevel(slog.LevelInfo)
	}
}

// SetFileOutput configures the logger to write to the specified file,
// keeping the current level.
func SetFileOutput(filename string) error {
	level := slog.LevelInfo
	if globalLogger != nil {
		level = globalLogger.level.Level()
	}

	logger, err := NewLogger(filename, level)
	if err != nil {
		return err
	}

	closeFile()
	globalLogger = logger
	return nil
}

// NewLogger creates a logger that appends to the specified file
func NewLogger(filename string, level slog.Level) (*Logger, error) {
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}

	lv := new(slog.LevelVar)
	lv.Set(level)
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: lv,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   slog.TimeKey,
					Value: slog.StringValue(a.Value.Time().Format("2006/01/02 15:04:05.000000")),
				}
			}
			return a
		},
	})

	return &Logger{
		logger: slog.New(handler),
		file:   file,
		level:  lv,
	}, nil
}

// Standard logging methods
func Debug(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if globalLogger != nil {
		globalLogger.logger.Error(msg, args...)
	}
}

// Close closes the log file, if any
func Close() {
	closeFile()
}

func closeFile() {
	if globalLogger != nil && globalLogger.file != nil {
		globalLogger.file.Close()
		globalLogger.file = nil
	}
}
