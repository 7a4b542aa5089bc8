// Package logger builds the leveled logging handle used for one irontide run.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Verbosity bounds accepted by --log-level.
const (
	MinVerbosity = 1
	MaxVerbosity = 6
)

// Config controls where logs go and how much is written.
type Config struct {
	Verbosity  int    // 1-6, 0 means not requested on the command line
	File       string // log file path; empty logs to Stderr
	MaxSize    int    // MB per rotated file
	MaxBackups int
	MaxAge     int // days

	// Stderr receives logs when File is empty. Defaults to os.Stderr.
	Stderr io.Writer
}

// Logger is an explicitly owned zap logger. Close must be called before exit.
type Logger struct {
	*zap.SugaredLogger
	z    *zap.Logger
	file *lumberjack.Logger
}

// LevelFromVerbosity maps the 1-6 verbosity scale onto zap levels.
// Higher verbosity lets more through; 0 (absent) only reports errors.
func LevelFromVerbosity(v int) (zapcore.Level, error) {
	switch v {
	case 0:
		return zapcore.ErrorLevel, nil
	case 1:
		return zapcore.FatalLevel, nil
	case 2:
		return zapcore.DPanicLevel, nil
	case 3:
		return zapcore.ErrorLevel, nil
	case 4:
		return zapcore.WarnLevel, nil
	case 5:
		return zapcore.InfoLevel, nil
	case 6:
		return zapcore.DebugLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unsupported log verbosity %d (want %d-%d)", v, MinVerbosity, MaxVerbosity)
	}
}

// New builds a logger from cfg.
func New(cfg Config) (*Logger, error) {
	level, err := LevelFromVerbosity(cfg.Verbosity)
	if err != nil {
		return nil, err
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var output io.Writer = cfg.Stderr
	if output == nil {
		output = os.Stderr
	}

	l := &Logger{}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}

		maxSize := cfg.MaxSize
		if maxSize <= 0 {
			maxSize = 64
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		maxAge := cfg.MaxAge
		if maxAge <= 0 {
			maxAge = 7
		}

		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     maxAge,
			Compress:   true,
		}
		output = l.file
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.AddSync(output),
		level,
	)

	l.z = zap.New(core)
	l.SugaredLogger = l.z.Sugar()
	return l, nil
}

// Nop returns a logger that discards everything. Used by tests and callers
// that do not care about diagnostics.
func Nop() *Logger {
	z := zap.NewNop()
	return &Logger{SugaredLogger: z.Sugar(), z: z}
}

// With returns a child logger carrying the given key/value pairs.
func (l *Logger) With(args ...interface{}) *Logger {
	child := l.SugaredLogger.With(args...)
	return &Logger{SugaredLogger: child, z: child.Desugar()}
}

// Close flushes buffered entries and releases the log file, if any.
func (l *Logger) Close() error {
	if l == nil || l.z == nil {
		return nil
	}
	// Sync on a console fd returns EINVAL on some platforms; ignore it.
	_ = l.z.Sync()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
