package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	BackendSlog = "slog"
	BackendZap  = "zap"
)

// Options selects the logging backend and destination.
type Options struct {
	Backend string
	Level   string
	// File, when set, receives the log through a size-rotated writer
	// instead of stderr.
	File string
}

// New builds a Logger from opts. The returned closer flushes and releases
// the destination.
func New(opts Options) (Logger, io.Closer, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out = rotator
		closer = rotator
	}

	switch opts.Backend {
	case "", BackendSlog:
		h := slog.NewTextHandler(out, &slog.HandlerOptions{Level: slogLevel(opts.Level)})
		return NewSlogLogger(slog.New(h)), closer, nil

	case BackendZap:
		enc := zap.NewProductionEncoderConfig()
		enc.TimeKey = "ts"
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(out), zapLevel(opts.Level))
		zl := NewZapLogger(zap.New(core))
		return zl, zapCloser{zl: zl, next: closer}, nil

	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func zapLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

type zapCloser struct {
	zl   *ZapLogger
	next io.Closer
}

func (c zapCloser) Close() error {
	_ = c.zl.Sync()
	return c.next.Close()
}
