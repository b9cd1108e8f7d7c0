package observability

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// LogWriter is an io.Writer that forwards every write to a slog.Logger,
// used to route third-party output (gin debug and error writers) into
// the structured log stream.
type LogWriter struct {
	logger    *slog.Logger
	component string
	level     slog.Level
}

func NewLogWriter(logger *slog.Logger, component string, level slog.Level) *LogWriter {
	return &LogWriter{logger: logger, component: component, level: level}
}

func (w *LogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\r\n")
	if msg == "" {
		return len(p), nil
	}
	w.logger.Log(context.Background(), w.level, msg, "component", w.component)
	return len(p), nil
}

// BadgerLogger satisfies badger.Logger on top of slog.
type BadgerLogger struct {
	logger *slog.Logger
}

func NewBadgerLogger(logger *slog.Logger) *BadgerLogger {
	return &BadgerLogger{logger: logger.With("component", "badger")}
}

func (l *BadgerLogger) Errorf(format string, args ...any) { l.log(slog.LevelError, format, args...) }

func (l *BadgerLogger) Warningf(format string, args ...any) { l.log(slog.LevelWarn, format, args...) }

func (l *BadgerLogger) Infof(format string, args ...any) { l.log(slog.LevelInfo, format, args...) }

func (l *BadgerLogger) Debugf(format string, args ...any) { l.log(slog.LevelDebug, format, args...) }

func (l *BadgerLogger) log(level slog.Level, format string, args ...any) {
	l.logger.Log(context.Background(), level, strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}
