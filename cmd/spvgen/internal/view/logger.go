package view

import (
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/go-logr/logr"
	"github.com/lmittmann/tint"
)

// LogLevel represents the verbosity level for logging.
type LogLevel int

// Logger is the CLI's logging surface. Logr exposes the same sink to the
// library packages, whose V(n) calls land at slog level -n.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Logr() logr.Logger
}

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelSilent
)

func (l LogLevel) toSlogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.Level(100)
	}
}

type slogLogger struct {
	logger *slog.Logger
}

var _ Logger = (*slogLogger)(nil)

// rewriteLogLevel colors the level of top-level records. logr verbosity
// levels between debug and info print as DEBUG.
func rewriteLogLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey && len(groups) == 0 {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}

		var levelText string
		switch {
		case level < slog.LevelInfo:
			levelText = "DEBUG"
		case level == slog.LevelInfo:
			levelText = color.GreenString("INFO")
		case level == slog.LevelWarn:
			levelText = color.YellowString("WARN")
		case level == slog.LevelError:
			levelText = color.RedString("ERROR")
		default:
			levelText = level.String()
		}
		a.Value = slog.StringValue(levelText)
	}

	return a
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *slogLogger) Logr() logr.Logger {
	return logr.FromSlogHandler(l.logger.Handler())
}

func NewHumanLogger(w io.Writer, level LogLevel) Logger {
	opts := &tint.Options{
		Level:       level.toSlogLevel(),
		TimeFormat:  time.DateTime,
		ReplaceAttr: rewriteLogLevel,
		NoColor:     color.NoColor,
	}
	return &slogLogger{logger: slog.New(tint.NewHandler(w, opts))}
}

func NewJSONLogger(w io.Writer, level LogLevel) Logger {
	opts := &slog.HandlerOptions{
		Level: level.toSlogLevel(),
	}
	return &slogLogger{logger: slog.New(slog.NewJSONHandler(w, opts))}
}

func NewNopLogger() Logger {
	return &slogLogger{logger: slog.New(slog.DiscardHandler)}
}
