package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"masterblog/internal/middleware"
	"masterblog/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// sqlLogger routes gorm statements for the posts table into middleware.Logger.
// It resolves the logger on every call so a reconfigured Logger takes effect,
// and it logs with the statement's context so request ids are stamped.
type sqlLogger struct {
	backend string
	level   logger.LogLevel
	slow    time.Duration
}

// newSQLLogger logs every statement when appLevel is "debug" and only
// errors and slow statements otherwise.
func newSQLLogger(backend, appLevel string) *sqlLogger {
	level := logger.Warn
	if strings.EqualFold(appLevel, "debug") {
		level = logger.Info
	}
	return &sqlLogger{backend: backend, level: level, slow: slowQueryThreshold}
}

func (l *sqlLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *sqlLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data...)
}

func (l *sqlLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data...)
}

func (l *sqlLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data...)
}

func (l *sqlLogger) printf(ctx context.Context, threshold logger.LogLevel, level slog.Level, msg string, data ...interface{}) {
	if l.level < threshold {
		return
	}
	middleware.Logger.Log(ctx, level, fmt.Sprintf(msg, data...), slog.String("backend", l.backend))
}

func (l *sqlLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	slow := l.slow > 0 && elapsed > l.slow
	if slow {
		observability.SlowQueries.WithLabelValues(l.backend).Inc()
	}

	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	var level slog.Level
	var msg string
	switch {
	case failed && l.level >= logger.Error:
		level, msg = slog.LevelError, "store query failed"
	case slow && l.level >= logger.Warn:
		level, msg = slog.LevelWarn, "store query slow"
	case l.level >= logger.Info:
		level, msg = slog.LevelDebug, "store query"
	default:
		return
	}

	statement, rows := fc()
	attrs := []any{
		slog.String("backend", l.backend),
		slog.String("table", "posts"),
		slog.String("operation", statementVerb(statement)),
		slog.Int64("rows", rows),
		slog.Int64("elapsed_ms", elapsed.Milliseconds()),
	}
	if l.level >= logger.Info {
		attrs = append(attrs, slog.String("sql", statement))
	}
	if failed {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	middleware.Logger.Log(ctx, level, msg, attrs...)
}

// statementVerb returns the lowercased leading keyword of a SQL statement.
func statementVerb(statement string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(statement), " ")
	return strings.ToLower(verb)
}
