package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// SlogGormLogger routes GORM's output through slog so SQL lines carry the
// request id, user id and trace id like every other log line.
type SlogGormLogger struct {
	log   *slog.Logger
	level logger.LogLevel
	slow  time.Duration
}

// NewGormLogger logs failed statements and statements slower than 200ms.
// A missing row is an expected outcome here and is not logged.
func NewGormLogger(l *slog.Logger) *SlogGormLogger {
	return &SlogGormLogger{log: l, level: logger.Warn, slow: slowQueryThreshold}
}

// LogMode implements logger.Interface.
func (l *SlogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *SlogGormLogger) printf(ctx context.Context, at logger.LogLevel, lvl slog.Level, msg string, data []any) {
	if l.level >= at {
		l.log.Log(ctx, lvl, fmt.Sprintf(msg, data...))
	}
}

func (l *SlogGormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, data)
}

func (l *SlogGormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, data)
}

func (l *SlogGormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, data)
}

// Trace implements logger.Interface.
func (l *SlogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var (
		lvl slog.Level
		msg string
	)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		lvl, msg = slog.LevelError, "sql error"
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		lvl, msg = slog.LevelWarn, "slow sql"
	case l.level >= logger.Info:
		lvl, msg = slog.LevelInfo, "sql"
	default:
		return
	}

	stmt, rows := fc()
	attrs := []slog.Attr{
		slog.String("sql", stmt),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.log.LogAttrs(ctx, lvl, msg, attrs...)
}
