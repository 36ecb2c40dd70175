// Package slog provides log/slog decorators for the amzscrape services.
package slog

import (
	"context"
	"log/slog"
	"time"
)

// logOp records one completed operation. Failures are logged at WARN with
// the error attached; successes at INFO.
func logOp(ctx context.Context, logger *slog.Logger, msg string, begin time.Time, err error, attrs ...slog.Attr) {
	level := slog.LevelInfo
	attrs = append(attrs, slog.Duration("duration", time.Since(begin)))
	if err != nil {
		level = slog.LevelWarn
		attrs = append(attrs, slog.Any("err", err))
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}
