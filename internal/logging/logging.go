// Package logging configures the structured logger shared by the ctlio
// CLI commands.
package logging

import (
	"context"
	"io"
	"log/slog"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger builds a slog.Logger that writes to w (JSON when json is true,
// otherwise a human-readable handler) at the given level.
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// RotatingFileLogger builds a slog.Logger that writes JSON lines to a
// size- and age-rotated log file, for CLI runs that process many files in
// one invocation and want a durable record.
func RotatingFileLogger(path string, level slog.Level) *slog.Logger {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	return slog.New(slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level}))
}

// AppendCtx returns a copy of ctx carrying extra attributes that call
// sites can read back with FromCtx. The handlers built by Logger and
// RotatingFileLogger do not add them to log records.
func AppendCtx(ctx context.Context, attrs ...slog.Attr) context.Context {
	existing, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

// FromCtx returns the attributes previously attached with AppendCtx.
func FromCtx(ctx context.Context) []slog.Attr {
	attrs, _ := ctx.Value(ctxKey{}).([]slog.Attr)
	return attrs
}
