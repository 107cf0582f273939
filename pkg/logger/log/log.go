// Package log provides context-aware logging helpers. Fields attached to a
// context with WithFields are added to every entry logged with that context.
package log

import (
	"context"

	"github.com/quentin418/clear-fashion/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type fieldsKey struct{}

// resolved on every call so that logger.Setup is honored
func ctxLog() *zap.SugaredLogger {
	return logger.MustNamed("ctx").Desugar().WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// WithFields returns a copy of ctx carrying extra key/value pairs.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	prev := fields(ctx)
	next := make([]any, 0, len(prev)+len(keysAndValues))
	next = append(next, prev...)
	next = append(next, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, next)
}

func fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(fieldsKey{}).([]any)
	return v
}

func with(ctx context.Context, keysAndValues []any) []any {
	f := fields(ctx)
	if len(f) == 0 {
		return keysAndValues
	}
	out := make([]any, 0, len(f)+len(keysAndValues))
	out = append(out, f...)
	return append(out, keysAndValues...)
}

func Debugw(ctx context.Context, msg string, keysAndValues ...any) {
	ctxLog().Debugw(msg, with(ctx, keysAndValues)...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	ctxLog().Infow(msg, with(ctx, keysAndValues)...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	ctxLog().Warnw(msg, with(ctx, keysAndValues)...)
}

func Errorw(ctx context.Context, msg string, keysAndValues ...any) {
	ctxLog().Errorw(msg, with(ctx, keysAndValues)...)
}

// Logw logs at an explicit level.
func Logw(ctx context.Context, level zapcore.Level, msg string, keysAndValues ...any) {
	kv := with(ctx, keysAndValues)
	switch {
	case level >= zapcore.ErrorLevel:
		ctxLog().Errorw(msg, kv...)
	case level == zapcore.WarnLevel:
		ctxLog().Warnw(msg, kv...)
	case level == zapcore.InfoLevel:
		ctxLog().Infow(msg, kv...)
	default:
		ctxLog().Debugw(msg, kv...)
	}
}

func Infof(ctx context.Context, template string, args ...any) {
	ctxLog().With(fields(ctx)...).Infof(template, args...)
}
