// Package debug carries a per-invocation debug flag through context
// and configures slog accordingly.
package debug

import (
	"context"
	"log/slog"
	"os"
)

type contextKey struct{}

// WithDebug returns a context with debug mode enabled or disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, contextKey{}, enabled)
}

// IsEnabled reports whether debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	v, ok := ctx.Value(contextKey{}).(bool)
	return ok && v
}

// SetupLogger configures the default slog logger. Debug mode lowers
// the level to Debug; otherwise only warnings and errors are emitted.
func SetupLogger(debugEnabled bool) {
	level := slog.LevelWarn
	if debugEnabled {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
