package logger

import (
	"context"
	"log/slog"
)

type (
	runIDKey        struct{}
	messageIndexKey struct{}
)

// WithRunID stores an identifier for the current send run in ctx.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDExtractor adds the run id stored by WithRunID as "run_id".
func RunIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id, ok := ctx.Value(runIDKey{}).(string); ok && id != "" {
		return slog.String("run_id", id), true
	}
	return slog.Attr{}, false
}

// WithMessageIndex stores the position of the message being sent within its batch.
func WithMessageIndex(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, messageIndexKey{}, index)
}

// MessageIndexExtractor adds the index stored by WithMessageIndex as "message_index".
func MessageIndexExtractor(ctx context.Context) (slog.Attr, bool) {
	if index, ok := ctx.Value(messageIndexKey{}).(int); ok {
		return slog.Int("message_index", index), true
	}
	return slog.Attr{}, false
}
