package logger

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}

// NewContext returns a context carrying a turn-scoped logger. Front-ends
// attach one per inbound message (e.g. with the chat id) so the agent and its
// handlers log with the turn's fields.
func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the logger attached by NewContext, or a no-op logger
// when the context carries none.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
