package logger

import (
	"context"
	"log/slog"
)

type ContextKey string

// Business context keys, 'kitchen.' prefixed per OTel attribute naming.
const (
	RequestIDKey ContextKey = "request_id"
	ClassKey     ContextKey = "kitchen.identity.class"
	IdentityKey  ContextKey = "kitchen.identity.id"
	FlowKey      ContextKey = "kitchen.otp.flow"
)

// ContextLogger extracts business context from a context.Context and
// attaches it to log records.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a new context-aware logger.
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying whatever business context the
// request accumulated.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger

	var fields []any
	for _, key := range []ContextKey{RequestIDKey, ClassKey, IdentityKey, FlowKey} {
		if v := ctx.Value(key); v != nil {
			fields = append(fields, string(key), v)
		}
	}
	if len(fields) > 0 {
		logger = logger.With(fields...)
	}
	return logger
}

// WithRequestID adds the request id to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithClass adds the identity class being worked on to the context.
func WithClass(ctx context.Context, class string) context.Context {
	return context.WithValue(ctx, ClassKey, class)
}

// WithIdentityID adds the identity id to the context.
func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

// WithFlowID adds the OTP flow id to the context.
func WithFlowID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, FlowKey, id)
}
