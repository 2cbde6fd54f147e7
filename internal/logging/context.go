package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context
// If no logger is found, returns a disabled logger (no-op)
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithCheckID tags every event of one update cycle with a fresh check_id.
func WithCheckID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	logger := FromContext(ctx)
	childLogger := logger.With().Str("check_id", id).Logger()
	return WithContext(ctx, childLogger), id
}
