package logger

import (
	"context"

	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// ScenarioIDKey is the context key for the scenario being executed
	ScenarioIDKey contextKey = "scenario_id"
	// RunIDKey is the context key for the run identifier
	RunIDKey contextKey = "run_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context, returns default logger if not found
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID returns a context and logger enriched with the request ID
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	enrichedLogger := logger.With(zap.String("request_id", requestID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithScenarioID returns a context and logger enriched with the scenario ID
func WithScenarioID(ctx context.Context, logger *zap.Logger, scenarioID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, ScenarioIDKey, scenarioID)
	enrichedLogger := logger.With(zap.String("scenario_id", scenarioID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// WithRunID returns a context and logger enriched with the run ID
func WithRunID(ctx context.Context, logger *zap.Logger, runID string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, RunIDKey, runID)
	enrichedLogger := logger.With(zap.String("run_id", runID))
	return WithContext(ctx, enrichedLogger), enrichedLogger
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetScenarioID retrieves the scenario ID from context
func GetScenarioID(ctx context.Context) string {
	if id, ok := ctx.Value(ScenarioIDKey).(string); ok {
		return id
	}
	return ""
}

// GetRunID retrieves the run ID from context
func GetRunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}
