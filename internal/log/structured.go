package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

// NewStructuredLogger creates a new structured logger
func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// LogHTTPStart logs the start of an HTTP request
func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent()).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.logger.Logger.DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs a completed request at a level derived from its status code
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	if statusCode >= 400 && statusCode < 500 {
		level = slog.LevelWarn
	} else if statusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP).
		WithComponent(ComponentHTTP)

	sl.logger.Logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogReportComputed logs a freshly computed (not cached) report
func (sl *StructuredLogger) LogReportComputed(ctx context.Context, userID string, transactions, categories int, durationMs int64) {
	fields := NewFields().
		WithUserID(userID).
		WithOperation(OpReport).
		WithComponent(ComponentAnalytics).
		ToSlice()
	fields = append(fields, "transactions", transactions, "categories", categories, FieldDuration, durationMs)

	sl.logger.Logger.InfoContext(ctx, "Report computed", fields...)
}

// LogChangeReceived logs an incoming change notification
func (sl *StructuredLogger) LogChangeReceived(ctx context.Context, userID, entity, operation, entityID string) {
	fields := NewFields().
		WithUserID(userID).
		WithEntity(entity, entityID).
		WithOperation(operation).
		WithComponent(ComponentWorker)

	sl.logger.Logger.InfoContext(ctx, "Change notification received", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)

	sl.logger.Logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
