// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger to provide specialized logging methods.
type Logger struct {
	*slog.Logger
}

// GlobalLogger is the default logger instance for the application.
var GlobalLogger *Logger

func init() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	GlobalLogger = &Logger{Logger: slog.New(handler)}
}

// LogContextKey is a type for context keys used by the logging package.
type LogContextKey string

// CorrelationID keys the per-request correlation ID in a context.
const CorrelationID LogContextKey = "correlation_id"

// WithCorrelationID returns a new context with the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CorrelationID, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context.
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(CorrelationID).(string); ok {
		return id
	}
	return ""
}

// RemoteLogger provides structured logging for remote store operations.
type RemoteLogger struct {
	service string
	logger  *Logger
}

// NewRemoteLogger creates a RemoteLogger for the given remote service
// ("auth", "documents", "storage").
func NewRemoteLogger(service string) *RemoteLogger {
	return &RemoteLogger{service: service, logger: GlobalLogger}
}

// LogCall logs a remote store call.
func (l *RemoteLogger) LogCall(ctx context.Context, operation string, fields map[string]interface{}) {
	attrs := []any{
		slog.String("service", l.service),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	l.logger.InfoContext(ctx, "remote call", attrs...)
}

// LogError logs a failed remote store call.
func (l *RemoteLogger) LogError(ctx context.Context, operation string, err error) {
	l.logger.ErrorContext(ctx, "remote error",
		slog.String("service", l.service),
		slog.String("operation", operation),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
		slog.String("error", err.Error()),
	)
}

// LogSagaStep logs the execution of one orchestration step.
func LogSagaStep(ctx context.Context, saga, step string) {
	GlobalLogger.InfoContext(ctx, "saga step",
		slog.String("saga", saga),
		slog.String("step", step),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogSagaCompensation logs a compensating action taken after a step failure.
func LogSagaCompensation(ctx context.Context, saga, step string, cause error) {
	GlobalLogger.WarnContext(ctx, "saga compensation",
		slog.String("saga", saga),
		slog.String("step", step),
		slog.String("cause", cause.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}

// LogOrphanedBlob logs a blob left behind by an orchestration that could not
// clean it up. There is no reconciliation job; the log line is the only trace.
func LogOrphanedBlob(ctx context.Context, operation, fileID string, cause error) {
	GlobalLogger.WarnContext(ctx, "orphaned blob",
		slog.String("operation", operation),
		slog.String("file_id", fileID),
		slog.String("cause", cause.Error()),
		slog.String("correlation_id", ExtractCorrelationID(ctx)),
	)
}
