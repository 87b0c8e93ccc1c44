package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// GetTraceIDAndSpanID extracts both trace ID and span ID from context.
func GetTraceIDAndSpanID(ctx context.Context) (string, string) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return "", ""
	}
	return sc.TraceID().String(), sc.SpanID().String()
}

// LoggerWithTrace returns log annotated with the trace and span ids of ctx, if any.
func LoggerWithTrace(ctx context.Context, log *zap.Logger) *zap.Logger {
	traceID, spanID := GetTraceIDAndSpanID(ctx)
	if traceID == "" {
		return log
	}
	return log.With(zap.String("trace_id", traceID), zap.String("span_id", spanID))
}
