package observability

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	dbTracerName        = "snapledger/db"
	migrationTracerName = "snapledger/migration"
)

type contextKey string

const (
	cycleIDKey   contextKey = "observability.cycle_id"
	sourceKey    contextKey = "observability.source"
	requestIDKey contextKey = "observability.request_id"
	routeKey     contextKey = "observability.route"
)

// Span is the application-level tracing span contract.
type Span interface {
	End()
	RecordError(error)
	SetAttributes(...attribute.KeyValue)
}

type otelSpan struct {
	inner trace.Span
}

// StartDBSpan starts a database tracing span for one query operation.
func StartDBSpan(ctx context.Context, system, queryName, operation string) (context.Context, Span) {
	queryName = strings.TrimSpace(queryName)
	if queryName == "" {
		queryName = "unknown"
	}
	if system == "postgres" {
		system = "postgresql"
	}
	attrs := []attribute.KeyValue{
		attribute.String("db.system.name", system),
		attribute.String("db.query_name", queryName),
		attribute.String("db.operation", strings.TrimSpace(operation)),
	}
	if source, ok := SourceFromContext(ctx); ok {
		attrs = append(attrs, attribute.String("snapledger.source", source))
	}

	ctx, span := otel.Tracer(dbTracerName).Start(ctx, "db."+queryName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, otelSpan{inner: span}
}

// StartCycleSpan starts the root span of one migration cycle.
func StartCycleSpan(ctx context.Context, cycleID string) (context.Context, Span) {
	ctx = WithCycleID(ctx, cycleID)
	ctx, span := otel.Tracer(migrationTracerName).Start(ctx, "migration.cycle",
		trace.WithAttributes(attribute.String("snapledger.cycle_id", cycleID)),
	)
	return ctx, otelSpan{inner: span}
}

// StartSourceSpan starts the span covering one source within a cycle.
func StartSourceSpan(ctx context.Context, source string) (context.Context, Span) {
	ctx = WithSource(ctx, source)
	ctx, span := otel.Tracer(migrationTracerName).Start(ctx, "migration.source",
		trace.WithAttributes(attribute.String("snapledger.source", source)),
	)
	return ctx, otelSpan{inner: span}
}

// WithCycleID stores the migration cycle id on the context.
func WithCycleID(ctx context.Context, cycleID string) context.Context {
	cycleID = strings.TrimSpace(cycleID)
	if cycleID == "" {
		return ctx
	}
	return context.WithValue(ctx, cycleIDKey, cycleID)
}

// WithSource stores the source being processed on the context.
func WithSource(ctx context.Context, source string) context.Context {
	source = strings.TrimSpace(source)
	if source == "" {
		return ctx
	}
	return context.WithValue(ctx, sourceKey, source)
}

// WithRequestMetadata enriches context and current span with request metadata.
func WithRequestMetadata(ctx context.Context, requestID, route string) context.Context {
	requestID = strings.TrimSpace(requestID)
	route = strings.TrimSpace(route)
	if requestID != "" {
		ctx = context.WithValue(ctx, requestIDKey, requestID)
	}
	if route != "" {
		ctx = context.WithValue(ctx, routeKey, route)
	}
	setSpanRequestAttributes(ctx, requestID, route)
	return ctx
}

// CycleIDFromContext extracts the migration cycle id.
func CycleIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, cycleIDKey)
}

// SourceFromContext extracts the source name.
func SourceFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, sourceKey)
}

// RequestIDFromContext extracts request id.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, requestIDKey)
}

// RouteFromContext extracts normalized route path.
func RouteFromContext(ctx context.Context) (string, bool) {
	return stringValue(ctx, routeKey)
}

func stringValue(ctx context.Context, key contextKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func setSpanRequestAttributes(ctx context.Context, requestID, route string) {
	span := trace.SpanFromContext(ctx)
	if span == nil {
		return
	}
	attrs := make([]attribute.KeyValue, 0, 2)
	if requestID != "" {
		attrs = append(attrs, attribute.String("request.id", requestID))
	}
	if route != "" {
		attrs = append(attrs, attribute.String("http.route", route))
	}
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
}

func (s otelSpan) End() {
	if s.inner == nil {
		return
	}
	s.inner.End()
}

func (s otelSpan) RecordError(err error) {
	if s.inner == nil || err == nil {
		return
	}
	s.inner.RecordError(err)
	s.inner.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) SetAttributes(attrs ...attribute.KeyValue) {
	if s.inner == nil || len(attrs) == 0 {
		return
	}
	s.inner.SetAttributes(attrs...)
}
