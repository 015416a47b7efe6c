// Package tracer emits one span per statement the record layer executes.
// The default is a no-op; OpenTelemetry is the supported backend.
package tracer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans for statements.
type Tracer interface {
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span is an in-flight statement span.
type Span interface {
	// Finish records meta on the span and ends it.
	Finish(meta *Statement)
}

// Statement describes one executed statement.
// Attribute names follow the OpenTelemetry database semantic conventions.
type Statement struct {
	System   string // sqlite, mysql, postgres
	SQL      string
	Model    string // record type the statement was issued for, if any
	Table    string
	Rows     int64 // rows returned or affected
	Duration time.Duration
	Err      error
}

// Noop is a tracer that records nothing.
type Noop struct{}

type noopSpan struct{}

// Start returns ctx unchanged.
func (Noop) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) Finish(_ *Statement) {}

// Otel adapts an OpenTelemetry tracer.
type Otel struct {
	tracer trace.Tracer
}

// NewOtel creates a Tracer backed by t. t must not be nil.
func NewOtel(t trace.Tracer) *Otel {
	return &Otel{tracer: t}
}

// Start opens a client span named name.
func (o *Otel) Start(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	return ctx, &otelSpan{span: span}
}

type otelSpan struct {
	span trace.Span
}

func (s *otelSpan) Finish(meta *Statement) {
	s.span.SetAttributes(Attributes(meta)...)
	if meta.Err != nil {
		s.span.RecordError(meta.Err)
		s.span.SetStatus(codes.Error, meta.Err.Error())
	} else {
		s.span.SetStatus(codes.Ok, "")
	}
	s.span.End()
}

// Attributes converts meta into span attributes.
// See: https://opentelemetry.io/docs/specs/semconv/database/
func Attributes(meta *Statement) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", meta.System),
		attribute.String("db.statement", meta.SQL),
		attribute.String("db.operation", Operation(meta.SQL)),
		attribute.Float64("db.duration_ms", float64(meta.Duration.Microseconds())/1000.0),
	}
	if meta.Table != "" {
		attrs = append(attrs, attribute.String("db.sql.table", meta.Table))
	}
	if meta.Model != "" {
		attrs = append(attrs, attribute.String("sqlobject.model", meta.Model))
	}
	if meta.Rows > 0 {
		attrs = append(attrs, attribute.Int64("db.rows", meta.Rows))
	}
	return attrs
}

// Operation returns the leading SQL verb: SELECT, INSERT, UPDATE, DELETE or UNKNOWN.
func Operation(sql string) string {
	sql = strings.TrimSpace(sql)
	verb, _, _ := strings.Cut(sql, " ")
	switch v := strings.ToUpper(verb); v {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return v
	case "WITH":
		return "SELECT"
	default:
		return "UNKNOWN"
	}
}
