package telemetry

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps the OpenTelemetry tracer with span helpers for tool calls,
// resource reads, and store operations. A nil or disabled Tracer yields
// no-op spans.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	enabled  bool
}

// NewTracer creates a Tracer from the given config. Span output goes to
// stderr when the stdout exporter is selected, keeping the protocol stream
// on stdout clean.
func NewTracer(cfg TracingConfig, serviceName, serviceVersion, environment string) (*Tracer, error) {
	if !cfg.Enabled {
		return &Tracer{enabled: false}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error
	switch cfg.Exporter {
	case "stdout":
		exporter, err = stdouttrace.New(
			stdouttrace.WithWriter(os.Stderr),
			stdouttrace.WithPrettyPrint(),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
	case "none", "":
		return &Tracer{enabled: false}, nil
	default:
		return nil, fmt.Errorf("unknown trace exporter: %s", cfg.Exporter)
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(cfg.SampleRate)),
	)
	otel.SetTracerProvider(provider)

	return &Tracer{
		tracer:   provider.Tracer(serviceName),
		provider: provider,
		enabled:  true,
	}, nil
}

// StartSpan starts a span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if t == nil || !t.enabled {
		return ctx, trace.SpanFromContext(ctx)
	}
	return t.tracer.Start(ctx, name, opts...)
}

// StartToolSpan starts a span for an MCP tool call.
func (t *Tracer) StartToolSpan(ctx context.Context, tool string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "tool."+tool,
		trace.WithAttributes(attribute.String("mcp.tool", tool)))
}

// StartResourceSpan starts a span for an MCP resource read.
func (t *Tracer) StartResourceSpan(ctx context.Context, uri string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "resource.read",
		trace.WithAttributes(attribute.String("mcp.resource", uri)))
}

// StartStoreSpan starts a span for a store operation.
func (t *Tracer) StartStoreSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, "store."+operation,
		trace.WithAttributes(attribute.String("db.operation", operation)))
}

// RecordError marks the span as failed and records the error.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess marks the span as successful.
func RecordSuccess(span trace.Span) {
	if span == nil {
		return
	}
	span.SetStatus(codes.Ok, "")
}

// Shutdown flushes and stops the tracer provider.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || !t.enabled || t.provider == nil {
		return nil
	}
	if err := t.provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down tracer provider: %w", err)
	}
	return nil
}
