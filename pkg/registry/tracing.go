package registry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/Sokol111/glue-schema-registry/pkg/registry"

// instruments are the registry call metrics. Instrument creation only fails on invalid names,
// in which case the SDK returns a working no-op instrument along with the error.
type instruments struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments(mp metric.MeterProvider) instruments {
	meter := mp.Meter(instrumentationName)
	calls, _ := meter.Int64Counter("glue.schema_registry.calls",
		metric.WithDescription("Glue Schema Registry API calls"),
		metric.WithUnit("{call}"),
	)
	duration, _ := meter.Float64Histogram("glue.schema_registry.call.duration",
		metric.WithDescription("Duration of Glue Schema Registry API calls"),
		metric.WithUnit("s"),
	)
	return instruments{calls: calls, duration: duration}
}

// call is one traced and measured registry operation.
type call struct {
	span     trace.Span
	op       string
	registry string
	start    time.Time
	metrics  instruments
	ctx      context.Context
}

func (c *Client) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *call) {
	attrs = append(attrs, attribute.String("glue.registry_name", c.registryName))
	ctx, span := c.tracer.Start(ctx, "glue."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)
	return ctx, &call{
		span:     span,
		op:       op,
		registry: c.registryName,
		start:    time.Now(),
		metrics:  c.metrics,
		ctx:      ctx,
	}
}

func (s *call) end(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()

	attrs := metric.WithAttributes(
		attribute.String("glue.operation", s.op),
		attribute.String("glue.registry_name", s.registry),
		attribute.String("outcome", outcome),
	)
	s.metrics.calls.Add(s.ctx, 1, attrs)
	s.metrics.duration.Record(s.ctx, time.Since(s.start).Seconds(), attrs)
}
