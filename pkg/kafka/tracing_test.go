package kafka

import (
	"context"
	"testing"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func useTraceContextPropagator(t *testing.T) {
	t.Helper()
	previous := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(previous) })
}

func TestInjectExtractContext(t *testing.T) {
	// Arrange
	useTraceContextPropagator(t)
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "produce")
	defer span.End()
	message := &kafka.Message{Headers: []kafka.Header{{Key: "event-type", Value: []byte("user.created")}}}

	// Act
	InjectContext(ctx, message)
	extracted := ExtractContext(context.Background(), message)

	// Assert
	assert.Equal(t, span.SpanContext().TraceID(), trace.SpanContextFromContext(extracted).TraceID())
	assert.Contains(t, message.Headers, kafka.Header{Key: "event-type", Value: []byte("user.created")})
	assert.Len(t, message.Headers, 2)
}

func TestInjectContext_ReplacesExistingTraceparent(t *testing.T) {
	// Arrange
	useTraceContextPropagator(t)
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(context.Background(), "produce")
	defer span.End()
	message := &kafka.Message{Headers: []kafka.Header{{Key: "traceparent", Value: []byte("stale")}}}

	// Act
	InjectContext(ctx, message)

	// Assert
	require.Len(t, message.Headers, 1)
	assert.NotEqual(t, "stale", string(message.Headers[0].Value))
}

func TestInjectContext_NoSpan(t *testing.T) {
	useTraceContextPropagator(t)
	message := &kafka.Message{}

	InjectContext(context.Background(), message)

	assert.Empty(t, message.Headers)
	assert.Equal(t, context.Background(), ExtractContext(context.Background(), message))
}

func TestSend_RecordsProducerSpan(t *testing.T) {
	// Arrange
	useTraceContextPropagator(t)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	f := newFixture()
	f.serializer = NewMessageSerializer(f.serializer.serializer, nil, WithTracerProvider(tp))

	var produced *kafka.Message
	producer := &MockProducer{}
	producer.On("Produce", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			produced = args.Get(0).(*kafka.Message)
			delivered := *produced
			args.Get(1).(chan kafka.Event) <- &delivered
		}).
		Return(nil)

	// Act
	err := f.serializer.Send(context.Background(), producer, "users", nil, yoda())

	// Assert
	require.NoError(t, err)
	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "kafka.produce", spans[0].Name())
	assert.Equal(t, trace.SpanKindProducer, spans[0].SpanKind())

	consumed := f.deserializer.Context(context.Background(), produced)
	assert.Equal(t, spans[0].SpanContext().TraceID(), trace.SpanContextFromContext(consumed).TraceID())
}
