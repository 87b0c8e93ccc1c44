package registry

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestClient_RecordsSpans(t *testing.T) {
	// Arrange
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	api := &mockGlueAPI{}
	api.On("GetSchemaVersion", mock.Anything, mock.Anything).Return(versionOutput(types.SchemaVersionStatusAvailable), nil).Once()
	api.On("GetSchemaVersion", mock.Anything, mock.Anything).Return(nil, notFoundErr("Schema version is not found.")).Once()
	c := newTestClient(api, WithTracerProvider(tp), WithRegistryName("orders"))

	// Act
	_, okErr := c.GetSchemaVersion(context.Background(), testVersionID)
	_, failErr := c.GetSchemaVersion(context.Background(), testVersionID)

	// Assert
	require.NoError(t, okErr)
	require.Error(t, failErr)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "glue.GetSchemaVersion", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Contains(t, spans[0].Attributes(), attribute.String("glue.registry_name", "orders"))
	assert.Contains(t, spans[0].Attributes(), attribute.String("glue.schema_version_id", testVersionID.String()))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestClient_RecordsMetrics(t *testing.T) {
	// Arrange
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	api := &mockGlueAPI{}
	api.On("GetSchemaVersion", mock.Anything, mock.Anything).Return(versionOutput(types.SchemaVersionStatusAvailable), nil)
	c := newTestClient(api, WithMeterProvider(mp))

	// Act
	for i := 0; i < 3; i++ {
		_, err := c.GetSchemaVersion(context.Background(), testVersionID)
		require.NoError(t, err)
	}

	// Assert
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		byName[m.Name] = m
	}

	calls, ok := byName["glue.schema_registry.calls"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, calls.DataPoints, 1)
	assert.Equal(t, int64(3), calls.DataPoints[0].Value)
	op, _ := calls.DataPoints[0].Attributes.Value("glue.operation")
	assert.Equal(t, "GetSchemaVersion", op.AsString())

	duration, ok := byName["glue.schema_registry.call.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(3), duration.DataPoints[0].Count)
}
