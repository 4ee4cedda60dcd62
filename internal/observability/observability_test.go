package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStoreMetrics_Track(t *testing.T) {
	m := NewStoreMetrics("unit")

	okBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("unit", "load", "ok"))
	errBefore := testutil.ToFloat64(StoreOperations.WithLabelValues("unit", "save", "error"))

	m.Track("load")(3, nil)
	m.Track("save")(5, errors.New("disk full"))

	assert.Equal(t, okBefore+1, testutil.ToFloat64(StoreOperations.WithLabelValues("unit", "load", "ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(StoreOperations.WithLabelValues("unit", "save", "error")))
	// failed operations leave the size gauge alone.
	assert.Equal(t, float64(3), testutil.ToFloat64(StoreCollectionSize.WithLabelValues("unit")))
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(TracingConfig{ServiceName: "masterblog-test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestStoreSpan_RecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := Tracer
	Tracer = tp.Tracer("test")
	t.Cleanup(func() { Tracer = previous })

	_, span := StartStoreSpan(context.Background(), "json", "save")
	EndSpan(span, errors.New("boom"))

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "store.save", ended[0].Name())
	assert.Equal(t, "boom", ended[0].Status().Description)
}
