package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"masterblog/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracingMiddleware(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = previous })

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Use(ContextMiddleware())
	app.Get("/api/posts", func(c *fiber.Ctx) error {
		tid, _ := c.UserContext().Value(TraceIDKey).(string)
		return c.SendString(tid)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	traceID := resp.Header.Get("X-Trace-ID")
	assert.NotEmpty(t, traceID)

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /api/posts", ended[0].Name())
	assert.Equal(t, traceID, ended[0].SpanContext().TraceID().String())
}

func TestTracingMiddleware_NamesSpanByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = previous })

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/api/posts/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "9" {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	for _, target := range []string{"/api/posts/7", "/api/posts/8", "/api/posts/9"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	ended := recorder.Ended()
	require.Len(t, ended, 3)
	for _, span := range ended {
		assert.Equal(t, "GET /api/posts/:id", span.Name())
	}
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[2].Status().Code)
}
