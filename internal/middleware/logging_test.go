package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLogger_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogger(&buf, "production", "debug")
	t.Cleanup(func() { ConfigureLogger(os.Stdout, "", "") })

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-123")
	Logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}

func TestConfigureLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogger(&buf, "development", "warn")
	t.Cleanup(func() { ConfigureLogger(os.Stdout, "", "") })

	Logger.Info("quiet")
	Logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestContextMiddleware_PropagatesRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		rid, _ := c.UserContext().Value(RequestIDKey).(string)
		return c.SendString(rid)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body bytes.Buffer
	_, _ = body.ReadFrom(resp.Body)
	assert.Equal(t, "abc", body.String())
}

func TestStructuredLogger_LogsRequest(t *testing.T) {
	var buf bytes.Buffer
	ConfigureLogger(&buf, "production", "info")
	t.Cleanup(func() { ConfigureLogger(os.Stdout, "", "") })

	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":418`)
}
