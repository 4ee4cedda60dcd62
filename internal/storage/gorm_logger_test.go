package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"masterblog/internal/middleware"
	"masterblog/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	middleware.ConfigureLogger(&buf, "production", "debug")
	t.Cleanup(func() { middleware.ConfigureLogger(os.Stdout, "", "") })
	return &buf
}

func selectPosts() (string, int64) {
	return `SELECT * FROM "posts" ORDER BY position`, 0
}

func TestSQLLogger_ErrorCarriesRequestID(t *testing.T) {
	buf := captureLogs(t)
	l := newSQLLogger("postgres", "info")

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "rid-7")
	l.Trace(ctx, time.Now(), selectPosts, errors.New("connection refused"))

	out := buf.String()
	assert.Contains(t, out, `"msg":"store query failed"`)
	assert.Contains(t, out, `"request_id":"rid-7"`)
	assert.Contains(t, out, `"backend":"postgres"`)
	assert.Contains(t, out, `"operation":"select"`)
	assert.Contains(t, out, `"error":"connection refused"`)
	assert.NotContains(t, out, `"sql"`)
}

func TestSQLLogger_QuietLevels(t *testing.T) {
	buf := captureLogs(t)
	l := newSQLLogger("sqlite", "info")

	l.Trace(context.Background(), time.Now(), selectPosts, nil)
	l.Trace(context.Background(), time.Now(), selectPosts, gorm.ErrRecordNotFound)
	l.LogMode(logger.Silent).Trace(context.Background(), time.Now(), selectPosts, errors.New("boom"))

	assert.Empty(t, buf.String())
}

func TestSQLLogger_SlowQuery(t *testing.T) {
	buf := captureLogs(t)
	l := newSQLLogger("sqlite-slow", "info")
	before := testutil.ToFloat64(observability.SlowQueries.WithLabelValues("sqlite-slow"))

	l.Trace(context.Background(), time.Now().Add(-time.Second), selectPosts, nil)

	assert.Contains(t, buf.String(), `"msg":"store query slow"`)
	assert.Equal(t, before+1, testutil.ToFloat64(observability.SlowQueries.WithLabelValues("sqlite-slow")))
}
