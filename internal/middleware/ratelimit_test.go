package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_NilRedis(t *testing.T) {

	allowed, err := CheckRateLimit(context.Background(), nil, "posts", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_CountsAndExpires(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "posts", "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}
	allowed, err := CheckRateLimit(ctx, rdb, "posts", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	assert.Equal(t, time.Minute, mr.TTL("rl:posts:ip:1"))

	// other clients have their own counter.
	allowed, err = CheckRateLimit(ctx, rdb, "posts", "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "posts", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimit_Middleware(t *testing.T) {
	_, rdb := setupMiniredis(t)

	app := fiber.New()
	app.Get("/posts", RateLimit(rdb, 2, time.Minute, "posts"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
		_ = resp.Body.Close()
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestRateLimitWithPolicy_RedisDown(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	mr.Close()

	handler := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	open := fiber.New()
	open.Get("/posts", RateLimitWithPolicy(rdb, 1, time.Minute, FailOpen, "posts"), handler)
	resp, err := open.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	closed := fiber.New()
	closed.Get("/posts", RateLimitWithPolicy(rdb, 1, time.Minute, FailClosed, "posts"), handler)
	resp, err = closed.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLocalRateLimit(t *testing.T) {

	app := fiber.New()
	app.Get("/posts", LocalRateLimit(1, time.Minute, "posts"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestCheckRateLimit_RestoresMissingTTL(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	require.NoError(t, mr.Set("rl:posts:ip:1", "1"))

	allowed, err := CheckRateLimit(context.Background(), rdb, "posts", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, time.Minute, mr.TTL("rl:posts:ip:1"))
}

// failExpireHook fails every EXPIRE sent outside a pipeline.
type failExpireHook struct{}

func (failExpireHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failExpireHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "expire" {
			err := errors.New("expire refused")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failExpireHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestCheckRateLimit_ExpireFailure(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	rdb.AddHook(failExpireHook{})

	allowed, err := CheckRateLimit(context.Background(), rdb, "posts", "ip:1", 3, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
	assert.Equal(t, time.Duration(0), mr.TTL("rl:posts:ip:1"))

	app := fiber.New()
	app.Get("/posts", RateLimitWithPolicy(rdb, 3, time.Minute, FailClosed, "posts"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	// a healthy client repairs the window.
	healthy := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = healthy.Close() })
	_, err = CheckRateLimit(context.Background(), healthy, "posts", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("rl:posts:ip:1"))
}
