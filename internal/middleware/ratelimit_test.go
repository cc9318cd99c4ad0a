package middleware

import (
	"context"
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

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func okHandler(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func TestAllow_BypassedOutsideProduction(t *testing.T) {
	for _, env := range []string{"test", "development", "stress", ""} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, _, err := Allow(context.Background(), nil, LoginLimit, "ip:1.2.3.4")
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestAllow_NilRedisInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	allowed, _, err := Allow(context.Background(), nil, LoginLimit, "ip:1.2.3.4")
	assert.ErrorIs(t, err, errNoRedis)
	assert.False(t, allowed)
}

func TestAllow_CountsWithinWindow(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newTestRedis(t)
	ctx := context.Background()
	limit := Limit{Name: "login", Max: 2, Window: time.Minute}

	for i := 0; i < 2; i++ {
		allowed, _, err := Allow(ctx, rdb, limit, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, retryAfter, err := Allow(ctx, rdb, limit, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
	assert.LessOrEqual(t, retryAfter, time.Minute)
	assert.Equal(t, time.Minute, mr.TTL("rl:login:ip:1.2.3.4"))

	// other callers have their own budget
	allowed, _, err = Allow(ctx, rdb, limit, "ip:5.6.7.8")
	require.NoError(t, err)
	assert.True(t, allowed)

	mr.FastForward(time.Minute + time.Second)
	allowed, _, err = Allow(ctx, rdb, limit, "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		env        string
		limit      Limit
		wantStatus int
	}{
		{"bypassed in test mode", "test", LoginLimit, http.StatusOK},
		{"fails open without redis", "production", LoginLimit, http.StatusOK},
		{"fails closed without redis", "production", Limit{Name: "sensitive", Max: 1, Window: time.Minute, FailClosed: true}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", tt.env)
			app := fiber.New()
			app.Get("/test", RateLimit(nil, tt.limit), okHandler)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}

	t.Run("rejects once the budget is spent", func(t *testing.T) {
		t.Setenv("APP_ENV", "production")
		_, rdb := newTestRedis(t)
		app := fiber.New()
		app.Post("/api/users", RateLimit(rdb, Limit{Name: "register", Max: 1, Window: time.Minute}), okHandler)

		first, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/users", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, first.StatusCode)

		second, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/users", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
		assert.Equal(t, "60", second.Header.Get("Retry-After"))
	})
}
