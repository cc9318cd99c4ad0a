package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Limit is a fixed-window request budget shared by every route registered with it.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
	// FailClosed rejects requests with 503 when Redis cannot be reached.
	FailClosed bool
}

// Budgets for the unauthenticated credential routes.
var (
	RegisterLimit = Limit{Name: "register", Max: 5, Window: 10 * time.Minute}
	LoginLimit    = Limit{Name: "login", Max: 10, Window: 5 * time.Minute}
)

var errNoRedis = errors.New("redis client is nil")

func rateLimitBypassed() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development", "stress":
		return true
	}
	return false
}

func rateLimitKey(name, subject string) string {
	return fmt.Sprintf("rl:%s:%s", name, subject)
}

// Allow counts one hit for subject against l. When the budget is spent it
// reports false and how long until the window resets.
func Allow(ctx context.Context, rdb *redis.Client, l Limit, subject string) (bool, time.Duration, error) {
	if rateLimitBypassed() {
		return true, 0, nil
	}
	if rdb == nil {
		return false, 0, errNoRedis
	}

	key := rateLimitKey(l.Name, subject)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.PTTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// first hit in the window, or a key that lost its expiry
		if err := rdb.PExpire(ctx, key, l.Window).Err(); err != nil {
			return false, 0, err
		}
		remaining = l.Window
	}
	if incr.Val() > int64(l.Max) {
		return false, remaining, nil
	}
	return true, 0, nil
}

func rateLimitSubject(c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("user:%v", uid)
	}
	return "ip:" + c.IP()
}

// RateLimit enforces l per caller, keyed by user id when authenticated and by
// remote IP otherwise.
func RateLimit(rdb *redis.Client, l Limit) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, retryAfter, err := Allow(c.UserContext(), rdb, l, rateLimitSubject(c))
		if err != nil {
			if !l.FailClosed {
				return c.Next()
			}
			Logger.WarnContext(c.UserContext(), "rate limiter unavailable",
				slog.String("limit", l.Name),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"msg": "Rate limit unavailable"})
		}

		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"msg": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}
