// Package cache keeps read-through copies of users and posts in Redis.
// Every helper is a no-op while no client is connected.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"socialapp/internal/observability"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// errorHook counts failed commands. redis.Nil is a miss, not a failure.
type errorHook struct{}

func (errorHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (errorHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countError(err, cmd.Name())
		return err
	}
}

func (errorHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countError(err, "pipeline")
		return err
	}
}

func countError(err error, command string) {
	if err != nil && !errors.Is(err, redis.Nil) {
		observability.CacheErrors.WithLabelValues(command).Inc()
	}
}

// parseAddr accepts either host:port or a redis:// URL.
func parseAddr(addr string) (*redis.Options, error) {
	if !strings.Contains(addr, "://") {
		return &redis.Options{Addr: addr}, nil
	}
	opts, err := redis.ParseURL(addr)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return opts, nil
}

// InitRedis connects to addr. An unparsable address or a failed ping leaves
// the package without a client; the API then reads straight from the database.
func InitRedis(addr string) {
	log := slog.Default().With(slog.String("component", "cache"))

	opts, err := parseAddr(addr)
	if err != nil {
		log.Warn("invalid REDIS_URL, continuing without cache", slog.String("error", err.Error()))
		client = nil
		return
	}

	c := redis.NewClient(opts)
	c.AddHook(errorHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		log.Warn("redis unavailable, continuing without cache",
			slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = c.Close()
		client = nil
		return
	}

	log.Info("redis connected", slog.String("addr", opts.Addr))
	client = c
}

// GetClient returns the connected client, or nil.
func GetClient() *redis.Client {
	return client
}

// SetClient installs c as the cache client.
func SetClient(c *redis.Client) {
	if c != nil {
		c.AddHook(errorHook{})
	}
	client = c
}

// Close closes the client if one is connected.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
