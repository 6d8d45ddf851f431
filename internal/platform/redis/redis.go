package redis

import (
	"context"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Connect dials Redis at addr and verifies connectivity. When addr is empty or
// the ping fails it logs and returns nil with a no-op cleanup, leaving the order
// store uncached.
func Connect(ctx context.Context, addr string, logger *slog.Logger) (*goredis.Client, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		logger.Info("REDIS_ADDR not set, order cache disabled")
		return nil, func() {}
	}
	var opts *goredis.Options
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		parsed, err := goredis.ParseURL(addr)
		if err != nil {
			logger.Warn("invalid redis URL, order cache disabled", slog.String("error", err.Error()))
			return nil, func() {}
		}
		opts = parsed
	} else {
		opts = &goredis.Options{Addr: addr}
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("failed to ping redis, order cache disabled", slog.String("error", err.Error()))
		_ = client.Close()
		return nil, func() {}
	}
	logger.Info("redis connection established", slog.String("addr", opts.Addr))
	return client, func() { _ = client.Close() }
}
