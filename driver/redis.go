// Package driver
package driver

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	maxRetries      = 3
	minRetryBackoff = 100 * time.Millisecond
	maxRetryBackoff = 300 * time.Millisecond
	dialTimeout     = 5 * time.Second
	readTimeout     = 3 * time.Second
	writeTimeout    = 3 * time.Second
)

// RedisOptions 描述 Redis 連線設定
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// ConnectRedis connects to the Redis server and pings it before handing the client back.
// A redis:// URL is accepted in Addr as well as a plain host:port.
func ConnectRedis(ctx context.Context, opts RedisOptions, logger *zap.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(opts.Addr)
	if err != nil {
		options = &redis.Options{
			Addr:     opts.Addr,
			Password: opts.Password,
			DB:       opts.DB,
		}
	}
	options.MaxRetries = maxRetries
	options.MinRetryBackoff = minRetryBackoff
	options.MaxRetryBackoff = maxRetryBackoff
	options.DialTimeout = dialTimeout
	options.ReadTimeout = readTimeout
	options.WriteTimeout = writeTimeout

	client := redis.NewClient(options)

	if err = testRedis(ctx, client); err != nil {
		logger.Error("Redis connection error", zap.String("addr", options.Addr), zap.Error(err))
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// testRedis pings the Redis server to verify the connection
func testRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return client.Ping(ctx).Err()
}
