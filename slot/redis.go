package slot

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Slot = (*Redis)(nil)

// Redis stores values as plain Redis strings without expiry.
type Redis struct {
	client redis.Cmdable
	prefix string
	logger *zap.Logger
}

// NewRedis returns a Redis slot. prefix is prepended to every key so several
// storefront sessions can share one database.
func NewRedis(client redis.Cmdable, prefix string, logger *zap.Logger) *Redis {
	return &Redis{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("failed to read slot", zap.String("key", r.prefix+key), zap.Error(err))
		return "", false, err
	}

	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		r.logger.Error("failed to write slot", zap.String("key", r.prefix+key), zap.Error(err))
		return err
	}

	return nil
}
