package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

// RateLimitRedisRepository keeps one Redis counter per client and fixed window.
type RateLimitRedisRepository struct {
	r   redis.Cmdable
	now func() time.Time
}

var _ ports.RateLimitRepository = (*RateLimitRedisRepository)(nil)

func NewRateLimitRedisRepository(r redis.Cmdable) *RateLimitRedisRepository {
	return &RateLimitRedisRepository{r: r, now: time.Now}
}

func (repo *RateLimitRedisRepository) IncrementWindow(ctx context.Context, clientKey string, window time.Duration, keyPrefix string, ttl time.Duration) (int, time.Time, error) {
	start := repo.now().Truncate(window)
	key := windowKey(keyPrefix, clientKey, start)

	var incr *redis.IntCmd
	_, err := repo.r.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, start, fmt.Errorf("increment %s: %w", key, err)
	}
	return int(incr.Val()), start, nil
}

func windowKey(prefix, clientKey string, start time.Time) string {
	return fmt.Sprintf("%s:%s:%d", prefix, clientKey, start.Unix())
}
