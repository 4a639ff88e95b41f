package health

import (
	"context"

	"github.com/go-redis/redis/v8"

	"github.com/avatarctic/cached-catalog/go/internal/core/ports"
)

// redisHealthChecker wraps the redis client used by the rate limiter.
type redisHealthChecker struct{ client redis.Cmdable }

func (r *redisHealthChecker) Name() string                    { return "redis" }
func (r *redisHealthChecker) Check(ctx context.Context) error { return r.client.Ping(ctx).Err() }

// NewRedisHealthChecker creates a health checker for Redis.
func NewRedisHealthChecker(client redis.Cmdable) ports.HealthChecker {
	return &redisHealthChecker{client: client}
}

// generatorHealthChecker runs the generator directly, bypassing the cache.
type generatorHealthChecker struct{ gen ports.ProductGenerator }

func (g *generatorHealthChecker) Name() string { return "catalog" }
func (g *generatorHealthChecker) Check(ctx context.Context) error {
	_, err := g.gen.Generate(ctx)
	return err
}

// NewGeneratorHealthChecker creates a health checker for the product generator.
func NewGeneratorHealthChecker(gen ports.ProductGenerator) ports.HealthChecker {
	return &generatorHealthChecker{gen: gen}
}
