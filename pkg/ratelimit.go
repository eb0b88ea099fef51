package pkg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

// DistributedLimiter combines a local token bucket with a per-second Redis counter
// shared by every replica of the service.
type DistributedLimiter struct {
	localLimiter *rate.Limiter
	redisClient  *redis.Client // nil: local enforcement only
	key          string        // e.g. "fraud_api:predict"
	globalRate   int
	ttl          time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewDistributedLimiter creates a limiter; globalRate <= 0 means unlimited.
func NewDistributedLimiter(redisClient *redis.Client, key string, globalRate, burst int, ttl time.Duration, logger *zap.Logger) *DistributedLimiter {
	var local *rate.Limiter
	if globalRate > 0 {
		if burst < 1 {
			burst = 1
		}
		local = rate.NewLimiter(rate.Limit(globalRate), burst)
	}
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &DistributedLimiter{
		localLimiter: local,
		redisClient:  redisClient,
		key:          key,
		globalRate:   globalRate,
		ttl:          ttl,
		logger:       logger,
		now:          time.Now,
	}
}

// Allow consumes one token. Redis failures fall back to the local decision.
func (d *DistributedLimiter) Allow(ctx context.Context) bool {
	if d.localLimiter == nil {
		return true
	}
	if !d.localLimiter.Allow() {
		return false
	}
	if d.redisClient == nil {
		return true
	}

	windowKey := fmt.Sprintf("%s:%d", d.key, d.now().Unix())
	pipe := d.redisClient.Pipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.Expire(ctx, windowKey, d.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		d.logger.Error("rate_limit_redis_error", zap.String("key", windowKey), zap.Error(err))
		return true
	}

	if count := incr.Val(); count > int64(d.globalRate) {
		d.logger.Warn("rate_limit_exceeded", zap.String("key", windowKey), zap.Int64("count", count))
		return false
	}
	return true
}
