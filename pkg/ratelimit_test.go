package pkg

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDistributedLimiter_Unlimited(t *testing.T) {
	l := NewDistributedLimiter(nil, "test", 0, 0, 0, zap.NewNop())
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(context.Background()))
	}
}

func TestDistributedLimiter_LocalBurst(t *testing.T) {
	l := NewDistributedLimiter(nil, "test", 1, 3, time.Second, zap.NewNop())
	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(context.Background()))
	}
	assert.False(t, l.Allow(context.Background()))
}

func TestDistributedLimiter_RedisUnavailableFallsBack(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewDistributedLimiter(client, "test", 10, 2, time.Second, zap.NewNop())
	assert.True(t, l.Allow(context.Background()))
	assert.True(t, l.Allow(context.Background()))
	assert.False(t, l.Allow(context.Background()))
}
