package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config describes the Redis instance backing the shared /predict rate limit.
type Config struct {
	Addr        string
	Password    string
	DB          int
	UseTLS      bool
	DialTimeout time.Duration
	ReadTimeout time.Duration
	PoolSize    int
	MaxRetries  int
}

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, logger *zap.Logger, cfg Config) (*redis.Client, func(), error) {
	opts := &redis.Options{
		Addr:            cfg.Addr,
		Password:        cfg.Password,
		DB:              cfg.DB,
		DialTimeout:     orDefault(cfg.DialTimeout, 2*time.Second),
		ReadTimeout:     orDefault(cfg.ReadTimeout, 500*time.Millisecond),
		WriteTimeout:    orDefault(cfg.ReadTimeout, 500*time.Millisecond),
		PoolSize:        orDefault(cfg.PoolSize, 10),
		MaxRetries:      orDefault(cfg.MaxRetries, 2),
		MinRetryBackoff: 20 * time.Millisecond,
		MaxRetryBackoff: 200 * time.Millisecond,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	logger.Info("redis_connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))

	closer := func() {
		_ = client.Close()
		logger.Info("redis_closed")
	}
	return client, closer, nil
}

func orDefault[T int | time.Duration](v, d T) T {
	if v > 0 {
		return v
	}
	return d
}
