package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/internal/adapters/config"
	"github.com/selivandex/marketpulse/pkg/logger"
)

// Client wraps a RedLock manager used to serialize trend analysis runs
// across replicas
type Client struct {
	lockManager *redlock.RedLock
	redisAddrs  []string
}

// New creates a Redis client with RedLock support
func New(cfg *config.RedisConfig) (*Client, error) {
	addr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	// A single instance is enough for run serialization; a Redis cluster
	// would supply multiple addresses here.
	redisAddrs := []string{addr}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	lockManager, err := redlock.NewRedLock(ctx, redisAddrs)
	if err != nil {
		return nil, fmt.Errorf("failed to create redlock manager: %w", err)
	}

	logger.Info("redis redlock manager initialized",
		zap.Strings("addresses", redisAddrs),
	)

	return &Client{
		lockManager: lockManager,
		redisAddrs:  redisAddrs,
	}, nil
}

// GetLockManager returns the RedLock manager
func (c *Client) GetLockManager() *redlock.RedLock {
	return c.lockManager
}

// NewRunLock creates a distributed lock guarding a named job
func (c *Client) NewRunLock(name string, ttl time.Duration) *RunLock {
	return NewRunLock(c.lockManager, name, ttl)
}

// Close releases redis connections. RedLock has no explicit close; the
// connections shut down with the process.
func (c *Client) Close() error {
	if c.lockManager != nil {
		logger.Info("closing redis redlock connections")
	}
	return nil
}

// Health acquires and releases a short-lived test lock
func (c *Client) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	testLock := "marketpulse:health:check"
	expiry, err := c.lockManager.Lock(ctx, testLock, 1*time.Second)
	if err != nil {
		return fmt.Errorf("redis health check failed: %w", err)
	}

	if expiry <= 0 {
		return fmt.Errorf("redis health check failed: invalid expiry")
	}

	_ = c.lockManager.UnLock(ctx, testLock)

	return nil
}
