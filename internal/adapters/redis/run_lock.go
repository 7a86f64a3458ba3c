package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/amyangfei/redlock-go/v3/redlock"
	"go.uber.org/zap"

	"github.com/selivandex/marketpulse/pkg/logger"
)

// RunLock guards a periodic job so only one replica executes it at a time.
// The lock is held for the job duration and released explicitly; the TTL is
// the safety net if the holder dies mid-run.
type RunLock struct {
	lockManager *redlock.RedLock
	lockName    string
	ttl         time.Duration
	locked      bool
}

// NewRunLock creates a distributed lock for the named job
func NewRunLock(lockManager *redlock.RedLock, name string, ttl time.Duration) *RunLock {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RunLock{
		lockManager: lockManager,
		lockName:    fmt.Sprintf("marketpulse:lock:%s", name),
		ttl:         ttl,
	}
}

// TryAcquire attempts to take the lock. Returns false without error when
// another replica already holds it.
func (rl *RunLock) TryAcquire(ctx context.Context) (bool, error) {
	expiry, err := rl.lockManager.Lock(ctx, rl.lockName, rl.ttl)
	if err != nil {
		logger.Debug("run lock already held by another replica",
			zap.String("lock_name", rl.lockName),
		)
		return false, nil
	}

	if expiry <= 0 {
		return false, fmt.Errorf("failed to acquire lock: invalid expiry %v", expiry)
	}

	rl.locked = true

	logger.Debug("run lock acquired",
		zap.String("lock_name", rl.lockName),
		zap.Duration("ttl", rl.ttl),
	)

	return true, nil
}

// Release releases the lock. A failed release is logged but not returned:
// the lock may already have expired naturally.
func (rl *RunLock) Release(ctx context.Context) error {
	if !rl.locked {
		return nil
	}

	if err := rl.lockManager.UnLock(ctx, rl.lockName); err != nil {
		logger.Warn("failed to release run lock (may have already expired)",
			zap.String("lock_name", rl.lockName),
			zap.Error(err),
		)
	} else {
		logger.Debug("run lock released",
			zap.String("lock_name", rl.lockName),
		)
	}

	rl.locked = false
	return nil
}
