package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// lockSuffix names the lock file kept next to a store file.
const lockSuffix = ".lock"

// withLock runs fn while holding an exclusive lock on path+".lock". Waiting
// is bounded by the configured timeout and by ctx.
func (s *Store) withLock(ctx context.Context, path string, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LockTimeout)
	defer cancel()

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLockContext(ctx, s.opts.RetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s", ErrLockTimeout, path)
		}
		return fmt.Errorf("failed to lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s", ErrLockTimeout, path)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release lock", zap.String("path", path), zap.Error(err))
		}
	}()

	return fn()
}
