package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets several runtime replicas coordinate access to the same module.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (e.g., module ID).
	// It blocks until the lock is acquired or the context is canceled.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}

// Coordinator runs fn while holding the exclusive lock for key.
// Execution cycles and state mutations of the same module go through it,
// so state only changes between cycles.
type Coordinator interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
