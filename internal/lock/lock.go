package lock

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrLockNotAcquired = errors.New("resource lock not acquired")
)

// Locker guards the check-then-write critical sections in the booking and
// inventory services. Keys are opaque strings scoped by the caller, one per
// resource unit (a doctor slot, a medicine id). Operations on different keys
// proceed independently.
type Locker interface {
	WithKeyLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

type keyMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyMutex returns an in-process Locker keyed by string. It is the right
// choice for the memory backend and single-node deployments; multi-node
// deployments use the Redis locker instead.
func NewKeyMutex() Locker {
	return &keyMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyMutex) WithKeyLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}
