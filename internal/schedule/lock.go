package schedule

import (
	"context"
	"errors"
	"sync"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// Locker guards the booking critical section per slot key. Nothing coarser
// than the slot key is ever locked.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// KeyedLocker is an in-process try-lock per slot key. The ledger state lives
// in this process, so there is no cross-process coordination to do; a
// contended key fails fast and the caller retries.
type KeyedLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{
		held: make(map[string]struct{}),
	}
}

func (l *KeyedLocker) WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	if _, taken := l.held[key]; taken {
		l.mu.Unlock()
		return ErrLockNotAcquired
	}
	l.held[key] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.held, key)
		l.mu.Unlock()
	}()

	return fn(ctx)
}
