// Package userlock hands out one fair mutex per user id.
//
// Locks are created on first use and dropped from the registry as soon as
// nobody holds or waits for them. Creation and removal happen under the same
// registry mutex, so two callers for the same user always share one lock.
package userlock

import (
	"context"
	"sync"
)

// Lock is a FIFO mutex: waiters obtain it in the order they asked for it.
// Ownership is handed directly from the releasing holder to the next waiter,
// so a newcomer can never barge ahead of the queue.
type Lock struct {
	mu     sync.Mutex
	held   bool
	queue  []chan struct{}
	refs   int // holders + waiters, guarded by Registry.mu
	userID int64
}

func (l *Lock) lock(ctx context.Context) error {
	l.mu.Lock()
	if !l.held {
		l.held = true
		l.mu.Unlock()
		return nil
	}
	ready := make(chan struct{})
	l.queue = append(l.queue, ready)
	l.mu.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
	}

	l.mu.Lock()
	for i, ch := range l.queue {
		if ch == ready {
			l.queue = append(l.queue[:i], l.queue[i+1:]...)
			l.mu.Unlock()
			return ctx.Err()
		}
	}
	l.mu.Unlock()
	// ownership was handed to us while we were giving up; pass it on
	l.unlock()
	return ctx.Err()
}

func (l *Lock) unlock() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.held {
		panic("userlock: unlock of unlocked lock")
	}
	if len(l.queue) == 0 {
		l.held = false
		return
	}
	next := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	close(next)
}

// UserID reports which user this lock serializes.
func (l *Lock) UserID() int64 { return l.userID }

// Registry hands out one fair Lock per user id and forgets it once idle.
type Registry struct {
	mu    sync.Mutex
	locks map[int64]*Lock
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{locks: make(map[int64]*Lock)}
}

// Acquire blocks until the caller owns the lock for userID or ctx is done.
// On success the returned lock must be passed to Release exactly once.
func (r *Registry) Acquire(ctx context.Context, userID int64) (*Lock, error) {
	r.mu.Lock()
	l, ok := r.locks[userID]
	if !ok {
		l = &Lock{userID: userID}
		r.locks[userID] = l
	}
	l.refs++
	r.mu.Unlock()

	if err := l.lock(ctx); err != nil {
		r.drop(l)
		return nil, err
	}
	return l, nil
}

// Release gives up ownership and evicts the entry when it has gone idle.
func (r *Registry) Release(userID int64, l *Lock) {
	if l == nil || l.userID != userID {
		panic("userlock: release with foreign lock")
	}
	l.unlock()
	r.drop(l)
}

func (r *Registry) drop(l *Lock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l.refs--
	if l.refs == 0 && r.locks[l.userID] == l {
		delete(r.locks, l.userID)
	}
}

// WithLock runs fn while holding userID's lock.
func (r *Registry) WithLock(ctx context.Context, userID int64, fn func() error) error {
	l, err := r.Acquire(ctx, userID)
	if err != nil {
		return err
	}
	defer r.Release(userID, l)
	return fn()
}

// Len returns the number of locks currently held or awaited.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}
