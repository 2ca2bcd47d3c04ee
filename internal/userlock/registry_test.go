package userlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queueLen(l *Lock) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

func TestRegistry_SerializesSameUser(t *testing.T) {
	r := NewRegistry()
	const workers, rounds = 16, 200

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < rounds; j++ {
				err := r.WithLock(context.Background(), 7, func() error {
					v := counter
					time.Sleep(time.Microsecond)
					counter = v + 1
					return nil
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*rounds, counter)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_SameInstanceForConcurrentFirstCallers(t *testing.T) {
	r := NewRegistry()
	first, err := r.Acquire(context.Background(), 1)
	require.NoError(t, err)

	got := make(chan *Lock)
	go func() {
		l, err := r.Acquire(context.Background(), 1)
		assert.NoError(t, err)
		got <- l
	}()

	require.Eventually(t, func() bool { return queueLen(first) == 1 }, time.Second, time.Millisecond)
	r.Release(1, first)

	second := <-got
	assert.Same(t, first, second)
	r.Release(1, second)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_DistinctUsersDoNotBlock(t *testing.T) {
	r := NewRegistry()
	held, err := r.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer r.Release(1, held)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	other, err := r.Acquire(ctx, 2)
	require.NoError(t, err)
	r.Release(2, other)

	assert.Equal(t, 1, r.Len())
}

func TestRegistry_FirstComeFirstServed(t *testing.T) {
	r := NewRegistry()
	holder, err := r.Acquire(context.Background(), 3)
	require.NoError(t, err)

	const waiters = 8
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			l, err := r.Acquire(context.Background(), 3)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			r.Release(3, l)
		}(i)
		want := i + 1
		require.Eventually(t, func() bool { return queueLen(holder) == want }, time.Second, time.Millisecond)
	}

	r.Release(3, holder)
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, order)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_NotEvictedWhileWaiterPending(t *testing.T) {
	r := NewRegistry()
	holder, err := r.Acquire(context.Background(), 4)
	require.NoError(t, err)

	acquired := make(chan *Lock)
	go func() {
		l, err := r.Acquire(context.Background(), 4)
		assert.NoError(t, err)
		acquired <- l
	}()
	require.Eventually(t, func() bool { return queueLen(holder) == 1 }, time.Second, time.Millisecond)

	r.Release(4, holder)
	l := <-acquired
	assert.Equal(t, 1, r.Len(), "entry must survive while the waiter owns it")

	r.Release(4, l)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_CancelledWaiterLeavesQueue(t *testing.T) {
	r := NewRegistry()
	holder, err := r.Acquire(context.Background(), 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Acquire(ctx, 5)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, 0, queueLen(holder))

	r.Release(5, holder)
	assert.Equal(t, 0, r.Len())

	again, err := r.Acquire(context.Background(), 5)
	require.NoError(t, err)
	r.Release(5, again)
}

func TestRegistry_WithLockPropagatesError(t *testing.T) {
	r := NewRegistry()
	boom := errors.New("boom")

	err := r.WithLock(context.Background(), 9, func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len())
}

func TestRegistry_ReleaseForeignLockPanics(t *testing.T) {
	r := NewRegistry()
	l, err := r.Acquire(context.Background(), 1)
	require.NoError(t, err)
	defer r.Release(1, l)

	assert.Panics(t, func() { r.Release(2, l) })
}
