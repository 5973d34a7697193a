package keylock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocker_SerializesSameKey(t *testing.T) {
	l := New()

	var inside atomic.Int32
	var maxInside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			unlock, err := l.Lock(context.Background(), 1)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := inside.Add(1)
			if n > maxInside.Load() {
				maxInside.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside.Load())
	assert.Equal(t, 0, l.Len())
}

func TestLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := New()

	unlock1, err := l.Lock(context.Background(), 1)
	require.NoError(t, err)
	defer unlock1()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	unlock2, err := l.Lock(ctx, 2)
	require.NoError(t, err)
	unlock2()

	assert.Equal(t, 1, l.Len())
}

func TestLocker_ContextCancelledWhileWaiting(t *testing.T) {
	l := New()

	unlock, err := l.Lock(context.Background(), 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, 5)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	assert.Equal(t, 0, l.Len())

	// Key is usable again after the waiter gave up
	unlock, err = l.Lock(context.Background(), 5)
	require.NoError(t, err)
	unlock()
}

func TestLocker_UnlockIsIdempotent(t *testing.T) {
	l := New()

	unlock, err := l.Lock(context.Background(), 9)
	require.NoError(t, err)

	unlock()
	unlock()

	assert.Equal(t, 0, l.Len())
}
