// Package keylock provides in-process mutual exclusion keyed by note id.
package keylock

import (
	"context"
	"sync"
)

type entry struct {
	// ch holds one token while the key is locked
	ch   chan struct{}
	refs int
}

// Locker serializes work per key. Different keys never block each other.
// Entries are dropped once no goroutine holds or waits on them.
type Locker struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[int64]*entry)}
}

// Lock blocks until key is acquired or ctx is done.
// On success the returned func must be called exactly once to release the key.
func (l *Locker) Lock(ctx context.Context, key int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			l.release(key, e)
		})
	}, nil
}

func (l *Locker) release(key int64, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len returns the number of keys currently held or awaited
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
