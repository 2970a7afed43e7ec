package budget

import (
	"context"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/tally/internal/period"
)

// Locker serialises work on a key. Lock blocks until the key is free or ctx
// is done; the returned func releases it. Work done while holding the key
// must use the returned context, which may carry the resources the lock is
// bound to.
type Locker interface {
	Lock(ctx context.Context, key string) (locked context.Context, unlock func(), err error)
}

// LockKey is the serialisation key of a (category, period) pair.
func LockKey(categoryID int64, p period.Period) string {
	return fmt.Sprintf("budget:%d:%s", categoryID, p)
}

// KeyedMutex is an in-process Locker. Entries are dropped once no caller
// holds or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sem  chan struct{}
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyLock)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (context.Context, func(), error) {
	k.mu.Lock()

	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{sem: make(chan struct{}, 1)}
		k.locks[key] = l
	}

	l.refs++
	k.mu.Unlock()

	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		k.release(key, l)
		return nil, nil, ctx.Err()
	}

	var once sync.Once

	return ctx, func() {
		once.Do(func() {
			<-l.sem
			k.release(key, l)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}

// Len reports how many keys are currently held or awaited.
func (k *KeyedMutex) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.locks)
}
