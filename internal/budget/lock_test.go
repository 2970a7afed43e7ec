package budget_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tally/internal/budget"
	"github.com/MrJamesThe3rd/tally/internal/period"
)

func TestLockKey(t *testing.T) {
	assert.Equal(t, "budget:12:2024-05", budget.LockKey(12, period.New(2024, time.May)))
}

func TestKeyedMutex_SerialisesSameKey(t *testing.T) {
	km := budget.NewKeyedMutex()

	var (
		wg      sync.WaitGroup
		active  atomic.Int32
		maxSeen atomic.Int32
	)

	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, unlock, err := km.Lock(context.Background(), "k")
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()

			n := active.Add(1)
			for {
				cur := maxSeen.Load()
				if n <= cur || maxSeen.CompareAndSwap(cur, n) {
					break
				}
			}

			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
	assert.Zero(t, km.Len())
}

func TestKeyedMutex_IndependentKeys(t *testing.T) {
	km := budget.NewKeyedMutex()

	_, unlockA, err := km.Lock(context.Background(), "a")
	require.NoError(t, err)

	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, unlockB, err := km.Lock(ctx, "b")
	require.NoError(t, err)
	unlockB()

	assert.Equal(t, 1, km.Len())
}

func TestKeyedMutex_ContextCancelled(t *testing.T) {
	km := budget.NewKeyedMutex()

	_, unlock, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, _, err = km.Lock(ctx, "k")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()

	assert.Zero(t, km.Len())

	_, again, err := km.Lock(context.Background(), "k")
	require.NoError(t, err)
	again()
}
