package host

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batchhost/batchhost/testutil"
)

func TestQueue_PushPopBatch(t *testing.T) {
	q := newQueue[int]()
	require.NoError(t, q.push(1))
	require.NoError(t, q.push(2))
	require.NoError(t, q.push(3))

	batch, ok := q.popBatch(2)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, batch)
	assert.Equal(t, 1, q.len())

	batch, ok = q.popBatch(10)
	require.True(t, ok)
	assert.Equal(t, []int{3}, batch)
}

func TestQueue_PopBatchBlocksUntilPush(t *testing.T) {
	q := newQueue[int]()

	done := make(chan []int, 1)
	go func() {
		batch, ok := q.popBatch(5)
		if !ok {
			done <- nil
			return
		}
		done <- batch
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.push(42))

	select {
	case batch := <-done:
		assert.Equal(t, []int{42}, batch)
	case <-time.After(2 * time.Second):
		t.Fatal("popBatch never returned")
	}
}

func TestQueue_CloseDrainsThenTerminal(t *testing.T) {
	q := newQueue[int]()
	require.NoError(t, q.push(1))
	q.close()

	batch, ok := q.popBatch(10)
	require.True(t, ok)
	assert.Equal(t, []int{1}, batch)

	_, ok = q.popBatch(10)
	assert.False(t, ok, "closed, empty queue must return the terminal sentinel")

	assert.ErrorIs(t, q.push(2), ErrHostStopped)
}

func TestQueue_CloseWakesBlockedPop(t *testing.T) {
	q := newQueue[int]()

	done := make(chan bool, 1)
	go func() {
		_, ok := q.popBatch(5)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	q.close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("popBatch never woke on close")
	}
}

func TestQueue_CapsBatchAtMaxN(t *testing.T) {
	q := newQueue[int]()
	for i := 0; i < 10; i++ {
		require.NoError(t, q.push(i))
	}
	batch, ok := q.popBatch(3)
	require.True(t, ok)
	assert.Len(t, batch, 3)
	assert.Equal(t, 7, q.len())
}

func TestQueue_ConcurrentPushPop(t *testing.T) {
	q := newQueue[int]()
	const n = 500

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			require.NoError(t, q.push(v))
		}(i)
	}

	var mu sync.Mutex
	seen := make(map[int]bool)
	go func() {
		for len(seen) < n {
			batch, ok := q.popBatch(7)
			if !ok {
				return
			}
			mu.Lock()
			for _, v := range batch {
				seen[v] = true
			}
			mu.Unlock()
		}
	}()

	wg.Wait()
	ok := testutil.WaitFor(func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == n
	}, 5*time.Second)
	require.True(t, ok)
}
