package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matkoch/jetbrains-plugin-idebrowser/internal/infrastructure/monitoring"
)

func startLoop(t *testing.T, size int) (*Loop, context.CancelFunc) {
	t.Helper()
	loop := NewLoop(size, nil).WithMetrics(monitoring.NewMetrics())
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-loop.Done()
	})
	return loop, cancel
}

func TestLoopRunsTasksInOrder(t *testing.T) {
	loop, _ := startLoop(t, 16)

	var (
		mu  sync.Mutex
		got []int
	)
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		require.NoError(t, loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 9 {
				close(done)
			}
		}))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tasks did not run")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoopSurvivesPanic(t *testing.T) {
	loop, _ := startLoop(t, 4)

	ran := make(chan struct{})
	require.NoError(t, loop.Post(func() { panic("boom") }))
	require.NoError(t, loop.Post(func() { close(ran) }))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("loop stopped after a panicking task")
	}
}

func TestLoopQueueFull(t *testing.T) {
	loop := NewLoop(2, nil)

	require.NoError(t, loop.Post(func() {}))
	require.NoError(t, loop.Post(func() {}))
	assert.ErrorIs(t, loop.Post(func() {}), ErrQueueFull)
	assert.Equal(t, 2, loop.Pending())
}

func TestLoopCloseDrainsQueue(t *testing.T) {
	loop := NewLoop(4, nil)

	count := 0
	require.NoError(t, loop.Post(func() { count++ }))
	require.NoError(t, loop.Post(func() { count++ }))
	loop.Close()

	assert.ErrorIs(t, loop.Post(func() {}), ErrClosed)
	assert.NoError(t, loop.Run(context.Background()))
	assert.Equal(t, 2, count)
}

func TestLoopCancelDrainsQueue(t *testing.T) {
	loop := NewLoop(4, nil)

	count := 0
	require.NoError(t, loop.Post(func() { count++ }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := loop.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, count)
	assert.ErrorIs(t, loop.Post(func() {}), ErrClosed)
}

func TestLoopConcurrentPost(t *testing.T) {
	loop, _ := startLoop(t, 1024)

	const posters, perPoster = 8, 50
	var wg sync.WaitGroup
	var ran sync.WaitGroup
	ran.Add(posters * perPoster)

	for p := 0; p < posters; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perPoster; i++ {
				if err := loop.Post(ran.Done); err != nil {
					ran.Done()
				}
			}
		}()
	}
	wg.Wait()

	finished := make(chan struct{})
	go func() {
		ran.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("posted tasks did not complete")
	}
}

func TestManualScheduler(t *testing.T) {
	s := NewManualScheduler()

	var order []string
	require.NoError(t, s.Post(func() {
		order = append(order, "a")
		_ = s.Post(func() { order = append(order, "c") })
	}))
	require.NoError(t, s.Post(func() { order = append(order, "b") }))

	assert.Equal(t, 2, s.Len())
	assert.Empty(t, order, "Post must not run tasks")

	assert.Equal(t, 3, s.Drain())
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, s.Len())

	s.Reject = ErrClosed
	assert.ErrorIs(t, s.Post(func() {}), ErrClosed)
	assert.Equal(t, 0, s.Len())
}
