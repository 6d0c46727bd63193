package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunKeepsOrder(t *testing.T) {
	tasks := make([]Task[int], 20)
	for i := range tasks {
		i := i
		tasks[i] = func() (int, error) {
			// later tasks finish first
			time.Sleep(time.Duration(len(tasks)-i) * time.Millisecond)
			return i, nil
		}
	}

	results, err := Run(4, tasks)
	require.NoError(t, err)
	require.Len(t, results, len(tasks))
	for i := range results {
		assert.Equal(t, i, results[i])
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var running, peak int32

	tasks := make([]Task[struct{}], 16)
	for i := range tasks {
		tasks[i] = func() (struct{}, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return struct{}{}, nil
		}
	}

	_, err := Run(3, tasks)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestRunCombinesErrors(t *testing.T) {
	boom := errors.New("boom")
	tasks := []Task[string]{
		func() (string, error) { return "ok", nil },
		func() (string, error) { return "", boom },
		func() (string, error) { return "", errors.New("bang") },
	}

	results, err := Run(2, tasks)
	require.Error(t, err)
	assert.Nil(t, results)
	assert.True(t, errors.Is(err, boom))
	assert.Contains(t, err.Error(), "boom")
}

func TestRunEmpty(t *testing.T) {
	results, err := Run(4, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
