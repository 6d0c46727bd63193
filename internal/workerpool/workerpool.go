// Package workerpool runs a batch of tasks with bounded concurrency.
package workerpool

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// Task produces one result
type Task[R any] func() (R, error)

// Run executes the tasks with at most workers running at once. Results
// keep the task order. Errors of individual tasks are combined, a failed
// batch returns no results.
func Run[R any](workers int, tasks []Task[R]) ([]R, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]R, len(tasks))
	taskErrs := make([]error, len(tasks))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := range tasks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i], taskErrs[i] = tasks[i]()
		}(i)
	}
	wg.Wait()

	var err error
	for i := range taskErrs {
		err = errors.CombineErrors(err, taskErrs[i])
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}
