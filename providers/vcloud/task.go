package vcloud

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vmware/go-vcloud-director/v2/types/v56"
	"github.com/virtadm/virtadm/logger"
)

// Task statuses as reported by the Cloud Director API.
const (
	TaskStatusQueued     = "queued"
	TaskStatusPreRunning = "preRunning"
	TaskStatusRunning    = "running"
	TaskStatusSuccess    = "success"
	TaskStatusError      = "error"
	TaskStatusCanceled   = "canceled"
	TaskStatusAborted    = "aborted"
)

const (
	DefaultPollInterval = 5 * time.Second
	DefaultPollTimeout  = 10 * time.Minute
)

// ErrTaskTimeout marks a task wait that exhausted its wall-clock budget
// before the task reached a terminal status.
var ErrTaskTimeout = errors.New("timed out waiting for task")

// TaskFailedError is returned when a task reaches a terminal status other
// than success. The terminal task itself is returned alongside it so
// callers can inspect the details.
type TaskFailedError struct {
	ID      string
	Status  string
	Details string
}

func (e *TaskFailedError) Error() string {
	msg := "task " + e.ID + " finished with status " + e.Status
	if e.Details != "" {
		msg += ": " + e.Details
	}
	return msg
}

// Task fetches the current state of a task by its ID.
func (p *Provider) Task(id string) (*types.Task, error) {
	task, err := p.client.Client.GetTaskById(id)
	if err != nil {
		return nil, errors.Wrap(err, "could not retrieve task "+id)
	}
	return task.Task, nil
}

// WaitTask polls a task until it reaches a terminal status. It fetches the
// task, sleeps for the given interval and fetches again, up to the
// wall-clock timeout. Zero interval or timeout fall back to the defaults.
func (p *Provider) WaitTask(ctx context.Context, id string, interval, timeout time.Duration) (*types.Task, error) {
	return waitTask(ctx, func() (*types.Task, error) {
		return p.Task(id)
	}, interval, timeout)
}

func waitTask(ctx context.Context, fetch func() (*types.Task, error), interval, timeout time.Duration) (*types.Task, error) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if timeout <= 0 {
		timeout = DefaultPollTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		task, err := fetch()
		if err != nil {
			return nil, err
		}

		switch task.Status {
		case TaskStatusSuccess:
			return task, nil
		case TaskStatusError, TaskStatusCanceled, TaskStatusAborted:
			details := task.Details
			if details == "" && task.Error != nil {
				details = task.Error.Message
			}
			return task, &TaskFailedError{
				ID:      task.ID,
				Status:  task.Status,
				Details: details,
			}
		case TaskStatusQueued, TaskStatusPreRunning, TaskStatusRunning:
			// still in progress
			logger.DebugJSON(task)
		default:
			return task, errors.Newf("unknown status %q for task %s", task.Status, task.ID)
		}

		// never fetch past the deadline
		if time.Now().Add(interval).After(deadline) {
			return task, errors.Mark(
				errors.Newf("task %s did not finish within %s", task.ID, timeout),
				ErrTaskTimeout)
		}

		select {
		case <-ctx.Done():
			return task, ctx.Err()
		case <-time.After(interval):
		}
	}
}
