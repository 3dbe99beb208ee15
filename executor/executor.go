package executor

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/wippyai/teajs/errors"
)

// Task is an independent unit of work.
type Task func() error

// Executor runs submitted tasks and joins them at a barrier.
//
// Submit never blocks on task execution for more than the time it takes to
// enqueue the task. Complete blocks until every task submitted before the
// call has finished, returns the first task error (resetting the executor
// for the next phase) and guarantees that the effects of those tasks are
// visible to the caller and to every task submitted afterwards. Tasks
// submitted while Complete is waiting start only after it returns.
//
// Submit may be called from running tasks; Complete must not.
type Executor interface {
	Submit(task Task)
	Complete() error
}

// New returns an executor running up to threads tasks at once. Zero selects
// runtime.NumCPU(). A degree of one or less yields a Sequential executor.
func New(threads int) Executor {
	if threads == 0 {
		threads = runtime.NumCPU()
	}
	if threads <= 1 {
		return NewSequential()
	}
	return NewPool(threads)
}

// Degree reports the number of tasks e may run concurrently.
func Degree(e Executor) int {
	switch e := e.(type) {
	case *Pool:
		return e.size
	default:
		return 1
	}
}

// run executes task, converting a panic into a computation error.
func run(task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Debug("task panicked", zap.Any("panic", r))
			err = errors.Computation(errors.PhaseExecute, fmt.Sprintf("task panicked: %v", r), nil)
		}
	}()
	return task()
}
