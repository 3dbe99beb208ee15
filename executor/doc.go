// Package executor provides bounded parallel task execution with a phase
// barrier.
//
// A build submits the independent tasks of one phase and then calls
// Complete, which joins them, surfaces the first failure and orders every
// effect of the phase before anything that follows:
//
//	exec := executor.New(threads)
//	for _, m := range methods {
//	    exec.Submit(func() error { return allocate(m) })
//	}
//	if err := exec.Complete(); err != nil {
//	    return err
//	}
//
// Sequential runs tasks inline with no goroutines. Pool runs them on an
// errgroup with a fixed number of execution slots.
package executor
