package executor

// Sequential runs every task inline inside Submit on the calling goroutine.
// It never starts goroutines, which makes builds fully deterministic and
// easy to debug.
//
// After a task fails the remaining submissions of the phase are skipped;
// Complete reports the failure and clears it.
type Sequential struct {
	err error
}

var _ Executor = (*Sequential)(nil)

// NewSequential creates a sequential executor.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Submit runs task immediately unless an earlier task of the phase failed.
func (s *Sequential) Submit(task Task) {
	if s.err != nil {
		return
	}
	s.err = run(task)
}

// Complete returns the first error of the phase.
func (s *Sequential) Complete() error {
	err := s.err
	s.err = nil
	return err
}
