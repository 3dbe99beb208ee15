package executor

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pool runs tasks on goroutines with at most size of them executing at any
// moment. Each phase (the span between two Complete calls) is an errgroup;
// the first failure cancels the phase context and tasks that have not yet
// started are skipped.
//
// Submit does not block on the limit: tasks wait for a slot on their own
// goroutine, so a running task may submit further work without deadlocking
// the pool.
type Pool struct {
	size  int
	slots chan struct{}

	mu         sync.Mutex
	group      *errgroup.Group
	ctx        context.Context
	completing bool
	deferred   []Task
}

var _ Executor = (*Pool)(nil)

// NewPool creates a pool running up to size tasks concurrently. Sizes below
// one are treated as one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{size: size, slots: make(chan struct{}, size)}
}

// Submit schedules task for the current phase, or for the next one if a
// Complete call is waiting.
func (p *Pool) Submit(task Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.completing {
		p.deferred = append(p.deferred, task)
		return
	}
	p.start(task)
}

// start must be called with mu held.
func (p *Pool) start(task Task) {
	if p.group == nil {
		p.group, p.ctx = errgroup.WithContext(context.Background())
	}
	ctx := p.ctx
	p.group.Go(func() error {
		p.slots <- struct{}{}
		defer func() { <-p.slots }()
		if ctx.Err() != nil {
			return nil
		}
		return run(task)
	})
}

// Complete waits for the tasks of the current phase and returns the first
// error. Tasks deferred during the wait are started afterwards as the next
// phase.
func (p *Pool) Complete() error {
	p.mu.Lock()
	group := p.group
	p.group, p.ctx = nil, nil
	p.completing = true
	p.mu.Unlock()

	var err error
	if group != nil {
		err = group.Wait()
	}

	p.mu.Lock()
	p.completing = false
	deferred := p.deferred
	p.deferred = nil
	for _, task := range deferred {
		p.start(task)
	}
	p.mu.Unlock()

	if err != nil {
		Logger().Debug("phase failed", zap.Int("deferred", len(deferred)), zap.Error(err))
	}
	return err
}
