package optimize

import (
	"go.uber.org/zap"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
)

// ClassSetOptimizer schedules the per-method passes of a class set on an
// executor. Each method body is optimized by its own task; the caller joins
// the tasks with the executor's Complete.
type ClassSetOptimizer struct {
	exec   executor.Executor
	passes []MethodOptimization
	logger *zap.Logger
}

// Option configures a ClassSetOptimizer.
type Option func(*ClassSetOptimizer)

// WithPasses replaces the default pass list.
func WithPasses(passes ...MethodOptimization) Option {
	return func(o *ClassSetOptimizer) {
		o.passes = passes
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *ClassSetOptimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewClassSetOptimizer creates an optimizer submitting work to exec.
func NewClassSetOptimizer(exec executor.Executor, opts ...Option) *ClassSetOptimizer {
	o := &ClassSetOptimizer{
		exec:   exec,
		passes: DefaultPasses(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// OptimizeAll submits one task per method with a body and returns the
// number of submitted tasks. Tasks touch only their own method's program.
func (o *ClassSetOptimizer) OptimizeAll(set classes.ListableSource) int {
	submitted := 0
	for _, name := range set.ClassNames() {
		for _, m := range set.Get(name).Methods() {
			if !m.HasBody() {
				continue
			}
			o.exec.Submit(func() error {
				return o.optimizeMethod(m)
			})
			submitted++
		}
	}
	o.logger.Debug("optimization scheduled",
		zap.Int("methods", submitted),
		zap.Int("passes", len(o.passes)))
	return submitted
}

func (o *ClassSetOptimizer) optimizeMethod(m *classes.Method) error {
	for _, pass := range o.passes {
		if err := pass.Optimize(m.Program); err != nil {
			return errors.New(errors.PhaseOptimize, errors.KindComputation).
				Detail("%s on %s", pass.Name(), m.Reference()).
				Cause(err).
				Build()
		}
	}
	return nil
}
