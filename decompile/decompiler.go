package decompile

import (
	"go.uber.org/zap"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
	"github.com/wippyai/teajs/model"
)

// Decompiler turns classes into ClassNodes, one executor task per class.
type Decompiler struct {
	exec   executor.Executor
	logger *zap.Logger
}

// Option configures a Decompiler.
type Option func(*Decompiler)

// WithLogger sets the logger for per-class progress.
func WithLogger(l *zap.Logger) Option {
	return func(d *Decompiler) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates a decompiler scheduling work on exec.
func New(exec executor.Executor, opts ...Option) *Decompiler {
	d := &Decompiler{exec: exec, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decompile decompiles the named classes of source and waits on the
// executor barrier. Result i belongs to names[i] regardless of completion
// order.
func (d *Decompiler) Decompile(source classes.Source, names []string) ([]*ClassNode, error) {
	found := make([]*classes.Class, len(names))
	for i, name := range names {
		if found[i] = source.Get(name); found[i] == nil {
			return nil, errors.NotFound(errors.PhaseDecompile, "class", name)
		}
	}
	result := make([]*ClassNode, len(names))
	for i, cls := range found {
		d.exec.Submit(func() error {
			node, err := DecompileClass(cls)
			if err != nil {
				return err
			}
			result[i] = node
			d.logger.Debug("decompiled class",
				zap.String("class", cls.Name),
				zap.Int("methods", len(node.Methods)))
			return nil
		})
	}
	if err := d.exec.Complete(); err != nil {
		return nil, err
	}
	return result, nil
}

// DecompileClass decompiles every method of c in declaration order.
func DecompileClass(c *classes.Class) (*ClassNode, error) {
	node := &ClassNode{
		Name:       c.Name,
		Parent:     c.Parent,
		Interfaces: c.Interfaces,
		Modifiers:  c.Modifiers,
	}
	for _, f := range c.Fields() {
		node.Fields = append(node.Fields, &FieldNode{
			Reference: f.Reference(),
			Static:    f.Modifiers.Has(model.Static),
			Initial:   f.Initial,
		})
	}
	for _, m := range c.Methods() {
		mn, err := DecompileMethod(m)
		if err != nil {
			return nil, err
		}
		node.Methods = append(node.Methods, mn)
	}
	return node, nil
}
