package dependency

import (
	"cmp"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/teajs/cache"
	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

const classInit = "<clinit>()V"

// Checker computes the set of classes and methods reachable from a set of
// root methods and classes.
//
// Analysis proceeds in rounds: every method discovered in the previous
// round is scanned by its own executor task, and the round ends at the
// executor barrier. Class lookups go through a concurrent cache shared by
// all tasks, whose key listener records each class the first time any task
// touches it.
type Checker struct {
	source classes.Source
	exec   executor.Executor
	logger *zap.Logger
	lookup *cache.Concurrent[string, *classes.Class]

	mu      sync.Mutex
	methods map[string]*classes.Method // keyed by qualified reference
	pending []*classes.Method
	missing map[string]struct{}
	touched map[string]struct{}
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the logger used for round statistics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChecker creates a checker reading classes from source and scheduling
// method scans on exec.
func NewChecker(source classes.Source, exec executor.Executor, opts ...Option) *Checker {
	c := &Checker{
		source:  source,
		exec:    exec,
		logger:  zap.NewNop(),
		methods: make(map[string]*classes.Method),
		missing: make(map[string]struct{}),
		touched: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lookup = cache.New(cache.MapperFunc[string, *classes.Class](func(name string) (*classes.Class, error) {
		return source.Get(name), nil
	}))
	c.lookup.AddKeyListener(cache.KeyListenerFunc[string](func(name string) {
		c.mu.Lock()
		c.touched[name] = struct{}{}
		c.mu.Unlock()
	}))
	return c
}

// AttachMethod adds ref as a root and returns its declaration, which may
// live in an ancestor of ref's class. A reference to an unknown class or
// method is recorded as missing and yields nil without an error.
func (c *Checker) AttachMethod(ref model.MethodReference) (*classes.Method, error) {
	m, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}
	c.reach(m)
	return m, nil
}

// AttachClass adds every method of the named class as a root.
func (c *Checker) AttachClass(name string) error {
	cls, err := c.class(name)
	if err != nil {
		return err
	}
	if cls == nil {
		return errors.NotFound(errors.PhaseDependency, "class", name)
	}
	for _, m := range cls.Methods() {
		c.reach(m)
	}
	return nil
}

// Run scans pending methods until no new method is discovered.
func (c *Checker) Run() error {
	for round := 1; ; round++ {
		c.mu.Lock()
		batch := c.pending
		c.pending = nil
		c.mu.Unlock()
		if len(batch) == 0 {
			return nil
		}
		for _, m := range batch {
			c.exec.Submit(func() error {
				return c.scan(m)
			})
		}
		if err := c.exec.Complete(); err != nil {
			return errors.New(errors.PhaseDependency, errors.KindComputation).
				Detail("round %d", round).
				Cause(err).
				Build()
		}
		c.logger.Debug("dependency round",
			zap.Int("round", round),
			zap.Int("scanned", len(batch)),
			zap.Int("reached", c.methodCount()))
	}
}

func (c *Checker) methodCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.methods)
}

// Reached reports whether the method was found reachable.
func (c *Checker) Reached(ref model.MethodReference) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.methods[ref.String()]
	return ok
}

// ReachedMethods returns the reachable methods sorted by reference.
func (c *Checker) ReachedMethods() []model.MethodReference {
	c.mu.Lock()
	refs := make([]model.MethodReference, 0, len(c.methods))
	for _, m := range c.methods {
		refs = append(refs, m.Reference())
	}
	c.mu.Unlock()
	slices.SortFunc(refs, func(a, b model.MethodReference) int {
		return cmp.Compare(a.String(), b.String())
	})
	return refs
}

// ReachedClasses returns the names of the existing classes touched by the
// analysis, sorted.
func (c *Checker) ReachedClasses() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var names []string
	for name := range c.touched {
		if _, missing := c.missing[name]; !missing {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// Missing returns the classes and methods referenced by reachable code that
// the source could not provide, sorted.
func (c *Checker) Missing() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.missing))
	for name := range c.missing {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Prune returns a new class set holding only the reachable classes, each
// restricted to its reachable methods. Method programs are deep copies, so
// later phases never modify the source's classes. Prune must run after
// Run, outside any parallel phase. It fails when the source no longer
// provides a reached class.
func (c *Checker) Prune() (*classes.Set, error) {
	set := classes.NewSet()
	for _, name := range c.ReachedClasses() {
		cls := c.source.Get(name)
		if cls == nil {
			return nil, errors.NotFound(errors.PhaseDependency, "class", name)
		}
		pruned := classes.CopyClass(cls, func(m *classes.Method) bool {
			_, ok := c.methods[m.Reference().String()]
			return ok
		})
		if err := set.Put(pruned); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("pruned class set",
		zap.Int("classes", set.Len()),
		zap.Int("methods", len(c.methods)),
		zap.Int("missing", len(c.missing)))
	return set, nil
}

func (c *Checker) class(name string) (*classes.Class, error) {
	cls, err := c.lookup.Map(name)
	if err != nil {
		return nil, err
	}
	if cls == nil {
		c.markMissing(name)
	}
	return cls, nil
}

func (c *Checker) markMissing(name string) {
	c.mu.Lock()
	c.missing[name] = struct{}{}
	c.mu.Unlock()
}

// resolve finds the declaration of ref in its class or the nearest
// ancestor, returning nil when none exists.
func (c *Checker) resolve(ref model.MethodReference) (*classes.Method, error) {
	desc := ref.Descriptor.String()
	name := ref.ClassName
	for name != "" {
		cls, err := c.class(name)
		if err != nil || cls == nil {
			return nil, err
		}
		if m := cls.Method(desc); m != nil {
			return m, nil
		}
		name = cls.Parent
	}
	c.markMissing(ref.String())
	return nil, nil
}

func (c *Checker) reach(m *classes.Method) {
	if m == nil {
		return
	}
	key := m.Reference().String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.methods[key]; ok {
		return
	}
	c.methods[key] = m
	c.pending = append(c.pending, m)
}

// reachClass touches name and its ancestors and schedules class
// initialization.
func (c *Checker) reachClass(name string) error {
	for name != "" {
		cls, err := c.class(name)
		if err != nil || cls == nil {
			return err
		}
		if init := cls.Method(classInit); init != nil {
			c.reach(init)
		}
		for _, iface := range cls.Interfaces {
			if _, err := c.class(iface); err != nil {
				return err
			}
		}
		name = cls.Parent
	}
	return nil
}

func (c *Checker) reachType(t model.ValueType) error {
	for {
		switch v := t.(type) {
		case model.Array:
			t = v.Item
			continue
		case model.Object:
			return c.reachClass(v.ClassName)
		}
		return nil
	}
}

// scan visits the body of m and reaches everything it references.
func (c *Checker) scan(m *classes.Method) error {
	if err := c.reachClass(m.Owner().Name); err != nil {
		return err
	}
	for _, t := range m.Descriptor.Params {
		if err := c.reachType(t); err != nil {
			return err
		}
	}
	if m.Program == nil {
		return nil
	}
	s := &scanner{c: c}
	for _, b := range m.Program.BasicBlocks() {
		for _, insn := range b.Instructions().All() {
			insn.Accept(s)
			if s.err != nil {
				return errors.New(errors.PhaseDependency, errors.KindComputation).
					Detail("scan %s", m.Reference()).
					Cause(s.err).
					Build()
			}
		}
	}
	return nil
}

var _ ir.Visitor = (*scanner)(nil)

// scanner records the dependencies of single instructions.
type scanner struct {
	c   *Checker
	err error
}

func (s *scanner) typ(t model.ValueType) {
	if s.err == nil {
		s.err = s.c.reachType(t)
	}
}

func (s *scanner) class(name string) {
	if s.err == nil {
		s.err = s.c.reachClass(name)
	}
}

func (s *scanner) VisitEmpty(*ir.EmptyInstruction) {}

func (s *scanner) VisitClassConstant(insn *ir.ClassConstantInstruction) {
	s.typ(insn.Constant)
}

func (s *scanner) VisitNullConstant(*ir.NullConstantInstruction)       {}
func (s *scanner) VisitIntegerConstant(*ir.IntegerConstantInstruction) {}
func (s *scanner) VisitLongConstant(*ir.LongConstantInstruction)       {}
func (s *scanner) VisitFloatConstant(*ir.FloatConstantInstruction)     {}
func (s *scanner) VisitDoubleConstant(*ir.DoubleConstantInstruction)   {}

func (s *scanner) VisitStringConstant(*ir.StringConstantInstruction) {
	s.class("java.lang.String")
}

func (s *scanner) VisitBinary(*ir.BinaryInstruction)                   {}
func (s *scanner) VisitNegate(*ir.NegateInstruction)                   {}
func (s *scanner) VisitAssign(*ir.AssignInstruction)                   {}
func (s *scanner) VisitCastNumber(*ir.CastNumberInstruction)           {}
func (s *scanner) VisitCastInteger(*ir.CastIntegerInstruction)         {}
func (s *scanner) VisitBranching(*ir.BranchingInstruction)             {}
func (s *scanner) VisitBinaryBranching(*ir.BinaryBranchingInstruction) {}
func (s *scanner) VisitJump(*ir.JumpInstruction)                       {}
func (s *scanner) VisitSwitch(*ir.SwitchInstruction)                   {}
func (s *scanner) VisitExit(*ir.ExitInstruction)                       {}
func (s *scanner) VisitRaise(*ir.RaiseInstruction)                     {}
func (s *scanner) VisitArrayLength(*ir.ArrayLengthInstruction)         {}
func (s *scanner) VisitCloneArray(*ir.CloneArrayInstruction)           {}
func (s *scanner) VisitUnwrapArray(*ir.UnwrapArrayInstruction)         {}
func (s *scanner) VisitGetElement(*ir.GetElementInstruction)           {}
func (s *scanner) VisitPutElement(*ir.PutElementInstruction)           {}

func (s *scanner) VisitCast(insn *ir.CastInstruction) {
	s.typ(insn.TargetType)
}

func (s *scanner) VisitConstructArray(insn *ir.ConstructArrayInstruction) {
	s.typ(insn.ItemType)
}

func (s *scanner) VisitConstruct(insn *ir.ConstructInstruction) {
	s.class(insn.Type)
}

func (s *scanner) VisitConstructMultiArray(insn *ir.ConstructMultiArrayInstruction) {
	s.typ(insn.ItemType)
}

func (s *scanner) VisitGetField(insn *ir.GetFieldInstruction) {
	s.class(insn.Field.ClassName)
}

func (s *scanner) VisitPutField(insn *ir.PutFieldInstruction) {
	s.class(insn.Field.ClassName)
}

func (s *scanner) VisitInvoke(insn *ir.InvokeInstruction) {
	if s.err != nil {
		return
	}
	m, err := s.c.resolve(insn.Method)
	if err != nil {
		s.err = err
		return
	}
	s.c.reach(m)
}

func (s *scanner) VisitIsInstance(insn *ir.IsInstanceInstruction) {
	s.typ(insn.Type)
}

func (s *scanner) VisitInitClass(insn *ir.InitClassInstruction) {
	s.class(insn.ClassName)
}
