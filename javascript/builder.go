package javascript

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/codegen"
	"github.com/wippyai/teajs/decompile"
	"github.com/wippyai/teajs/dependency"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
	"github.com/wippyai/teajs/optimize"
	"github.com/wippyai/teajs/regalloc"
)

// Methods the generated runtime support calls into. They are analyzed as
// roots of every build.
var runtimeRoots = []model.MethodReference{
	model.NewMethodReference("java.lang.Class", "createNew", model.ObjectType("java.lang.Class")),
	model.NewMethodReference("java.lang.String", "<init>", model.ArrayOf(model.CharacterType), model.VoidType),
}

// Builder compiles the classes reachable from registered entry points and
// exported types into a single script.
//
// A build runs these phases, each closed by the executor barrier:
// reachability analysis, pruning, optimization, register allocation,
// decompilation and rendering. The output is assembled in memory and
// written to the sink only after every phase succeeded.
//
// Registration and Build must not be called concurrently.
type Builder struct {
	source    classes.Source
	exec      executor.Executor
	resources ResourceLoader
	logger    *zap.Logger
	irLog     io.Writer
	irLogPath string
	minifying bool

	entryPoints []*EntryPoint
	entryNames  map[string]*EntryPoint
	exports     []export
	exportNames map[string]string

	stats Stats
}

type export struct {
	name      string
	className string
}

// Stats describes the last build.
type Stats struct {
	Classes         int
	Methods         int
	Missing         int
	OptimizeTasks   int
	AllocationTasks int
	OutputBytes     int
}

// Option configures a Builder.
type Option func(*Builder)

// WithExecutor sets the executor running the parallel phases.
func WithExecutor(e executor.Executor) Option {
	return func(b *Builder) {
		if e != nil {
			b.exec = e
		}
	}
}

// WithResources sets the loader for runtime support resources.
func WithResources(r ResourceLoader) Option {
	return func(b *Builder) {
		if r != nil {
			b.resources = r
		}
	}
}

// WithLogger sets the logger for phase progress.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithIRLog makes the builder print every class with its allocated
// listings to w before decompilation.
func WithIRLog(w io.Writer) Option {
	return func(b *Builder) {
		b.irLog = w
	}
}

// WithMinifying selects short aliases and whitespace-free output.
func WithMinifying(minify bool) Option {
	return func(b *Builder) {
		b.minifying = minify
	}
}

// New creates a builder over source. Without options it runs one task per
// CPU, writes readable output and uses the embedded runtime support.
func New(source classes.Source, opts ...Option) *Builder {
	b := &Builder{
		source:      source,
		resources:   DefaultResources(),
		logger:      Logger(),
		entryNames:  make(map[string]*EntryPoint),
		exportNames: make(map[string]string),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.exec == nil {
		b.exec = executor.New(0)
	}
	return b
}

// EntryPoint is a method published under a global name.
type EntryPoint struct {
	Name      string
	Reference model.MethodReference
	hints     map[int][]string
}

// WithValue declares that instances of className may be passed as the
// argument at index argument, so the class is compiled even when nothing
// else constructs it.
func (e *EntryPoint) WithValue(argument int, className string) error {
	if argument < 0 || argument >= len(e.Reference.Descriptor.Params) {
		return errors.OutOfRange(errors.PhaseRegister, []string{e.Name}, argument, len(e.Reference.Descriptor.Params))
	}
	if e.hints == nil {
		e.hints = make(map[int][]string)
	}
	e.hints[argument] = append(e.hints[argument], className)
	return nil
}

// Hints returns the classes declared for argument.
func (e *EntryPoint) Hints(argument int) []string {
	return e.hints[argument]
}

// EntryPoint registers ref under name. Names are unique among entry
// points.
func (b *Builder) EntryPoint(name string, ref model.MethodReference) (*EntryPoint, error) {
	if prev, ok := b.entryNames[name]; ok {
		return nil, errors.Duplicate(errors.PhaseRegister, "entry point", name, "method "+prev.Reference.String())
	}
	ep := &EntryPoint{Name: name, Reference: ref}
	b.entryNames[name] = ep
	b.entryPoints = append(b.entryPoints, ep)
	return ep, nil
}

// ExportType publishes className under name. Names are unique among
// exports.
func (b *Builder) ExportType(name, className string) error {
	if prev, ok := b.exportNames[name]; ok {
		return errors.Duplicate(errors.PhaseRegister, "class", name, "class "+prev)
	}
	b.exportNames[name] = className
	b.exports = append(b.exports, export{name: name, className: className})
	return nil
}

// ApplyConfig applies cfg's settings and registers its entry points and
// exports. The configuration is checked as a whole first, against itself,
// the names already registered and the class source; nothing changes when
// any check fails.
func (b *Builder) ApplyConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	refs, err := b.checkConfig(cfg)
	if err != nil {
		return err
	}

	if cfg.Minify != nil {
		b.minifying = *cfg.Minify
	}
	if cfg.Threads != nil {
		b.exec = executor.New(*cfg.Threads)
	}
	if cfg.IRLog != "" {
		b.irLogPath = cfg.IRLog
	}
	for i, epc := range cfg.EntryPoints {
		ep := &EntryPoint{Name: epc.Name, Reference: refs[i]}
		for _, h := range epc.Hints {
			if ep.hints == nil {
				ep.hints = make(map[int][]string)
			}
			ep.hints[h.Argument] = append(ep.hints[h.Argument], h.Class)
		}
		b.entryNames[ep.Name] = ep
		b.entryPoints = append(b.entryPoints, ep)
	}
	for _, ex := range cfg.Exports {
		b.exportNames[ex.Name] = ex.Class
		b.exports = append(b.exports, export{name: ex.Name, className: ex.Class})
	}
	return nil
}

// checkConfig reports every conflict of a validated configuration with the
// builder's registrations and class source, and returns the parsed entry
// point references.
func (b *Builder) checkConfig(cfg *Config) ([]model.MethodReference, error) {
	var err error
	classExists := func(path, name string) {
		if b.source.Get(name) == nil {
			err = multierr.Append(err, errors.New(errors.PhaseConfig, errors.KindNotFound).
				Detail("class %q not found", name).
				Path(path).
				Value(name).
				Build())
		}
	}

	refs := make([]model.MethodReference, len(cfg.EntryPoints))
	for i, epc := range cfg.EntryPoints {
		path := fmt.Sprintf("entry_points[%d]", i)
		if prev, ok := b.entryNames[epc.Name]; ok {
			err = multierr.Append(err, errors.Duplicate(errors.PhaseConfig, "entry point", epc.Name, "method "+prev.Reference.String()))
		}
		ref, perr := model.ParseMethodReference(epc.Method)
		if perr != nil {
			err = multierr.Append(err, perr)
			continue
		}
		refs[i] = ref
		classExists(path, ref.ClassName)
		for j, h := range epc.Hints {
			classExists(fmt.Sprintf("%s.hints[%d]", path, j), h.Class)
		}
	}
	for i, ex := range cfg.Exports {
		if prev, ok := b.exportNames[ex.Name]; ok {
			err = multierr.Append(err, errors.Duplicate(errors.PhaseConfig, "class", ex.Name, "class "+prev))
		}
		classExists(fmt.Sprintf("exports[%d]", i), ex.Class)
	}
	if err != nil {
		return nil, err
	}
	return refs, nil
}

// Stats returns statistics of the last successful build.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Build compiles and writes the script to w. On failure nothing is
// written.
func (b *Builder) Build(w io.Writer) error {
	var buf bytes.Buffer
	if err := b.build(&buf); err != nil {
		return err
	}
	if _, err := buf.WriteTo(w); err != nil {
		return errors.IO(errors.PhaseRender, "write output", err)
	}
	return nil
}

// BuildFile compiles into path. The file is written through a temporary
// file in the same directory and renamed into place, so a failed build
// leaves any previous file untouched.
func (b *Builder) BuildFile(path string) error {
	var buf bytes.Buffer
	if err := b.build(&buf); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.IO(errors.PhaseRender, "create output", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := buf.WriteTo(tmp); err != nil {
		tmp.Close()
		return errors.IO(errors.PhaseRender, "write output", err)
	}
	if err := tmp.Close(); err != nil {
		return errors.IO(errors.PhaseRender, "close output", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.IO(errors.PhaseRender, "rename output", err)
	}
	return nil
}

func (b *Builder) build(out *bytes.Buffer) error {
	start := time.Now()
	stats := Stats{}
	b.logger.Info("build started",
		zap.Int("entry_points", len(b.entryPoints)),
		zap.Int("exports", len(b.exports)),
		zap.Int("threads", executor.Degree(b.exec)),
		zap.Bool("minifying", b.minifying))

	// Reachability.
	phase := time.Now()
	checker := dependency.NewChecker(b.source, b.exec, dependency.WithLogger(b.logger))
	for _, ref := range runtimeRoots {
		if _, err := checker.AttachMethod(ref); err != nil {
			return err
		}
	}
	for _, ep := range b.entryPoints {
		m, err := checker.AttachMethod(ep.Reference)
		if err != nil {
			return err
		}
		if m == nil {
			return errors.NotFound(errors.PhaseDependency, "entry point method", ep.Reference.String())
		}
		for _, arg := range slices.Sorted(maps.Keys(ep.hints)) {
			for _, name := range ep.hints[arg] {
				if err := checker.AttachClass(name); err != nil {
					return err
				}
			}
		}
	}
	for _, ex := range b.exports {
		if err := checker.AttachClass(ex.className); err != nil {
			return err
		}
	}
	if err := checker.Run(); err != nil {
		return err
	}
	stats.Missing = len(checker.Missing())
	b.phaseDone("dependency", phase, zap.Int("missing", stats.Missing))

	// Pruning.
	set, err := checker.Prune()
	if err != nil {
		return err
	}
	names := set.ClassNames()
	stats.Classes = len(names)
	for _, name := range names {
		stats.Methods += len(set.Get(name).Methods())
	}
	if stats.Missing > 0 {
		b.logger.Warn("unresolved references", zap.Strings("missing", checker.Missing()))
	}

	// Optimization.
	phase = time.Now()
	stats.OptimizeTasks = optimize.NewClassSetOptimizer(b.exec, optimize.WithLogger(b.logger)).OptimizeAll(set)
	if err := b.exec.Complete(); err != nil {
		return err
	}
	b.phaseDone("optimize", phase, zap.Int("tasks", stats.OptimizeTasks))

	// Register allocation.
	phase = time.Now()
	stats.AllocationTasks = b.allocateRegisters(set)
	if err := b.exec.Complete(); err != nil {
		return err
	}
	b.phaseDone("allocate", phase, zap.Int("tasks", stats.AllocationTasks))

	if err := b.writeIRLog(set); err != nil {
		b.logger.Warn("IR log failed", zap.Error(err))
	}

	// Decompilation.
	phase = time.Now()
	nodes, err := decompile.New(b.exec, decompile.WithLogger(b.logger)).Decompile(set, names)
	if err != nil {
		return err
	}
	b.phaseDone("decompile", phase, zap.Int("classes", len(nodes)))

	// Rendering.
	phase = time.Now()
	if err := b.render(out, set, nodes); err != nil {
		return err
	}
	stats.OutputBytes = out.Len()
	b.phaseDone("render", phase, zap.Int("bytes", stats.OutputBytes))

	b.stats = stats
	b.logger.Info("build finished",
		zap.Int("classes", stats.Classes),
		zap.Int("methods", stats.Methods),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (b *Builder) phaseDone(name string, start time.Time, fields ...zap.Field) {
	fields = append([]zap.Field{zap.String("phase", name), zap.Duration("duration", time.Since(start))}, fields...)
	b.logger.Debug("phase complete", fields...)
}

// allocateRegisters submits one task per method with a body. Each task
// allocates on a private copy of the program and installs the copy.
func (b *Builder) allocateRegisters(set classes.ListableSource) int {
	tasks := 0
	for _, name := range set.ClassNames() {
		for _, m := range set.Get(name).Methods() {
			if !m.HasBody() {
				continue
			}
			tasks++
			b.exec.Submit(func() error {
				program := ir.Copy(m.Program)
				params := len(m.Descriptor.Params)
				if !m.Modifiers.Has(model.Static) {
					params++
				}
				if _, err := (regalloc.Allocator{Parameters: params}).Allocate(program); err != nil {
					return errors.New(errors.PhaseAllocate, errors.KindComputation).
						Detail("register allocation failed").
						Path(m.Reference().String()).
						Cause(err).
						Build()
				}
				m.Program = program
				return nil
			})
		}
	}
	return tasks
}

func (b *Builder) writeIRLog(set classes.ListableSource) error {
	if b.irLog != nil {
		return writeIRLog(b.irLog, set)
	}
	if b.irLogPath == "" {
		return nil
	}
	f, err := os.Create(b.irLogPath)
	if err != nil {
		return err
	}
	if err := writeIRLog(f, set); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (b *Builder) render(out io.Writer, set classes.Source, nodes []*decompile.ClassNode) error {
	var aliases codegen.AliasProvider = codegen.NewDefaultAliasProvider()
	if b.minifying {
		aliases = codegen.NewMinifyingAliasProvider()
	}
	naming := codegen.NewNamingStrategy(aliases, set, b.minifying)
	r := NewRenderer(codegen.NewSourceWriter(out, naming, b.minifying), set)

	runtime, err := loadResource(b.resources, RuntimeResource)
	if err != nil {
		return err
	}
	if err := r.RenderRuntime(runtime); err != nil {
		return err
	}
	for _, node := range nodes {
		if err := r.Render(node); err != nil {
			return err
		}
	}
	for _, ep := range b.entryPoints {
		if err := r.RenderEntryPoint(ep.Name, ep.Reference); err != nil {
			return err
		}
	}
	for _, ex := range b.exports {
		if err := r.RenderExport(ex.name, ex.className); err != nil {
			return err
		}
	}
	return nil
}
