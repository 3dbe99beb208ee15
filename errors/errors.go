package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the build the error occurred
type Phase string

const (
	PhaseIR         Phase = "ir"         // graph mutation
	PhaseRegister   Phase = "register"   // entry point / export registration
	PhaseConfig     Phase = "config"     // build configuration loading
	PhaseDependency Phase = "dependency" // reachability analysis
	PhaseOptimize   Phase = "optimize"   // class set optimization
	PhaseAllocate   Phase = "allocate"   // register allocation
	PhaseDecompile  Phase = "decompile"  // structured statement reconstruction
	PhaseRender     Phase = "render"     // output emission
	PhaseCache      Phase = "cache"      // memoized computation
	PhaseExecute    Phase = "execute"    // executor task
)

// Kind categorizes the error
type Kind string

const (
	KindConflict     Kind = "conflict"
	KindOutOfRange   Kind = "out_of_range"
	KindDuplicate    Kind = "duplicate"
	KindComputation  Kind = "computation"
	KindNotFound     Kind = "not_found"
	KindIO           Kind = "io"
	KindInvalidInput Kind = "invalid_input"
	KindUnsupported  Kind = "unsupported"
)

// Kind sentinels match any error of the same Kind regardless of Phase.
var (
	ErrConflict     = &Error{Kind: KindConflict}
	ErrOutOfRange   = &Error{Kind: KindOutOfRange}
	ErrDuplicate    = &Error{Kind: KindDuplicate}
	ErrComputation  = &Error{Kind: KindComputation}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrIO           = &Error{Kind: KindIO}
	ErrInvalidInput = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout the compiler
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the element path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Conflict creates an ownership conflict error: element is already owned by
// the block with index owner.
func Conflict(phase Phase, element string, owner int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindConflict,
		Detail: fmt.Sprintf("%s already belongs to block %d", element, owner),
		Value:  owner,
	}
}

// OutOfRange creates an index range error
func OutOfRange(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of range (length %d)", index, length),
		Value:  index,
	}
}

// Duplicate creates a duplicate public name error
func Duplicate(phase Phase, what, name, existing string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Detail: fmt.Sprintf("%s with public name %q already defined for %s", what, name, existing),
		Value:  name,
	}
}

// Computation wraps a failed task or cached computation
func Computation(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindComputation,
		Detail: what,
		Cause:  cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// IO wraps a sink or resource I/O failure
func IO(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
