// Package errors provides structured error types for the teajs compiler.
//
// Errors are categorized by Phase (which compilation stage raised them) and
// Kind (error category). The Error type carries a detail message, an optional
// element path (class, method, block) and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseIR, errors.KindConflict).
//		Path("Foo", "bar()V", "block 3").
//		Detail("instruction already belongs to block %d", 1).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Conflict(errors.PhaseIR, "phi", 2)
//	err := errors.OutOfRange(errors.PhaseIR, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two errors match under errors.Is when they share Phase and Kind; use the
// Kind sentinels (ErrConflict, ErrOutOfRange, ErrDuplicate, ErrComputation)
// to match on category regardless of phase.
package errors
