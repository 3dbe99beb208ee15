// Package classes holds the in-memory class descriptors the compiler works
// on: classes with their methods (each carrying an optional ir.Program) and
// fields, plus the lookup interfaces through which the pipeline reads them.
//
// Parsing class files into these descriptors is the job of a front end and
// is not part of this module; tests and drivers build classes directly.
package classes
