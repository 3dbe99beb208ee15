// Package javascript compiles a class set into a single script.
//
// A Builder takes named entry points and exported classes, computes the
// closure of reachable classes and methods, optimizes and register
// allocates every method body in parallel, decompiles the result and
// renders it after the embedded runtime support:
//
//	b := javascript.New(source, javascript.WithMinifying(true))
//	if _, err := b.EntryPoint("main", ref); err != nil {
//	    return err
//	}
//	if err := b.BuildFile("out.js"); err != nil {
//	    return err
//	}
//
// Builds are deterministic: the output depends on the class set and the
// registrations, not on the number of threads.
//
// # Configuration
//
// Builds can also be described in YAML and applied with ApplyConfig; see
// Config for the schema. Unknown keys are rejected and every problem of a
// configuration is reported at once.
//
// # Runtime support
//
// The runtime resource defines the $rt_ helpers the generated code calls:
// class declaration and assignability, array factories, 32-bit and 64-bit
// integer arithmetic, and string construction. It is loaded through a
// ResourceLoader so it can be replaced.
package javascript
