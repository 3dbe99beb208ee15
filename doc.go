// Package teajs is an ahead-of-time compiler that translates a set of
// classes with method bodies in control-flow-graph form into a single
// script for a dynamically typed host runtime.
//
// Only the classes and methods reachable from the registered entry points
// and exported types are compiled. Independent work inside a phase runs in
// parallel, and the output does not depend on the degree of parallelism.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	teajs/
//	├── errors/         Structured error types (phase + kind)
//	├── model/          Value types, method and field references, modifiers
//	├── classes/        Class, method and field descriptors and class sources
//	├── ir/             Control-flow-graph IR, visitors and the BlockMapper rewrite
//	├── cache/          Concurrent memoizing cache with key listeners
//	├── executor/       Bounded parallel executor with a completion barrier
//	├── dependency/     Reachability closure and pruning
//	├── optimize/       Per-method CFG passes scheduled over a class set
//	├── regalloc/       Liveness analysis and register allocation
//	├── decompile/      Statement trees from allocated IR
//	├── codegen/        Alias providers, naming strategy and source writer
//	└── javascript/     Builder orchestrator, renderer, runtime support, config
//
// # Quick Start
//
// Compile the closure of a main method:
//
//	b := javascript.New(source, javascript.WithExecutor(executor.New(0)))
//	ep, err := b.EntryPoint("main", model.NewMethodReference("app.Main", "main",
//	    model.ArrayOf(model.ObjectType("java.lang.String")), model.VoidType))
//	if err != nil {
//	    return err
//	}
//	if err := ep.WithValue(0, "app.Args"); err != nil {
//	    return err
//	}
//	if err := b.BuildFile("out/classes.js"); err != nil {
//	    return err
//	}
//
// Or from a YAML build description:
//
//	cfg, err := javascript.LoadConfig("build.yaml")
//	if err != nil {
//	    return err
//	}
//	b := javascript.New(source)
//	if err := b.ApplyConfig(cfg); err != nil {
//	    return err
//	}
//
// # Pipeline
//
// A build runs these phases in order, each closed by the executor barrier:
//
//	dependency  reachability from entry points, exports and runtime roots
//	prune       copy the reached classes and methods into a private set
//	optimize    one task per method body
//	allocate    one task per method body, on a private copy of its program
//	decompile   one task per class
//	render      runtime support, classes by name, entry points, exports
//
// The input class source is never modified, so a Builder can build again.
//
// # Error Handling
//
// Errors carry the phase and kind of the failure:
//
//	if errors.Is(err, teaerrors.ErrNotFound) {
//	    // missing entry point method
//	}
//
// # Logging
//
// Packages that drive phases log through zap. Use SetLogger on the package
// or WithLogger on the component to enable output.
package teajs
