package dependency

import (
	"errors"
	"slices"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/teajs/classes"
	teaerrors "github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

// body builds a single-block program running insns and returning.
func body(t *testing.T, insns ...ir.Instruction) *ir.Program {
	t.Helper()
	p := ir.NewProgram()
	b := p.CreateBasicBlock()
	for _, insn := range insns {
		if err := b.Instructions().Add(insn); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Instructions().Add(&ir.ExitInstruction{}); err != nil {
		t.Fatal(err)
	}
	return p
}

func method(t *testing.T, cls *classes.Class, name string, insns ...ir.Instruction) *classes.Method {
	t.Helper()
	m := classes.NewMethod(model.NewMethodDescriptor(name, model.VoidType), model.Static, body(t, insns...))
	if err := cls.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	return m
}

func call(className, name string) *ir.InvokeInstruction {
	return &ir.InvokeInstruction{Method: model.NewMethodReference(className, name, model.VoidType)}
}

func testSource(t *testing.T) *classes.Set {
	main := classes.NewClass("app.Main")
	method(t, main, "main", call("app.Lib", "a"))
	method(t, main, "unusedMain")

	base := classes.NewClass("app.Base")
	method(t, base, "b")

	lib := classes.NewClass("app.Lib")
	lib.Parent = "app.Base"
	method(t, lib, "a",
		call("app.Lib", "b"),
		&ir.ConstructInstruction{Type: "app.Value"},
		call("app.Missing", "gone"))
	method(t, lib, "unusedLib")

	value := classes.NewClass("app.Value")
	method(t, value, "<clinit>")

	unused := classes.NewClass("app.Unused")
	method(t, unused, "u")

	return classes.NewSet(main, base, lib, value, unused)
}

func TestChecker_Closure(t *testing.T) {
	for _, threads := range []int{1, 4} {
		src := testSource(t)
		c := NewChecker(src, executor.New(threads))
		m, err := c.AttachMethod(model.NewMethodReference("app.Main", "main", model.VoidType))
		if err != nil || m == nil {
			t.Fatalf("attach: %v, %v", m, err)
		}
		if err := c.Run(); err != nil {
			t.Fatalf("threads %d: %v", threads, err)
		}

		var got []string
		for _, ref := range c.ReachedMethods() {
			got = append(got, ref.String())
		}
		want := []string{
			"app.Base.b()V",
			"app.Lib.a()V",
			"app.Main.main()V",
			"app.Value.<clinit>()V",
		}
		if !slices.Equal(got, want) {
			t.Fatalf("threads %d: expected %v, got %v", threads, want, got)
		}

		classesWant := []string{"app.Base", "app.Lib", "app.Main", "app.Value"}
		if got := c.ReachedClasses(); !slices.Equal(got, classesWant) {
			t.Fatalf("threads %d: expected classes %v, got %v", threads, classesWant, got)
		}
		if got := c.Missing(); !slices.Equal(got, []string{"app.Missing"}) {
			t.Fatalf("threads %d: unexpected missing %v", threads, got)
		}
	}
}

func TestChecker_Prune(t *testing.T) {
	src := testSource(t)
	c := NewChecker(src, executor.NewSequential())
	if _, err := c.AttachMethod(model.NewMethodReference("app.Main", "main", model.VoidType)); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	pruned, err := c.Prune()
	if err != nil {
		t.Fatal(err)
	}

	if pruned.Get("app.Unused") != nil {
		t.Fatal("unreachable class should be pruned")
	}
	lib := pruned.Get("app.Lib")
	if lib == nil || len(lib.Methods()) != 1 || lib.Method("a()V") == nil {
		t.Fatal("expected app.Lib with only a()V")
	}
	if lib.Method("a()V").Program == src.Get("app.Lib").Method("a()V").Program {
		t.Fatal("pruned methods must own private program copies")
	}
	if len(src.Get("app.Lib").Methods()) != 2 {
		t.Fatal("source classes must not be modified")
	}
}

func TestChecker_PruneVanishedClass(t *testing.T) {
	src := testSource(t)
	gone := false
	c := NewChecker(classes.SourceFunc(func(name string) *classes.Class {
		if gone && name == "app.Value" {
			return nil
		}
		return src.Get(name)
	}), executor.NewSequential())
	if _, err := c.AttachMethod(model.NewMethodReference("app.Main", "main", model.VoidType)); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}

	gone = true
	set, err := c.Prune()
	if !errors.Is(err, teaerrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if set != nil {
		t.Fatal("expected no class set on failure")
	}
}

func TestChecker_AttachClass(t *testing.T) {
	c := NewChecker(testSource(t), executor.NewSequential())
	if err := c.AttachClass("app.Unused"); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	if !c.Reached(model.NewMethodReference("app.Unused", "u", model.VoidType)) {
		t.Fatal("exported class methods should be reachable")
	}
	if err := c.AttachClass("app.Nowhere"); !errors.Is(err, teaerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestChecker_MissingRoot(t *testing.T) {
	c := NewChecker(testSource(t), executor.NewSequential())
	m, err := c.AttachMethod(model.NewMethodReference("app.Main", "absent", model.VoidType))
	if err != nil || m != nil {
		t.Fatalf("expected nil method without error, got %v, %v", m, err)
	}
	if got := c.Missing(); !slices.Equal(got, []string{"app.Main.absent()V"}) {
		t.Fatalf("unexpected missing %v", got)
	}
}

func TestChecker_LogsRounds(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewChecker(testSource(t), executor.NewSequential(), WithLogger(zap.New(core)))
	if _, err := c.AttachMethod(model.NewMethodReference("app.Main", "main", model.VoidType)); err != nil {
		t.Fatal(err)
	}
	if err := c.Run(); err != nil {
		t.Fatal(err)
	}
	rounds := logs.FilterMessage("dependency round").All()
	if len(rounds) < 2 {
		t.Fatalf("expected several rounds, got %d", len(rounds))
	}
	last := rounds[len(rounds)-1].ContextMap()
	if last["reached"] != int64(4) {
		t.Fatalf("expected 4 reached methods in last round, got %v", last["reached"])
	}
}
