package classes

import (
	"errors"
	"slices"
	"testing"

	teaerrors "github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

func TestClass_AddMethod(t *testing.T) {
	c := NewClass("foo.A")
	m := NewMethod(model.NewMethodDescriptor("run", model.IntegerType, model.VoidType), model.Static, nil)
	if err := c.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	if m.Owner() != c {
		t.Fatal("expected method owner to be set")
	}
	if got := m.Reference().String(); got != "foo.A.run(I)V" {
		t.Fatalf("expected foo.A.run(I)V, got %s", got)
	}
	if c.Method("run(I)V") != m {
		t.Fatal("lookup by descriptor failed")
	}

	dup := NewMethod(model.NewMethodDescriptor("run", model.IntegerType, model.VoidType), 0, nil)
	if err := c.AddMethod(dup); !errors.Is(err, teaerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	other := NewClass("foo.B")
	if err := other.AddMethod(m); !errors.Is(err, teaerrors.ErrConflict) {
		t.Fatalf("expected conflict moving owned method, got %v", err)
	}

	if !c.RemoveMethod("run(I)V") {
		t.Fatal("expected removal")
	}
	if m.Owner() != nil || len(c.Methods()) != 0 {
		t.Fatal("removal should detach method")
	}
	if err := other.AddMethod(m); err != nil {
		t.Fatalf("re-adding detached method: %v", err)
	}
}

func TestClass_Fields(t *testing.T) {
	c := NewClass("foo.A")
	if err := c.AddField(&Field{Name: "x", Type: model.IntegerType, Initial: int32(1)}); err != nil {
		t.Fatal(err)
	}
	if err := c.AddField(&Field{Name: "x", Type: model.LongType}); !errors.Is(err, teaerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	f := c.Field("x")
	if f == nil || f.Reference().String() != "foo.A.x" {
		t.Fatalf("unexpected field %v", f)
	}
}

func TestSet(t *testing.T) {
	s := NewSet(NewClass("b.B"), NewClass("a.A"))
	if err := s.Put(NewClass("c.C")); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(NewClass("a.A")); !errors.Is(err, teaerrors.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if got := s.ClassNames(); !slices.Equal(got, []string{"a.A", "b.B", "c.C"}) {
		t.Fatalf("expected sorted names, got %v", got)
	}
	if s.Get("missing") != nil {
		t.Fatal("unknown class should be nil")
	}
	s.Remove("b.B")
	if s.Len() != 2 {
		t.Fatalf("expected 2 classes, got %d", s.Len())
	}
}

func TestCopyClass(t *testing.T) {
	c := NewClass("foo.A")
	p := ir.NewProgram()
	b := p.CreateBasicBlock()
	if err := b.Instructions().Add(&ir.ExitInstruction{}); err != nil {
		t.Fatal(err)
	}
	keep := NewMethod(model.NewMethodDescriptor("keep", model.VoidType), 0, p)
	drop := NewMethod(model.NewMethodDescriptor("drop", model.VoidType), 0, nil)
	_ = c.AddMethod(keep)
	_ = c.AddMethod(drop)
	_ = c.AddField(&Field{Name: "x", Type: model.IntegerType})

	cp := CopyClass(c, func(m *Method) bool { return m.Descriptor.Name == "keep" })
	if len(cp.Methods()) != 1 || cp.Method("keep()V") == nil {
		t.Fatalf("expected only keep()V, got %d methods", len(cp.Methods()))
	}
	copied := cp.Method("keep()V")
	if copied.Program == p {
		t.Fatal("program should be deep-copied")
	}
	if copied.Owner() != cp || cp.Field("x").Owner() != cp {
		t.Fatal("copied members should belong to the copy")
	}
	if !copied.HasBody() {
		t.Fatal("copied method should keep its body")
	}
	if len(c.Methods()) != 2 {
		t.Fatal("original must be untouched")
	}
}
