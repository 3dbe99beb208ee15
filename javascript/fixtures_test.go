package javascript

import (
	"testing"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

func add(t *testing.T, b *ir.BasicBlock, insns ...ir.Instruction) {
	t.Helper()
	for _, insn := range insns {
		if err := b.Instructions().Add(insn); err != nil {
			t.Fatal(err)
		}
	}
}

func method(t *testing.T, cls *classes.Class, mods model.ElementModifier, p *ir.Program, name string, sig ...model.ValueType) *classes.Method {
	t.Helper()
	m := classes.NewMethod(model.NewMethodDescriptor(name, sig...), mods, p)
	if err := cls.AddMethod(m); err != nil {
		t.Fatal(err)
	}
	return m
}

func newSet(t *testing.T, cls ...*classes.Class) *classes.Set {
	t.Helper()
	set := classes.NewSet()
	for _, c := range cls {
		if err := set.Put(c); err != nil {
			t.Fatal(err)
		}
	}
	return set
}

// returnOnly is "$0: return".
func returnOnly(t *testing.T) *ir.Program {
	t.Helper()
	p := ir.NewProgram()
	add(t, p.CreateBasicBlock(), &ir.ExitInstruction{})
	return p
}

func invokeStatic(ref model.MethodReference, receiver *ir.Variable, args ...*ir.Variable) *ir.InvokeInstruction {
	return &ir.InvokeInstruction{Receiver: receiver, Method: ref, Arguments: args, Type: ir.InvokeSpecial}
}

var (
	mainRef   = model.NewMethodReference("app.Main", "main", model.VoidType)
	libARef   = model.NewMethodReference("app.Lib", "a", model.VoidType)
	libBRef   = model.NewMethodReference("app.Lib", "b", model.IntegerType)
	libUnused = model.NewMethodReference("app.Lib", "unused", model.VoidType)
)

// scenarioSource: app.Main.main calls app.Lib.a, which calls app.Lib.b.
// app.Lib.unused and app.Dead are unreachable.
func scenarioSource(t *testing.T) *classes.Set {
	t.Helper()
	main := classes.NewClass("app.Main")
	p := ir.NewProgram()
	add(t, p.CreateBasicBlock(), invokeStatic(libARef, nil), &ir.ExitInstruction{})
	method(t, main, model.Static, p, "main", model.VoidType)

	lib := classes.NewClass("app.Lib")
	p = ir.NewProgram()
	v := p.CreateVariable()
	add(t, p.CreateBasicBlock(), invokeStatic(libBRef, v), &ir.ExitInstruction{})
	method(t, lib, model.Static, p, "a", model.VoidType)

	p = ir.NewProgram()
	v = p.CreateVariable()
	add(t, p.CreateBasicBlock(), &ir.IntegerConstantInstruction{Receiver: v, Constant: 42}, &ir.ExitInstruction{ValueToReturn: v})
	method(t, lib, model.Static, p, "b", model.IntegerType)

	method(t, lib, model.Static, returnOnly(t), "unused", model.VoidType)

	dead := classes.NewClass("app.Dead")
	method(t, dead, model.Static, returnOnly(t), "run", model.VoidType)
	return newSet(t, main, lib, dead)
}

// richSource exercises loops with phis, a parallel swap, fields, instance
// and virtual calls, strings and class initialization.
func richSource(t *testing.T) *classes.Set {
	t.Helper()
	intT := model.IntegerType
	count := model.FieldReference{ClassName: "app.Counter", FieldName: "count"}
	total := model.FieldReference{ClassName: "app.Lib", FieldName: "total"}
	initRef := model.NewMethodReference("app.Counter", "<init>", model.VoidType)
	incRef := model.NewMethodReference("app.Counter", "inc", intT, model.VoidType)
	sumRef := model.NewMethodReference("app.Lib", "sum", intT, intT)
	swapRef := model.NewMethodReference("app.Lib", "swap", intT, intT, intT)

	base := classes.NewClass("app.Base")
	base.Level = model.Public
	method(t, base, 0, func() *ir.Program {
		p := ir.NewProgram()
		p.CreateVariable()
		add(t, p.CreateBasicBlock(), &ir.ExitInstruction{})
		return p
	}(), "<init>", model.VoidType)

	counter := classes.NewClass("app.Counter")
	counter.Parent = "app.Base"
	if err := counter.AddField(&classes.Field{Name: "count", Type: intT}); err != nil {
		t.Fatal(err)
	}
	p := ir.NewProgram()
	self := p.CreateVariable()
	add(t, p.CreateBasicBlock(),
		&ir.InvokeInstruction{
			Instance: self,
			Method:   model.NewMethodReference("app.Base", "<init>", model.VoidType),
			Type:     ir.InvokeSpecial,
		},
		&ir.ExitInstruction{})
	method(t, counter, 0, p, "<init>", model.VoidType)

	p = ir.NewProgram()
	self, n := p.CreateVariable(), p.CreateVariable()
	old, sum := p.CreateVariable(), p.CreateVariable()
	add(t, p.CreateBasicBlock(),
		&ir.GetFieldInstruction{Receiver: old, Instance: self, FieldType: intT, Field: count},
		&ir.BinaryInstruction{Receiver: sum, First: old, Second: n, Operation: ir.OpAdd, Operand: ir.NumericInt},
		&ir.PutFieldInstruction{Instance: self, Value: sum, Field: count},
		&ir.ExitInstruction{})
	method(t, counter, 0, p, "inc", intT, model.VoidType).Level = model.Public

	lib := classes.NewClass("app.Lib")
	if err := lib.AddField(&classes.Field{Name: "total", Type: intT, Modifiers: model.Static, Initial: int32(3)}); err != nil {
		t.Fatal(err)
	}
	p = ir.NewProgram()
	seven := p.CreateVariable()
	add(t, p.CreateBasicBlock(),
		&ir.IntegerConstantInstruction{Receiver: seven, Constant: 7},
		&ir.PutFieldInstruction{Value: seven, Field: total},
		&ir.ExitInstruction{})
	method(t, lib, model.Static, p, "<clinit>", model.VoidType)

	// sum(n): i := 0; while i != n { i = i + 1 }; return i
	p = ir.NewProgram()
	b0, b1, b2, b3 := p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock()
	n = p.CreateVariable()
	zero, i, one, next := p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable()
	add(t, b0, &ir.IntegerConstantInstruction{Receiver: zero}, &ir.JumpInstruction{Target: b1})
	phi := &ir.Phi{Receiver: i}
	phi.AddIncoming(b0, zero)
	phi.AddIncoming(b2, next)
	if err := b1.Phis().Add(phi); err != nil {
		t.Fatal(err)
	}
	add(t, b1, &ir.BinaryBranchingInstruction{First: i, Second: n, Condition: ir.BinEqual, Consequent: b3, Alternative: b2})
	add(t, b2,
		&ir.IntegerConstantInstruction{Receiver: one, Constant: 1},
		&ir.BinaryInstruction{Receiver: next, First: i, Second: one, Operation: ir.OpAdd},
		&ir.JumpInstruction{Target: b1})
	add(t, b3, &ir.ExitInstruction{ValueToReturn: i})
	method(t, lib, model.Static, p, "sum", intT, intT)

	// swap(a, b): rotate until equal, exercising a parallel phi move.
	p = ir.NewProgram()
	b0, b1, b2 = p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock()
	a, b := p.CreateVariable(), p.CreateVariable()
	x, y := p.CreateVariable(), p.CreateVariable()
	add(t, b0, &ir.JumpInstruction{Target: b1})
	px := &ir.Phi{Receiver: x}
	px.AddIncoming(b0, a)
	px.AddIncoming(b1, y)
	py := &ir.Phi{Receiver: y}
	py.AddIncoming(b0, b)
	py.AddIncoming(b1, x)
	if err := b1.Phis().Add(px); err != nil {
		t.Fatal(err)
	}
	if err := b1.Phis().Add(py); err != nil {
		t.Fatal(err)
	}
	add(t, b1, &ir.BinaryBranchingInstruction{First: x, Second: y, Condition: ir.BinEqual, Consequent: b2, Alternative: b1})
	add(t, b2, &ir.ExitInstruction{ValueToReturn: x})
	method(t, lib, model.Static, p, "swap", intT, intT, intT)

	main := classes.NewClass("app.Main")
	main.Level = model.Public
	p = ir.NewProgram()
	c, five, r1, r2, s := p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable()
	add(t, p.CreateBasicBlock(),
		&ir.InitClassInstruction{ClassName: "app.Lib"},
		&ir.ConstructInstruction{Receiver: c, Type: "app.Counter"},
		&ir.InvokeInstruction{Instance: c, Method: initRef, Type: ir.InvokeSpecial},
		&ir.IntegerConstantInstruction{Receiver: five, Constant: 5},
		&ir.InvokeInstruction{Instance: c, Method: incRef, Arguments: []*ir.Variable{five}, Type: ir.InvokeVirtual},
		invokeStatic(sumRef, r1, five),
		invokeStatic(swapRef, r2, r1, five),
		&ir.StringConstantInstruction{Receiver: s, Constant: "hello \"world\"\n"},
		&ir.ExitInstruction{})
	method(t, main, model.Static, p, "main", model.VoidType).Level = model.Public

	return newSet(t, base, counter, lib, main)
}
