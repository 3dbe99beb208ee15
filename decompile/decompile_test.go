package decompile

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/wippyai/teajs/classes"
	teaerrors "github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/executor"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
	"github.com/wippyai/teajs/regalloc"
)

func add(t *testing.T, b *ir.BasicBlock, insns ...ir.Instruction) {
	t.Helper()
	for _, insn := range insns {
		if err := b.Instructions().Add(insn); err != nil {
			t.Fatal(err)
		}
	}
}

func staticMethod(t *testing.T, p *ir.Program, sig ...model.ValueType) *classes.Method {
	t.Helper()
	return classes.NewMethod(model.NewMethodDescriptor("run", sig...), model.Static, p)
}

func TestDecompileMethod_Flat(t *testing.T) {
	p := ir.NewProgram()
	b := p.CreateBasicBlock()
	v := p.CreateVariable()
	add(t, b,
		&ir.IntegerConstantInstruction{Receiver: v, Constant: 7},
		&ir.ExitInstruction{ValueToReturn: v},
	)
	if _, err := (regalloc.Allocator{}).Allocate(p); err != nil {
		t.Fatal(err)
	}

	node, err := DecompileMethod(staticMethod(t, p, model.IntegerType))
	if err != nil {
		t.Fatal(err)
	}
	if len(node.Parameters) != 0 {
		t.Fatalf("expected no parameters, got %v", node.Parameters)
	}
	if !slices.Equal(node.Variables, []int{0}) {
		t.Fatalf("expected one local, got %v", node.Variables)
	}
	if len(node.Body) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(node.Body))
	}
	assign, ok := node.Body[0].(*AssignStatement)
	if !ok {
		t.Fatalf("expected assignment, got %T", node.Body[0])
	}
	if c, ok := assign.Value.(*ConstExpr); !ok || c.Value != int32(7) {
		t.Fatalf("expected constant 7, got %#v", assign.Value)
	}
	if _, ok := node.Body[1].(*ReturnStatement); !ok {
		t.Fatalf("expected return, got %T", node.Body[1])
	}
}

func TestDecompileMethod_InstanceParameters(t *testing.T) {
	p := ir.NewProgram()
	b := p.CreateBasicBlock()
	self, arg := p.CreateVariable(), p.CreateVariable()
	add(t, b, &ir.PutFieldInstruction{
		Instance: self,
		Value:    arg,
		Field:    model.FieldReference{ClassName: "a.A", FieldName: "x"},
	}, &ir.ExitInstruction{})
	if _, err := (regalloc.Allocator{Parameters: 2}).Allocate(p); err != nil {
		t.Fatal(err)
	}
	m := classes.NewMethod(model.NewMethodDescriptor("set", model.IntegerType, model.VoidType), 0, p)
	node, err := DecompileMethod(m)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(node.Parameters, []int{0, 1}) {
		t.Fatalf("expected receiver and argument registers, got %v", node.Parameters)
	}
	if len(node.Variables) != 0 {
		t.Fatalf("expected no locals, got %v", node.Variables)
	}
	put := node.Body[0].(*AssignStatement)
	if f, ok := put.Target.(*FieldExpr); !ok || f.Instance == nil {
		t.Fatalf("expected instance field target, got %#v", put.Target)
	}
}

func TestDecompileMethod_DispatchLoop(t *testing.T) {
	// $0: @1 := 0; goto $1
	// $1: @2 := phi @1 from $0, @4 from $2; if @2 == @0 goto $3 else goto $2
	// $2: @3 := 1; @4 := @2 + @3; goto $1
	// $3: return @2
	p := ir.NewProgram()
	b0, b1, b2, b3 := p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock()
	n, zero, i, one, next := p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable()
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
		&ir.JumpInstruction{Target: b1},
	)
	add(t, b3, &ir.ExitInstruction{ValueToReturn: i})
	if _, err := (regalloc.Allocator{Parameters: 1}).Allocate(p); err != nil {
		t.Fatal(err)
	}

	node, err := DecompileMethod(staticMethod(t, p, model.IntegerType, model.IntegerType))
	if err != nil {
		t.Fatal(err)
	}
	if len(node.Body) != 1 {
		t.Fatalf("expected a single loop statement, got %d", len(node.Body))
	}
	loop, ok := node.Body[0].(*DispatchLoop)
	if !ok {
		t.Fatalf("expected dispatch loop, got %T", node.Body[0])
	}
	if len(loop.Blocks) != 4 {
		t.Fatalf("expected 4 cases, got %d", len(loop.Blocks))
	}
	for idx, c := range loop.Blocks {
		if c.Index != idx {
			t.Fatalf("expected case %d, got %d", idx, c.Index)
		}
		last := c.Body[len(c.Body)-1]
		switch last.(type) {
		case *GotoStatement, *ReturnStatement, *IfStatement:
		default:
			t.Fatalf("case %d ends with %T", idx, last)
		}
	}

	// The loop counter is coalesced with its copies, so no edge needs a move.
	var moves int
	var count func([]Statement)
	count = func(stmts []Statement) {
		for _, s := range stmts {
			switch s := s.(type) {
			case *MoveStatement:
				moves++
			case *IfStatement:
				count(s.Then)
				count(s.Else)
			}
		}
	}
	for _, c := range loop.Blocks {
		count(c.Body)
	}
	if moves != 0 {
		t.Fatalf("expected no moves after coalescing, got %d", moves)
	}

	jump := loop.Blocks[0].Body[len(loop.Blocks[0].Body)-1].(*GotoStatement)
	if jump.Block != 1 {
		t.Fatalf("expected goto 1, got %d", jump.Block)
	}
}

func TestDecompileMethod_ParallelMove(t *testing.T) {
	// $0: goto $1
	// $1: @0 := phi @2 from $0, @1 from $1
	//     @1 := phi @3 from $0, @0 from $1
	//     goto $1
	p := ir.NewProgram()
	b0, b1 := p.CreateBasicBlock(), p.CreateBasicBlock()
	x, y, a, b := p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable()
	for i, v := range []*ir.Variable{x, y, a, b} {
		v.Register = i
	}
	add(t, b0,
		&ir.IntegerConstantInstruction{Receiver: a, Constant: 1},
		&ir.IntegerConstantInstruction{Receiver: b, Constant: 2},
		&ir.JumpInstruction{Target: b1},
	)
	px := &ir.Phi{Receiver: x}
	px.AddIncoming(b0, a)
	px.AddIncoming(b1, y)
	py := &ir.Phi{Receiver: y}
	py.AddIncoming(b0, b)
	py.AddIncoming(b1, x)
	_ = b1.Phis().Add(px)
	_ = b1.Phis().Add(py)
	add(t, b1, &ir.JumpInstruction{Target: b1})

	node, err := DecompileMethod(staticMethod(t, p, model.VoidType))
	if err != nil {
		t.Fatal(err)
	}
	loop := node.Body[0].(*DispatchLoop)
	body := loop.Blocks[1].Body
	if len(body) != 2 {
		t.Fatalf("expected move and goto, got %d statements", len(body))
	}
	move, ok := body[0].(*MoveStatement)
	if !ok {
		t.Fatalf("expected move, got %T", body[0])
	}
	if !slices.Equal(move.Targets, []int{0, 1}) || !slices.Equal(move.Sources, []int{1, 0}) {
		t.Fatalf("expected swap [0 1] <- [1 0], got %v <- %v", move.Targets, move.Sources)
	}
}

func TestDecompileMethod_SwitchGroupsTargets(t *testing.T) {
	p := ir.NewProgram()
	b0, b1, b2 := p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock()
	v := p.CreateVariable()
	add(t, b0, &ir.SwitchInstruction{
		Condition:     v,
		DefaultTarget: b2,
		Entries: []*ir.SwitchTableEntry{
			{Target: b1, Condition: 1},
			{Target: b2, Condition: 2},
			{Target: b1, Condition: 3},
		},
	})
	add(t, b1, &ir.ExitInstruction{})
	add(t, b2, &ir.ExitInstruction{})
	if _, err := (regalloc.Allocator{Parameters: 1}).Allocate(p); err != nil {
		t.Fatal(err)
	}

	node, err := DecompileMethod(staticMethod(t, p, model.IntegerType, model.VoidType))
	if err != nil {
		t.Fatal(err)
	}
	sw := node.Body[0].(*DispatchLoop).Blocks[0].Body[0].(*SwitchStatement)
	if len(sw.Clauses) != 2 {
		t.Fatalf("expected 2 clauses, got %d", len(sw.Clauses))
	}
	if !slices.Equal(sw.Clauses[0].Values, []int32{1, 3}) {
		t.Fatalf("expected values [1 3], got %v", sw.Clauses[0].Values)
	}
	if g := sw.Default[0].(*GotoStatement); g.Block != 2 {
		t.Fatalf("expected default goto 2, got %d", g.Block)
	}
}

func TestDecompileMethod_Errors(t *testing.T) {
	p := ir.NewProgram()
	b := p.CreateBasicBlock()
	v := p.CreateVariable()
	add(t, b, &ir.ExitInstruction{ValueToReturn: v})
	if _, err := DecompileMethod(staticMethod(t, p, model.IntegerType)); !errors.Is(err, teaerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing register, got %v", err)
	}

	p = ir.NewProgram()
	b = p.CreateBasicBlock()
	add(t, b, &ir.EmptyInstruction{})
	if _, err := DecompileMethod(staticMethod(t, p, model.VoidType)); !errors.Is(err, teaerrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input for missing terminator, got %v", err)
	}

	abstract := classes.NewMethod(model.NewMethodDescriptor("run", model.VoidType), model.Abstract, nil)
	node, err := DecompileMethod(abstract)
	if err != nil {
		t.Fatal(err)
	}
	if node.Body != nil || !slices.Equal(node.Parameters, []int{0}) {
		t.Fatalf("expected bodiless instance method, got %+v", node)
	}
}

func TestDecompiler_OrderFollowsNames(t *testing.T) {
	set := classes.NewSet()
	var names []string
	for i := 0; i < 20; i++ {
		c := classes.NewClass(fmt.Sprintf("a.C%02d", i))
		p := ir.NewProgram()
		add(t, p.CreateBasicBlock(), &ir.ExitInstruction{})
		if err := c.AddMethod(staticMethod(t, p, model.VoidType)); err != nil {
			t.Fatal(err)
		}
		if err := set.Put(c); err != nil {
			t.Fatal(err)
		}
		names = append(names, c.Name)
	}
	slices.Reverse(names)

	d := New(executor.NewPool(4))
	nodes, err := d.Decompile(set, names)
	if err != nil {
		t.Fatal(err)
	}
	for i, n := range nodes {
		if n.Name != names[i] {
			t.Fatalf("slot %d: expected %s, got %s", i, names[i], n.Name)
		}
	}

	if _, err := d.Decompile(set, []string{"a.Nope"}); !errors.Is(err, teaerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
