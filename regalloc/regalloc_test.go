package regalloc

import (
	"slices"
	"testing"

	"github.com/wippyai/teajs/ir"
)

func TestBitSet(t *testing.T) {
	b := NewBitSet(10)
	b.Set(3)
	b.Set(70) // grows
	b.Set(3)
	if !b.Has(3) || !b.Has(70) || b.Has(4) {
		t.Fatal("unexpected membership")
	}
	if b.Count() != 2 {
		t.Fatalf("expected 2 elements, got %d", b.Count())
	}
	b.Clear(3)
	b.Clear(500)
	if got := b.Values(); !slices.Equal(got, []int{70}) {
		t.Fatalf("expected [70], got %v", got)
	}

	other := NewBitSet(0)
	other.Set(1)
	if !b.Union(other) {
		t.Fatal("union adding an element should report a change")
	}
	if b.Union(other) {
		t.Fatal("second union should not change the set")
	}
	c := b.Clone()
	c.Set(2)
	if b.Has(2) {
		t.Fatal("clone must be independent")
	}
}

type loopProgram struct {
	p                      *ir.Program
	n, zero, i, step, next *ir.Variable
}

// countingLoop builds:
//
//	$0: @1 := 0; goto $1
//	$1: @3 := phi @1 from $0, @5 from $2; if @3 == @0 goto $3 else goto $2
//	$2: @4 := 1; @5 := @3 + @4; goto $1
//	$3: return @3
//
// with @0 the single parameter.
func countingLoop(t *testing.T) *loopProgram {
	t.Helper()
	lp := &loopProgram{p: ir.NewProgram()}
	p := lp.p
	b0, b1, b2, b3 := p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock(), p.CreateBasicBlock()
	lp.n = p.CreateVariable()
	lp.zero = p.CreateVariable()
	p.CreateVariable() // @2 stays unused
	lp.i = p.CreateVariable()
	lp.step = p.CreateVariable()
	lp.next = p.CreateVariable()

	must := func(b *ir.BasicBlock, insn ir.Instruction) {
		if err := b.Instructions().Add(insn); err != nil {
			t.Fatal(err)
		}
	}
	must(b0, &ir.IntegerConstantInstruction{Receiver: lp.zero, Constant: 0})
	must(b0, &ir.JumpInstruction{Target: b1})

	phi := &ir.Phi{Receiver: lp.i}
	phi.AddIncoming(b0, lp.zero)
	phi.AddIncoming(b2, lp.next)
	if err := b1.Phis().Add(phi); err != nil {
		t.Fatal(err)
	}
	must(b1, &ir.BinaryBranchingInstruction{First: lp.i, Second: lp.n, Condition: ir.BinEqual, Consequent: b3, Alternative: b2})

	must(b2, &ir.IntegerConstantInstruction{Receiver: lp.step, Constant: 1})
	must(b2, &ir.BinaryInstruction{Receiver: lp.next, First: lp.i, Second: lp.step, Operation: ir.OpAdd})
	must(b2, &ir.JumpInstruction{Target: b1})

	must(b3, &ir.ExitInstruction{ValueToReturn: lp.i})
	return lp
}

func TestLiveness(t *testing.T) {
	lp := countingLoop(t)
	l := ComputeLiveness(lp.p)

	if got := l.In[0].Values(); !slices.Equal(got, []int{lp.n.Index()}) {
		t.Fatalf("expected only the parameter live into entry, got %v", got)
	}
	if l.In[1].Has(lp.i.Index()) {
		t.Fatal("phi receiver is defined at block entry, not live-in")
	}
	if !l.Out[2].Has(lp.next.Index()) {
		t.Fatal("phi incoming value should be live out of its source block")
	}
	if l.Out[0].Has(lp.next.Index()) {
		t.Fatal("incoming from another edge must not be live out of entry")
	}
	if !l.In[2].Has(lp.i.Index()) || !l.In[2].Has(lp.n.Index()) {
		t.Fatal("loop body should see counter and bound live")
	}
}

// checkAllocation verifies that no variable is assigned the register of
// another variable live at its definition.
func checkAllocation(t *testing.T, p *ir.Program) {
	t.Helper()
	live := ComputeLiveness(p)
	for v := 0; v < p.VariableCount(); v++ {
		if p.VariableAt(v).Register == ir.NoRegister {
			t.Fatalf("variable %d has no register", v)
		}
	}
	for _, b := range p.BasicBlocks() {
		current := live.Out[b.Index()].Clone()
		insns := b.Instructions().All()
		for i := len(insns) - 1; i >= 0; i-- {
			if d := ir.Defs(insns[i]); d != nil {
				for _, v := range current.Values() {
					if v != d.Index() && p.VariableAt(v).Register == d.Register {
						t.Fatalf("%v and @%d share register %d while both live", d, v, d.Register)
					}
				}
				current.Clear(d.Index())
			}
			for _, u := range ir.Uses(insns[i]) {
				current.Set(u.Index())
			}
		}
	}
}

func TestAllocate_CoalescesLoopCounter(t *testing.T) {
	lp := countingLoop(t)
	before := lp.p.VariableCount()
	used, err := Allocator{Parameters: 1}.Allocate(lp.p)
	if err != nil {
		t.Fatal(err)
	}
	if lp.p.VariableCount() != before+2 {
		t.Fatalf("expected 2 phi copies, got %d new variables", lp.p.VariableCount()-before)
	}
	checkAllocation(t, lp.p)

	if lp.n.Register != 0 {
		t.Fatalf("parameter should keep register 0, got %d", lp.n.Register)
	}
	phi := lp.p.BasicBlockAt(1).Phis().All()[0]
	for _, in := range phi.Incomings {
		if in.Value.Register != lp.i.Register {
			t.Fatalf("copy %v should share the receiver's register %d, got %d", in.Value, lp.i.Register, in.Value.Register)
		}
	}
	if used > 3 {
		t.Fatalf("expected at most 3 registers, got %d", used)
	}
}

func TestAllocate_SwapNeedsSeparateRegisters(t *testing.T) {
	// $0: @0 := 1; @1 := 2; goto $1
	// $1: @2 := phi @0 from $0, @3 from $1
	//     @3 := phi @1 from $0, @2 from $1
	//     goto $1
	p := ir.NewProgram()
	b0, b1 := p.CreateBasicBlock(), p.CreateBasicBlock()
	a, b, x, y := p.CreateVariable(), p.CreateVariable(), p.CreateVariable(), p.CreateVariable()
	_ = b0.Instructions().Add(&ir.IntegerConstantInstruction{Receiver: a, Constant: 1})
	_ = b0.Instructions().Add(&ir.IntegerConstantInstruction{Receiver: b, Constant: 2})
	_ = b0.Instructions().Add(&ir.JumpInstruction{Target: b1})
	px := &ir.Phi{Receiver: x}
	px.AddIncoming(b0, a)
	px.AddIncoming(b1, y)
	py := &ir.Phi{Receiver: y}
	py.AddIncoming(b0, b)
	py.AddIncoming(b1, x)
	_ = b1.Phis().Add(px)
	_ = b1.Phis().Add(py)
	_ = b1.Instructions().Add(&ir.JumpInstruction{Target: b1})

	if _, err := (Allocator{}).Allocate(p); err != nil {
		t.Fatal(err)
	}
	checkAllocation(t, p)
	if x.Register == y.Register {
		t.Fatal("phi receivers of one block must not share a register")
	}
}

func TestAllocate_TooManyParameters(t *testing.T) {
	p := ir.NewProgram()
	p.CreateVariable()
	if _, err := (Allocator{Parameters: 2}).Allocate(p); err == nil {
		t.Fatal("expected error")
	}
}
