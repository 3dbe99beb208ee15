// Liveness analysis over the control-flow graph.
//
// A variable is LIVE at a program point if some path from that point reaches
// a use of the variable without passing a definition of it.
//
// Phis are handled the SSA way: a phi receiver is defined at the entry of its
// block, and each incoming value is used at the end of the incoming's source
// block rather than in the phi's block.
//
// Algorithm (backward dataflow, iterated to a fixed point):
//
//	out[b] = U over successors s: (in[s]) + phi uses of s along b->s
//	in[b]  = upward-exposed uses of b + (out[b] - defs of b)
package regalloc

import (
	"github.com/wippyai/teajs/ir"
)

// Liveness holds live-in and live-out sets indexed by block index.
type Liveness struct {
	In  []*BitSet
	Out []*BitSet
}

// ComputeLiveness analyzes p, which must be packed.
func ComputeLiveness(p *ir.Program) *Liveness {
	n := p.BasicBlockCount()
	vars := p.VariableCount()
	uses := make([]*BitSet, n)
	defs := make([]*BitSet, n)
	phiUses := make([]*BitSet, n) // values flowing out of b into successor phis
	succ := make([][]*ir.BasicBlock, n)

	for i := 0; i < n; i++ {
		uses[i] = NewBitSet(vars)
		defs[i] = NewBitSet(vars)
		phiUses[i] = NewBitSet(vars)
	}
	for _, b := range p.BasicBlocks() {
		i := b.Index()
		succ[i] = ir.Successors(b)
		for _, phi := range b.Phis().All() {
			defs[i].Set(phi.Receiver.Index())
			for _, in := range phi.Incomings {
				if in.Source != nil && in.Source.Program() == p {
					phiUses[in.Source.Index()].Set(in.Value.Index())
				}
			}
		}
		for _, insn := range b.Instructions().All() {
			for _, u := range ir.Uses(insn) {
				if !defs[i].Has(u.Index()) {
					uses[i].Set(u.Index())
				}
			}
			if d := ir.Defs(insn); d != nil {
				defs[i].Set(d.Index())
			}
		}
	}

	l := &Liveness{In: make([]*BitSet, n), Out: make([]*BitSet, n)}
	for i := 0; i < n; i++ {
		l.In[i] = uses[i].Clone()
		l.Out[i] = phiUses[i].Clone()
	}

	// Reverse order converges faster for mostly forward graphs.
	for changed := true; changed; {
		changed = false
		for i := n - 1; i >= 0; i-- {
			for _, s := range succ[i] {
				if l.Out[i].Union(l.In[s.Index()]) {
					changed = true
				}
			}
			through := l.Out[i].Clone()
			for _, d := range defs[i].Values() {
				through.Clear(d)
			}
			if l.In[i].Union(through) {
				changed = true
			}
		}
	}
	return l
}
