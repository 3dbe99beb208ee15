package regalloc

import (
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
)

// Allocator assigns a register to every variable of a program.
//
// Phi incoming values are first copied into fresh variables at the end of
// each predecessor. A phi receiver then shares a register with each copy
// whose live range does not overlap its own, which removes the copy from the
// generated code; copies that cannot be merged remain as moves on the edge.
// The remaining variables are colored greedily in index order with the
// lowest register not taken by an interfering variable.
type Allocator struct {
	// Parameters is the number of leading variables that hold the method's
	// receiver and arguments. They keep register = index.
	Parameters int
}

// Allocate rewrites p in place: it inserts phi copies and sets
// Variable.Register on every variable. It returns the number of registers
// used.
func (a Allocator) Allocate(p *ir.Program) (int, error) {
	if a.Parameters > p.VariableCount() {
		return 0, errors.New(errors.PhaseAllocate, errors.KindInvalidInput).
			Detail("%d parameters but only %d variables", a.Parameters, p.VariableCount()).
			Build()
	}
	copies, err := insertPhiCopies(p)
	if err != nil {
		return 0, err
	}

	live := ComputeLiveness(p)
	g := buildInterference(p, live, a.Parameters)

	classes := newUnionFind(p.VariableCount())
	for _, pair := range copies {
		classes.tryMerge(g, pair.receiver, pair.copy)
	}
	return color(p, g, classes, a.Parameters), nil
}

type phiCopy struct {
	receiver int
	copy     int
}

// insertPhiCopies replaces every phi incoming value v from block s with a
// fresh variable c and adds "c := v" before the terminator of s.
func insertPhiCopies(p *ir.Program) ([]phiCopy, error) {
	var copies []phiCopy
	for _, b := range p.BasicBlocks() {
		for _, phi := range b.Phis().All() {
			for _, in := range phi.Incomings {
				src := in.Source
				n := src.Instructions().Len()
				if n == 0 {
					return nil, errors.New(errors.PhaseAllocate, errors.KindInvalidInput).
						Detail("phi incoming from empty block %v", src).
						Build()
				}
				c := p.CreateVariable()
				c.DebugName = in.Value.DebugName
				if err := src.Instructions().Insert(n-1, &ir.AssignInstruction{Receiver: c, Assignee: in.Value}); err != nil {
					return nil, err
				}
				in.Value = c
				copies = append(copies, phiCopy{receiver: phi.Receiver.Index(), copy: c.Index()})
			}
		}
	}
	return copies, nil
}

// interference is an undirected graph over variable indices.
type interference struct {
	edges []*BitSet
}

func (g *interference) add(a, b int) {
	if a == b {
		return
	}
	g.edges[a].Set(b)
	g.edges[b].Set(a)
}

func buildInterference(p *ir.Program, live *Liveness, params int) *interference {
	n := p.VariableCount()
	g := &interference{edges: make([]*BitSet, n)}
	for i := range g.edges {
		g.edges[i] = NewBitSet(n)
	}
	// Parameters are all defined on entry.
	for i := 0; i < params; i++ {
		for j := i + 1; j < params; j++ {
			g.add(i, j)
		}
		if len(live.In) > 0 {
			for _, v := range live.In[0].Values() {
				g.add(i, v)
			}
		}
	}

	for _, b := range p.BasicBlocks() {
		current := live.Out[b.Index()].Clone()
		insns := b.Instructions().All()
		for i := len(insns) - 1; i >= 0; i-- {
			if d := ir.Defs(insns[i]); d != nil {
				for _, v := range current.Values() {
					g.add(d.Index(), v)
				}
				current.Clear(d.Index())
			}
			for _, u := range ir.Uses(insns[i]) {
				current.Set(u.Index())
			}
		}
		phis := b.Phis().All()
		for _, phi := range phis {
			r := phi.Receiver.Index()
			for _, v := range current.Values() {
				g.add(r, v)
			}
			for _, other := range phis {
				g.add(r, other.Receiver.Index())
			}
		}
	}
	return g
}

// unionFind groups variables that share a register.
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	u := &unionFind{parent: make([]int, n)}
	for i := range u.parent {
		u.parent[i] = i
	}
	return u
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// tryMerge joins the classes of a and b unless a member of one interferes
// with a member of the other. The merged class's interference set is kept
// on the new representative.
func (u *unionFind) tryMerge(g *interference, a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return true
	}
	if classInterferes(g, u, ra, rb) {
		return false
	}
	// Keep the lower index as representative so parameters stay roots.
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	g.edges[ra].Union(g.edges[rb])
	return true
}

func classInterferes(g *interference, u *unionFind, ra, rb int) bool {
	for _, v := range g.edges[ra].Values() {
		if u.find(v) == rb {
			return true
		}
	}
	return false
}

// color assigns registers to class representatives and propagates them to
// every member.
func color(p *ir.Program, g *interference, u *unionFind, params int) int {
	n := p.VariableCount()
	registers := make([]int, n)
	for i := range registers {
		registers[i] = ir.NoRegister
	}
	used := 0
	for i := 0; i < params; i++ {
		registers[u.find(i)] = i
		used = max(used, i+1)
	}
	for v := 0; v < n; v++ {
		r := u.find(v)
		if registers[r] != ir.NoRegister {
			continue
		}
		taken := NewBitSet(n)
		for _, other := range g.edges[r].Values() {
			if reg := registers[u.find(other)]; reg != ir.NoRegister {
				taken.Set(reg)
			}
		}
		reg := 0
		for taken.Has(reg) {
			reg++
		}
		registers[r] = reg
		used = max(used, reg+1)
	}
	for v := 0; v < n; v++ {
		p.VariableAt(v).Register = registers[u.find(v)]
	}
	return used
}
