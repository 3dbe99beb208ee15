package optimize

import (
	"github.com/wippyai/teajs/ir"
)

// MethodOptimization rewrites a single method body in place.
type MethodOptimization interface {
	Name() string
	Optimize(p *ir.Program) error
}

// UnreachableBlocks deletes every block that cannot be reached from the
// entry block, drops phi incomings coming from deleted blocks and packs the
// program.
type UnreachableBlocks struct{}

// Name implements MethodOptimization.
func (UnreachableBlocks) Name() string { return "unreachable-blocks" }

// Optimize implements MethodOptimization.
func (UnreachableBlocks) Optimize(p *ir.Program) error {
	if p.BasicBlockCount() == 0 {
		return nil
	}
	reachable := make([]bool, p.BasicBlockCount())
	stack := []*ir.BasicBlock{p.BasicBlockAt(0)}
	reachable[0] = true
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range ir.Successors(b) {
			if !reachable[s.Index()] {
				reachable[s.Index()] = true
				stack = append(stack, s)
			}
		}
	}

	removed := false
	for i, ok := range reachable {
		if !ok && p.BasicBlockAt(i) != nil {
			if err := p.DeleteBasicBlock(i); err != nil {
				return err
			}
			removed = true
		}
	}
	if !removed {
		return nil
	}
	for _, b := range p.BasicBlocks() {
		for _, phi := range b.Phis().All() {
			kept := phi.Incomings[:0]
			for _, in := range phi.Incomings {
				if in.Source.Program() == p {
					kept = append(kept, in)
				}
			}
			phi.Incomings = kept
		}
	}
	return p.Pack()
}

// EmptyJumps redirects edges that lead to a block consisting of a single
// jump straight to the jump's final target. Blocks with phis, and blocks
// whose target has phis, are left alone because bypassing them would change
// the incoming edges of a merge. Redirected blocks become unreachable and
// are removed by UnreachableBlocks.
type EmptyJumps struct{}

// Name implements MethodOptimization.
func (EmptyJumps) Name() string { return "empty-jumps" }

// Optimize implements MethodOptimization.
func (EmptyJumps) Optimize(p *ir.Program) error {
	forward := make(map[*ir.BasicBlock]*ir.BasicBlock)
	for _, b := range p.BasicBlocks() {
		if b.Index() == 0 || b.Phis().Len() > 0 || b.Instructions().Len() != 1 {
			continue
		}
		jump, ok := b.LastInstruction().(*ir.JumpInstruction)
		if !ok || jump.Target == b || jump.Target.Phis().Len() > 0 {
			continue
		}
		forward[b] = jump.Target
	}
	if len(forward) == 0 {
		return nil
	}

	final := func(b *ir.BasicBlock) *ir.BasicBlock {
		// Bounded walk; a cycle of empty jumps stays as it is.
		for steps := 0; steps <= len(forward); steps++ {
			next, ok := forward[b]
			if !ok {
				return b
			}
			b = next
		}
		return b
	}
	// No phi names a forwarded block as its source: a forwarded block's
	// only successor has no phis.
	m := &ir.BlockMapper{Map: final}
	m.Transform(p)
	return nil
}

// DefaultPasses returns the passes run on every method, in order.
func DefaultPasses() []MethodOptimization {
	return []MethodOptimization{EmptyJumps{}, UnreachableBlocks{}}
}
