package ir

var _ Visitor = (*BlockMapper)(nil)

// BlockMapper rewrites every block reference of a program through Map.
//
// Transform visits the terminator of each block in program order and every
// incoming source of each block's phis, which together cover all edges of
// the graph: both targets of branches, the jump target, every switch entry
// and the switch default. Non-terminator kinds carry no block reference and
// are left untouched. Nil references are skipped.
//
// Concrete rewrites (renumbering, merging, copying, edge collection) supply
// Map and reuse this traversal instead of enumerating edge-bearing kinds.
type BlockMapper struct {
	Map func(b *BasicBlock) *BasicBlock
}

// Transform remaps all block references of p.
func (m *BlockMapper) Transform(p *Program) {
	for _, b := range p.blocks {
		if b == nil {
			continue
		}
		if last := b.LastInstruction(); last != nil {
			last.Accept(m)
		}
		for _, phi := range b.phis.items {
			for _, in := range phi.Incomings {
				in.Source = m.mapBlock(in.Source)
			}
		}
	}
}

// TransformInstruction remaps the block references of a single instruction.
func (m *BlockMapper) TransformInstruction(insn Instruction) {
	insn.Accept(m)
}

func (m *BlockMapper) mapBlock(b *BasicBlock) *BasicBlock {
	if b == nil {
		return nil
	}
	return m.Map(b)
}

func (m *BlockMapper) VisitBranching(insn *BranchingInstruction) {
	insn.Consequent = m.mapBlock(insn.Consequent)
	insn.Alternative = m.mapBlock(insn.Alternative)
}

func (m *BlockMapper) VisitBinaryBranching(insn *BinaryBranchingInstruction) {
	insn.Consequent = m.mapBlock(insn.Consequent)
	insn.Alternative = m.mapBlock(insn.Alternative)
}

func (m *BlockMapper) VisitJump(insn *JumpInstruction) {
	insn.Target = m.mapBlock(insn.Target)
}

func (m *BlockMapper) VisitSwitch(insn *SwitchInstruction) {
	for _, entry := range insn.Entries {
		entry.Target = m.mapBlock(entry.Target)
	}
	insn.DefaultTarget = m.mapBlock(insn.DefaultTarget)
}

func (m *BlockMapper) VisitEmpty(*EmptyInstruction)                             {}
func (m *BlockMapper) VisitClassConstant(*ClassConstantInstruction)             {}
func (m *BlockMapper) VisitNullConstant(*NullConstantInstruction)               {}
func (m *BlockMapper) VisitIntegerConstant(*IntegerConstantInstruction)         {}
func (m *BlockMapper) VisitLongConstant(*LongConstantInstruction)               {}
func (m *BlockMapper) VisitFloatConstant(*FloatConstantInstruction)             {}
func (m *BlockMapper) VisitDoubleConstant(*DoubleConstantInstruction)           {}
func (m *BlockMapper) VisitStringConstant(*StringConstantInstruction)           {}
func (m *BlockMapper) VisitBinary(*BinaryInstruction)                           {}
func (m *BlockMapper) VisitNegate(*NegateInstruction)                           {}
func (m *BlockMapper) VisitAssign(*AssignInstruction)                           {}
func (m *BlockMapper) VisitCast(*CastInstruction)                               {}
func (m *BlockMapper) VisitCastNumber(*CastNumberInstruction)                   {}
func (m *BlockMapper) VisitCastInteger(*CastIntegerInstruction)                 {}
func (m *BlockMapper) VisitExit(*ExitInstruction)                               {}
func (m *BlockMapper) VisitRaise(*RaiseInstruction)                             {}
func (m *BlockMapper) VisitConstructArray(*ConstructArrayInstruction)           {}
func (m *BlockMapper) VisitConstruct(*ConstructInstruction)                     {}
func (m *BlockMapper) VisitConstructMultiArray(*ConstructMultiArrayInstruction) {}
func (m *BlockMapper) VisitGetField(*GetFieldInstruction)                       {}
func (m *BlockMapper) VisitPutField(*PutFieldInstruction)                       {}
func (m *BlockMapper) VisitArrayLength(*ArrayLengthInstruction)                 {}
func (m *BlockMapper) VisitCloneArray(*CloneArrayInstruction)                   {}
func (m *BlockMapper) VisitUnwrapArray(*UnwrapArrayInstruction)                 {}
func (m *BlockMapper) VisitGetElement(*GetElementInstruction)                   {}
func (m *BlockMapper) VisitPutElement(*PutElementInstruction)                   {}
func (m *BlockMapper) VisitInvoke(*InvokeInstruction)                           {}
func (m *BlockMapper) VisitIsInstance(*IsInstanceInstruction)                   {}
func (m *BlockMapper) VisitInitClass(*InitClassInstruction)                     {}

// Successors returns the blocks control may transfer to from b, in the order
// the terminator lists them. Duplicates are kept.
func Successors(b *BasicBlock) []*BasicBlock {
	last := b.LastInstruction()
	if last == nil {
		return nil
	}
	var result []*BasicBlock
	m := &BlockMapper{Map: func(target *BasicBlock) *BasicBlock {
		result = append(result, target)
		return target
	}}
	m.TransformInstruction(last)
	return result
}

// Predecessors computes, for every block index of p, the list of blocks
// whose terminator targets it. Each predecessor appears once per block.
func Predecessors(p *Program) [][]*BasicBlock {
	preds := make([][]*BasicBlock, len(p.blocks))
	for _, b := range p.blocks {
		if b == nil {
			continue
		}
		seen := make(map[*BasicBlock]bool)
		for _, s := range Successors(b) {
			if seen[s] || s.program != p {
				continue
			}
			seen[s] = true
			preds[s.index] = append(preds[s.index], b)
		}
	}
	return preds
}
