package ir

// Copy returns an independent deep copy of p. Block indices, variable
// indices, register assignments and deleted slots are preserved; every edge
// of the copy points at a block of the copy.
func Copy(p *Program) *Program {
	dst := NewProgram()
	for _, v := range p.variables {
		nv := dst.CreateVariable()
		nv.DebugName = v.DebugName
		nv.Register = v.Register
	}
	for range p.blocks {
		dst.CreateBasicBlock()
	}

	// Copied phis and instructions are fresh, so adding them cannot conflict.
	c := &instructionCopier{dst: dst}
	for i, b := range p.blocks {
		target := dst.blocks[i]
		if b == nil {
			dst.blocks[i] = nil
			target.program = nil
			target.index = -1
			continue
		}
		for _, phi := range b.phis.items {
			np := &Phi{Receiver: c.v(phi.Receiver)}
			for _, in := range phi.Incomings {
				np.AddIncoming(in.Source, c.v(in.Value))
			}
			if err := target.phis.Add(np); err != nil {
				panic(err)
			}
		}
		for _, insn := range b.instructions.items {
			insn.Accept(c)
			if err := target.instructions.Add(c.result); err != nil {
				panic(err)
			}
		}
	}

	// Cloned terminators and phis still point at the source program's
	// blocks; move every edge over to the copy.
	m := &BlockMapper{Map: func(b *BasicBlock) *BasicBlock {
		if b.program != p {
			return b
		}
		return dst.blocks[b.index]
	}}
	m.Transform(dst)
	return dst
}

var _ Visitor = (*instructionCopier)(nil)

type instructionCopier struct {
	dst    *Program
	result Instruction
}

func (c *instructionCopier) v(src *Variable) *Variable {
	if src == nil {
		return nil
	}
	return c.dst.variables[src.index]
}

func (c *instructionCopier) vs(src []*Variable) []*Variable {
	if src == nil {
		return nil
	}
	result := make([]*Variable, len(src))
	for i, v := range src {
		result[i] = c.v(v)
	}
	return result
}

func (c *instructionCopier) VisitEmpty(*EmptyInstruction) {
	c.result = &EmptyInstruction{}
}

func (c *instructionCopier) VisitClassConstant(insn *ClassConstantInstruction) {
	c.result = &ClassConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitNullConstant(insn *NullConstantInstruction) {
	c.result = &NullConstantInstruction{Receiver: c.v(insn.Receiver)}
}

func (c *instructionCopier) VisitIntegerConstant(insn *IntegerConstantInstruction) {
	c.result = &IntegerConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitLongConstant(insn *LongConstantInstruction) {
	c.result = &LongConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitFloatConstant(insn *FloatConstantInstruction) {
	c.result = &FloatConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitDoubleConstant(insn *DoubleConstantInstruction) {
	c.result = &DoubleConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitStringConstant(insn *StringConstantInstruction) {
	c.result = &StringConstantInstruction{Receiver: c.v(insn.Receiver), Constant: insn.Constant}
}

func (c *instructionCopier) VisitBinary(insn *BinaryInstruction) {
	c.result = &BinaryInstruction{
		Receiver:  c.v(insn.Receiver),
		First:     c.v(insn.First),
		Second:    c.v(insn.Second),
		Operation: insn.Operation,
		Operand:   insn.Operand,
	}
}

func (c *instructionCopier) VisitNegate(insn *NegateInstruction) {
	c.result = &NegateInstruction{Receiver: c.v(insn.Receiver), Value: c.v(insn.Value), Operand: insn.Operand}
}

func (c *instructionCopier) VisitAssign(insn *AssignInstruction) {
	c.result = &AssignInstruction{Receiver: c.v(insn.Receiver), Assignee: c.v(insn.Assignee)}
}

func (c *instructionCopier) VisitCast(insn *CastInstruction) {
	c.result = &CastInstruction{Receiver: c.v(insn.Receiver), Value: c.v(insn.Value), TargetType: insn.TargetType}
}

func (c *instructionCopier) VisitCastNumber(insn *CastNumberInstruction) {
	c.result = &CastNumberInstruction{
		Receiver:   c.v(insn.Receiver),
		Value:      c.v(insn.Value),
		SourceType: insn.SourceType,
		TargetType: insn.TargetType,
	}
}

func (c *instructionCopier) VisitCastInteger(insn *CastIntegerInstruction) {
	c.result = &CastIntegerInstruction{
		Receiver:   c.v(insn.Receiver),
		Value:      c.v(insn.Value),
		TargetType: insn.TargetType,
		Direction:  insn.Direction,
	}
}

func (c *instructionCopier) VisitBranching(insn *BranchingInstruction) {
	c.result = &BranchingInstruction{
		Operand:     c.v(insn.Operand),
		Consequent:  insn.Consequent,
		Alternative: insn.Alternative,
		Condition:   insn.Condition,
	}
}

func (c *instructionCopier) VisitBinaryBranching(insn *BinaryBranchingInstruction) {
	c.result = &BinaryBranchingInstruction{
		First:       c.v(insn.First),
		Second:      c.v(insn.Second),
		Consequent:  insn.Consequent,
		Alternative: insn.Alternative,
		Condition:   insn.Condition,
	}
}

func (c *instructionCopier) VisitJump(insn *JumpInstruction) {
	c.result = &JumpInstruction{Target: insn.Target}
}

func (c *instructionCopier) VisitSwitch(insn *SwitchInstruction) {
	entries := make([]*SwitchTableEntry, len(insn.Entries))
	for i, e := range insn.Entries {
		entries[i] = &SwitchTableEntry{Target: e.Target, Condition: e.Condition}
	}
	c.result = &SwitchInstruction{
		Condition:     c.v(insn.Condition),
		DefaultTarget: insn.DefaultTarget,
		Entries:       entries,
	}
}

func (c *instructionCopier) VisitExit(insn *ExitInstruction) {
	c.result = &ExitInstruction{ValueToReturn: c.v(insn.ValueToReturn)}
}

func (c *instructionCopier) VisitRaise(insn *RaiseInstruction) {
	c.result = &RaiseInstruction{Exception: c.v(insn.Exception)}
}

func (c *instructionCopier) VisitConstructArray(insn *ConstructArrayInstruction) {
	c.result = &ConstructArrayInstruction{Receiver: c.v(insn.Receiver), Size: c.v(insn.Size), ItemType: insn.ItemType}
}

func (c *instructionCopier) VisitConstruct(insn *ConstructInstruction) {
	c.result = &ConstructInstruction{Receiver: c.v(insn.Receiver), Type: insn.Type}
}

func (c *instructionCopier) VisitConstructMultiArray(insn *ConstructMultiArrayInstruction) {
	c.result = &ConstructMultiArrayInstruction{
		Receiver:   c.v(insn.Receiver),
		ItemType:   insn.ItemType,
		Dimensions: c.vs(insn.Dimensions),
	}
}

func (c *instructionCopier) VisitGetField(insn *GetFieldInstruction) {
	c.result = &GetFieldInstruction{
		Receiver:  c.v(insn.Receiver),
		Instance:  c.v(insn.Instance),
		FieldType: insn.FieldType,
		Field:     insn.Field,
	}
}

func (c *instructionCopier) VisitPutField(insn *PutFieldInstruction) {
	c.result = &PutFieldInstruction{Instance: c.v(insn.Instance), Value: c.v(insn.Value), Field: insn.Field}
}

func (c *instructionCopier) VisitArrayLength(insn *ArrayLengthInstruction) {
	c.result = &ArrayLengthInstruction{Receiver: c.v(insn.Receiver), Array: c.v(insn.Array)}
}

func (c *instructionCopier) VisitCloneArray(insn *CloneArrayInstruction) {
	c.result = &CloneArrayInstruction{Receiver: c.v(insn.Receiver), Array: c.v(insn.Array)}
}

func (c *instructionCopier) VisitUnwrapArray(insn *UnwrapArrayInstruction) {
	c.result = &UnwrapArrayInstruction{
		Receiver:    c.v(insn.Receiver),
		Array:       c.v(insn.Array),
		ElementType: insn.ElementType,
	}
}

func (c *instructionCopier) VisitGetElement(insn *GetElementInstruction) {
	c.result = &GetElementInstruction{Receiver: c.v(insn.Receiver), Array: c.v(insn.Array), Index: c.v(insn.Index)}
}

func (c *instructionCopier) VisitPutElement(insn *PutElementInstruction) {
	c.result = &PutElementInstruction{Array: c.v(insn.Array), Index: c.v(insn.Index), Value: c.v(insn.Value)}
}

func (c *instructionCopier) VisitInvoke(insn *InvokeInstruction) {
	c.result = &InvokeInstruction{
		Receiver:  c.v(insn.Receiver),
		Instance:  c.v(insn.Instance),
		Method:    insn.Method,
		Arguments: c.vs(insn.Arguments),
		Type:      insn.Type,
	}
}

func (c *instructionCopier) VisitIsInstance(insn *IsInstanceInstruction) {
	c.result = &IsInstanceInstruction{Receiver: c.v(insn.Receiver), Value: c.v(insn.Value), Type: insn.Type}
}

func (c *instructionCopier) VisitInitClass(insn *InitClassInstruction) {
	c.result = &InitClassInstruction{ClassName: insn.ClassName}
}
