package ir

// Defs returns the variable written by insn, or nil.
func Defs(insn Instruction) *Variable {
	e := &variableExtractor{}
	insn.Accept(e)
	return e.def
}

// Uses returns the variables read by insn in operand order. Nil operands
// (static field access, void invocation) are omitted.
func Uses(insn Instruction) []*Variable {
	e := &variableExtractor{}
	insn.Accept(e)
	return e.uses
}

var _ Visitor = (*variableExtractor)(nil)

type variableExtractor struct {
	def  *Variable
	uses []*Variable
}

func (e *variableExtractor) use(vars ...*Variable) {
	for _, v := range vars {
		if v != nil {
			e.uses = append(e.uses, v)
		}
	}
}

func (e *variableExtractor) VisitEmpty(*EmptyInstruction) {}

func (e *variableExtractor) VisitClassConstant(insn *ClassConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitNullConstant(insn *NullConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitIntegerConstant(insn *IntegerConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitLongConstant(insn *LongConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitFloatConstant(insn *FloatConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitDoubleConstant(insn *DoubleConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitStringConstant(insn *StringConstantInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitBinary(insn *BinaryInstruction) {
	e.def = insn.Receiver
	e.use(insn.First, insn.Second)
}

func (e *variableExtractor) VisitNegate(insn *NegateInstruction) {
	e.def = insn.Receiver
	e.use(insn.Value)
}

func (e *variableExtractor) VisitAssign(insn *AssignInstruction) {
	e.def = insn.Receiver
	e.use(insn.Assignee)
}

func (e *variableExtractor) VisitCast(insn *CastInstruction) {
	e.def = insn.Receiver
	e.use(insn.Value)
}

func (e *variableExtractor) VisitCastNumber(insn *CastNumberInstruction) {
	e.def = insn.Receiver
	e.use(insn.Value)
}

func (e *variableExtractor) VisitCastInteger(insn *CastIntegerInstruction) {
	e.def = insn.Receiver
	e.use(insn.Value)
}

func (e *variableExtractor) VisitBranching(insn *BranchingInstruction) {
	e.use(insn.Operand)
}

func (e *variableExtractor) VisitBinaryBranching(insn *BinaryBranchingInstruction) {
	e.use(insn.First, insn.Second)
}

func (e *variableExtractor) VisitJump(*JumpInstruction) {}

func (e *variableExtractor) VisitSwitch(insn *SwitchInstruction) {
	e.use(insn.Condition)
}

func (e *variableExtractor) VisitExit(insn *ExitInstruction) {
	e.use(insn.ValueToReturn)
}

func (e *variableExtractor) VisitRaise(insn *RaiseInstruction) {
	e.use(insn.Exception)
}

func (e *variableExtractor) VisitConstructArray(insn *ConstructArrayInstruction) {
	e.def = insn.Receiver
	e.use(insn.Size)
}

func (e *variableExtractor) VisitConstruct(insn *ConstructInstruction) {
	e.def = insn.Receiver
}

func (e *variableExtractor) VisitConstructMultiArray(insn *ConstructMultiArrayInstruction) {
	e.def = insn.Receiver
	e.use(insn.Dimensions...)
}

func (e *variableExtractor) VisitGetField(insn *GetFieldInstruction) {
	e.def = insn.Receiver
	e.use(insn.Instance)
}

func (e *variableExtractor) VisitPutField(insn *PutFieldInstruction) {
	e.use(insn.Instance, insn.Value)
}

func (e *variableExtractor) VisitArrayLength(insn *ArrayLengthInstruction) {
	e.def = insn.Receiver
	e.use(insn.Array)
}

func (e *variableExtractor) VisitCloneArray(insn *CloneArrayInstruction) {
	e.def = insn.Receiver
	e.use(insn.Array)
}

func (e *variableExtractor) VisitUnwrapArray(insn *UnwrapArrayInstruction) {
	e.def = insn.Receiver
	e.use(insn.Array)
}

func (e *variableExtractor) VisitGetElement(insn *GetElementInstruction) {
	e.def = insn.Receiver
	e.use(insn.Array, insn.Index)
}

func (e *variableExtractor) VisitPutElement(insn *PutElementInstruction) {
	e.use(insn.Array, insn.Index, insn.Value)
}

func (e *variableExtractor) VisitInvoke(insn *InvokeInstruction) {
	e.def = insn.Receiver
	e.use(insn.Instance)
	e.use(insn.Arguments...)
}

func (e *variableExtractor) VisitIsInstance(insn *IsInstanceInstruction) {
	e.def = insn.Receiver
	e.use(insn.Value)
}

func (e *variableExtractor) VisitInitClass(*InitClassInstruction) {}
