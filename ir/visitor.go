package ir

// Visitor has one method per instruction kind. Implementations that must
// stay total over the instruction set implement every method directly
// rather than embedding a default, so a new kind fails to compile until
// each of them handles it.
type Visitor interface {
	VisitEmpty(insn *EmptyInstruction)
	VisitClassConstant(insn *ClassConstantInstruction)
	VisitNullConstant(insn *NullConstantInstruction)
	VisitIntegerConstant(insn *IntegerConstantInstruction)
	VisitLongConstant(insn *LongConstantInstruction)
	VisitFloatConstant(insn *FloatConstantInstruction)
	VisitDoubleConstant(insn *DoubleConstantInstruction)
	VisitStringConstant(insn *StringConstantInstruction)
	VisitBinary(insn *BinaryInstruction)
	VisitNegate(insn *NegateInstruction)
	VisitAssign(insn *AssignInstruction)
	VisitCast(insn *CastInstruction)
	VisitCastNumber(insn *CastNumberInstruction)
	VisitCastInteger(insn *CastIntegerInstruction)
	VisitBranching(insn *BranchingInstruction)
	VisitBinaryBranching(insn *BinaryBranchingInstruction)
	VisitJump(insn *JumpInstruction)
	VisitSwitch(insn *SwitchInstruction)
	VisitExit(insn *ExitInstruction)
	VisitRaise(insn *RaiseInstruction)
	VisitConstructArray(insn *ConstructArrayInstruction)
	VisitConstruct(insn *ConstructInstruction)
	VisitConstructMultiArray(insn *ConstructMultiArrayInstruction)
	VisitGetField(insn *GetFieldInstruction)
	VisitPutField(insn *PutFieldInstruction)
	VisitArrayLength(insn *ArrayLengthInstruction)
	VisitCloneArray(insn *CloneArrayInstruction)
	VisitUnwrapArray(insn *UnwrapArrayInstruction)
	VisitGetElement(insn *GetElementInstruction)
	VisitPutElement(insn *PutElementInstruction)
	VisitInvoke(insn *InvokeInstruction)
	VisitIsInstance(insn *IsInstanceInstruction)
	VisitInitClass(insn *InitClassInstruction)
}
