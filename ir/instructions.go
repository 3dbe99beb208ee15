package ir

import "github.com/wippyai/teajs/model"

// Instruction is a single operation of a basic block. The set of kinds is
// closed; each kind dispatches to its own Visitor method.
type Instruction interface {
	// Accept calls the visitor method for the instruction's kind.
	Accept(v Visitor)
	// Block returns the owning block, or nil while detached.
	Block() *BasicBlock
	element
}

type insnBase struct {
	block *BasicBlock
}

func (i *insnBase) Block() *BasicBlock     { return i.block }
func (i *insnBase) owner() *BasicBlock     { return i.block }
func (i *insnBase) setOwner(b *BasicBlock) { i.block = b }

// BinaryOperation is the operator of a BinaryInstruction.
type BinaryOperation byte

const (
	OpAdd BinaryOperation = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpCompare
	OpAnd
	OpOr
	OpXor
	OpShiftLeft
	OpShiftRight
	OpShiftRightUnsigned
)

// NumericOperandType is the arithmetic type of an operation.
type NumericOperandType byte

const (
	NumericInt NumericOperandType = iota
	NumericLong
	NumericFloat
	NumericDouble
)

// BranchingCondition is the test of a single-operand branch.
type BranchingCondition byte

const (
	CondEqual BranchingCondition = iota
	CondNotEqual
	CondLess
	CondLessOrEqual
	CondGreater
	CondGreaterOrEqual
	CondNull
	CondNotNull
)

// BinaryBranchingCondition is the test of a two-operand branch.
type BinaryBranchingCondition byte

const (
	BinEqual BinaryBranchingCondition = iota
	BinNotEqual
	BinReferenceEqual
	BinReferenceNotEqual
)

// IntegerSubtype is the narrow integer type of a CastIntegerInstruction.
type IntegerSubtype byte

const (
	SubtypeByte IntegerSubtype = iota
	SubtypeShort
	SubtypeCharacter
)

// CastDirection tells whether a narrow integer is widened or narrowed.
type CastDirection byte

const (
	FromInteger CastDirection = iota
	ToInteger
)

// ArrayElementType is the storage type of an unwrapped array.
type ArrayElementType byte

const (
	ElementChar ArrayElementType = iota
	ElementByte
	ElementShort
	ElementInt
	ElementLong
	ElementFloat
	ElementDouble
	ElementObject
)

// InvocationType distinguishes statically bound calls from virtual ones.
type InvocationType byte

const (
	InvokeSpecial InvocationType = iota
	InvokeVirtual
)

// EmptyInstruction does nothing.
type EmptyInstruction struct {
	insnBase
}

// ClassConstantInstruction loads a class object.
type ClassConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant model.ValueType
}

// NullConstantInstruction loads null.
type NullConstantInstruction struct {
	insnBase
	Receiver *Variable
}

// IntegerConstantInstruction loads a 32-bit integer.
type IntegerConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant int32
}

// LongConstantInstruction loads a 64-bit integer.
type LongConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant int64
}

// FloatConstantInstruction loads a 32-bit float.
type FloatConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant float32
}

// DoubleConstantInstruction loads a 64-bit float.
type DoubleConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant float64
}

// StringConstantInstruction loads a string literal.
type StringConstantInstruction struct {
	insnBase
	Receiver *Variable
	Constant string
}

// BinaryInstruction computes Receiver = First op Second.
type BinaryInstruction struct {
	insnBase
	Receiver  *Variable
	First     *Variable
	Second    *Variable
	Operation BinaryOperation
	Operand   NumericOperandType
}

// NegateInstruction computes Receiver = -Operand.
type NegateInstruction struct {
	insnBase
	Receiver *Variable
	Value    *Variable
	Operand  NumericOperandType
}

// AssignInstruction copies Assignee into Receiver.
type AssignInstruction struct {
	insnBase
	Receiver *Variable
	Assignee *Variable
}

// CastInstruction performs a checked reference cast.
type CastInstruction struct {
	insnBase
	Receiver   *Variable
	Value      *Variable
	TargetType model.ValueType
}

// CastNumberInstruction converts between numeric types.
type CastNumberInstruction struct {
	insnBase
	Receiver   *Variable
	Value      *Variable
	SourceType NumericOperandType
	TargetType NumericOperandType
}

// CastIntegerInstruction widens or narrows a byte/short/char value.
type CastIntegerInstruction struct {
	insnBase
	Receiver   *Variable
	Value      *Variable
	TargetType IntegerSubtype
	Direction  CastDirection
}

// BranchingInstruction transfers control on a single-operand condition.
type BranchingInstruction struct {
	insnBase
	Operand     *Variable
	Consequent  *BasicBlock
	Alternative *BasicBlock
	Condition   BranchingCondition
}

// BinaryBranchingInstruction transfers control on a two-operand condition.
type BinaryBranchingInstruction struct {
	insnBase
	First       *Variable
	Second      *Variable
	Consequent  *BasicBlock
	Alternative *BasicBlock
	Condition   BinaryBranchingCondition
}

// JumpInstruction transfers control unconditionally.
type JumpInstruction struct {
	insnBase
	Target *BasicBlock
}

// SwitchTableEntry is one case of a SwitchInstruction.
type SwitchTableEntry struct {
	Target    *BasicBlock
	Condition int32
}

// SwitchInstruction transfers control by table lookup.
type SwitchInstruction struct {
	insnBase
	Condition     *Variable
	DefaultTarget *BasicBlock
	Entries       []*SwitchTableEntry
}

// ExitInstruction returns from the method, with ValueToReturn if non-nil.
type ExitInstruction struct {
	insnBase
	ValueToReturn *Variable
}

// RaiseInstruction throws Exception.
type RaiseInstruction struct {
	insnBase
	Exception *Variable
}

// ConstructArrayInstruction allocates a one-dimensional array.
type ConstructArrayInstruction struct {
	insnBase
	Receiver *Variable
	Size     *Variable
	ItemType model.ValueType
}

// ConstructInstruction allocates an uninitialized object of Type.
type ConstructInstruction struct {
	insnBase
	Receiver *Variable
	Type     string
}

// ConstructMultiArrayInstruction allocates a multi-dimensional array.
type ConstructMultiArrayInstruction struct {
	insnBase
	Receiver   *Variable
	ItemType   model.ValueType
	Dimensions []*Variable
}

// GetFieldInstruction reads a field; Instance is nil for static fields.
type GetFieldInstruction struct {
	insnBase
	Receiver  *Variable
	Instance  *Variable
	FieldType model.ValueType
	Field     model.FieldReference
}

// PutFieldInstruction writes a field; Instance is nil for static fields.
type PutFieldInstruction struct {
	insnBase
	Instance *Variable
	Value    *Variable
	Field    model.FieldReference
}

// ArrayLengthInstruction reads the length of Array.
type ArrayLengthInstruction struct {
	insnBase
	Receiver *Variable
	Array    *Variable
}

// CloneArrayInstruction makes a shallow copy of Array.
type CloneArrayInstruction struct {
	insnBase
	Receiver *Variable
	Array    *Variable
}

// UnwrapArrayInstruction exposes the host storage of Array.
type UnwrapArrayInstruction struct {
	insnBase
	Receiver    *Variable
	Array       *Variable
	ElementType ArrayElementType
}

// GetElementInstruction reads Array[Index].
type GetElementInstruction struct {
	insnBase
	Receiver *Variable
	Array    *Variable
	Index    *Variable
}

// PutElementInstruction writes Array[Index] = Value.
type PutElementInstruction struct {
	insnBase
	Array *Variable
	Index *Variable
	Value *Variable
}

// InvokeInstruction calls Method. Instance is nil for static calls and
// Receiver is nil when the result is discarded or void.
type InvokeInstruction struct {
	insnBase
	Receiver  *Variable
	Instance  *Variable
	Method    model.MethodReference
	Arguments []*Variable
	Type      InvocationType
}

// IsInstanceInstruction tests Value against Type.
type IsInstanceInstruction struct {
	insnBase
	Receiver *Variable
	Value    *Variable
	Type     model.ValueType
}

// InitClassInstruction runs the static initializer of ClassName.
type InitClassInstruction struct {
	insnBase
	ClassName string
}

func (i *EmptyInstruction) Accept(v Visitor)               { v.VisitEmpty(i) }
func (i *ClassConstantInstruction) Accept(v Visitor)       { v.VisitClassConstant(i) }
func (i *NullConstantInstruction) Accept(v Visitor)        { v.VisitNullConstant(i) }
func (i *IntegerConstantInstruction) Accept(v Visitor)     { v.VisitIntegerConstant(i) }
func (i *LongConstantInstruction) Accept(v Visitor)        { v.VisitLongConstant(i) }
func (i *FloatConstantInstruction) Accept(v Visitor)       { v.VisitFloatConstant(i) }
func (i *DoubleConstantInstruction) Accept(v Visitor)      { v.VisitDoubleConstant(i) }
func (i *StringConstantInstruction) Accept(v Visitor)      { v.VisitStringConstant(i) }
func (i *BinaryInstruction) Accept(v Visitor)              { v.VisitBinary(i) }
func (i *NegateInstruction) Accept(v Visitor)              { v.VisitNegate(i) }
func (i *AssignInstruction) Accept(v Visitor)              { v.VisitAssign(i) }
func (i *CastInstruction) Accept(v Visitor)                { v.VisitCast(i) }
func (i *CastNumberInstruction) Accept(v Visitor)          { v.VisitCastNumber(i) }
func (i *CastIntegerInstruction) Accept(v Visitor)         { v.VisitCastInteger(i) }
func (i *BranchingInstruction) Accept(v Visitor)           { v.VisitBranching(i) }
func (i *BinaryBranchingInstruction) Accept(v Visitor)     { v.VisitBinaryBranching(i) }
func (i *JumpInstruction) Accept(v Visitor)                { v.VisitJump(i) }
func (i *SwitchInstruction) Accept(v Visitor)              { v.VisitSwitch(i) }
func (i *ExitInstruction) Accept(v Visitor)                { v.VisitExit(i) }
func (i *RaiseInstruction) Accept(v Visitor)               { v.VisitRaise(i) }
func (i *ConstructArrayInstruction) Accept(v Visitor)      { v.VisitConstructArray(i) }
func (i *ConstructInstruction) Accept(v Visitor)           { v.VisitConstruct(i) }
func (i *ConstructMultiArrayInstruction) Accept(v Visitor) { v.VisitConstructMultiArray(i) }
func (i *GetFieldInstruction) Accept(v Visitor)            { v.VisitGetField(i) }
func (i *PutFieldInstruction) Accept(v Visitor)            { v.VisitPutField(i) }
func (i *ArrayLengthInstruction) Accept(v Visitor)         { v.VisitArrayLength(i) }
func (i *CloneArrayInstruction) Accept(v Visitor)          { v.VisitCloneArray(i) }
func (i *UnwrapArrayInstruction) Accept(v Visitor)         { v.VisitUnwrapArray(i) }
func (i *GetElementInstruction) Accept(v Visitor)          { v.VisitGetElement(i) }
func (i *PutElementInstruction) Accept(v Visitor)          { v.VisitPutElement(i) }
func (i *InvokeInstruction) Accept(v Visitor)              { v.VisitInvoke(i) }
func (i *IsInstanceInstruction) Accept(v Visitor)          { v.VisitIsInstance(i) }
func (i *InitClassInstruction) Accept(v Visitor)           { v.VisitInitClass(i) }
