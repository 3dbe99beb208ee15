package ir

import (
	"fmt"
	"strconv"
	"strings"
)

var binaryOperators = [...]string{
	OpAdd:                "+",
	OpSubtract:           "-",
	OpMultiply:           "*",
	OpDivide:             "/",
	OpModulo:             "%",
	OpCompare:            "compareTo",
	OpAnd:                "&",
	OpOr:                 "|",
	OpXor:                "^",
	OpShiftLeft:          "<<",
	OpShiftRight:         ">>",
	OpShiftRightUnsigned: ">>>",
}

// String returns the operator symbol.
func (op BinaryOperation) String() string {
	if int(op) < len(binaryOperators) {
		return binaryOperators[op]
	}
	return "?"
}

var numericNames = [...]string{
	NumericInt:    "int",
	NumericLong:   "long",
	NumericFloat:  "float",
	NumericDouble: "double",
}

// String returns the numeric type name.
func (t NumericOperandType) String() string {
	if int(t) < len(numericNames) {
		return numericNames[t]
	}
	return "?"
}

var branchingConditions = [...]string{
	CondEqual:          "== 0",
	CondNotEqual:       "!= 0",
	CondLess:           "< 0",
	CondLessOrEqual:    "<= 0",
	CondGreater:        "> 0",
	CondGreaterOrEqual: ">= 0",
	CondNull:           "== null",
	CondNotNull:        "!= null",
}

// String returns the comparison against the implicit zero/null operand.
func (c BranchingCondition) String() string {
	if int(c) < len(branchingConditions) {
		return branchingConditions[c]
	}
	return "?"
}

var binaryBranchingConditions = [...]string{
	BinEqual:             "==",
	BinNotEqual:          "!=",
	BinReferenceEqual:    "===",
	BinReferenceNotEqual: "!==",
}

// String returns the comparison operator.
func (c BinaryBranchingCondition) String() string {
	if int(c) < len(binaryBranchingConditions) {
		return binaryBranchingConditions[c]
	}
	return "?"
}

// Listing renders p as text, one line per phi and instruction, each block
// introduced by its "$index:" label. Every line starts with prefix.
func Listing(p *Program, prefix string) string {
	var b strings.Builder
	l := &listingPrinter{b: &b}
	for _, block := range p.blocks {
		if block == nil {
			continue
		}
		b.WriteString(prefix)
		b.WriteString(block.String())
		b.WriteString(":\n")
		for _, phi := range block.phis.items {
			b.WriteString(prefix)
			b.WriteString("    ")
			l.phi(phi)
			b.WriteByte('\n')
		}
		for _, insn := range block.instructions.items {
			b.WriteString(prefix)
			b.WriteString("    ")
			insn.Accept(l)
			b.WriteByte('\n')
		}
	}
	return b.String()
}

var _ Visitor = (*listingPrinter)(nil)

type listingPrinter struct {
	b *strings.Builder
}

func (l *listingPrinter) printf(format string, args ...any) {
	fmt.Fprintf(l.b, format, args...)
}

func (l *listingPrinter) phi(phi *Phi) {
	l.printf("%v := phi", phi.Receiver)
	for i, in := range phi.Incomings {
		if i > 0 {
			l.b.WriteByte(',')
		}
		l.printf(" %v from %v", in.Value, in.Source)
	}
}

func vars(vs []*Variable) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func (l *listingPrinter) VisitEmpty(*EmptyInstruction) {
	l.b.WriteString("nop")
}

func (l *listingPrinter) VisitClassConstant(insn *ClassConstantInstruction) {
	l.printf("%v := classOf %s", insn.Receiver, insn.Constant.Name())
}

func (l *listingPrinter) VisitNullConstant(insn *NullConstantInstruction) {
	l.printf("%v := null", insn.Receiver)
}

func (l *listingPrinter) VisitIntegerConstant(insn *IntegerConstantInstruction) {
	l.printf("%v := %d", insn.Receiver, insn.Constant)
}

func (l *listingPrinter) VisitLongConstant(insn *LongConstantInstruction) {
	l.printf("%v := %dL", insn.Receiver, insn.Constant)
}

func (l *listingPrinter) VisitFloatConstant(insn *FloatConstantInstruction) {
	l.printf("%v := %sF", insn.Receiver, strconv.FormatFloat(float64(insn.Constant), 'g', -1, 32))
}

func (l *listingPrinter) VisitDoubleConstant(insn *DoubleConstantInstruction) {
	l.printf("%v := %s", insn.Receiver, strconv.FormatFloat(insn.Constant, 'g', -1, 64))
}

func (l *listingPrinter) VisitStringConstant(insn *StringConstantInstruction) {
	l.printf("%v := %s", insn.Receiver, strconv.Quote(insn.Constant))
}

func (l *listingPrinter) VisitBinary(insn *BinaryInstruction) {
	l.printf("%v := %v %v %v as %v", insn.Receiver, insn.First, insn.Operation, insn.Second, insn.Operand)
}

func (l *listingPrinter) VisitNegate(insn *NegateInstruction) {
	l.printf("%v := -%v as %v", insn.Receiver, insn.Value, insn.Operand)
}

func (l *listingPrinter) VisitAssign(insn *AssignInstruction) {
	l.printf("%v := %v", insn.Receiver, insn.Assignee)
}

func (l *listingPrinter) VisitCast(insn *CastInstruction) {
	l.printf("%v := cast %v to %s", insn.Receiver, insn.Value, insn.TargetType.Name())
}

func (l *listingPrinter) VisitCastNumber(insn *CastNumberInstruction) {
	l.printf("%v := cast %v from %v to %v", insn.Receiver, insn.Value, insn.SourceType, insn.TargetType)
}

func (l *listingPrinter) VisitCastInteger(insn *CastIntegerInstruction) {
	l.printf("%v := cast %v subtype %d direction %d", insn.Receiver, insn.Value, insn.TargetType, insn.Direction)
}

func (l *listingPrinter) VisitBranching(insn *BranchingInstruction) {
	l.printf("if %v %v then goto %v else goto %v", insn.Operand, insn.Condition, insn.Consequent, insn.Alternative)
}

func (l *listingPrinter) VisitBinaryBranching(insn *BinaryBranchingInstruction) {
	l.printf("if %v %v %v then goto %v else goto %v",
		insn.First, insn.Condition, insn.Second, insn.Consequent, insn.Alternative)
}

func (l *listingPrinter) VisitJump(insn *JumpInstruction) {
	l.printf("goto %v", insn.Target)
}

func (l *listingPrinter) VisitSwitch(insn *SwitchInstruction) {
	l.printf("switch %v", insn.Condition)
	for _, e := range insn.Entries {
		l.printf(" if %d goto %v", e.Condition, e.Target)
	}
	l.printf(" else goto %v", insn.DefaultTarget)
}

func (l *listingPrinter) VisitExit(insn *ExitInstruction) {
	if insn.ValueToReturn != nil {
		l.printf("return %v", insn.ValueToReturn)
	} else {
		l.b.WriteString("return")
	}
}

func (l *listingPrinter) VisitRaise(insn *RaiseInstruction) {
	l.printf("throw %v", insn.Exception)
}

func (l *listingPrinter) VisitConstructArray(insn *ConstructArrayInstruction) {
	l.printf("%v := new %s[%v]", insn.Receiver, insn.ItemType.Name(), insn.Size)
}

func (l *listingPrinter) VisitConstruct(insn *ConstructInstruction) {
	l.printf("%v := new %s", insn.Receiver, insn.Type)
}

func (l *listingPrinter) VisitConstructMultiArray(insn *ConstructMultiArrayInstruction) {
	l.printf("%v := new %s", insn.Receiver, insn.ItemType.Name())
	for _, d := range insn.Dimensions {
		l.printf("[%v]", d)
	}
}

func (l *listingPrinter) VisitGetField(insn *GetFieldInstruction) {
	if insn.Instance != nil {
		l.printf("%v := field %v.%s", insn.Receiver, insn.Instance, insn.Field.FieldName)
	} else {
		l.printf("%v := field %s", insn.Receiver, insn.Field)
	}
}

func (l *listingPrinter) VisitPutField(insn *PutFieldInstruction) {
	if insn.Instance != nil {
		l.printf("field %v.%s := %v", insn.Instance, insn.Field.FieldName, insn.Value)
	} else {
		l.printf("field %s := %v", insn.Field, insn.Value)
	}
}

func (l *listingPrinter) VisitArrayLength(insn *ArrayLengthInstruction) {
	l.printf("%v := lengthOf %v", insn.Receiver, insn.Array)
}

func (l *listingPrinter) VisitCloneArray(insn *CloneArrayInstruction) {
	l.printf("%v := clone %v", insn.Receiver, insn.Array)
}

func (l *listingPrinter) VisitUnwrapArray(insn *UnwrapArrayInstruction) {
	l.printf("%v := data %v", insn.Receiver, insn.Array)
}

func (l *listingPrinter) VisitGetElement(insn *GetElementInstruction) {
	l.printf("%v := %v[%v]", insn.Receiver, insn.Array, insn.Index)
}

func (l *listingPrinter) VisitPutElement(insn *PutElementInstruction) {
	l.printf("%v[%v] := %v", insn.Array, insn.Index, insn.Value)
}

func (l *listingPrinter) VisitInvoke(insn *InvokeInstruction) {
	if insn.Receiver != nil {
		l.printf("%v := ", insn.Receiver)
	}
	kind := "invoke"
	if insn.Type == InvokeVirtual {
		kind = "invokeVirtual"
	}
	if insn.Instance != nil {
		l.printf("%s %v.%s(%s)", kind, insn.Instance, insn.Method, vars(insn.Arguments))
	} else {
		l.printf("%s %s(%s)", kind, insn.Method, vars(insn.Arguments))
	}
}

func (l *listingPrinter) VisitIsInstance(insn *IsInstanceInstruction) {
	l.printf("%v := %v instanceOf %s", insn.Receiver, insn.Value, insn.Type.Name())
}

func (l *listingPrinter) VisitInitClass(insn *InitClassInstruction) {
	l.printf("initclass %s", insn.ClassName)
}
