package decompile

import (
	"slices"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

// DecompileMethod turns an allocated method into a statement tree. Every
// variable of the program must carry a register.
//
// A program whose entry block has no successors becomes a flat body. Any
// other program becomes a DispatchLoop with one case per block, where each
// control transfer first performs the target's phi moves and then
// continues the loop at the target.
func DecompileMethod(m *classes.Method) (*MethodNode, error) {
	ref := m.Reference()
	node := &MethodNode{Reference: ref, Modifiers: m.Modifiers}
	params := len(m.Descriptor.Params)
	if !m.Modifiers.Has(model.Static) {
		params++
	}
	for i := 0; i < params; i++ {
		node.Parameters = append(node.Parameters, i)
	}
	if !m.HasBody() {
		return node, nil
	}

	p := m.Program
	locals := make(map[int]struct{})
	for i := 0; i < p.VariableCount(); i++ {
		v := p.VariableAt(i)
		if v.Register == ir.NoRegister {
			return nil, errors.New(errors.PhaseDecompile, errors.KindInvalidInput).
				Detail("%v has no register", v).
				Path(ref.String()).
				Build()
		}
		if v.Register >= params {
			locals[v.Register] = struct{}{}
		}
	}
	for r := range locals {
		node.Variables = append(node.Variables, r)
	}
	slices.Sort(node.Variables)

	t := &translator{}
	entry := p.BasicBlockAt(0)
	if p.BasicBlockCount() == 1 && len(ir.Successors(entry)) == 0 {
		body, err := t.block(entry)
		if err != nil {
			return nil, wrapMethod(ref, err)
		}
		node.Body = body
		return node, nil
	}

	loop := &DispatchLoop{}
	for _, b := range p.BasicBlocks() {
		body, err := t.block(b)
		if err != nil {
			return nil, wrapMethod(ref, err)
		}
		loop.Blocks = append(loop.Blocks, &BlockCase{Index: b.Index(), Body: body})
	}
	node.Body = []Statement{loop}
	return node, nil
}

func wrapMethod(ref model.MethodReference, err error) error {
	return errors.New(errors.PhaseDecompile, errors.KindInvalidInput).
		Detail("cannot decompile method").
		Path(ref.String()).
		Cause(err).
		Build()
}

// translator converts the instructions of one block. It implements
// ir.Visitor; each Visit method appends to out.
type translator struct {
	current *ir.BasicBlock
	out     []Statement
	ended   bool
}

var _ ir.Visitor = (*translator)(nil)

func (t *translator) block(b *ir.BasicBlock) ([]Statement, error) {
	t.current = b
	t.out = nil
	t.ended = false
	for _, insn := range b.Instructions().All() {
		if t.ended {
			return nil, errors.InvalidInput(errors.PhaseDecompile, "instruction after terminator in block "+b.String())
		}
		insn.Accept(t)
	}
	if !t.ended {
		return nil, errors.InvalidInput(errors.PhaseDecompile, "block "+b.String()+" does not end with a terminator")
	}
	return t.out, nil
}

func (t *translator) emit(s Statement) {
	t.out = append(t.out, s)
}

func (t *translator) assign(receiver *ir.Variable, value Expr) {
	t.emit(&AssignStatement{Target: reg(receiver), Value: value})
}

// transfer returns the statements moving control from the current block
// to target: the parallel phi moves followed by the jump.
func (t *translator) transfer(target *ir.BasicBlock) []Statement {
	var result []Statement
	move := &MoveStatement{}
	for _, phi := range target.Phis().All() {
		in := phi.IncomingFrom(t.current)
		if in == nil {
			continue
		}
		if in.Value.Register == phi.Receiver.Register {
			continue
		}
		move.Targets = append(move.Targets, phi.Receiver.Register)
		move.Sources = append(move.Sources, in.Value.Register)
	}
	if len(move.Targets) > 0 {
		result = append(result, move)
	}
	return append(result, &GotoStatement{Block: target.Index()})
}

func reg(v *ir.Variable) *VarExpr {
	return &VarExpr{Register: v.Register}
}

func regs(vs []*ir.Variable) []Expr {
	result := make([]Expr, len(vs))
	for i, v := range vs {
		result[i] = reg(v)
	}
	return result
}

func (t *translator) VisitEmpty(*ir.EmptyInstruction) {}

func (t *translator) VisitClassConstant(insn *ir.ClassConstantInstruction) {
	t.assign(insn.Receiver, &ClassConstExpr{Type: insn.Constant})
}

func (t *translator) VisitNullConstant(insn *ir.NullConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{})
}

func (t *translator) VisitIntegerConstant(insn *ir.IntegerConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{Value: insn.Constant})
}

func (t *translator) VisitLongConstant(insn *ir.LongConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{Value: insn.Constant})
}

func (t *translator) VisitFloatConstant(insn *ir.FloatConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{Value: insn.Constant})
}

func (t *translator) VisitDoubleConstant(insn *ir.DoubleConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{Value: insn.Constant})
}

func (t *translator) VisitStringConstant(insn *ir.StringConstantInstruction) {
	t.assign(insn.Receiver, &ConstExpr{Value: insn.Constant})
}

func (t *translator) VisitBinary(insn *ir.BinaryInstruction) {
	t.assign(insn.Receiver, &BinaryExpr{
		Operation: insn.Operation,
		Operand:   insn.Operand,
		Left:      reg(insn.First),
		Right:     reg(insn.Second),
	})
}

func (t *translator) VisitNegate(insn *ir.NegateInstruction) {
	t.assign(insn.Receiver, &NegateExpr{Operand: insn.Operand, Value: reg(insn.Value)})
}

func (t *translator) VisitAssign(insn *ir.AssignInstruction) {
	// Coalesced copies are no-ops.
	if insn.Receiver.Register == insn.Assignee.Register {
		return
	}
	t.assign(insn.Receiver, reg(insn.Assignee))
}

func (t *translator) VisitCast(insn *ir.CastInstruction) {
	t.assign(insn.Receiver, &CastExpr{Type: insn.TargetType, Value: reg(insn.Value)})
}

func (t *translator) VisitCastNumber(insn *ir.CastNumberInstruction) {
	t.assign(insn.Receiver, &CastNumberExpr{Source: insn.SourceType, Target: insn.TargetType, Value: reg(insn.Value)})
}

func (t *translator) VisitCastInteger(insn *ir.CastIntegerInstruction) {
	t.assign(insn.Receiver, &CastIntegerExpr{Subtype: insn.TargetType, Direction: insn.Direction, Value: reg(insn.Value)})
}

var branchOperators = map[ir.BranchingCondition]string{
	ir.CondEqual:          "==",
	ir.CondNotEqual:       "!=",
	ir.CondLess:           "<",
	ir.CondLessOrEqual:    "<=",
	ir.CondGreater:        ">",
	ir.CondGreaterOrEqual: ">=",
	ir.CondNull:           "===",
	ir.CondNotNull:        "!==",
}

var binaryBranchOperators = map[ir.BinaryBranchingCondition]string{
	ir.BinEqual:             "==",
	ir.BinNotEqual:          "!=",
	ir.BinReferenceEqual:    "===",
	ir.BinReferenceNotEqual: "!==",
}

func (t *translator) VisitBranching(insn *ir.BranchingInstruction) {
	var cond *ConditionExpr
	switch insn.Condition {
	case ir.CondNull, ir.CondNotNull:
		cond = &ConditionExpr{Operator: branchOperators[insn.Condition], Left: reg(insn.Operand), Right: &ConstExpr{}}
	default:
		cond = &ConditionExpr{Operator: branchOperators[insn.Condition], Left: reg(insn.Operand), Right: &ConstExpr{Value: int32(0)}}
	}
	t.emit(&IfStatement{
		Condition: cond,
		Then:      t.transfer(insn.Consequent),
		Else:      t.transfer(insn.Alternative),
	})
	t.ended = true
}

func (t *translator) VisitBinaryBranching(insn *ir.BinaryBranchingInstruction) {
	t.emit(&IfStatement{
		Condition: &ConditionExpr{
			Operator: binaryBranchOperators[insn.Condition],
			Left:     reg(insn.First),
			Right:    reg(insn.Second),
		},
		Then: t.transfer(insn.Consequent),
		Else: t.transfer(insn.Alternative),
	})
	t.ended = true
}

func (t *translator) VisitJump(insn *ir.JumpInstruction) {
	t.out = append(t.out, t.transfer(insn.Target)...)
	t.ended = true
}

func (t *translator) VisitSwitch(insn *ir.SwitchInstruction) {
	s := &SwitchStatement{Value: reg(insn.Condition)}
	// Entries sharing a target share a clause, in order of first appearance.
	byTarget := make(map[*ir.BasicBlock]*SwitchClause)
	for _, e := range insn.Entries {
		clause, ok := byTarget[e.Target]
		if !ok {
			clause = &SwitchClause{Body: t.transfer(e.Target)}
			byTarget[e.Target] = clause
			s.Clauses = append(s.Clauses, clause)
		}
		clause.Values = append(clause.Values, e.Condition)
	}
	s.Default = t.transfer(insn.DefaultTarget)
	t.emit(s)
	t.ended = true
}

func (t *translator) VisitExit(insn *ir.ExitInstruction) {
	ret := &ReturnStatement{}
	if insn.ValueToReturn != nil {
		ret.Value = reg(insn.ValueToReturn)
	}
	t.emit(ret)
	t.ended = true
}

func (t *translator) VisitRaise(insn *ir.RaiseInstruction) {
	t.emit(&ThrowStatement{Value: reg(insn.Exception)})
	t.ended = true
}

func (t *translator) VisitConstructArray(insn *ir.ConstructArrayInstruction) {
	t.assign(insn.Receiver, &NewArrayExpr{ItemType: insn.ItemType, Size: reg(insn.Size)})
}

func (t *translator) VisitConstruct(insn *ir.ConstructInstruction) {
	t.assign(insn.Receiver, &NewExpr{ClassName: insn.Type})
}

func (t *translator) VisitConstructMultiArray(insn *ir.ConstructMultiArrayInstruction) {
	t.assign(insn.Receiver, &NewMultiArrayExpr{ItemType: insn.ItemType, Dimensions: regs(insn.Dimensions)})
}

func (t *translator) VisitGetField(insn *ir.GetFieldInstruction) {
	f := &FieldExpr{Field: insn.Field}
	if insn.Instance != nil {
		f.Instance = reg(insn.Instance)
	}
	t.assign(insn.Receiver, f)
}

func (t *translator) VisitPutField(insn *ir.PutFieldInstruction) {
	f := &FieldExpr{Field: insn.Field}
	if insn.Instance != nil {
		f.Instance = reg(insn.Instance)
	}
	t.emit(&AssignStatement{Target: f, Value: reg(insn.Value)})
}

func (t *translator) VisitArrayLength(insn *ir.ArrayLengthInstruction) {
	t.assign(insn.Receiver, &ArrayLengthExpr{Array: reg(insn.Array)})
}

func (t *translator) VisitCloneArray(insn *ir.CloneArrayInstruction) {
	t.assign(insn.Receiver, &CloneArrayExpr{Array: reg(insn.Array)})
}

func (t *translator) VisitUnwrapArray(insn *ir.UnwrapArrayInstruction) {
	t.assign(insn.Receiver, &UnwrapArrayExpr{ElementType: insn.ElementType, Array: reg(insn.Array)})
}

func (t *translator) VisitGetElement(insn *ir.GetElementInstruction) {
	t.assign(insn.Receiver, &ElementExpr{Array: reg(insn.Array), Index: reg(insn.Index)})
}

func (t *translator) VisitPutElement(insn *ir.PutElementInstruction) {
	t.emit(&AssignStatement{
		Target: &ElementExpr{Array: reg(insn.Array), Index: reg(insn.Index)},
		Value:  reg(insn.Value),
	})
}

func (t *translator) VisitInvoke(insn *ir.InvokeInstruction) {
	call := &InvokeExpr{
		Method:    insn.Method,
		Arguments: regs(insn.Arguments),
		Virtual:   insn.Type == ir.InvokeVirtual,
	}
	if insn.Instance != nil {
		call.Instance = reg(insn.Instance)
	}
	if insn.Receiver == nil {
		t.emit(&ExprStatement{Value: call})
		return
	}
	t.assign(insn.Receiver, call)
}

func (t *translator) VisitIsInstance(insn *ir.IsInstanceInstruction) {
	t.assign(insn.Receiver, &InstanceOfExpr{Value: reg(insn.Value), Type: insn.Type})
}

func (t *translator) VisitInitClass(insn *ir.InitClassInstruction) {
	t.emit(&InitClassStatement{ClassName: insn.ClassName})
}
