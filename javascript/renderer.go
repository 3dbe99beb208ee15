package javascript

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/codegen"
	"github.com/wippyai/teajs/decompile"
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

const (
	dispatchVar   = "$block"
	dispatchLabel = "$loop"
)

var (
	stringInit  = model.NewMethodDescriptor("<init>", model.ArrayOf(model.CharacterType), model.VoidType).String()
	classCreate = model.NewMethodDescriptor("createNew", model.ObjectType("java.lang.Class")).String()
)

// Renderer writes decompiled classes as script source.
type Renderer struct {
	w      *codegen.SourceWriter
	source classes.Source
}

// NewRenderer creates a renderer. source tells which classes exist in the
// output; references to other classes are emitted by name only.
func NewRenderer(w *codegen.SourceWriter, source classes.Source) *Renderer {
	return &Renderer{w: w, source: source}
}

// RenderRuntime writes the runtime support text.
func (r *Renderer) RenderRuntime(text string) error {
	text = strings.TrimRight(text, "\n")
	for _, line := range strings.Split(text, "\n") {
		r.w.Append(line).NewLine()
	}
	return r.err()
}

// Render writes one class: its constructor, class metadata, static
// initialization and method bodies.
func (r *Renderer) Render(cls *decompile.ClassNode) error {
	w := r.w
	w.Append("function ").AppendClass(cls.Name).Append("()").Ws().Append("{").SoftNewLine().Indent()
	if r.exists(cls.Parent) {
		w.AppendClass(cls.Parent).Append(".call(this);").SoftNewLine()
	}
	for _, f := range cls.Fields {
		if f.Static {
			continue
		}
		w.Append("this.").AppendField(f.Reference).Ws().Append("=").Ws()
		r.constant(f.Initial, fieldType(r.source, f.Reference))
		w.Append(";").SoftNewLine()
	}
	w.Outdent().Append("}").NewLine()

	w.Append("$rt_declClass(").AppendClass(cls.Name).Append(",").Ws().Append("{").
		Append("name:").Ws().Append(quote(cls.Name))
	if r.exists(cls.Parent) {
		w.Append(",").Ws().Append("parent:").Ws().AppendClass(cls.Parent)
	}
	var ifaces []string
	for _, iface := range cls.Interfaces {
		if r.exists(iface) {
			ifaces = append(ifaces, iface)
		}
	}
	if len(ifaces) > 0 {
		w.Append(",").Ws().Append("interfaces:").Ws().Append("[")
		for i, iface := range ifaces {
			if i > 0 {
				w.Append(",").Ws()
			}
			w.AppendClass(iface)
		}
		w.Append("]")
	}
	w.Append("});").NewLine()

	r.renderStatics(cls)
	for _, m := range cls.Methods {
		r.renderMethod(m)
	}
	r.renderHooks(cls)
	return r.err()
}

// RenderEntryPoint binds a public name to a method body.
func (r *Renderer) RenderEntryPoint(name string, method model.MethodReference) error {
	r.w.Append(name).Ws().Append("=").Ws().AppendMethodBody(method).Append(";").SoftNewLine()
	return r.err()
}

// RenderExport binds a public name to a class constructor.
func (r *Renderer) RenderExport(name, className string) error {
	r.w.Append(name).Ws().Append("=").Ws().AppendClass(className).Append(";").SoftNewLine()
	return r.err()
}

func (r *Renderer) err() error {
	if err := r.w.Err(); err != nil {
		return errors.IO(errors.PhaseRender, "write output", err)
	}
	return nil
}

func (r *Renderer) exists(className string) bool {
	return className != "" && r.source != nil && r.source.Get(className) != nil
}

func fieldType(source classes.Source, ref model.FieldReference) model.ValueType {
	if source == nil {
		return nil
	}
	if cls := source.Get(ref.ClassName); cls != nil {
		if f := cls.Field(ref.FieldName); f != nil {
			return f.Type
		}
	}
	return nil
}

// renderStatics declares static fields with their zero values and emits
// the class initializer when the class has static constants or a <clinit>.
func (r *Renderer) renderStatics(cls *decompile.ClassNode) {
	w := r.w
	var clinit *decompile.MethodNode
	for _, m := range cls.Methods {
		if m.Reference.Name() == "<clinit>" && m.Body != nil {
			clinit = m
		}
	}
	var constants []*decompile.FieldNode
	for _, f := range cls.Fields {
		if !f.Static {
			continue
		}
		w.AppendClass(cls.Name).Append(".").AppendField(f.Reference).Ws().Append("=").Ws()
		r.constant(nil, fieldType(r.source, f.Reference))
		w.Append(";").SoftNewLine()
		if f.Initial != nil {
			constants = append(constants, f)
		}
	}
	if clinit == nil && len(constants) == 0 {
		return
	}
	w.AppendClass(cls.Name).Append(".$clinit").Ws().Append("=").Ws().Append("function()").Ws().Append("{").SoftNewLine().Indent()
	w.AppendClass(cls.Name).Append(".$clinit").Ws().Append("=").Ws().Append("function()").Ws().Append("{};").SoftNewLine()
	for _, f := range constants {
		w.AppendClass(cls.Name).Append(".").AppendField(f.Reference).Ws().Append("=").Ws()
		r.constant(f.Initial, nil)
		w.Append(";").SoftNewLine()
	}
	if clinit != nil {
		w.AppendMethodBody(clinit.Reference).Append("();").SoftNewLine()
	}
	w.Outdent().Append("};").NewLine()
}

// renderHooks connects runtime support to the classes it depends on.
func (r *Renderer) renderHooks(cls *decompile.ClassNode) {
	w := r.w
	for _, m := range cls.Methods {
		if m.Body == nil {
			continue
		}
		switch {
		case cls.Name == "java.lang.String" && m.Reference.Descriptor.String() == stringInit:
			w.Append("$rt_stringClass").Ws().Append("=").Ws().AppendClass(cls.Name).Append(";").SoftNewLine()
			w.Append("$rt_stringInit").Ws().Append("=").Ws().AppendMethodBody(m.Reference).Append(";").SoftNewLine()
		case cls.Name == "java.lang.Class" && m.Reference.Descriptor.String() == classCreate:
			w.Append("$rt_classCreate").Ws().Append("=").Ws().AppendMethodBody(m.Reference).Append(";").SoftNewLine()
		}
	}
}

func (r *Renderer) renderMethod(m *decompile.MethodNode) {
	if m.Body == nil {
		return
	}
	w := r.w
	w.Append("function ").AppendMethodBody(m.Reference).Append("(")
	r.registers(m.Parameters)
	w.Append(")").Ws().Append("{").SoftNewLine().Indent()
	if len(m.Variables) > 0 {
		w.Append("var ")
		r.registers(m.Variables)
		w.Append(";").SoftNewLine()
	}
	r.statements(m.Body)
	w.Outdent().Append("}").NewLine()

	if m.Static() || strings.HasPrefix(m.Reference.Name(), "<") {
		return
	}
	// Virtual dispatch goes through the prototype.
	args := m.Parameters[1:]
	w.AppendClass(m.Reference.ClassName).Append(".prototype.").AppendMethod(m.Reference).Ws().Append("=").Ws().
		Append("function(")
	r.registers(args)
	w.Append(")").Ws().Append("{").Ws().Append("return ").AppendMethodBody(m.Reference).Append("(this")
	for _, a := range args {
		w.Append(",").Ws().AppendVariable(a)
	}
	w.Append(");").Ws().Append("};").NewLine()
}

func (r *Renderer) registers(regs []int) {
	for i, reg := range regs {
		if i > 0 {
			r.w.Append(",").Ws()
		}
		r.w.AppendVariable(reg)
	}
}

func (r *Renderer) statements(stmts []decompile.Statement) {
	for _, s := range stmts {
		r.statement(s)
	}
}

func (r *Renderer) block(stmts []decompile.Statement) {
	r.w.Append("{").SoftNewLine().Indent()
	r.statements(stmts)
	r.w.Outdent().Append("}")
}

func (r *Renderer) statement(s decompile.Statement) {
	w := r.w
	switch s := s.(type) {
	case *decompile.AssignStatement:
		r.expr(s.Target)
		w.Ws().Append("=").Ws()
		r.expr(s.Value)
		w.Append(";").SoftNewLine()
	case *decompile.ExprStatement:
		r.expr(s.Value)
		w.Append(";").SoftNewLine()
	case *decompile.MoveStatement:
		if len(s.Targets) == 1 {
			w.AppendVariable(s.Targets[0]).Ws().Append("=").Ws().AppendVariable(s.Sources[0]).Append(";").SoftNewLine()
			return
		}
		w.Append("[")
		r.registers(s.Targets)
		w.Append("]").Ws().Append("=").Ws().Append("[")
		r.registers(s.Sources)
		w.Append("];").SoftNewLine()
	case *decompile.ReturnStatement:
		w.Append("return")
		if s.Value != nil {
			w.Append(" ")
			r.expr(s.Value)
		}
		w.Append(";").SoftNewLine()
	case *decompile.ThrowStatement:
		w.Append("throw ")
		r.expr(s.Value)
		w.Append(";").SoftNewLine()
	case *decompile.IfStatement:
		w.Append("if").Ws().Append("(")
		r.expr(s.Condition)
		w.Append(")").Ws()
		r.block(s.Then)
		if len(s.Else) > 0 {
			w.Ws().Append("else").Ws()
			r.block(s.Else)
		}
		w.SoftNewLine()
	case *decompile.SwitchStatement:
		w.Append("switch").Ws().Append("(")
		r.expr(s.Value)
		w.Append(")").Ws().Append("{").SoftNewLine().Indent()
		for _, c := range s.Clauses {
			for _, v := range c.Values {
				w.Append("case ").Append(strconv.FormatInt(int64(v), 10)).Append(":").SoftNewLine()
			}
			w.Indent()
			r.statements(c.Body)
			w.Outdent()
		}
		w.Append("default:").SoftNewLine().Indent()
		r.statements(s.Default)
		w.Outdent().Outdent().Append("}").SoftNewLine()
	case *decompile.DispatchLoop:
		w.Append("var ").Append(dispatchVar).Ws().Append("=").Ws().Append("0;").SoftNewLine()
		w.Append(dispatchLabel).Append(":").Ws().Append("while").Ws().Append("(true)").Ws().Append("{").SoftNewLine().Indent()
		w.Append("switch").Ws().Append("(").Append(dispatchVar).Append(")").Ws().Append("{").SoftNewLine().Indent()
		for _, c := range s.Blocks {
			w.Append("case ").Append(strconv.Itoa(c.Index)).Append(":").SoftNewLine().Indent()
			r.statements(c.Body)
			w.Outdent()
		}
		w.Outdent().Append("}").SoftNewLine()
		w.Outdent().Append("}").SoftNewLine()
	case *decompile.GotoStatement:
		w.Append(dispatchVar).Ws().Append("=").Ws().Append(strconv.Itoa(s.Block)).Append(";").SoftNewLine()
		w.Append("continue ").Append(dispatchLabel).Append(";").SoftNewLine()
	case *decompile.InitClassStatement:
		w.AppendClass(s.ClassName).Append(".$clinit();").SoftNewLine()
	}
}

var binaryOperators = map[ir.BinaryOperation]string{
	ir.OpAdd:                "+",
	ir.OpSubtract:           "-",
	ir.OpMultiply:           "*",
	ir.OpDivide:             "/",
	ir.OpModulo:             "%",
	ir.OpAnd:                "&",
	ir.OpOr:                 "|",
	ir.OpXor:                "^",
	ir.OpShiftLeft:          "<<",
	ir.OpShiftRight:         ">>",
	ir.OpShiftRightUnsigned: ">>>",
}

// operand writes e, parenthesized unless it is a register or a
// non-negative literal.
func (r *Renderer) operand(e decompile.Expr) {
	switch e := e.(type) {
	case *decompile.VarExpr:
		r.expr(e)
		return
	case *decompile.ConstExpr:
		if !strings.HasPrefix(literal(e.Value), "-") {
			r.expr(e)
			return
		}
	}
	r.w.Append("(")
	r.expr(e)
	r.w.Append(")")
}

func (r *Renderer) infix(left decompile.Expr, op string, right decompile.Expr) {
	r.operand(left)
	r.w.Ws().Append(op).Ws()
	r.operand(right)
}

func (r *Renderer) call(fn string, args ...decompile.Expr) {
	r.w.Append(fn).Append("(")
	for i, a := range args {
		if i > 0 {
			r.w.Append(",").Ws()
		}
		r.expr(a)
	}
	r.w.Append(")")
}

func (r *Renderer) expr(e decompile.Expr) {
	w := r.w
	switch e := e.(type) {
	case *decompile.VarExpr:
		w.AppendVariable(e.Register)
	case *decompile.ConstExpr:
		r.constant(e.Value, nil)
	case *decompile.ClassConstExpr:
		r.classObject(e.Type)
	case *decompile.BinaryExpr:
		r.binary(e)
	case *decompile.NegateExpr:
		switch e.Operand {
		case ir.NumericInt:
			w.Append("-")
			r.operand(e.Value)
			w.Ws().Append("|").Ws().Append("0")
		case ir.NumericLong:
			w.Append("BigInt.asIntN(64,").Ws().Append("-")
			r.operand(e.Value)
			w.Append(")")
		default:
			w.Append("-")
			r.operand(e.Value)
		}
	case *decompile.ConditionExpr:
		r.infix(e.Left, e.Operator, e.Right)
	case *decompile.CastExpr:
		if obj, ok := e.Type.(model.Object); ok && r.exists(obj.ClassName) {
			w.Append("$rt_cast(")
			r.expr(e.Value)
			w.Append(",").Ws().AppendClass(obj.ClassName).Append(")")
			return
		}
		r.expr(e.Value)
	case *decompile.CastNumberExpr:
		r.castNumber(e)
	case *decompile.CastIntegerExpr:
		if e.Direction == ir.ToInteger {
			r.expr(e.Value)
			return
		}
		switch e.Subtype {
		case ir.SubtypeByte:
			r.operand(e.Value)
			w.Ws().Append("<<").Ws().Append("24").Ws().Append(">>").Ws().Append("24")
		case ir.SubtypeShort:
			r.operand(e.Value)
			w.Ws().Append("<<").Ws().Append("16").Ws().Append(">>").Ws().Append("16")
		default:
			r.operand(e.Value)
			w.Ws().Append("&").Ws().Append("65535")
		}
	case *decompile.NewExpr:
		w.Append("new ").AppendClass(e.ClassName).Append("()")
	case *decompile.NewArrayExpr:
		r.call(arrayFactory(e.ItemType), e.Size)
	case *decompile.NewMultiArrayExpr:
		w.Append("$rt_createMultiArray(").Append(arrayFactory(e.ItemType)).Append(",").Ws().Append("[")
		for i, d := range e.Dimensions {
			if i > 0 {
				w.Append(",").Ws()
			}
			r.expr(d)
		}
		w.Append("])")
	case *decompile.FieldExpr:
		if e.Instance != nil {
			r.operand(e.Instance)
		} else {
			w.AppendClass(e.Field.ClassName)
		}
		w.Append(".").AppendField(e.Field)
	case *decompile.ElementExpr:
		r.operand(e.Array)
		w.Append(".data[")
		r.expr(e.Index)
		w.Append("]")
	case *decompile.ArrayLengthExpr:
		r.operand(e.Array)
		w.Append(".data.length")
	case *decompile.CloneArrayExpr:
		r.call("$rt_cloneArray", e.Array)
	case *decompile.UnwrapArrayExpr:
		r.operand(e.Array)
		w.Append(".data")
	case *decompile.InvokeExpr:
		r.invoke(e)
	case *decompile.InstanceOfExpr:
		switch t := e.Type.(type) {
		case model.Object:
			if !r.exists(t.ClassName) {
				w.Append("false")
				return
			}
			w.Append("$rt_isInstance(")
			r.expr(e.Value)
			w.Append(",").Ws().AppendClass(t.ClassName).Append(")")
		default:
			r.call("$rt_isArray", e.Value)
		}
	}
}

func (r *Renderer) binary(e *decompile.BinaryExpr) {
	w := r.w
	if e.Operation == ir.OpCompare {
		r.call("$rt_compare", e.Left, e.Right)
		return
	}
	op := binaryOperators[e.Operation]
	switch e.Operand {
	case ir.NumericInt:
		switch e.Operation {
		case ir.OpMultiply:
			r.call("Math.imul", e.Left, e.Right)
		case ir.OpAdd, ir.OpSubtract, ir.OpDivide, ir.OpShiftRightUnsigned:
			r.infix(e.Left, op, e.Right)
			w.Ws().Append("|").Ws().Append("0")
		default:
			r.infix(e.Left, op, e.Right)
		}
	case ir.NumericLong:
		w.Append("BigInt.asIntN(64,").Ws()
		switch e.Operation {
		case ir.OpShiftLeft, ir.OpShiftRight:
			r.operand(e.Left)
			w.Ws().Append(op).Ws().Append("BigInt(")
			r.operand(e.Right)
			w.Ws().Append("&").Ws().Append("63)")
		case ir.OpShiftRightUnsigned:
			r.call("BigInt.asUintN", &decompile.ConstExpr{Value: int32(64)}, e.Left)
			w.Ws().Append(">>").Ws().Append("BigInt(")
			r.operand(e.Right)
			w.Ws().Append("&").Ws().Append("63)")
		default:
			r.infix(e.Left, op, e.Right)
		}
		w.Append(")")
	case ir.NumericFloat:
		w.Append("Math.fround(")
		r.infix(e.Left, op, e.Right)
		w.Append(")")
	default:
		r.infix(e.Left, op, e.Right)
	}
}

func (r *Renderer) castNumber(e *decompile.CastNumberExpr) {
	w := r.w
	switch {
	case e.Source == e.Target:
		r.expr(e.Value)
	case e.Source == ir.NumericInt && e.Target == ir.NumericLong:
		r.call("BigInt", e.Value)
	case e.Source == ir.NumericLong && e.Target == ir.NumericInt:
		w.Append("Number(BigInt.asIntN(32,").Ws()
		r.expr(e.Value)
		w.Append("))")
	case e.Source == ir.NumericLong:
		if e.Target == ir.NumericFloat {
			w.Append("Math.fround(Number(")
			r.expr(e.Value)
			w.Append("))")
			return
		}
		r.call("Number", e.Value)
	case e.Target == ir.NumericInt:
		r.call("$rt_toInt", e.Value)
	case e.Target == ir.NumericLong:
		r.call("$rt_toLong", e.Value)
	case e.Target == ir.NumericFloat:
		r.call("Math.fround", e.Value)
	default:
		r.expr(e.Value)
	}
}

func (r *Renderer) invoke(e *decompile.InvokeExpr) {
	w := r.w
	if e.Virtual && e.Instance != nil {
		r.operand(e.Instance)
		w.Append(".").AppendMethod(e.Method).Append("(")
		for i, a := range e.Arguments {
			if i > 0 {
				w.Append(",").Ws()
			}
			r.expr(a)
		}
		w.Append(")")
		return
	}
	w.AppendMethodBody(e.Method).Append("(")
	args := e.Arguments
	if e.Instance != nil {
		args = append([]decompile.Expr{e.Instance}, args...)
	}
	for i, a := range args {
		if i > 0 {
			w.Append(",").Ws()
		}
		r.expr(a)
	}
	w.Append(")")
}

func (r *Renderer) classObject(t model.ValueType) {
	w := r.w
	switch t := t.(type) {
	case model.Object:
		w.Append("$rt_cls(").AppendClass(t.ClassName).Append(")")
	case model.Array:
		w.Append("$rt_arrayCls(")
		r.classObject(t.Item)
		w.Append(")")
	default:
		w.Append("$rt_primitiveCls(").Append(quote(t.Name())).Append(")")
	}
}

func arrayFactory(item model.ValueType) string {
	if p, ok := item.(model.Primitive); ok {
		return "$rt_" + p.Kind.String() + "Array"
	}
	return "$rt_objectArray"
}

// constant writes a literal. A nil value with a known type writes that
// type's zero value.
func (r *Renderer) constant(v any, typ model.ValueType) {
	if v == nil {
		if p, ok := typ.(model.Primitive); ok {
			if p.Kind == model.Long {
				r.w.Append("0n")
			} else {
				r.w.Append("0")
			}
			return
		}
	}
	if s, ok := v.(string); ok {
		r.w.Append("$rt_str(").Append(quote(s)).Append(")")
		return
	}
	r.w.Append(literal(v))
}

func literal(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10) + "n"
	case float32:
		return formatFloat(float64(v), 32)
	case float64:
		return formatFloat(v, 64)
	case string:
		return quote(v)
	}
	return "undefined"
}

func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, bitSize)
}

// quote returns s as a script string literal. JSON string syntax is a
// subset of it once U+2028 and U+2029 are escaped, which encoding/json does.
func quote(s string) string {
	data, _ := json.Marshal(s)
	return string(data)
}
