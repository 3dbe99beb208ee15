package decompile

import (
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

// ClassNode is the decompiled form of one class.
type ClassNode struct {
	Name       string
	Parent     string
	Interfaces []string
	Modifiers  model.ElementModifier
	Fields     []*FieldNode
	Methods    []*MethodNode
}

// FieldNode is a field with its constant initializer.
type FieldNode struct {
	Reference model.FieldReference
	Static    bool
	Initial   any
}

// MethodNode is a method with its statement tree. Body is nil for methods
// without a program.
type MethodNode struct {
	Reference model.MethodReference
	Modifiers model.ElementModifier
	// Parameters lists the registers holding the receiver (for instance
	// methods) and the arguments, in order.
	Parameters []int
	// Variables lists the registers declared as locals.
	Variables []int
	Body      []Statement
}

// Static reports whether the method has no receiver.
func (m *MethodNode) Static() bool { return m.Modifiers.Has(model.Static) }

// Statement is a node of a method body.
type Statement interface {
	isStatement()
}

// Expr is an expression node.
type Expr interface {
	isExpr()
}

type (
	// AssignStatement stores Value into Target.
	AssignStatement struct {
		Target Expr
		Value  Expr
	}

	// ExprStatement evaluates Value for its side effects.
	ExprStatement struct {
		Value Expr
	}

	// MoveStatement copies registers simultaneously: Targets[i] receives
	// the value Sources[i] held before the statement.
	MoveStatement struct {
		Targets []int
		Sources []int
	}

	// ReturnStatement leaves the method. Value is nil for void returns.
	ReturnStatement struct {
		Value Expr
	}

	// ThrowStatement raises Value.
	ThrowStatement struct {
		Value Expr
	}

	// IfStatement branches on Condition.
	IfStatement struct {
		Condition Expr
		Then      []Statement
		Else      []Statement
	}

	// SwitchStatement dispatches on an int value.
	SwitchStatement struct {
		Value   Expr
		Clauses []*SwitchClause
		Default []Statement
	}

	// DispatchLoop runs Blocks as a state machine keyed by the dispatch
	// variable, starting at block 0.
	DispatchLoop struct {
		Blocks []*BlockCase
	}

	// GotoStatement continues the enclosing DispatchLoop at Block.
	GotoStatement struct {
		Block int
	}

	// InitClassStatement runs a class's static initializer.
	InitClassStatement struct {
		ClassName string
	}
)

// SwitchClause is one case group of a SwitchStatement.
type SwitchClause struct {
	Values []int32
	Body   []Statement
}

// BlockCase is one state of a DispatchLoop.
type BlockCase struct {
	Index int
	Body  []Statement
}

func (*AssignStatement) isStatement()    {}
func (*ExprStatement) isStatement()      {}
func (*MoveStatement) isStatement()      {}
func (*ReturnStatement) isStatement()    {}
func (*ThrowStatement) isStatement()     {}
func (*IfStatement) isStatement()        {}
func (*SwitchStatement) isStatement()    {}
func (*DispatchLoop) isStatement()       {}
func (*GotoStatement) isStatement()      {}
func (*InitClassStatement) isStatement() {}

type (
	// VarExpr reads a register.
	VarExpr struct {
		Register int
	}

	// ConstExpr is a literal: nil, bool, int32, int64, float32, float64
	// or string.
	ConstExpr struct {
		Value any
	}

	// ClassConstExpr is the runtime class object of Type.
	ClassConstExpr struct {
		Type model.ValueType
	}

	// BinaryExpr applies an arithmetic or bitwise operation.
	BinaryExpr struct {
		Operation ir.BinaryOperation
		Operand   ir.NumericOperandType
		Left      Expr
		Right     Expr
	}

	// NegateExpr negates Value.
	NegateExpr struct {
		Operand ir.NumericOperandType
		Value   Expr
	}

	// ConditionExpr compares two values with a script comparison
	// operator.
	ConditionExpr struct {
		Operator string
		Left     Expr
		Right    Expr
	}

	// CastExpr checks Value against a reference type.
	CastExpr struct {
		Type  model.ValueType
		Value Expr
	}

	// CastNumberExpr converts between numeric types.
	CastNumberExpr struct {
		Source ir.NumericOperandType
		Target ir.NumericOperandType
		Value  Expr
	}

	// CastIntegerExpr narrows or widens a narrow integer type.
	CastIntegerExpr struct {
		Subtype   ir.IntegerSubtype
		Direction ir.CastDirection
		Value     Expr
	}

	// NewExpr constructs an uninitialized instance.
	NewExpr struct {
		ClassName string
	}

	// NewArrayExpr constructs a one-dimensional array.
	NewArrayExpr struct {
		ItemType model.ValueType
		Size     Expr
	}

	// NewMultiArrayExpr constructs a multi-dimensional array.
	NewMultiArrayExpr struct {
		ItemType   model.ValueType
		Dimensions []Expr
	}

	// FieldExpr reads or, as an assignment target, writes a field.
	// Instance is nil for static fields.
	FieldExpr struct {
		Instance Expr
		Field    model.FieldReference
	}

	// ElementExpr reads or writes an array element.
	ElementExpr struct {
		Array Expr
		Index Expr
	}

	// ArrayLengthExpr is the length of an array.
	ArrayLengthExpr struct {
		Array Expr
	}

	// CloneArrayExpr copies an array.
	CloneArrayExpr struct {
		Array Expr
	}

	// UnwrapArrayExpr exposes the storage of an array.
	UnwrapArrayExpr struct {
		ElementType ir.ArrayElementType
		Array       Expr
	}

	// InvokeExpr calls a method. Instance is nil for static calls.
	InvokeExpr struct {
		Method    model.MethodReference
		Instance  Expr
		Arguments []Expr
		Virtual   bool
	}

	// InstanceOfExpr tests Value against Type.
	InstanceOfExpr struct {
		Value Expr
		Type  model.ValueType
	}
)

func (*VarExpr) isExpr()           {}
func (*ConstExpr) isExpr()         {}
func (*ClassConstExpr) isExpr()    {}
func (*BinaryExpr) isExpr()        {}
func (*NegateExpr) isExpr()        {}
func (*ConditionExpr) isExpr()     {}
func (*CastExpr) isExpr()          {}
func (*CastNumberExpr) isExpr()    {}
func (*CastIntegerExpr) isExpr()   {}
func (*NewExpr) isExpr()           {}
func (*NewArrayExpr) isExpr()      {}
func (*NewMultiArrayExpr) isExpr() {}
func (*FieldExpr) isExpr()         {}
func (*ElementExpr) isExpr()       {}
func (*ArrayLengthExpr) isExpr()   {}
func (*CloneArrayExpr) isExpr()    {}
func (*UnwrapArrayExpr) isExpr()   {}
func (*InvokeExpr) isExpr()        {}
func (*InstanceOfExpr) isExpr()    {}
