package classes

import (
	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
	"github.com/wippyai/teajs/model"
)

// Class is an in-memory class descriptor: declaration attributes plus its
// methods and fields in declaration order.
type Class struct {
	Name       string
	Parent     string
	Interfaces []string
	Level      model.AccessLevel
	Modifiers  model.ElementModifier

	methods     []*Method
	methodIndex map[string]*Method
	fields      []*Field
	fieldIndex  map[string]*Field
}

// NewClass creates an empty class.
func NewClass(name string) *Class {
	return &Class{
		Name:        name,
		methodIndex: make(map[string]*Method),
		fieldIndex:  make(map[string]*Field),
	}
}

// AddMethod appends m. A method with the same descriptor must not already
// exist; m must not belong to another class.
func (c *Class) AddMethod(m *Method) error {
	key := m.Descriptor.String()
	if m.owner != nil {
		return errors.New(errors.PhaseRegister, errors.KindConflict).
			Detail("method %s already belongs to class %s", key, m.owner.Name).
			Build()
	}
	if _, ok := c.methodIndex[key]; ok {
		return errors.Duplicate(errors.PhaseRegister, "method", key, c.Name)
	}
	m.owner = c
	c.methods = append(c.methods, m)
	c.methodIndex[key] = m
	return nil
}

// RemoveMethod removes the method with descriptor desc ("name(params)result")
// and reports whether it existed.
func (c *Class) RemoveMethod(desc string) bool {
	m, ok := c.methodIndex[desc]
	if !ok {
		return false
	}
	delete(c.methodIndex, desc)
	for i, other := range c.methods {
		if other == m {
			c.methods = append(c.methods[:i], c.methods[i+1:]...)
			break
		}
	}
	m.owner = nil
	return true
}

// Method returns the method with descriptor desc, or nil.
func (c *Class) Method(desc string) *Method {
	return c.methodIndex[desc]
}

// Methods returns the methods in declaration order.
func (c *Class) Methods() []*Method {
	return c.methods
}

// AddField appends f. Field names are unique within a class.
func (c *Class) AddField(f *Field) error {
	if _, ok := c.fieldIndex[f.Name]; ok {
		return errors.Duplicate(errors.PhaseRegister, "field", f.Name, c.Name)
	}
	f.owner = c
	c.fields = append(c.fields, f)
	c.fieldIndex[f.Name] = f
	return nil
}

// Field returns the field named name, or nil.
func (c *Class) Field(name string) *Field {
	return c.fieldIndex[name]
}

// Fields returns the fields in declaration order.
func (c *Class) Fields() []*Field {
	return c.fields
}

// Method is a method declaration. Program is nil for abstract and native
// methods.
type Method struct {
	Descriptor model.MethodDescriptor
	Level      model.AccessLevel
	Modifiers  model.ElementModifier
	Program    *ir.Program

	owner *Class
}

// NewMethod creates a detached method.
func NewMethod(desc model.MethodDescriptor, modifiers model.ElementModifier, program *ir.Program) *Method {
	return &Method{Descriptor: desc, Modifiers: modifiers, Program: program}
}

// Owner returns the declaring class, or nil for a detached method.
func (m *Method) Owner() *Class {
	return m.owner
}

// Reference returns the method's qualified reference.
func (m *Method) Reference() model.MethodReference {
	ref := model.MethodReference{Descriptor: m.Descriptor}
	if m.owner != nil {
		ref.ClassName = m.owner.Name
	}
	return ref
}

// HasBody reports whether the method has a non-empty program.
func (m *Method) HasBody() bool {
	return m.Program != nil && m.Program.BasicBlockCount() > 0
}

// Field is a field declaration.
type Field struct {
	Name      string
	Type      model.ValueType
	Level     model.AccessLevel
	Modifiers model.ElementModifier
	// Initial is the constant initializer: nil, int32, int64, float32,
	// float64 or string.
	Initial any

	owner *Class
}

// Owner returns the declaring class, or nil for a detached field.
func (f *Field) Owner() *Class {
	return f.owner
}

// Reference returns the field's qualified reference.
func (f *Field) Reference() model.FieldReference {
	ref := model.FieldReference{FieldName: f.Name}
	if f.owner != nil {
		ref.ClassName = f.owner.Name
	}
	return ref
}
