package model

import (
	"strings"

	"github.com/wippyai/teajs/errors"
)

// MethodDescriptor identifies a method within its class: name plus parameter
// and result types.
type MethodDescriptor struct {
	Name   string
	Params []ValueType
	Result ValueType
}

// NewMethodDescriptor builds a descriptor. The last signature element is the
// result type; a descriptor with no signature returns void.
func NewMethodDescriptor(name string, signature ...ValueType) MethodDescriptor {
	if len(signature) == 0 {
		return MethodDescriptor{Name: name, Result: VoidType}
	}
	params := make([]ValueType, len(signature)-1)
	copy(params, signature)
	return MethodDescriptor{Name: name, Params: params, Result: signature[len(signature)-1]}
}

// ParseMethodDescriptor parses "name(params)result".
func ParseMethodDescriptor(s string) (MethodDescriptor, error) {
	open := strings.IndexByte(s, '(')
	closeIdx := strings.IndexByte(s, ')')
	if open <= 0 || closeIdx < open {
		return MethodDescriptor{}, errors.InvalidInput(errors.PhaseConfig, "malformed method descriptor "+s)
	}
	d := MethodDescriptor{Name: s[:open]}
	params := s[open+1 : closeIdx]
	for params != "" {
		t, n, err := parseValueType(params)
		if err != nil {
			return MethodDescriptor{}, err
		}
		if _, ok := t.(Void); ok {
			return MethodDescriptor{}, errors.InvalidInput(errors.PhaseConfig, "void parameter in "+s)
		}
		d.Params = append(d.Params, t)
		params = params[n:]
	}
	result, err := ParseValueType(s[closeIdx+1:])
	if err != nil {
		return MethodDescriptor{}, err
	}
	d.Result = result
	return d, nil
}

// Signature returns the "(params)result" part of the descriptor.
func (d MethodDescriptor) Signature() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Params {
		b.WriteString(p.Descriptor())
	}
	b.WriteByte(')')
	if d.Result == nil {
		b.WriteByte('V')
	} else {
		b.WriteString(d.Result.Descriptor())
	}
	return b.String()
}

// String returns "name(params)result".
func (d MethodDescriptor) String() string {
	return d.Name + d.Signature()
}

// MethodReference points at a method of a named class.
type MethodReference struct {
	ClassName  string
	Descriptor MethodDescriptor
}

// NewMethodReference builds a reference from a class name, method name and
// signature (parameters followed by the result type).
func NewMethodReference(className, name string, signature ...ValueType) MethodReference {
	return MethodReference{ClassName: className, Descriptor: NewMethodDescriptor(name, signature...)}
}

// ParseMethodReference parses "owner.name(params)result".
func ParseMethodReference(s string) (MethodReference, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return MethodReference{}, errors.InvalidInput(errors.PhaseConfig, "malformed method reference "+s)
	}
	dot := strings.LastIndexByte(s[:open], '.')
	if dot <= 0 {
		return MethodReference{}, errors.InvalidInput(errors.PhaseConfig, "method reference without class "+s)
	}
	desc, err := ParseMethodDescriptor(s[dot+1:])
	if err != nil {
		return MethodReference{}, err
	}
	return MethodReference{ClassName: s[:dot], Descriptor: desc}, nil
}

// Name returns the method name.
func (r MethodReference) Name() string {
	return r.Descriptor.Name
}

// String returns "owner.name(params)result".
func (r MethodReference) String() string {
	return r.ClassName + "." + r.Descriptor.String()
}

// FieldReference points at a field of a named class.
type FieldReference struct {
	ClassName string
	FieldName string
}

// String returns "owner.field".
func (r FieldReference) String() string {
	return r.ClassName + "." + r.FieldName
}

// AccessLevel is the declared visibility of a class or member.
type AccessLevel byte

const (
	PackagePrivate AccessLevel = iota
	Private
	Protected
	Public
)

// ElementModifier is a declaration modifier.
type ElementModifier uint16

const (
	Abstract ElementModifier = 1 << iota
	Final
	Static
	Native
	Interface
	Synchronized
)

// Has reports whether all bits of m are set.
func (m ElementModifier) Has(flag ElementModifier) bool {
	return m&flag == flag
}
