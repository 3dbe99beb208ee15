package codegen

import (
	"strconv"

	"github.com/wippyai/teajs/classes"
	"github.com/wippyai/teajs/model"
)

// NamingStrategy maps model references and registers to the identifiers
// used in generated code. Method and field references are resolved along
// the parent chain first, so a call through a subclass names the
// declaring class's body. Not safe for concurrent use.
type NamingStrategy struct {
	aliases  AliasProvider
	source   classes.Source
	minified bool

	methods map[string]model.MethodReference
	fields  map[string]model.FieldReference

	locals    []string
	nextLocal int
}

// NewNamingStrategy creates a naming strategy over source. In minified
// mode local variables receive short names instead of "$" + register.
func NewNamingStrategy(aliases AliasProvider, source classes.Source, minified bool) *NamingStrategy {
	return &NamingStrategy{
		aliases:  aliases,
		source:   source,
		minified: minified,
		methods:  make(map[string]model.MethodReference),
		fields:   make(map[string]model.FieldReference),
	}
}

// NameFor returns the alias of a class.
func (n *NamingStrategy) NameFor(className string) string {
	return n.aliases.ClassAlias(className)
}

// NameForMethod returns the member name used for virtual dispatch.
func (n *NamingStrategy) NameForMethod(method model.MethodReference) string {
	return n.aliases.MethodAlias(n.resolveMethod(method))
}

// FullNameFor returns the global name of a method body.
func (n *NamingStrategy) FullNameFor(method model.MethodReference) string {
	resolved := n.resolveMethod(method)
	return n.aliases.ClassAlias(resolved.ClassName) + "_" + n.aliases.MethodAlias(resolved)
}

// NameForField returns the property name of a field.
func (n *NamingStrategy) NameForField(field model.FieldReference) string {
	return n.aliases.FieldAlias(n.resolveField(field))
}

// VariableName returns the local name of a register.
func (n *NamingStrategy) VariableName(register int) string {
	if !n.minified {
		return "$" + strconv.Itoa(register)
	}
	for len(n.locals) <= register {
		name := ShortName(n.nextLocal)
		n.nextLocal++
		if !reserved[name] {
			n.locals = append(n.locals, name)
		}
	}
	return n.locals[register]
}

func (n *NamingStrategy) resolveMethod(method model.MethodReference) model.MethodReference {
	key := method.String()
	if resolved, ok := n.methods[key]; ok {
		return resolved
	}
	resolved := method
	for name := method.ClassName; name != "" && n.source != nil; {
		cls := n.source.Get(name)
		if cls == nil {
			break
		}
		if cls.Method(method.Descriptor.String()) != nil {
			resolved = model.MethodReference{ClassName: name, Descriptor: method.Descriptor}
			break
		}
		name = cls.Parent
	}
	n.methods[key] = resolved
	return resolved
}

func (n *NamingStrategy) resolveField(field model.FieldReference) model.FieldReference {
	key := field.String()
	if resolved, ok := n.fields[key]; ok {
		return resolved
	}
	resolved := field
	for name := field.ClassName; name != "" && n.source != nil; {
		cls := n.source.Get(name)
		if cls == nil {
			break
		}
		if cls.Field(field.FieldName) != nil {
			resolved = model.FieldReference{ClassName: name, FieldName: field.FieldName}
			break
		}
		name = cls.Parent
	}
	n.fields[key] = resolved
	return resolved
}
