package classes

import (
	"slices"

	"github.com/wippyai/teajs/errors"
	"github.com/wippyai/teajs/ir"
)

// Source looks classes up by qualified name. Get returns nil for an unknown
// class. Implementations must be safe for concurrent reads.
type Source interface {
	Get(name string) *Class
}

// ListableSource is a Source that can enumerate its classes.
type ListableSource interface {
	Source
	// ClassNames returns all class names in ascending order.
	ClassNames() []string
}

// SourceFunc adapts a function to Source.
type SourceFunc func(name string) *Class

// Get implements Source.
func (f SourceFunc) Get(name string) *Class {
	return f(name)
}

// Set is a mutable ListableSource backed by a map. It is not safe for
// concurrent mutation; concurrent Get calls are fine once populated.
type Set struct {
	classes map[string]*Class
}

var _ ListableSource = (*Set)(nil)

// NewSet creates a set holding the given classes.
func NewSet(classes ...*Class) *Set {
	s := &Set{classes: make(map[string]*Class, len(classes))}
	for _, c := range classes {
		s.classes[c.Name] = c
	}
	return s
}

// Put adds c, failing if a class of the same name is present.
func (s *Set) Put(c *Class) error {
	if _, ok := s.classes[c.Name]; ok {
		return errors.Duplicate(errors.PhaseRegister, "class", c.Name, "another class")
	}
	s.classes[c.Name] = c
	return nil
}

// Get implements Source.
func (s *Set) Get(name string) *Class {
	return s.classes[name]
}

// Remove drops the class named name.
func (s *Set) Remove(name string) {
	delete(s.classes, name)
}

// Len returns the number of classes.
func (s *Set) Len() int {
	return len(s.classes)
}

// ClassNames implements ListableSource.
func (s *Set) ClassNames() []string {
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CopyClass returns a copy of c restricted to the methods accepted by keep.
// Programs are deep-copied so the result can be rewritten without touching c.
func CopyClass(c *Class, keep func(*Method) bool) *Class {
	dst := NewClass(c.Name)
	dst.Parent = c.Parent
	dst.Interfaces = slices.Clone(c.Interfaces)
	dst.Level = c.Level
	dst.Modifiers = c.Modifiers
	for _, f := range c.fields {
		nf := *f
		nf.owner = dst
		dst.fields = append(dst.fields, &nf)
		dst.fieldIndex[nf.Name] = &nf
	}
	for _, m := range c.methods {
		if keep != nil && !keep(m) {
			continue
		}
		nm := &Method{Descriptor: m.Descriptor, Level: m.Level, Modifiers: m.Modifiers, owner: dst}
		if m.Program != nil {
			nm.Program = ir.Copy(m.Program)
		}
		dst.methods = append(dst.methods, nm)
		dst.methodIndex[nm.Descriptor.String()] = nm
	}
	return dst
}
