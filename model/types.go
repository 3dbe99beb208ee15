package model

import (
	"strings"

	"github.com/wippyai/teajs/errors"
)

// PrimitiveKind enumerates the primitive value types.
type PrimitiveKind byte

const (
	Boolean PrimitiveKind = iota
	Byte
	Short
	Character
	Integer
	Long
	Float
	Double
)

var primitiveCodes = [...]byte{
	Boolean:   'Z',
	Byte:      'B',
	Short:     'S',
	Character: 'C',
	Integer:   'I',
	Long:      'J',
	Float:     'F',
	Double:    'D',
}

var primitiveNames = [...]string{
	Boolean:   "boolean",
	Byte:      "byte",
	Short:     "short",
	Character: "char",
	Integer:   "int",
	Long:      "long",
	Float:     "float",
	Double:    "double",
}

// String returns the source-level name of the primitive ("int", "char", ...).
func (k PrimitiveKind) String() string {
	if int(k) < len(primitiveNames) {
		return primitiveNames[k]
	}
	return "unknown"
}

// ValueType is one of Primitive, Object, Array or Void.
type ValueType interface {
	// Descriptor returns the type in descriptor syntax.
	Descriptor() string
	// Name returns the type in source syntax ("int", "java.lang.String[]").
	Name() string
	isValueType()
}

// Primitive is a primitive value type.
type Primitive struct {
	Kind PrimitiveKind
}

// Object is a class or interface type.
type Object struct {
	ClassName string
}

// Array is an array type.
type Array struct {
	Item ValueType
}

// Void is the result type of methods without a value.
type Void struct{}

func (Primitive) isValueType() {}
func (Object) isValueType()    {}
func (Array) isValueType()     {}
func (Void) isValueType()      {}

func (t Primitive) Descriptor() string { return string(primitiveCodes[t.Kind]) }
func (t Object) Descriptor() string {
	return "L" + strings.ReplaceAll(t.ClassName, ".", "/") + ";"
}
func (t Array) Descriptor() string { return "[" + t.Item.Descriptor() }
func (Void) Descriptor() string    { return "V" }

func (t Primitive) Name() string { return t.Kind.String() }
func (t Object) Name() string    { return t.ClassName }
func (t Array) Name() string     { return t.Item.Name() + "[]" }
func (Void) Name() string        { return "void" }

// Convenience constructors.
var (
	BooleanType   ValueType = Primitive{Kind: Boolean}
	ByteType      ValueType = Primitive{Kind: Byte}
	ShortType     ValueType = Primitive{Kind: Short}
	CharacterType ValueType = Primitive{Kind: Character}
	IntegerType   ValueType = Primitive{Kind: Integer}
	LongType      ValueType = Primitive{Kind: Long}
	FloatType     ValueType = Primitive{Kind: Float}
	DoubleType    ValueType = Primitive{Kind: Double}
	VoidType      ValueType = Void{}
)

// ObjectType returns the object type for a qualified class name.
func ObjectType(className string) ValueType {
	return Object{ClassName: className}
}

// ArrayOf returns an array type with the given item type.
func ArrayOf(item ValueType) ValueType {
	return Array{Item: item}
}

// ParseValueType parses a single type descriptor.
func ParseValueType(desc string) (ValueType, error) {
	t, n, err := parseValueType(desc)
	if err != nil {
		return nil, err
	}
	if n != len(desc) {
		return nil, errors.InvalidInput(errors.PhaseConfig, "trailing characters in type descriptor "+desc)
	}
	return t, nil
}

// parseValueType parses one type at the start of desc and reports the number
// of bytes consumed.
func parseValueType(desc string) (ValueType, int, error) {
	if desc == "" {
		return nil, 0, errors.InvalidInput(errors.PhaseConfig, "empty type descriptor")
	}
	switch desc[0] {
	case 'Z':
		return BooleanType, 1, nil
	case 'B':
		return ByteType, 1, nil
	case 'S':
		return ShortType, 1, nil
	case 'C':
		return CharacterType, 1, nil
	case 'I':
		return IntegerType, 1, nil
	case 'J':
		return LongType, 1, nil
	case 'F':
		return FloatType, 1, nil
	case 'D':
		return DoubleType, 1, nil
	case 'V':
		return VoidType, 1, nil
	case 'L':
		end := strings.IndexByte(desc, ';')
		if end < 2 {
			return nil, 0, errors.InvalidInput(errors.PhaseConfig, "unterminated object descriptor "+desc)
		}
		return ObjectType(strings.ReplaceAll(desc[1:end], "/", ".")), end + 1, nil
	case '[':
		item, n, err := parseValueType(desc[1:])
		if err != nil {
			return nil, 0, err
		}
		if _, ok := item.(Void); ok {
			return nil, 0, errors.InvalidInput(errors.PhaseConfig, "array of void in "+desc)
		}
		return ArrayOf(item), n + 1, nil
	default:
		return nil, 0, errors.InvalidInput(errors.PhaseConfig, "unknown type descriptor "+desc)
	}
}
