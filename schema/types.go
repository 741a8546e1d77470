package schema

// Kind identifies the semantic type of a persisted field. It is a closed
// set: the converter dispatches over it exhaustively.
type Kind uint8

const (
	// KindInvalid is the zero Kind and matches nothing.
	KindInvalid Kind = iota

	// KindBool is a boolean.
	KindBool

	// KindInt is a signed integer.
	KindInt

	// KindUint is an unsigned integer.
	KindUint

	// KindFloat is a 64-bit float.
	KindFloat

	// KindString is a plain string.
	KindString

	// KindDuration is a time.Duration in Go duration syntax.
	KindDuration

	// KindPoint is a geom.Point persisted as "x,y".
	KindPoint

	// KindSize is a geom.Size persisted as "width,height".
	KindSize

	// KindRect is a geom.Rect persisted as "x,y,width,height".
	KindRect

	// KindColor is a geom.Color persisted as "a,r,g,b".
	KindColor

	// KindEnum is a named member of an EnumSet.
	KindEnum

	// KindOptional wraps another kind; empty text means an explicit null.
	KindOptional

	// KindList is a comma-joined homogeneous list of the element kind.
	KindList

	// KindMap is a string-keyed map assembled from "field.key" properties.
	KindMap

	// KindDynamic is a value carrying its own type tag as "tag:value".
	KindDynamic
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDuration:
		return "duration"
	case KindPoint:
		return "point"
	case KindSize:
		return "size"
	case KindRect:
		return "rect"
	case KindColor:
		return "color"
	case KindEnum:
		return "enum"
	case KindOptional:
		return "optional"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindDynamic:
		return "dynamic"
	default:
		return "invalid"
	}
}

// Type is a complete field type descriptor: a kind plus, for container
// kinds, the element type, and for enums, the member set.
type Type struct {
	Kind Kind

	// Elem is the element type for KindOptional, KindList, and KindMap.
	Elem *Type

	// Enum is the member set for KindEnum.
	Enum *EnumSet
}

// String returns a readable description such as "list of int".
func (t Type) String() string {
	switch t.Kind {
	case KindOptional:
		return "optional " + t.Elem.String()
	case KindList:
		return "list of " + t.Elem.String()
	case KindMap:
		return "map of " + t.Elem.String()
	default:
		return t.Kind.String()
	}
}

// BoolType returns the bool type descriptor.
func BoolType() Type { return Type{Kind: KindBool} }

// IntType returns the int type descriptor.
func IntType() Type { return Type{Kind: KindInt} }

// UintType returns the uint type descriptor.
func UintType() Type { return Type{Kind: KindUint} }

// FloatType returns the float64 type descriptor.
func FloatType() Type { return Type{Kind: KindFloat} }

// StringType returns the string type descriptor.
func StringType() Type { return Type{Kind: KindString} }

// DurationType returns the time.Duration type descriptor.
func DurationType() Type { return Type{Kind: KindDuration} }

// PointType returns the geom.Point type descriptor.
func PointType() Type { return Type{Kind: KindPoint} }

// SizeType returns the geom.Size type descriptor.
func SizeType() Type { return Type{Kind: KindSize} }

// RectType returns the geom.Rect type descriptor.
func RectType() Type { return Type{Kind: KindRect} }

// ColorType returns the geom.Color type descriptor.
func ColorType() Type { return Type{Kind: KindColor} }

// EnumType returns an enum type descriptor over the given member set.
func EnumType(set *EnumSet) Type { return Type{Kind: KindEnum, Enum: set} }

// OptionalOf returns a nullable wrapper around elem.
func OptionalOf(elem Type) Type {
	e := elem
	return Type{Kind: KindOptional, Elem: &e}
}

// ListOf returns a list type descriptor with the given element type.
func ListOf(elem Type) Type {
	e := elem
	return Type{Kind: KindList, Elem: &e}
}

// MapOf returns a string-keyed map type descriptor with the given value type.
func MapOf(elem Type) Type {
	e := elem
	return Type{Kind: KindMap, Elem: &e}
}

// DynamicType returns the dynamic (self-tagged) type descriptor.
func DynamicType() Type { return Type{Kind: KindDynamic} }

// EnumSet is an ordered set of enum member names. Member values are
// positional, starting at zero, matching iota-declared Go constants.
// Name lookup is case-sensitive.
type EnumSet struct {
	names []string
	index map[string]int
}

// NewEnum builds an EnumSet from member names in value order.
func NewEnum(names ...string) *EnumSet {
	e := &EnumSet{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		e.index[n] = i
	}
	return e
}

// Value returns the numeric value for a member name.
func (e *EnumSet) Value(name string) (int, bool) {
	v, ok := e.index[name]
	return v, ok
}

// Name returns the member name for a numeric value.
func (e *EnumSet) Name(value int) (string, bool) {
	if value < 0 || value >= len(e.names) {
		return "", false
	}
	return e.names[value], true
}

// Names returns the member names in value order.
func (e *EnumSet) Names() []string {
	return append([]string(nil), e.names...)
}

// Dynamic boxes a value together with the type tag it serializes under.
// A zero Dynamic renders as empty text. When Tag is empty the tag is
// inferred from the value's type at render time.
type Dynamic struct {
	Tag   string
	Value any
}
