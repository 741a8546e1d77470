// Package schema describes configuration sections declaratively. A section
// type lists its persisted fields once, through a Builder, binding each
// field to a typed pointer into the section struct. No reflection is
// involved: the builder records a closed Type descriptor plus set/get
// closures over the bound pointers, and the store drives conversion through
// those.
//
// A typical declaration:
//
//	type WindowConfig struct {
//		Width      int
//		Fullscreen bool
//	}
//
//	func (c *WindowConfig) Describe() *schema.Info {
//		b := schema.New("window", "Main window placement")
//		b.Int(&c.Width, "width", "800", "Window width in pixels")
//		b.Bool(&c.Fullscreen, "fullscreen", "false", "Start in fullscreen mode")
//		return b.Info()
//	}
//
// Field order is declaration order. Default values are carried as text and
// travel through the same conversion path as persisted values. An empty
// default means the field has no declared default.
package schema

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/inigo/geom"
)

// ErrTypeMismatch reports a value assigned through a binding that does not
// match the bound field's type.
var ErrTypeMismatch = errors.New("type mismatch")

// TypeError describes a binding assignment with the wrong dynamic type.
type TypeError struct {
	Field    string
	Expected string
	Actual   string
}

// Error returns the error message.
func (e *TypeError) Error() string {
	return fmt.Sprintf("field %s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}

// Info is the immutable description of one section: its name, its
// description comment, and its fields in declaration order.
type Info struct {
	Name        string
	Description string
	Fields      []Field
}

// Field describes one persisted field and carries the bindings into the
// owning section instance.
type Field struct {
	// Name is the property key, and for map fields the prefix before the
	// per-entry ".key" suffix.
	Name string

	// Description is emitted as a comment above the field on save.
	Description string

	// Default is the declared default as text. Empty means none declared.
	Default string

	// Type is the field's semantic type descriptor.
	Type Type

	set func(any) error
	get func() any
}

// Set assigns a converted value through the binding. A nil value resets the
// bound field to its zero value. Values of the wrong dynamic type return a
// *TypeError.
func (f *Field) Set(v any) error { return f.set(v) }

// Get reads the current bound value. Scalars come back as their Go value,
// lists as []any, maps as map[string]any; nil means absent (nil optional,
// empty list or map, zero Dynamic).
func (f *Field) Get() any { return f.get() }

// Builder collects field declarations for one section.
type Builder struct {
	info Info
	seen map[string]bool
}

// New starts a section declaration. The name becomes the [section] header;
// the description is emitted as its comment. An empty name panics.
func New(name, description string) *Builder {
	if name == "" {
		panic("schema: empty section name")
	}
	return &Builder{
		info: Info{Name: name, Description: description},
		seen: make(map[string]bool),
	}
}

// Info returns the completed section description. Call it after all fields
// are declared; the builder must not be reused afterwards.
func (b *Builder) Info() *Info {
	return &b.info
}

func (b *Builder) add(f Field) {
	if f.Name == "" {
		panic("schema: empty field name in section " + b.info.Name)
	}
	if b.seen[f.Name] {
		panic("schema: duplicate field " + f.Name + " in section " + b.info.Name)
	}
	b.seen[f.Name] = true
	b.info.Fields = append(b.info.Fields, f)
}

// Bool binds a bool field.
func (b *Builder) Bool(p *bool, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: BoolType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Int binds an int field.
func (b *Builder) Int(p *int, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: IntType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Uint binds a uint field.
func (b *Builder) Uint(p *uint, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: UintType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Float binds a float64 field.
func (b *Builder) Float(p *float64, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: FloatType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// String binds a string field.
func (b *Builder) String(p *string, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: StringType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Duration binds a time.Duration field. Values use Go duration syntax,
// for example "250ms" or "1h30m".
func (b *Builder) Duration(p *time.Duration, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: DurationType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Point binds a geom.Point field.
func (b *Builder) Point(p *geom.Point, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: PointType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Size binds a geom.Size field.
func (b *Builder) Size(p *geom.Size, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: SizeType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Rect binds a geom.Rect field.
func (b *Builder) Rect(p *geom.Rect, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: RectType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// Color binds a geom.Color field.
func (b *Builder) Color(p *geom.Color, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: ColorType(),
		set: setScalar(name, p), get: getScalar(p)})
	return b
}

// OptionalBool binds a *bool field; empty persisted text means explicit null.
func (b *Builder) OptionalBool(p **bool, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: OptionalOf(BoolType()),
		set: setOptional(name, p), get: getOptional(p)})
	return b
}

// OptionalInt binds a *int field.
func (b *Builder) OptionalInt(p **int, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: OptionalOf(IntType()),
		set: setOptional(name, p), get: getOptional(p)})
	return b
}

// OptionalUint binds a *uint field.
func (b *Builder) OptionalUint(p **uint, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: OptionalOf(UintType()),
		set: setOptional(name, p), get: getOptional(p)})
	return b
}

// OptionalFloat binds a *float64 field.
func (b *Builder) OptionalFloat(p **float64, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: OptionalOf(FloatType()),
		set: setOptional(name, p), get: getOptional(p)})
	return b
}

// StringList binds a []string field persisted as one comma-joined line.
func (b *Builder) StringList(p *[]string, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: ListOf(StringType()),
		set: setList(name, p), get: getList(p)})
	return b
}

// IntList binds a []int field persisted as one comma-joined line.
func (b *Builder) IntList(p *[]int, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: ListOf(IntType()),
		set: setList(name, p), get: getList(p)})
	return b
}

// FloatList binds a []float64 field persisted as one comma-joined line.
func (b *Builder) FloatList(p *[]float64, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: ListOf(FloatType()),
		set: setList(name, p), get: getList(p)})
	return b
}

// StringMap binds a map[string]string field persisted as one "name.key=value"
// line per entry. Map fields have no declared default; a section's
// GetDefault hook can supply one.
func (b *Builder) StringMap(p *map[string]string, name, desc string) *Builder {
	b.add(Field{Name: name, Description: desc, Type: MapOf(StringType()),
		set: setMap(name, p), get: getMap(p)})
	return b
}

// IntMap binds a map[string]int field.
func (b *Builder) IntMap(p *map[string]int, name, desc string) *Builder {
	b.add(Field{Name: name, Description: desc, Type: MapOf(IntType()),
		set: setMap(name, p), get: getMap(p)})
	return b
}

// FloatMap binds a map[string]float64 field.
func (b *Builder) FloatMap(p *map[string]float64, name, desc string) *Builder {
	b.add(Field{Name: name, Description: desc, Type: MapOf(FloatType()),
		set: setMap(name, p), get: getMap(p)})
	return b
}

// DynamicMap binds a map[string]Dynamic field: a dictionary whose values
// each carry their own type tag.
func (b *Builder) DynamicMap(p *map[string]Dynamic, name, desc string) *Builder {
	b.add(Field{Name: name, Description: desc, Type: MapOf(DynamicType()),
		set: setMap(name, p), get: getMap(p)})
	return b
}

// Dynamic binds a Dynamic field persisted as "tag:value".
func (b *Builder) Dynamic(p *Dynamic, name, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: DynamicType(),
		set: func(v any) error {
			switch d := v.(type) {
			case nil:
				*p = Dynamic{}
			case Dynamic:
				*p = d
			default:
				// Anything else is boxed as-is; the tag is inferred on render.
				*p = Dynamic{Value: v}
			}
			return nil
		},
		get: func() any {
			if p.Tag == "" && p.Value == nil {
				return nil
			}
			return *p
		}})
	return b
}

// Enum binds an integer-backed enum field to its member set. E is the
// caller's enum type, typically declared with iota to match the set's
// positional values.
func Enum[E ~int](b *Builder, p *E, name string, members *EnumSet, def, desc string) *Builder {
	b.add(Field{Name: name, Default: def, Description: desc, Type: EnumType(members),
		set: func(v any) error {
			if v == nil {
				var zero E
				*p = zero
				return nil
			}
			if n, ok := v.(int); ok {
				*p = E(n)
				return nil
			}
			if n, ok := v.(E); ok {
				*p = n
				return nil
			}
			return &TypeError{Field: name, Expected: "int", Actual: fmt.Sprintf("%T", v)}
		},
		get: func() any { return int(*p) }})
	return b
}

func setScalar[T any](name string, p *T) func(any) error {
	return func(v any) error {
		if v == nil {
			var zero T
			*p = zero
			return nil
		}
		t, ok := v.(T)
		if !ok {
			var zero T
			return &TypeError{Field: name, Expected: fmt.Sprintf("%T", zero), Actual: fmt.Sprintf("%T", v)}
		}
		*p = t
		return nil
	}
}

func getScalar[T any](p *T) func() any {
	return func() any { return *p }
}

func setOptional[T any](name string, p **T) func(any) error {
	return func(v any) error {
		if v == nil {
			*p = nil
			return nil
		}
		t, ok := v.(T)
		if !ok {
			var zero T
			return &TypeError{Field: name, Expected: fmt.Sprintf("*%T", zero), Actual: fmt.Sprintf("%T", v)}
		}
		val := t
		*p = &val
		return nil
	}
}

func getOptional[T any](p **T) func() any {
	return func() any {
		if *p == nil {
			return nil
		}
		return **p
	}
}

func setList[T any](name string, p *[]T) func(any) error {
	return func(v any) error {
		switch xs := v.(type) {
		case nil:
			*p = nil
		case []T:
			*p = append([]T(nil), xs...)
		case []any:
			out := make([]T, 0, len(xs))
			for _, x := range xs {
				t, ok := x.(T)
				if !ok {
					var zero T
					return &TypeError{Field: name, Expected: fmt.Sprintf("[]%T", zero), Actual: fmt.Sprintf("element %T", x)}
				}
				out = append(out, t)
			}
			*p = out
		default:
			var zero T
			return &TypeError{Field: name, Expected: fmt.Sprintf("[]%T", zero), Actual: fmt.Sprintf("%T", v)}
		}
		return nil
	}
}

func getList[T any](p *[]T) func() any {
	return func() any {
		if len(*p) == 0 {
			return nil
		}
		out := make([]any, len(*p))
		for i, v := range *p {
			out[i] = v
		}
		return out
	}
}

func setMap[T any](name string, p *map[string]T) func(any) error {
	return func(v any) error {
		switch m := v.(type) {
		case nil:
			*p = nil
		case map[string]T:
			out := make(map[string]T, len(m))
			for k, val := range m {
				out[k] = val
			}
			*p = out
		case map[string]any:
			out := make(map[string]T, len(m))
			for k, x := range m {
				t, ok := x.(T)
				if !ok {
					var zero T
					return &TypeError{Field: name, Expected: fmt.Sprintf("map[string]%T", zero), Actual: fmt.Sprintf("entry %T", x)}
				}
				out[k] = t
			}
			*p = out
		default:
			var zero T
			return &TypeError{Field: name, Expected: fmt.Sprintf("map[string]%T", zero), Actual: fmt.Sprintf("%T", v)}
		}
		return nil
	}
}

func getMap[T any](p *map[string]T) func() any {
	return func() any {
		if len(*p) == 0 {
			return nil
		}
		out := make(map[string]any, len(*p))
		for k, v := range *p {
			out[k] = v
		}
		return out
	}
}
