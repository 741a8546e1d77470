package convert

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/dshills/inigo/geom"
	"github.com/dshills/inigo/schema"
)

// ErrUnknownTag reports a dynamic type tag with no registered conversion.
var ErrUnknownTag = errors.New("unknown dynamic type tag")

// tags maps type tags to the descriptors used to convert dynamic values.
// Builtin scalar and geometry tags are registered at init;
// RegisterDynamicTag adds caller-defined ones.
var tags = struct {
	mu     sync.RWMutex
	byName map[string]schema.Type
}{byName: make(map[string]schema.Type)}

func init() {
	RegisterDynamicTag("bool", schema.BoolType())
	RegisterDynamicTag("int", schema.IntType())
	RegisterDynamicTag("uint", schema.UintType())
	RegisterDynamicTag("float64", schema.FloatType())
	RegisterDynamicTag("string", schema.StringType())
	RegisterDynamicTag("time.Duration", schema.DurationType())
	RegisterDynamicTag("geom.Point", schema.PointType())
	RegisterDynamicTag("geom.Size", schema.SizeType())
	RegisterDynamicTag("geom.Rect", schema.RectType())
	RegisterDynamicTag("geom.Color", schema.ColorType())
}

// RegisterDynamicTag maps a type tag to the descriptor used to convert
// dynamic values carrying it. Tags are case-sensitive and declared once,
// at init time: an empty or already-registered tag panics.
func RegisterDynamicTag(tag string, t schema.Type) {
	if tag == "" {
		panic("convert: empty dynamic tag")
	}
	tags.mu.Lock()
	defer tags.mu.Unlock()
	if _, ok := tags.byName[tag]; ok {
		panic("convert: dynamic tag already registered: " + tag)
	}
	tags.byName[tag] = t
}

// TagType resolves a tag to its type descriptor. Anything from the first
// comma on is ignored, so qualified identifiers still resolve by their
// leading segment.
func TagType(tag string) (schema.Type, bool) {
	if i := strings.IndexByte(tag, ','); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.TrimSpace(tag)
	tags.mu.RLock()
	defer tags.mu.RUnlock()
	t, ok := tags.byName[tag]
	return t, ok
}

// InferTag returns the tag for a value's runtime type. Only the builtin
// scalar and geometry types are inferable; values of any other type need
// an explicit tag on their Dynamic box.
func InferTag(v any) (string, bool) {
	switch v.(type) {
	case bool:
		return "bool", true
	case int:
		return "int", true
	case uint:
		return "uint", true
	case float64:
		return "float64", true
	case string:
		return "string", true
	case time.Duration:
		return "time.Duration", true
	case geom.Point:
		return "geom.Point", true
	case geom.Size:
		return "geom.Size", true
	case geom.Rect:
		return "geom.Rect", true
	case geom.Color:
		return "geom.Color", true
	default:
		return "", false
	}
}
