package convert

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/inigo/geom"
	"github.com/dshills/inigo/schema"
)

var speedMembers = schema.NewEnum("slow", "normal", "fast")

func TestValueScalars(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.Type
		raw  string
		want any
	}{
		{"bool true", schema.BoolType(), "true", true},
		{"bool false", schema.BoolType(), "false", false},
		{"bool padded", schema.BoolType(), " true ", true},
		{"int", schema.IntType(), "42", 42},
		{"int negative", schema.IntType(), "-7", -7},
		{"int padded", schema.IntType(), " 12 ", 12},
		{"uint", schema.UintType(), "19", uint(19)},
		{"float", schema.FloatType(), "2.5", 2.5},
		{"float exponent", schema.FloatType(), "1e3", 1000.0},
		{"string", schema.StringType(), "hello world", "hello world"},
		{"string keeps spaces", schema.StringType(), "  padded  ", "  padded  "},
		{"string empty is present", schema.StringType(), "", ""},
		{"duration", schema.DurationType(), "250ms", 250 * time.Millisecond},
		{"duration compound", schema.DurationType(), "1h30m", 90 * time.Minute},
		{"point", schema.PointType(), "3,4", geom.Point{X: 3, Y: 4}},
		{"point padded", schema.PointType(), " 3 , 4 ", geom.Point{X: 3, Y: 4}},
		{"size", schema.SizeType(), "800,600", geom.Size{Width: 800, Height: 600}},
		{"rect", schema.RectType(), "10,20,640,480", geom.Rect{X: 10, Y: 20, Width: 640, Height: 480}},
		{"color", schema.ColorType(), "255,128,64,0", geom.Color{A: 255, R: 128, G: 64, B: 0}},
		{"enum member", schema.EnumType(speedMembers), "fast", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Value(tt.typ, tt.raw)
			if err != nil {
				t.Fatalf("Value(%q) error: %v", tt.raw, err)
			}
			if !ok {
				t.Fatalf("Value(%q) reported absent", tt.raw)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Value(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValueFailures(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.Type
		raw  string
	}{
		{"bool garbage", schema.BoolType(), "yes please"},
		{"int garbage", schema.IntType(), "abc"},
		{"int float literal", schema.IntType(), "1.5"},
		{"uint negative", schema.UintType(), "-1"},
		{"float garbage", schema.FloatType(), "one"},
		{"duration garbage", schema.DurationType(), "soon"},
		{"point one part", schema.PointType(), "3"},
		{"point three parts", schema.PointType(), "1,2,3"},
		{"point non-numeric", schema.PointType(), "a,b"},
		{"rect two parts", schema.RectType(), "1,2"},
		{"color five parts", schema.ColorType(), "1,2,3,4,5"},
		{"enum unknown member", schema.EnumType(speedMembers), "warp"},
		{"enum wrong case", schema.EnumType(speedMembers), "Fast"},
		{"dynamic missing tag", schema.DynamicType(), "42"},
		{"dynamic bad payload", schema.DynamicType(), "int:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Value(tt.typ, tt.raw)
			if err == nil {
				t.Fatalf("Value(%q) should fail", tt.raw)
			}
			if ok {
				t.Errorf("Value(%q) reported a value alongside error %v", tt.raw, err)
			}
		})
	}
}

func TestValueOptional(t *testing.T) {
	typ := schema.OptionalOf(schema.IntType())

	got, ok, err := Value(typ, "60")
	if err != nil || !ok {
		t.Fatalf("Value(60) = %v, %v, %v", got, ok, err)
	}
	if got != 60 {
		t.Errorf("Value(60) = %v, want 60", got)
	}

	// Empty raw is an explicit null: present but nil.
	got, ok, err = Value(typ, "")
	if err != nil {
		t.Fatalf("Value(empty) error: %v", err)
	}
	if !ok {
		t.Error("empty optional should be present (explicit null)")
	}
	if got != nil {
		t.Errorf("Value(empty) = %v, want nil", got)
	}

	if _, _, err := Value(typ, "abc"); err == nil {
		t.Error("Value(abc) should fail for optional int")
	}
}

func TestValueList(t *testing.T) {
	tests := []struct {
		name    string
		typ     schema.Type
		raw     string
		want    []any
		absent  bool
		wantErr bool
	}{
		{"ints", schema.ListOf(schema.IntType()), "1,2,3", []any{1, 2, 3}, false, false},
		{"padded tokens", schema.ListOf(schema.IntType()), " 1 , 2 ", []any{1, 2}, false, false},
		{"empty tokens skipped", schema.ListOf(schema.IntType()), "1,,2,", []any{1, 2}, false, false},
		{"strings", schema.ListOf(schema.StringType()), "a,b", []any{"a", "b"}, false, false},
		{"empty raw is absent", schema.ListOf(schema.IntType()), "", nil, true, false},
		{"only separators is absent", schema.ListOf(schema.StringType()), ",,,", nil, true, false},
		{"partial failure keeps survivors", schema.ListOf(schema.IntType()), "1,x,3", []any{1, 3}, false, true},
		{"all failed is absent", schema.ListOf(schema.IntType()), "x,y", nil, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Value(tt.typ, tt.raw)
			if tt.wantErr && err == nil {
				t.Error("expected a reported error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.absent {
				if ok {
					t.Fatalf("Value(%q) = %#v, want absent", tt.raw, got)
				}
				return
			}
			if !ok {
				t.Fatalf("Value(%q) reported absent", tt.raw)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Value(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValueMapHasNoTextForm(t *testing.T) {
	typ := schema.MapOf(schema.IntType())
	if _, _, err := Value(typ, "a=1"); !errors.Is(err, ErrNoTextForm) {
		t.Errorf("Value on map kind = %v, want ErrNoTextForm", err)
	}
	if _, err := Text(typ, map[string]any{"a": 1}); !errors.Is(err, ErrNoTextForm) {
		t.Errorf("Text on map kind = %v, want ErrNoTextForm", err)
	}
}

func TestValueDynamic(t *testing.T) {
	typ := schema.DynamicType()

	tests := []struct {
		name string
		raw  string
		want schema.Dynamic
	}{
		{"int", "int:42", schema.Dynamic{Tag: "int", Value: 42}},
		{"bool", "bool:true", schema.Dynamic{Tag: "bool", Value: true}},
		{"string with colon", "string:a:b", schema.Dynamic{Tag: "string", Value: "a:b"}},
		{"string empty payload", "string:", schema.Dynamic{Tag: "string", Value: ""}},
		{"duration", "time.Duration:5s", schema.Dynamic{Tag: "time.Duration", Value: 5 * time.Second}},
		{"point", "geom.Point:3,4", schema.Dynamic{Tag: "geom.Point", Value: geom.Point{X: 3, Y: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := Value(typ, tt.raw)
			if err != nil || !ok {
				t.Fatalf("Value(%q) = %v, %v, %v", tt.raw, got, ok, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Value(%q) = %#v, want %#v", tt.raw, got, tt.want)
			}
		})
	}

	// Empty raw is absent, not an error.
	if _, ok, err := Value(typ, ""); ok || err != nil {
		t.Errorf("Value(empty dynamic) = ok=%v err=%v, want absent", ok, err)
	}

	if _, _, err := Value(typ, "mystery:1"); !errors.Is(err, ErrUnknownTag) {
		t.Errorf("unknown tag error = %v, want ErrUnknownTag", err)
	}
}

func TestTextScalars(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.Type
		val  any
		want string
	}{
		{"bool", schema.BoolType(), true, "true"},
		{"int", schema.IntType(), -3, "-3"},
		{"uint", schema.UintType(), uint(9), "9"},
		{"float", schema.FloatType(), 2.5, "2.5"},
		{"float integral", schema.FloatType(), 4.0, "4"},
		{"string", schema.StringType(), "hi", "hi"},
		{"duration", schema.DurationType(), 90 * time.Minute, "1h30m0s"},
		{"point", schema.PointType(), geom.Point{X: 1, Y: 2}, "1,2"},
		{"size", schema.SizeType(), geom.Size{Width: 800, Height: 600}, "800,600"},
		{"rect", schema.RectType(), geom.Rect{X: 1, Y: 2, Width: 3, Height: 4}, "1,2,3,4"},
		{"color", schema.ColorType(), geom.Color{A: 255, R: 0, G: 128, B: 64}, "255,0,128,64"},
		{"enum", schema.EnumType(speedMembers), 1, "normal"},
		{"optional wraps", schema.OptionalOf(schema.IntType()), 60, "60"},
		{"list", schema.ListOf(schema.IntType()), []any{1, 2, 3}, "1,2,3"},
		{"list of strings", schema.ListOf(schema.StringType()), []any{"a", "b"}, "a,b"},
		{"dynamic tagged", schema.DynamicType(), schema.Dynamic{Tag: "int", Value: 42}, "int:42"},
		{"dynamic inferred", schema.DynamicType(), schema.Dynamic{Value: true}, "bool:true"},
		{"dynamic loose value", schema.DynamicType(), 7, "int:7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.typ, tt.val)
			if err != nil {
				t.Fatalf("Text(%#v) error: %v", tt.val, err)
			}
			if got != tt.want {
				t.Errorf("Text(%#v) = %q, want %q", tt.val, got, tt.want)
			}
		})
	}
}

func TestTextNilIsEmpty(t *testing.T) {
	types := []schema.Type{
		schema.BoolType(),
		schema.IntType(),
		schema.StringType(),
		schema.PointType(),
		schema.OptionalOf(schema.IntType()),
		schema.ListOf(schema.StringType()),
		schema.DynamicType(),
	}
	for _, typ := range types {
		got, err := Text(typ, nil)
		if err != nil {
			t.Errorf("Text(%s, nil) error: %v", typ, err)
		}
		if got != "" {
			t.Errorf("Text(%s, nil) = %q, want empty", typ, got)
		}
	}

	// A zero Dynamic box also renders empty.
	got, err := Text(schema.DynamicType(), schema.Dynamic{})
	if err != nil || got != "" {
		t.Errorf("Text(zero Dynamic) = %q, %v, want empty", got, err)
	}
}

func TestTextTypeMismatch(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.Type
		val  any
	}{
		{"bool from string", schema.BoolType(), "true"},
		{"int from float", schema.IntType(), 1.5},
		{"point from size", schema.PointType(), geom.Size{}},
		{"enum from string", schema.EnumType(speedMembers), "fast"},
		{"list from scalar", schema.ListOf(schema.IntType()), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Text(tt.typ, tt.val); err == nil {
				t.Errorf("Text(%#v) should fail", tt.val)
			}
		})
	}
}

func TestTextEnumOutOfRange(t *testing.T) {
	if _, err := Text(schema.EnumType(speedMembers), 99); err == nil {
		t.Error("Text(99) should fail for a three-member enum")
	}
}

func TestTextDynamicUninferable(t *testing.T) {
	type custom struct{}
	if _, err := Text(schema.DynamicType(), custom{}); err == nil {
		t.Error("Text should fail for a value with no inferable tag")
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  schema.Type
		val  any
	}{
		{"bool", schema.BoolType(), true},
		{"int", schema.IntType(), -42},
		{"uint", schema.UintType(), uint(7)},
		{"float", schema.FloatType(), 3.25},
		{"string", schema.StringType(), "round trip"},
		{"duration", schema.DurationType(), 1500 * time.Millisecond},
		{"point", schema.PointType(), geom.Point{X: -1, Y: 2}},
		{"size", schema.SizeType(), geom.Size{Width: 1024, Height: 768}},
		{"rect", schema.RectType(), geom.Rect{X: 0, Y: 0, Width: 640, Height: 480}},
		{"color", schema.ColorType(), geom.Color{A: 200, R: 10, G: 20, B: 30}},
		{"enum", schema.EnumType(speedMembers), 2},
		{"optional", schema.OptionalOf(schema.FloatType()), 0.5},
		{"list", schema.ListOf(schema.IntType()), []any{5, 6, 7}},
		{"dynamic int", schema.DynamicType(), schema.Dynamic{Tag: "int", Value: 42}},
		{"dynamic color", schema.DynamicType(), schema.Dynamic{Tag: "geom.Color", Value: geom.Color{A: 1, R: 2, G: 3, B: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := Text(tt.typ, tt.val)
			if err != nil {
				t.Fatalf("Text: %v", err)
			}
			back, ok, err := Value(tt.typ, text)
			if err != nil || !ok {
				t.Fatalf("Value(%q) = %v, %v, %v", text, back, ok, err)
			}
			if !reflect.DeepEqual(back, tt.val) {
				t.Errorf("round trip %q: got %#v, want %#v", text, back, tt.val)
			}
		})
	}
}
