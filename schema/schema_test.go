package schema

import (
	"errors"
	"testing"
	"time"

	"github.com/dshills/inigo/geom"
)

type borderStyle int

const (
	borderNone borderStyle = iota
	borderThin
	borderThick
)

var borderMembers = NewEnum("none", "thin", "thick")

type testSection struct {
	Width    int
	Zoom     float64
	Title    string
	Delay    time.Duration
	Origin   geom.Point
	MaxFPS   *int
	Tags     []string
	Limits   map[string]int
	Border   borderStyle
	Extra    Dynamic
	Handlers map[string]Dynamic
}

func (s *testSection) describe() *Info {
	b := New("display", "Display settings")
	b.Int(&s.Width, "width", "800", "Window width in pixels")
	b.Float(&s.Zoom, "zoom", "1.0", "Zoom factor")
	b.String(&s.Title, "title", "untitled", "Window title")
	b.Duration(&s.Delay, "delay", "250ms", "Redraw delay")
	b.Point(&s.Origin, "origin", "0,0", "Top-left origin")
	b.OptionalInt(&s.MaxFPS, "maxfps", "", "Frame cap, empty for unlimited")
	b.StringList(&s.Tags, "tags", "", "Free-form tags")
	b.IntMap(&s.Limits, "limit", "Per-resource limits")
	Enum(b, &s.Border, "border", borderMembers, "thin", "Border style")
	b.Dynamic(&s.Extra, "extra", "", "Caller-defined extra value")
	b.DynamicMap(&s.Handlers, "handler", "Caller-defined handlers")
	return b.Info()
}

func TestBuilderMetadata(t *testing.T) {
	var s testSection
	info := s.describe()

	if info.Name != "display" {
		t.Errorf("Name = %q, want display", info.Name)
	}
	if info.Description != "Display settings" {
		t.Errorf("Description = %q", info.Description)
	}

	wantFields := []struct {
		name string
		kind Kind
		def  string
	}{
		{"width", KindInt, "800"},
		{"zoom", KindFloat, "1.0"},
		{"title", KindString, "untitled"},
		{"delay", KindDuration, "250ms"},
		{"origin", KindPoint, "0,0"},
		{"maxfps", KindOptional, ""},
		{"tags", KindList, ""},
		{"limit", KindMap, ""},
		{"border", KindEnum, "thin"},
		{"extra", KindDynamic, ""},
		{"handler", KindMap, ""},
	}

	if len(info.Fields) != len(wantFields) {
		t.Fatalf("got %d fields, want %d", len(info.Fields), len(wantFields))
	}
	for i, want := range wantFields {
		f := info.Fields[i]
		if f.Name != want.name {
			t.Errorf("field %d: Name = %q, want %q (declaration order)", i, f.Name, want.name)
		}
		if f.Type.Kind != want.kind {
			t.Errorf("field %s: Kind = %v, want %v", f.Name, f.Type.Kind, want.kind)
		}
		if f.Default != want.def {
			t.Errorf("field %s: Default = %q, want %q", f.Name, f.Default, want.def)
		}
	}
}

func TestBindingsSetGet(t *testing.T) {
	var s testSection
	info := s.describe()

	field := func(name string) *Field {
		t.Helper()
		for i := range info.Fields {
			if info.Fields[i].Name == name {
				return &info.Fields[i]
			}
		}
		t.Fatalf("no field %s", name)
		return nil
	}

	if err := field("width").Set(1024); err != nil {
		t.Fatalf("Set(width) = %v", err)
	}
	if s.Width != 1024 {
		t.Errorf("Width = %d, want 1024", s.Width)
	}
	if got := field("width").Get(); got != 1024 {
		t.Errorf("Get(width) = %v, want 1024", got)
	}

	if err := field("origin").Set(geom.Point{X: 5, Y: 6}); err != nil {
		t.Fatalf("Set(origin) = %v", err)
	}
	if s.Origin.X != 5 || s.Origin.Y != 6 {
		t.Errorf("Origin = %+v", s.Origin)
	}

	if err := field("delay").Set(300 * time.Millisecond); err != nil {
		t.Fatalf("Set(delay) = %v", err)
	}
	if s.Delay != 300*time.Millisecond {
		t.Errorf("Delay = %v", s.Delay)
	}

	// Optional: value, then explicit null.
	if err := field("maxfps").Set(60); err != nil {
		t.Fatalf("Set(maxfps) = %v", err)
	}
	if s.MaxFPS == nil || *s.MaxFPS != 60 {
		t.Errorf("MaxFPS = %v", s.MaxFPS)
	}
	if got := field("maxfps").Get(); got != 60 {
		t.Errorf("Get(maxfps) = %v, want 60", got)
	}
	if err := field("maxfps").Set(nil); err != nil {
		t.Fatalf("Set(maxfps, nil) = %v", err)
	}
	if s.MaxFPS != nil {
		t.Error("MaxFPS should be nil after explicit null")
	}
	if got := field("maxfps").Get(); got != nil {
		t.Errorf("Get(maxfps) = %v, want nil", got)
	}

	// List: erased and typed forms both assign.
	if err := field("tags").Set([]any{"a", "b"}); err != nil {
		t.Fatalf("Set(tags, []any) = %v", err)
	}
	if len(s.Tags) != 2 || s.Tags[0] != "a" || s.Tags[1] != "b" {
		t.Errorf("Tags = %v", s.Tags)
	}
	if err := field("tags").Set([]string{"c"}); err != nil {
		t.Fatalf("Set(tags, []string) = %v", err)
	}
	if len(s.Tags) != 1 || s.Tags[0] != "c" {
		t.Errorf("Tags = %v", s.Tags)
	}
	got := field("tags").Get()
	if xs, ok := got.([]any); !ok || len(xs) != 1 || xs[0] != "c" {
		t.Errorf("Get(tags) = %#v", got)
	}

	// Empty list reads back as absent.
	if err := field("tags").Set(nil); err != nil {
		t.Fatalf("Set(tags, nil) = %v", err)
	}
	if got := field("tags").Get(); got != nil {
		t.Errorf("Get(empty tags) = %v, want nil", got)
	}

	// Map.
	if err := field("limit").Set(map[string]any{"mem": 512, "cpu": 4}); err != nil {
		t.Fatalf("Set(limit) = %v", err)
	}
	if s.Limits["mem"] != 512 || s.Limits["cpu"] != 4 {
		t.Errorf("Limits = %v", s.Limits)
	}
	if m, ok := field("limit").Get().(map[string]any); !ok || m["mem"] != 512 {
		t.Errorf("Get(limit) = %#v", field("limit").Get())
	}

	// Enum accepts both the converter's int and the caller's enum type.
	if err := field("border").Set(2); err != nil {
		t.Fatalf("Set(border, int) = %v", err)
	}
	if s.Border != borderThick {
		t.Errorf("Border = %v, want %v", s.Border, borderThick)
	}
	if err := field("border").Set(borderNone); err != nil {
		t.Fatalf("Set(border, borderStyle) = %v", err)
	}
	if s.Border != borderNone {
		t.Errorf("Border = %v, want %v", s.Border, borderNone)
	}
	if got := field("border").Get(); got != 0 {
		t.Errorf("Get(border) = %v, want 0", got)
	}

	// Dynamic boxes loose values.
	if err := field("extra").Set(Dynamic{Tag: "int", Value: 42}); err != nil {
		t.Fatalf("Set(extra) = %v", err)
	}
	if s.Extra.Tag != "int" || s.Extra.Value != 42 {
		t.Errorf("Extra = %+v", s.Extra)
	}
	if err := field("extra").Set("plain"); err != nil {
		t.Fatalf("Set(extra, string) = %v", err)
	}
	if s.Extra.Tag != "" || s.Extra.Value != "plain" {
		t.Errorf("Extra = %+v, want untagged box", s.Extra)
	}
	if err := field("extra").Set(nil); err != nil {
		t.Fatalf("Set(extra, nil) = %v", err)
	}
	if got := field("extra").Get(); got != nil {
		t.Errorf("Get(zero extra) = %v, want nil", got)
	}
}

func TestBindingTypeMismatch(t *testing.T) {
	var s testSection
	info := s.describe()

	err := info.Fields[0].Set("not an int")
	if err == nil {
		t.Fatal("Set(width, string) should fail")
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("error %v should match ErrTypeMismatch", err)
	}
	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("error %T should be *TypeError", err)
	}
	if te.Field != "width" {
		t.Errorf("TypeError.Field = %q, want width", te.Field)
	}
}

func TestSetNilZeroesScalars(t *testing.T) {
	var s testSection
	info := s.describe()

	if err := info.Fields[0].Set(7); err != nil {
		t.Fatal(err)
	}
	if err := info.Fields[0].Set(nil); err != nil {
		t.Fatalf("Set(nil) = %v", err)
	}
	if s.Width != 0 {
		t.Errorf("Width = %d after Set(nil), want 0", s.Width)
	}
}

func TestBuilderPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"empty section name", func() { New("", "desc") }},
		{"empty field name", func() {
			var v int
			New("s", "").Int(&v, "", "0", "")
		}},
		{"duplicate field", func() {
			var a, b int
			bld := New("s", "")
			bld.Int(&a, "x", "0", "")
			bld.Int(&b, "x", "0", "")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
