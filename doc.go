// Package inigo maps section-oriented key=value text to strongly-typed
// configuration structs and back.
//
// The inigo package manages a raw property table loaded from a defaults
// document and a main document, materializes one typed instance per
// declared section, tracks which sections had to fall back to defaults,
// and serializes everything back out with comments, preserving sections
// the program never asked for.
//
// # Declaring a section
//
// A section is an ordinary struct that declares its persisted fields once,
// binding each to a pointer into itself:
//
//	type EditorConfig struct {
//		TabWidth int
//		Theme    string
//		Rulers   []int
//	}
//
//	func (c *EditorConfig) Describe() *schema.Info {
//		b := schema.New("editor", "Editor behavior")
//		b.Int(&c.TabWidth, "tab_width", "4", "Tab width in spaces")
//		b.String(&c.Theme, "theme", "dark", "Color theme name")
//		b.IntList(&c.Rulers, "rulers", "", "Columns to draw rulers at")
//		return b.Info()
//	}
//
// # Basic usage
//
// Build a store over the two documents, load, and request sections:
//
//	store := inigo.New(
//		inigo.WithSource(inigo.NewFileSource("defaults.ini", "config.ini")),
//	)
//	if err := store.Load(); err != nil {
//		log.Fatal(err)
//	}
//
//	editor, err := inigo.GetSection[EditorConfig](store)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(editor.TabWidth)
//
//	editor.TabWidth = 8
//	if err := store.Save(); err != nil {
//		log.Fatal(err)
//	}
//
// Repeated GetSection calls for the same type return the identical
// instance. A section whose raw text could not fully satisfy every field
// still loads, with the missing fields defaulted and the section marked
// dirty until the next Save.
//
// # Text format
//
// The persisted documents are line-oriented UTF-8:
//
//	; Editor behavior
//	[editor]
//	; Tab width in spaces
//	tab_width=4
//	rulers=80,120
//	indent.go=8
//	indent.make=tab
//
// Comment lines start with ';'. Map fields persist one name.key=value line
// per entry. The main document overrides the defaults document entry by
// entry. Sections present in the documents but never requested through
// GetSection survive Save unchanged.
//
// # Sub-packages
//
//   - geom: Point, Size, Rect, Color value types
//   - schema: section and field declaration, the closed kind system
//   - convert: raw text to typed values and back, dynamic tag registry
//   - codec: parsing and rendering of the text format
//   - notify: change notification and observer pattern
//   - watch: filesystem watching with debounce for live reload
//   - script: Lua bridge exposing a store to embedded scripts
//   - export: snapshot rendering as TOML, YAML, or JSON
package inigo
