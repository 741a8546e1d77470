package codec

import "strings"

// Line is one rendered property.
type Line struct {
	Key   string
	Value string
}

// FieldBlock is the rendered output of one declared field: a description
// comment plus zero or more property lines. Scalar and list fields render
// one line; map fields render one line per entry and none when empty.
type FieldBlock struct {
	Description string
	Lines       []Line
}

// Block is one typed section ready to render, fields in declaration order.
type Block struct {
	Name        string
	Description string
	Fields      []FieldBlock
}

// Serialize renders typed section blocks followed by every raw section the
// blocks do not claim. Claimed sections render from their blocks alone;
// unclaimed raw sections are appended as loaded, behind a comment noting
// that nothing in the program asked for them. Sections are separated by
// blank lines and descriptions become ';' comments.
func Serialize(blocks []Block, raw *Table) string {
	claimed := make(map[string]bool, len(blocks))
	for _, blk := range blocks {
		claimed[blk.Name] = true
	}

	var b strings.Builder
	first := true
	open := func() {
		if !first {
			b.WriteByte('\n')
		}
		first = false
	}

	for _, blk := range blocks {
		open()
		if blk.Description != "" {
			b.WriteString("; ")
			b.WriteString(blk.Description)
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(blk.Name)
		b.WriteString("]\n")
		for _, f := range blk.Fields {
			if f.Description != "" {
				b.WriteString("; ")
				b.WriteString(f.Description)
				b.WriteByte('\n')
			}
			for _, ln := range f.Lines {
				b.WriteString(ln.Key)
				b.WriteByte('=')
				b.WriteString(ln.Value)
				b.WriteByte('\n')
			}
		}
	}

	if raw != nil {
		for _, name := range raw.Sections() {
			if claimed[name] {
				continue
			}
			open()
			b.WriteString("; section not requested by the application, kept as loaded\n")
			b.WriteByte('[')
			b.WriteString(name)
			b.WriteString("]\n")
			for _, key := range raw.Keys(name) {
				v, _ := raw.Get(name, key)
				b.WriteString(key)
				b.WriteByte('=')
				b.WriteString(v)
				b.WriteByte('\n')
			}
		}
	}

	return b.String()
}

// Render writes the table back to text, sections and keys in first-seen
// order, without comments. The inverse of Parse for comment-free
// documents; raw editing tools use it to rewrite a document in place.
func (t *Table) Render() string {
	var b strings.Builder
	for i, name := range t.order {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('[')
		b.WriteString(name)
		b.WriteString("]\n")
		p := t.sections[name]
		for _, key := range p.keys {
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(p.values[key])
			b.WriteByte('\n')
		}
	}
	return b.String()
}
