// Package codec parses and renders the section-oriented key=value text
// format used for persisted configuration.
//
// The codec package deals only in raw strings. A Table maps section names
// to property names to unconverted text, preserving the order in which
// sections and keys first appear so that rendered output stays stable
// across load/save cycles. Typed interpretation of values belongs to the
// convert package.
package codec

import "strings"

// Table is an ordered raw property table: section name -> key -> raw text.
// The zero value is not usable; call NewTable.
type Table struct {
	order    []string
	sections map[string]*props
}

// props holds one section's keys in first-seen order.
type props struct {
	keys   []string
	values map[string]string
}

// NewTable returns an empty property table.
func NewTable() *Table {
	return &Table{sections: make(map[string]*props)}
}

// Parse builds a table from one text document.
func Parse(text string) *Table {
	t := NewTable()
	t.Merge(text)
	return t
}

// Merge parses text into the table. Entries with a (section, key) already
// present overwrite the stored value; everything else extends the table.
// Loading a defaults document and then a main document through the same
// table therefore gives the main document precedence.
//
// Lines starting with ';' are comments. A line starting with '[' opens the
// section named up to the first ']'. Any other line containing '=' records
// a property in the current section, with the name trimmed and the value
// kept verbatim. Blank lines, lines outside any section, and lines that
// fit no rule are skipped.
func (t *Table) Merge(text string) {
	current := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, ";"):
			// comment

		case strings.HasPrefix(line, "["):
			end := strings.IndexByte(line, ']')
			if end < 2 {
				continue
			}
			current = line[1:end]

		default:
			if current == "" {
				continue
			}
			name, value, found := strings.Cut(line, "=")
			if !found {
				continue
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			t.Set(current, name, value)
		}
	}
}

// Get returns the raw value stored at (section, key).
func (t *Table) Get(section, key string) (string, bool) {
	s, ok := t.sections[section]
	if !ok {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether (section, key) is present.
func (t *Table) Has(section, key string) bool {
	_, ok := t.Get(section, key)
	return ok
}

// HasSection reports whether the section exists, even if empty.
func (t *Table) HasSection(section string) bool {
	_, ok := t.sections[section]
	return ok
}

// Set stores raw text at (section, key), creating the section as needed.
// An existing entry keeps its position; new sections and keys append.
func (t *Table) Set(section, key, value string) {
	s, ok := t.sections[section]
	if !ok {
		s = &props{values: make(map[string]string)}
		t.sections[section] = s
		t.order = append(t.order, section)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
}

// Remove deletes (section, key) and reports whether it was present.
// A section left without keys stays listed; use RemoveSection to drop it.
func (t *Table) Remove(section, key string) bool {
	s, ok := t.sections[section]
	if !ok {
		return false
	}
	if _, exists := s.values[key]; !exists {
		return false
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	return true
}

// RemoveSection deletes a whole section and reports whether it existed.
func (t *Table) RemoveSection(section string) bool {
	if _, ok := t.sections[section]; !ok {
		return false
	}
	delete(t.sections, section)
	for i, name := range t.order {
		if name == section {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Sections returns section names in first-seen order.
func (t *Table) Sections() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Keys returns a section's property names in first-seen order.
func (t *Table) Keys(section string) []string {
	s, ok := t.sections[section]
	if !ok {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the total number of stored properties.
func (t *Table) Len() int {
	n := 0
	for _, s := range t.sections {
		n += len(s.values)
	}
	return n
}

// Snapshot returns a deep copy of the table as plain maps, suitable for
// handing to encoders or for diffing against a later state.
func (t *Table) Snapshot() map[string]map[string]string {
	out := make(map[string]map[string]string, len(t.order))
	for name, s := range t.sections {
		m := make(map[string]string, len(s.values))
		for k, v := range s.values {
			m[k] = v
		}
		out[name] = m
	}
	return out
}
