package inigo

import (
	"fmt"
	"strings"

	"github.com/dshills/inigo/convert"
	"github.com/dshills/inigo/schema"
)

// Section is implemented by configuration structs. Describe declares the
// section's name, description, and fields, binding each field to a pointer
// into the receiver.
type Section interface {
	Describe() *schema.Info
}

// Defaulter is an optional hook a Section may implement to supply
// last-resort values for fields with no raw entry and no declared default.
// The second result reports whether a value is supplied.
type Defaulter interface {
	GetDefault(field string) (any, bool)
}

// entry is one materialized section.
type entry struct {
	name     string
	instance Section
	info     *schema.Info
	dirty    bool
}

// GetSection returns the store's one instance of T, materializing it on
// first request. T must implement Section on its pointer receiver.
// Repeated calls return the identical instance without re-deriving the
// schema. A second type declaring an already-claimed section name is
// rejected with ErrSectionConflict.
func GetSection[T any, PT interface {
	*T
	Section
}](s *Store) (*T, error) {
	for _, e := range s.entries {
		if inst, ok := any(e.instance).(*T); ok {
			return inst, nil
		}
	}

	p := PT(new(T))
	info := p.Describe()
	for _, e := range s.entries {
		if e.name == info.Name {
			return nil, fmt.Errorf("%w: %q is held by %T", ErrSectionConflict, info.Name, e.instance)
		}
	}

	e := &entry{name: info.Name, instance: p, info: info}
	s.populate(e)
	s.entries = append(s.entries, e)
	return (*T)(p), nil
}

// populate fills every bound field of the entry from the table, recomputing
// the dirty flag from scratch. For each field, in declaration order: map
// kinds assemble from "name.suffix" entries; other kinds look up the raw
// value, falling back to the declared default text when the key is absent;
// the result converts through the field's type. Conversion failures are
// logged and the field falls through to the section's GetDefault hook, then
// to its zero value. The entry is dirty unless every field came from
// successfully-converted explicit raw text.
func (s *Store) populate(e *entry) {
	log := s.log.WithComponent("section").WithField("section", e.name)
	hook, hasHook := e.instance.(Defaulter)

	e.dirty = false
	for i := range e.info.Fields {
		f := &e.info.Fields[i]
		assigned := false
		explicit := false

		if f.Type.Kind == schema.KindMap {
			if m := s.collectMap(e.name, f, log); m != nil {
				if err := f.Set(m); err != nil {
					log.Warn("field %s: %v", f.Name, err)
				} else {
					assigned = true
					explicit = true
				}
			}
		} else {
			raw, found := s.table.Get(e.name, f.Name)
			fromFile := found
			if !found && f.Default != "" {
				raw, found = f.Default, true
			}
			if found {
				v, ok, err := convert.Value(f.Type, raw)
				if err != nil {
					log.Warn("field %s: %v", f.Name, err)
				}
				if ok {
					if err := f.Set(v); err != nil {
						log.Warn("field %s: %v", f.Name, err)
					} else {
						assigned = true
						explicit = fromFile
					}
				}
			}
		}

		if !assigned && hasHook {
			if v, ok := hook.GetDefault(f.Name); ok {
				if err := f.Set(v); err != nil {
					log.Warn("field %s: default hook: %v", f.Name, err)
				} else {
					assigned = true
				}
			}
		}
		if !assigned {
			// Reset so a reload drops values whose raw entries vanished.
			_ = f.Set(nil)
		}
		if !explicit {
			e.dirty = true
		}
	}
}

// collectMap assembles a map field from every "name.suffix" entry in the
// section. Entries that fail to convert are logged and skipped. Returns nil
// when no entry converted.
func (s *Store) collectMap(section string, f *schema.Field, log *Logger) map[string]any {
	prefix := f.Name + "."
	var m map[string]any
	for _, key := range s.table.Keys(section) {
		suffix, found := strings.CutPrefix(key, prefix)
		if !found || suffix == "" {
			continue
		}
		raw, _ := s.table.Get(section, key)
		v, ok, err := convert.Value(*f.Type.Elem, raw)
		if err != nil {
			log.Warn("field %s.%s: %v", f.Name, suffix, err)
		}
		if !ok {
			continue
		}
		if m == nil {
			m = make(map[string]any)
		}
		m[suffix] = v
	}
	return m
}

// entryByName returns the materialized entry for a section name.
func (s *Store) entryByName(name string) *entry {
	for _, e := range s.entries {
		if e.name == name {
			return e
		}
	}
	return nil
}
