package inigo

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// HasProperty reports whether a raw value is stored at (section, key).
func (s *Store) HasProperty(section, key string) bool {
	return s.table.Has(section, key)
}

// GetProperty returns the raw text stored at (section, key).
func (s *Store) GetProperty(section, key string) (string, bool) {
	return s.table.Get(section, key)
}

// SetProperty stores raw text at (section, key), inserting or overwriting,
// and notifies observers. This is the raw write path; it does not touch
// materialized section instances.
func (s *Store) SetProperty(section, key, value string) {
	old, _ := s.table.Get(section, key)
	s.table.Set(section, key, value)
	s.notifier.NotifySet(section, key, old, value, "user")
}

// ChangeProperty overwrites (section, key) only if it is already present,
// and reports whether it did. Use SetProperty to insert.
func (s *Store) ChangeProperty(section, key, value string) bool {
	old, ok := s.table.Get(section, key)
	if !ok {
		return false
	}
	s.table.Set(section, key, value)
	s.notifier.NotifySet(section, key, old, value, "user")
	return true
}

// RemoveProperty deletes (section, key) and reports whether it was present.
func (s *Store) RemoveProperty(section, key string) bool {
	old, ok := s.table.Get(section, key)
	if !ok {
		return false
	}
	s.table.Remove(section, key)
	s.notifier.NotifyRemove(section, key, old, "user")
	return true
}

// GetBool parses the raw value at (section, key) as a bool. Unlike section
// population, which degrades to defaults, the typed raw getters are strict:
// a missing property or unparsable text is a hard error.
func (s *Store) GetBool(section, key string) (bool, error) {
	raw, err := s.strictRaw(section, key)
	if err != nil {
		return false, err
	}
	v, err := cast.ToBoolE(strings.TrimSpace(raw))
	if err != nil {
		return false, &PropertyError{Section: section, Key: key, Raw: raw, Err: err}
	}
	return v, nil
}

// GetInt parses the raw value at (section, key) as an int.
func (s *Store) GetInt(section, key string) (int, error) {
	raw, err := s.strictRaw(section, key)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToIntE(strings.TrimSpace(raw))
	if err != nil {
		return 0, &PropertyError{Section: section, Key: key, Raw: raw, Err: err}
	}
	return v, nil
}

// GetFloat parses the raw value at (section, key) as a float64.
func (s *Store) GetFloat(section, key string) (float64, error) {
	raw, err := s.strictRaw(section, key)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToFloat64E(strings.TrimSpace(raw))
	if err != nil {
		return 0, &PropertyError{Section: section, Key: key, Raw: raw, Err: err}
	}
	return v, nil
}

// GetDuration parses the raw value at (section, key) as a time.Duration.
func (s *Store) GetDuration(section, key string) (time.Duration, error) {
	raw, err := s.strictRaw(section, key)
	if err != nil {
		return 0, err
	}
	v, err := cast.ToDurationE(strings.TrimSpace(raw))
	if err != nil {
		return 0, &PropertyError{Section: section, Key: key, Raw: raw, Err: err}
	}
	return v, nil
}

// GetStringSlice splits the raw value at (section, key) on commas, trimming
// tokens and dropping empty ones, the same shape list fields use.
func (s *Store) GetStringSlice(section, key string) ([]string, error) {
	raw, err := s.strictRaw(section, key)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, token := range strings.Split(raw, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		out = append(out, token)
	}
	return out, nil
}

// strictRaw looks up the raw value for the typed getters.
func (s *Store) strictRaw(section, key string) (string, error) {
	raw, ok := s.table.Get(section, key)
	if !ok {
		return "", &PropertyError{Section: section, Key: key, Err: ErrPropertyNotFound}
	}
	return raw, nil
}

// Sections returns every section name in the table, in first-seen order.
func (s *Store) Sections() []string {
	return s.table.Sections()
}

// Keys returns a section's property names in first-seen order.
func (s *Store) Keys(section string) []string {
	return s.table.Keys(section)
}

// HasSection reports whether the table holds the section.
func (s *Store) HasSection(section string) bool {
	return s.table.HasSection(section)
}

// Snapshot returns a deep copy of the raw table, for export or diffing.
func (s *Store) Snapshot() map[string]map[string]string {
	return s.table.Snapshot()
}
