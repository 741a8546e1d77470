package inigo

import (
	"os"
	"strings"
)

// envOverride is one raw property derived from the environment.
type envOverride struct {
	Section string
	Key     string
	Value   string
}

// envOverrides scans the environment for PREFIX_SECTION_KEY entries. The
// text after the prefix splits on the first underscore into section and
// key, both lowercased, so INIGO_EDITOR_TAB_WIDTH maps to (editor,
// tab_width). Empty values count as set. Entries that leave the section or
// key empty are skipped.
func envOverrides(prefix string) []envOverride {
	if prefix == "" {
		return nil
	}
	if !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}

	var out []envOverride
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, prefix) {
			continue
		}
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		section, key, ok := strings.Cut(strings.TrimPrefix(name, prefix), "_")
		if !ok || section == "" || key == "" {
			continue
		}
		out = append(out, envOverride{
			Section: strings.ToLower(section),
			Key:     strings.ToLower(key),
			Value:   value,
		})
	}
	return out
}
