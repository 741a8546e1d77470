package inigo

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrSectionConflict indicates two section types declared the same name.
	ErrSectionConflict = errors.New("section name already claimed")

	// ErrSectionNotFound indicates the section doesn't exist in the table.
	ErrSectionNotFound = errors.New("section not found")

	// ErrPropertyNotFound indicates no raw value is stored at (section, key).
	ErrPropertyNotFound = errors.New("property not found")

	// ErrNoSource indicates a file operation on a store built without a source.
	ErrNoSource = errors.New("no file source configured")
)

// PropertyError describes a failed raw property access: a missing entry or
// a stored value the typed getter could not parse.
type PropertyError struct {
	// Section and Key locate the property.
	Section string
	Key     string
	// Raw is the stored text, empty when the property was missing.
	Raw string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PropertyError) Error() string {
	if e.Raw != "" {
		return fmt.Sprintf("property %s.%s = %q: %v", e.Section, e.Key, e.Raw, e.Err)
	}
	return fmt.Sprintf("property %s.%s: %v", e.Section, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *PropertyError) Unwrap() error {
	return e.Err
}
